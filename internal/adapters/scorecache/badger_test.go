package scorecache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jamaine1984/indira/internal/adapters/scorecache"
	"github.com/jamaine1984/indira/internal/domain/model"
)

func newStore(t *testing.T) *scorecache.BadgerStore {
	t.Helper()
	store, err := scorecache.NewBadgerStore("", scorecache.WithInMemory())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStore_UpsertGet(t *testing.T) {
	Convey("Given an in-memory score store", t, func() {
		ctx := context.Background()
		store := newStore(t)
		at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

		Convey("When an entry is written and read back", func() {
			entry := model.NewScoreEntry("alice", "bob", 80, at)
			So(store.Upsert(ctx, entry), ShouldBeNil)

			got, err := store.Get(ctx, entry.Key())

			Convey("Then the entry round-trips intact", func() {
				So(err, ShouldBeNil)
				So(got.SourceID, ShouldEqual, "alice")
				So(got.TargetID, ShouldEqual, "bob")
				So(got.Score, ShouldEqual, 80)
				So(got.ExpiresAt.Equal(at.Add(model.ScoreTTL)), ShouldBeTrue)
			})
		})

		Convey("When the same pair is written twice", func() {
			So(store.Upsert(ctx, model.NewScoreEntry("alice", "bob", 60, at)), ShouldBeNil)
			later := at.Add(time.Hour)
			So(store.Upsert(ctx, model.NewScoreEntry("alice", "bob", 75, later)), ShouldBeNil)

			Convey("Then the second write replaces the first", func() {
				got, err := store.Get(ctx, model.PairKey{SourceID: "alice", TargetID: "bob"})
				So(err, ShouldBeNil)
				So(got.Score, ShouldEqual, 75)
				So(got.CalculatedAt.Equal(later), ShouldBeTrue)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When both directions of a pair are written", func() {
			So(store.Upsert(ctx, model.NewScoreEntry("alice", "bob", 80, at)), ShouldBeNil)
			So(store.Upsert(ctx, model.NewScoreEntry("bob", "alice", 55, at)), ShouldBeNil)

			Convey("Then they are stored independently", func() {
				ab, err := store.Get(ctx, model.PairKey{SourceID: "alice", TargetID: "bob"})
				So(err, ShouldBeNil)
				So(ab.Score, ShouldEqual, 80)

				ba, err := store.Get(ctx, model.PairKey{SourceID: "bob", TargetID: "alice"})
				So(err, ShouldBeNil)
				So(ba.Score, ShouldEqual, 55)
			})
		})

		Convey("When reading a pair that was never written", func() {
			_, err := store.Get(ctx, model.PairKey{SourceID: "nobody", TargetID: "noone"})

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldEqual, scorecache.ErrNotFound)
			})
		})

		Convey("When writing malformed entries", func() {
			Convey("Then missing ids are rejected", func() {
				err := store.Upsert(ctx, model.NewScoreEntry("", "bob", 80, at))
				So(err, ShouldWrap, scorecache.ErrInvalidEntry)
			})

			Convey("Then out-of-range scores are rejected", func() {
				err := store.Upsert(ctx, model.NewScoreEntry("alice", "bob", 101, at))
				So(err, ShouldWrap, scorecache.ErrInvalidEntry)
			})

			Convey("Then a tampered expiry is rejected", func() {
				entry := model.NewScoreEntry("alice", "bob", 80, at)
				entry.ExpiresAt = entry.ExpiresAt.Add(time.Hour)
				So(store.Upsert(ctx, entry), ShouldWrap, scorecache.ErrInvalidEntry)
			})
		})
	})
}

func TestBadgerStore_Sweep(t *testing.T) {
	Convey("Given a store holding 600 expired and 100 live entries", t, func() {
		ctx := context.Background()
		store := newStore(t)
		now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

		stale := now.Add(-model.ScoreTTL - time.Hour)
		for i := 0; i < 600; i++ {
			entry := model.NewScoreEntry(fmt.Sprintf("old%03d", i), "target", 50, stale)
			So(store.Upsert(ctx, entry), ShouldBeNil)
		}
		for i := 0; i < 100; i++ {
			entry := model.NewScoreEntry(fmt.Sprintf("new%03d", i), "target", 50, now)
			So(store.Upsert(ctx, entry), ShouldBeNil)
		}

		Convey("When sweeping with a batch cap of 500", func() {
			deleted, err := store.Sweep(ctx, now, 500)

			Convey("Then exactly the cap is deleted", func() {
				So(err, ShouldBeNil)
				So(deleted, ShouldEqual, 500)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 200)
			})

			Convey("And a second sweep drains the remainder", func() {
				deleted, err := store.Sweep(ctx, now, 500)
				So(err, ShouldBeNil)
				So(deleted, ShouldEqual, 100)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 100)
			})

			Convey("And the live entries survive", func() {
				_, err := store.Get(ctx, model.PairKey{SourceID: "new000", TargetID: "target"})
				So(err, ShouldBeNil)
			})
		})

		Convey("When sweeping before anything expires", func() {
			deleted, err := store.Sweep(ctx, stale, 500)

			Convey("Then nothing is deleted", func() {
				So(err, ShouldBeNil)
				So(deleted, ShouldEqual, 0)
			})
		})
	})
}
