// Command seed populates the profile store with generated users and
// interactions for local development and load testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jamaine1984/indira/internal/adapters/repository"
	"github.com/jamaine1984/indira/internal/domain/model"
)

var interestPool = []string{
	"hiking", "cooking", "travel", "music", "movies", "reading",
	"yoga", "photography", "dancing", "gaming", "art", "fitness",
	"coffee", "wine", "dogs", "cats", "running", "cycling",
}

var bios = []string{
	"Looking for someone to share sunsets with.",
	"Coffee first, questions later.",
	"Part-time adventurer, full-time foodie.",
	"Ask me about my dog.",
	"",
}

func main() {
	var (
		dbPath       = flag.String("db", "indira.db", "path to the sqlite profile database")
		userCount    = flag.Int("users", 200, "number of profiles to generate")
		interactions = flag.Int("interactions", 5, "average interactions per user")
		seed         = flag.Int64("seed", 42, "random seed for reproducible data")
	)
	flag.Parse()

	if err := run(*dbPath, *userCount, *interactions, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}
}

func run(dbPath string, userCount, interactionsPerUser int, seed int64) error {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible data

	store, err := repository.NewSQLiteStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ids := make([]string, 0, userCount)
	for i := 0; i < userCount; i++ {
		p := randomProfile(rng)
		if err := store.Put(ctx, p); err != nil {
			return fmt.Errorf("put profile: %w", err)
		}
		ids = append(ids, p.ID)
	}

	total := 0
	for _, actor := range ids {
		n := rng.Intn(interactionsPerUser*2 + 1)
		for i := 0; i < n; i++ {
			target := ids[rng.Intn(len(ids))]
			if target == actor {
				continue
			}
			kind := model.KindSwipe
			if rng.Intn(2) == 0 {
				kind = model.KindLike
			}
			err := store.AddInteraction(ctx, model.Interaction{
				ActorID:  actor,
				TargetID: target,
				Kind:     kind,
			})
			if err != nil {
				return fmt.Errorf("add interaction: %w", err)
			}
			total++
		}
	}

	fmt.Printf("seeded %d profiles and %d interactions into %s\n", len(ids), total, dbPath)
	return nil
}

// randomProfile generates a plausible profile. Locations scatter
// around the Los Angeles area so distance buckets vary.
func randomProfile(rng *rand.Rand) model.Profile {
	genders := []string{"male", "female"}
	gender := genders[rng.Intn(len(genders))]
	lookingFor := genders[rng.Intn(len(genders))]

	age := 18 + rng.Intn(42)
	lastSeen := time.Now().Add(-time.Duration(rng.Intn(96)) * time.Hour)

	interests := make([]string, 0, 5)
	for _, it := range rng.Perm(len(interestPool))[:3+rng.Intn(3)] {
		interests = append(interests, interestPool[it])
	}

	p := model.Profile{
		ID:         uuid.NewString(),
		Gender:     gender,
		LookingFor: lookingFor,
		Interests:  interests,
		Age:        &age,
		LastSeen:   &lastSeen,
		Bio:        bios[rng.Intn(len(bios))],
	}

	// A slice of the population is deliberately incomplete so the
	// completeness and missing-data paths get exercised.
	if rng.Intn(10) > 0 {
		p.Location = &model.Location{
			Lat: 34.0522 + rng.Float64()*1.5 - 0.75,
			Lon: -118.2437 + rng.Float64()*1.5 - 0.75,
		}
	}
	if rng.Intn(10) > 2 {
		p.Photos = []string{fmt.Sprintf("https://cdn.example.com/photos/%s/1.jpg", p.ID)}
	}
	return p
}
