package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jamaine1984/indira/internal/domain/model"
)

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS profiles (
	id TEXT PRIMARY KEY,
	gender TEXT NOT NULL DEFAULT '',
	looking_for TEXT NOT NULL DEFAULT '',
	age INTEGER,
	lat REAL,
	lon REAL,
	last_seen INTEGER,
	bio TEXT NOT NULL DEFAULT '',
	interests TEXT NOT NULL DEFAULT '[]',
	photos TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_profiles_gender ON profiles(gender);

CREATE TABLE IF NOT EXISTS interactions (
	actor_id TEXT NOT NULL,
	target_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	PRIMARY KEY (actor_id, target_id, kind)
);
CREATE INDEX IF NOT EXISTS idx_interactions_actor ON interactions(actor_id, kind);
`

// SQLiteStore implements ProfileStore and InteractionStore on an
// embedded sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// Interface guards.
var (
	_ ProfileStore     = (*SQLiteStore)(nil)
	_ InteractionStore = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// WAL keeps concurrent reads cheap while jobs write.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

const profileColumns = "id, gender, looking_for, age, lat, lon, last_seen, bio, interests, photos"

// Get returns the profile for id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get profile %s: %w", id, err)
	}
	return p, nil
}

// Query returns up to pageSize profiles matching the filter, in stable
// id order.
func (s *SQLiteStore) Query(ctx context.Context, f Filter, pageSize int) ([]model.Profile, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}
	query := "SELECT " + profileColumns + " FROM profiles"
	args := []any{}
	if f.Gender != "" {
		query += " WHERE gender = ?"
		args = append(args, f.Gender)
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// List returns up to limit profiles in stable id order.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Profile, error) {
	if limit < 1 {
		return nil, ErrInvalidPageSize
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles ORDER BY id LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// QueryByActor returns the target ids the actor has interacted with.
func (s *SQLiteStore) QueryByActor(ctx context.Context, actorID string, kind model.InteractionKind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT target_id FROM interactions WHERE actor_id = ? AND kind = ?",
		actorID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return ids, nil
}

// Put inserts or replaces a profile. The recommendation core never
// writes profiles; this is for seeding and tests.
func (s *SQLiteStore) Put(ctx context.Context, p model.Profile) error {
	interests, err := json.Marshal(emptyIfNil(p.Interests))
	if err != nil {
		return fmt.Errorf("marshal interests: %w", err)
	}
	photos, err := json.Marshal(emptyIfNil(p.Photos))
	if err != nil {
		return fmt.Errorf("marshal photos: %w", err)
	}

	var age, lastSeen sql.NullInt64
	var lat, lon sql.NullFloat64
	if p.Age != nil {
		age = sql.NullInt64{Int64: int64(*p.Age), Valid: true}
	}
	if p.Location != nil {
		lat = sql.NullFloat64{Float64: p.Location.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: p.Location.Lon, Valid: true}
	}
	if p.LastSeen != nil {
		lastSeen = sql.NullInt64{Int64: p.LastSeen.Unix(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO profiles (`+profileColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	gender=excluded.gender, looking_for=excluded.looking_for,
	age=excluded.age, lat=excluded.lat, lon=excluded.lon,
	last_seen=excluded.last_seen, bio=excluded.bio,
	interests=excluded.interests, photos=excluded.photos`,
		p.ID, p.Gender, p.LookingFor, age, lat, lon, lastSeen, p.Bio,
		string(interests), string(photos))
	if err != nil {
		return fmt.Errorf("put profile %s: %w", p.ID, err)
	}
	return nil
}

// AddInteraction records a like or swipe. Idempotent per (actor,
// target, kind). Seeding and tests only.
func (s *SQLiteStore) AddInteraction(ctx context.Context, i model.Interaction) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO interactions (actor_id, target_id, kind)
VALUES (?, ?, ?)
ON CONFLICT (actor_id, target_id, kind) DO NOTHING`,
		i.ActorID, i.TargetID, string(i.Kind))
	if err != nil {
		return fmt.Errorf("add interaction: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanProfile.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (model.Profile, error) {
	var p model.Profile
	var age, lastSeen sql.NullInt64
	var lat, lon sql.NullFloat64
	var interests, photos string

	err := r.Scan(&p.ID, &p.Gender, &p.LookingFor, &age, &lat, &lon,
		&lastSeen, &p.Bio, &interests, &photos)
	if err != nil {
		return model.Profile{}, err
	}

	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	if lat.Valid && lon.Valid {
		p.Location = &model.Location{Lat: lat.Float64, Lon: lon.Float64}
	}
	if lastSeen.Valid {
		t := time.Unix(lastSeen.Int64, 0).UTC()
		p.LastSeen = &t
	}
	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return model.Profile{}, fmt.Errorf("unmarshal interests: %w", err)
	}
	if err := json.Unmarshal([]byte(photos), &p.Photos); err != nil {
		return model.Profile{}, fmt.Errorf("unmarshal photos: %w", err)
	}
	return p, nil
}

func collectProfiles(rows *sql.Rows) ([]model.Profile, error) {
	var out []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
