// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"fmt"
	"time"
)

// ScoreTTL is the lifespan of a cached score entry.
const ScoreTTL = 24 * time.Hour

// Location is a geographic point in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Profile is a user profile snapshot. Read-only inside this service;
// the user store owns the records. Optional fields are pointers so a
// missing value is distinguishable from a zero value.
type Profile struct {
	ID         string     `json:"id"`
	Gender     string     `json:"gender"`
	LookingFor string     `json:"looking_for"`
	Interests  []string   `json:"interests"`
	Location   *Location  `json:"location,omitempty"`
	Age        *int       `json:"age,omitempty"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
	Photos     []string   `json:"photos"`
	Bio        string     `json:"bio"`
}

// InteractionKind classifies a recorded interaction.
type InteractionKind string

// Interaction kinds.
const (
	KindLike  InteractionKind = "like"
	KindSwipe InteractionKind = "swipe"
)

// Interaction records that an actor liked or swiped a target.
type Interaction struct {
	ActorID  string          `json:"actor_id"`
	TargetID string          `json:"target_id"`
	Kind     InteractionKind `json:"kind"`
}

// PairKey identifies a directional score: source's view of target.
// The two directions are distinct keys.
type PairKey struct {
	SourceID string
	TargetID string
}

// pairKeySep separates the id components in the encoded key. Ids are
// opaque strings; the separator byte must not appear in them.
const pairKeySep = byte(0x1f)

// Encode produces the canonical byte representation used as a store key.
func (k PairKey) Encode() []byte {
	b := make([]byte, 0, len(k.SourceID)+len(k.TargetID)+1)
	b = append(b, k.SourceID...)
	b = append(b, pairKeySep)
	b = append(b, k.TargetID...)
	return b
}

// DecodePairKey parses a key previously produced by Encode.
func DecodePairKey(b []byte) (PairKey, error) {
	i := bytes.IndexByte(b, pairKeySep)
	if i < 0 {
		return PairKey{}, fmt.Errorf("malformed pair key %q", b)
	}
	return PairKey{SourceID: string(b[:i]), TargetID: string(b[i+1:])}, nil
}

// ScoreEntry is a cached directional compatibility score.
type ScoreEntry struct {
	SourceID     string    `json:"source_id"`
	TargetID     string    `json:"target_id"`
	Score        float64   `json:"score"`
	CalculatedAt time.Time `json:"calculated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewScoreEntry builds an entry stamped at calculatedAt with the fixed TTL.
func NewScoreEntry(sourceID, targetID string, score float64, calculatedAt time.Time) ScoreEntry {
	return ScoreEntry{
		SourceID:     sourceID,
		TargetID:     targetID,
		Score:        score,
		CalculatedAt: calculatedAt,
		ExpiresAt:    calculatedAt.Add(ScoreTTL),
	}
}

// Key returns the entry's directional pair key.
func (e ScoreEntry) Key() PairKey {
	return PairKey{SourceID: e.SourceID, TargetID: e.TargetID}
}

// Expired reports whether the entry is eligible for sweeping at now.
func (e ScoreEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
