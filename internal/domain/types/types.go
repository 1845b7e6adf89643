// Package types contains common types used across the application
package types

// ProfileSummary is the candidate profile shape returned to callers.
// It deliberately carries less than the full store row.
type ProfileSummary struct {
	ID        string   `json:"id"`
	Age       *int     `json:"age,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Photos    []string `json:"photos,omitempty"`
}

// Match is a ranked discovery result.
type Match struct {
	CandidateID string         `json:"candidate_id"`
	Score       float64        `json:"score"`
	Profile     ProfileSummary `json:"profile"`
}

// ScoreResult is the response shape of a single pair computation.
type ScoreResult struct {
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Score    float64 `json:"score"`
}
