package scorecache

import "errors"

// Sentinel kinds for cache errors.
var (
	ErrNotFound     = errors.New("score entry not found")
	ErrInvalidEntry = errors.New("invalid score entry")
)
