package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidLimit    = errors.New("invalid limit; must be a positive integer")
	ErrMissingSourceID = errors.New("missing source_id")
	ErrMissingTargetID = errors.New("missing target_id")
)
