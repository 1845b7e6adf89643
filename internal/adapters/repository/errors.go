package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("profile not found")
	ErrInvalidPageSize = errors.New("invalid page size")
)
