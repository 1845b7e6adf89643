package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr      = errors.New("addr must not be empty")
	ErrEmptyStorePath = errors.New("store paths must not be empty")
	ErrInvalidBound   = errors.New("bounds must be positive")
)
