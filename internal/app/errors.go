package service

import "errors"

// Error taxonomy exposed at the operation boundary. Callers classify
// failures with errors.Is against these sentinels.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)
