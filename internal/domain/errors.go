package domain

import "errors"

var (
	// The requested place or record does not exist.
	ErrNotFound = errors.New("not found")
	// The travel matrix service failed as a whole.
	ErrServiceUnavailable = errors.New("service unavailable")
	// A caller-supplied argument is outside its valid range.
	ErrInvalidArgument = errors.New("invalid argument")
)
