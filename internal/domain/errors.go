package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates the request was rejected before any state changed.
	ErrValidation = errors.New("validation failed")
)
