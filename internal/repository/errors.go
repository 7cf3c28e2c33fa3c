package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrSeatsUnavailable = errors.New("seat unavailable")
	ErrOutOfStock       = errors.New("out of stock")
	// ErrConstraint is a stored row rejected by a schema check, e.g. a
	// negative points balance.
	ErrConstraint = errors.New("constraint violated")
)
