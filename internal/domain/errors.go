package domain

import "errors"

// Error kinds. Every error returned by the booking core wraps exactly one of
// these, so callers can map failures without knowing service-level sentinels.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden operation")
	ErrCriticalInconsistency = errors.New("critical inconsistency")
)

// Kind returns the error kind wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, k := range []error{ErrCriticalInconsistency, ErrInvalidInput, ErrNotFound, ErrForbidden} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
