package services

import "errors"

// Service error taxonomy. Handlers map these onto HTTP statuses with
// errors.Is; everything else is treated as a storage failure.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("resource already exists")
)

// dashboardCacheKey is invalidated by every mutation so cached stats
// never outlive the data they were computed from.
const dashboardCacheKey = "dashboard:stats"

// withRetry runs fn, retrying once when it fails with something other
// than a domain error. Domain errors are deterministic and never retried.
func withRetry(fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) {
		return err
	}
	return fn()
}
