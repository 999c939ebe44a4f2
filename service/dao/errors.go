package dao

import "errors"

// Sentinel errors shared by rubric and exam stores; test with errors.Is.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("dao: not found")

	// ErrMalformed is returned when stored content cannot be parsed.
	ErrMalformed = errors.New("dao: malformed content")
)

// IsNoMoreWork reports whether err means an exam source has nothing left to
// hand out rather than a storage failure.
func IsNoMoreWork(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMalformed)
}
