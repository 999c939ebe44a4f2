// Package idgen generates opaque identifiers for runs and published events.
// Callers must not rely on the format.
package idgen

import "github.com/google/uuid"

// NewFunc returns a new unique identifier; tests may stub it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new unique identifier.
func New() string { return NewFunc() }
