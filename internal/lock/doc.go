// Package lock provides the binary mutual-exclusion primitive that guards the
// shared exam record. Acquire and Release report failures instead of
// panicking so that a worker can stop rather than continue without exclusion.
package lock
