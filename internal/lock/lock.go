package lock

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrClosed is returned when the lock has been destroyed.
	ErrClosed = errors.New("lock: closed")
	// ErrNotHeld is returned when releasing a lock nobody holds.
	ErrNotHeld = errors.New("lock: released while not held")
)

// Locker guards one critical section. It is not reentrant.
type Locker interface {
	// Acquire blocks until the lock is free and takes it.
	Acquire(ctx context.Context) error
	// Release frees the lock, waking one waiter if any.
	Release() error
	// Close destroys the lock; subsequent acquisitions fail with ErrClosed.
	Close() error
}

// Semaphore is a binary semaphore backed by a weighted semaphore of size one.
type Semaphore struct {
	sem    *semaphore.Weighted
	closed atomic.Bool
}

// NewSemaphore creates an unlocked binary semaphore.
func NewSemaphore() *Semaphore {
	return &Semaphore{sem: semaphore.NewWeighted(1)}
}

// Acquire implements Locker.
func (s *Semaphore) Acquire(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("lock: failed to acquire: %w", err)
	}
	if s.closed.Load() {
		s.sem.Release(1)
		return ErrClosed
	}
	return nil
}

// Release implements Locker.
func (s *Semaphore) Release() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrNotHeld
		}
	}()
	s.sem.Release(1)
	return nil
}

// Close implements Locker.
func (s *Semaphore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

// Nop never excludes anybody. It backs the unsynchronized baseline where
// every critical section degrades to plain interleaved access.
type Nop struct{}

// Acquire implements Locker.
func (Nop) Acquire(context.Context) error { return nil }

// Release implements Locker.
func (Nop) Release() error { return nil }

// Close implements Locker.
func (Nop) Close() error { return nil }

var (
	_ Locker = (*Semaphore)(nil)
	_ Locker = Nop{}
)
