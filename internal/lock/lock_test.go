package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore_Exclusion(t *testing.T) {
	locker := NewSemaphore()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		counter int
		inside  int
		overlap bool
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if !assert.NoError(t, locker.Acquire(ctx)) {
					return
				}
				inside++
				if inside > 1 {
					overlap = true
				}
				counter++
				inside--
				assert.NoError(t, locker.Release())
			}
		}()
	}
	wg.Wait()
	assert.False(t, overlap)
	assert.Equal(t, 16*200, counter)
}

func TestSemaphore_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		run    func(s *Semaphore) error
		expect error
	}{
		{
			name: "release without acquire",
			run: func(s *Semaphore) error {
				return s.Release()
			},
			expect: ErrNotHeld,
		},
		{
			name: "acquire after close",
			run: func(s *Semaphore) error {
				if err := s.Close(); err != nil {
					return err
				}
				return s.Acquire(context.Background())
			},
			expect: ErrClosed,
		},
		{
			name: "close twice",
			run: func(s *Semaphore) error {
				_ = s.Close()
				return s.Close()
			},
			expect: ErrClosed,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run(NewSemaphore())
			assert.ErrorIs(t, err, tc.expect)
		})
	}
}

func TestSemaphore_AcquireTimeout(t *testing.T) {
	locker := NewSemaphore()
	require.NoError(t, locker.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := locker.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, locker.Release())
	assert.NoError(t, locker.Acquire(context.Background()))
	assert.NoError(t, locker.Release())
}

func TestNop(t *testing.T) {
	var locker Locker = Nop{}
	assert.NoError(t, locker.Acquire(context.Background()))
	assert.NoError(t, locker.Acquire(context.Background()))
	assert.NoError(t, locker.Release())
	assert.NoError(t, locker.Close())
}
