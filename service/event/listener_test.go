package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/marker/service/messaging/memory"
)

func TestListener(t *testing.T) {
	queue := memory.NewQueue[Event[int]](memory.DefaultConfig())
	publisher := NewPublisher[int](queue)
	journal := NewJournal[int]()
	listener := NewListener(publisher, journal.Append)

	ctx := context.Background()
	listener.Start(ctx)
	eventContext := &Context{RunID: "run-1", Source: "test"}
	for i := 0; i < 100; i++ {
		require.NoError(t, publisher.Publish(ctx, NewEvent(eventContext, i)))
	}
	listener.Stop()
	listener.Stop()

	events := journal.Events()
	require.Len(t, events, 100)
	for i, event := range events {
		assert.Equal(t, i, event.Data)
		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "run-1", event.Context.RunID)
	}
	assert.Equal(t, 0, publisher.Pending())
}

func TestListener_StopWithoutStart(t *testing.T) {
	queue := memory.NewQueue[Event[string]](memory.DefaultConfig())
	publisher := NewPublisher[string](queue)
	journal := NewJournal[string]()
	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{}, "queued")))

	listener := NewListener(publisher, journal.Append)
	done := make(chan struct{})
	go func() {
		listener.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked")
	}
	assert.Equal(t, 1, journal.Len())
}

func TestListener_RedeliversFailedEvents(t *testing.T) {
	config := memory.DefaultConfig()
	config.RetryDelay = time.Millisecond
	queue := memory.NewQueue[Event[int]](config)
	publisher := NewPublisher[int](queue)
	journal := NewJournal[int]()

	var (
		mu         sync.Mutex
		deliveries = map[int]int{}
	)
	listener := NewListener(publisher, func(event *Event[int]) error {
		if err := journal.Append(event); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		deliveries[event.Data]++
		if event.Data%10 == 0 && deliveries[event.Data] == 1 {
			return errors.New("listener unavailable")
		}
		return nil
	})

	ctx := context.Background()
	listener.Start(ctx)
	for i := 0; i < 50; i++ {
		require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{RunID: "run-2"}, i)))
	}
	listener.Stop()

	assert.Equal(t, 50, journal.Len(), "redelivered events are journaled once")
	for i := 0; i < 50; i++ {
		expect := 1
		if i%10 == 0 {
			expect = 2
		}
		assert.Equal(t, expect, deliveries[i], "event %d", i)
	}
	assert.Equal(t, 0, publisher.Pending())
	assert.Equal(t, 0, queue.Dropped())
}

func TestListener_DropsAfterRetries(t *testing.T) {
	config := memory.DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = time.Millisecond
	queue := memory.NewQueue[Event[string]](config)
	publisher := NewPublisher[string](queue)

	var attempts atomic.Int32
	listener := NewListener(publisher, func(*Event[string]) error {
		attempts.Add(1)
		return errors.New("always failing")
	})
	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{}, "poison")))
	listener.Start(context.Background())
	listener.Stop()

	assert.Equal(t, int32(config.MaxRetries+1), attempts.Load())
	assert.Equal(t, 1, queue.Dropped())
	assert.Equal(t, 0, publisher.Pending())
}
