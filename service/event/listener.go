package event

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Listener hands every consumed event to handler on its own goroutine.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

// NewListener creates a listener; call Start to begin consuming.
func NewListener[T any](publisher *Publisher[T], handler Handler[T]) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		done:      make(chan struct{}),
	}
}

// Start consumes events until Stop is called or ctx is done.
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			err := l.publisher.Consume(ctx, l.handler)
			if err == nil {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("error consuming event: %v", err)
		}
	}()
}

// Stop ends consumption and hands any events still queued, or waiting to be
// redelivered, to the handler. Publishers must have stopped before Stop is
// called.
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			close(l.done)
		} else {
			l.cancel()
		}
		<-l.done
		for l.publisher.Pending() > 0 {
			if err := l.publisher.Consume(context.Background(), l.handler); err != nil {
				log.Printf("error draining event: %v", err)
			}
		}
	})
}
