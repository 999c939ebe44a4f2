package event

import (
	"context"
	"fmt"

	"github.com/viant/marker/service/messaging"
)

// Handler processes one event. A returned error sends the event back to the
// queue for another delivery.
type Handler[T any] func(*Event[T]) error

// Publisher publishes events of one payload type onto a queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher creates a publisher backed by queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish enqueues the event.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	return p.queue.Publish(ctx, event)
}

// Consume dequeues the next event and hands it to handler. The message is
// acknowledged when handler succeeds and nacked otherwise.
func (p *Publisher[T]) Consume(ctx context.Context, handler Handler[T]) error {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return err
	}
	event := msg.T()
	if event.ID == "" {
		event.ID = msg.ID()
	}
	if hErr := handler(event); hErr != nil {
		if err = msg.Nack(hErr); err != nil {
			return err
		}
		return fmt.Errorf("failed to handle event %s: %w", event.ID, hErr)
	}
	return msg.Ack()
}

// Pending returns the number of events not settled yet, including those
// waiting to be redelivered.
func (p *Publisher[T]) Pending() int {
	return p.queue.Size()
}
