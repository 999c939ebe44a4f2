package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/marker/internal/clock"
	"github.com/viant/marker/internal/idgen"
	"github.com/viant/marker/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  10 * time.Millisecond,
		QueueBuffer: 1024,
	}
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	createdAt  time.Time
	mu         sync.Mutex
	processed  bool
}

// ID returns the message identifier
func (m *Message[T]) ID() string {
	return m.id
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// CreatedAt returns when the message was first published
func (m *Message[T]) CreatedAt() time.Time {
	return m.createdAt
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	m.queue.unsettled.Add(-1)
	return nil
}

// Nack returns the message to the queue after RetryDelay unless it ran out
// of retries, in which case it is dropped.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	if m.retryCount >= m.queue.config.MaxRetries {
		m.queue.dropped.Add(1)
		m.queue.unsettled.Add(-1)
		return nil
	}
	retry := &Message[T]{
		id:         m.id,
		payload:    m.payload,
		queue:      m.queue,
		retryCount: m.retryCount + 1,
		createdAt:  m.createdAt,
	}
	go func() {
		time.Sleep(m.queue.config.RetryDelay)
		m.queue.messages <- retry
	}()
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages  chan *Message[T]
	config    Config
	unsettled atomic.Int64
	dropped   atomic.Int64
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue, blocking while the buffer is full
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("cannot publish nil payload")
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: clock.Now(),
	}
	q.unsettled.Add(1)
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		q.unsettled.Add(-1)
		return ctx.Err()
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the number of messages neither acknowledged nor dropped yet,
// including those waiting to be redelivered
func (q *Queue[T]) Size() int {
	return int(q.unsettled.Load())
}

// Dropped returns how many messages were discarded after exhausting retries
func (q *Queue[T]) Dropped() int {
	return int(q.dropped.Load())
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
