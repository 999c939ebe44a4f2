// Package event carries worker activities from the marking workers to the
// coordinator over a messaging queue.
package event

import (
	"time"

	"github.com/viant/marker/internal/clock"
)

// Context identifies where an event originated.
type Context struct {
	RunID  string `json:"runID"`
	Source string `json:"source"`
}

// Event wraps a payload with its origin and creation time.
type Event[T any] struct {
	ID        string    `json:"id"`
	Context   *Context  `json:"context"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Data:      data,
	}
}
