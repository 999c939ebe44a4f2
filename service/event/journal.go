package event

import "sync"

// Journal keeps every event it is given once, in arrival order.
type Journal[T any] struct {
	mu     sync.Mutex
	events []*Event[T]
	seen   map[string]bool
}

// NewJournal creates an empty journal.
func NewJournal[T any]() *Journal[T] {
	return &Journal[T]{seen: map[string]bool{}}
}

// Append records an event. A redelivered event whose ID is already recorded
// is ignored. It never fails, so it can serve as a Handler.
func (j *Journal[T]) Append(event *Event[T]) error {
	if event == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if event.ID != "" {
		if j.seen[event.ID] {
			return nil
		}
		j.seen[event.ID] = true
	}
	j.events = append(j.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (j *Journal[T]) Events() []*Event[T] {
	j.mu.Lock()
	defer j.mu.Unlock()
	ret := make([]*Event[T], len(j.events))
	copy(ret, j.events)
	return ret
}

// Len returns the number of recorded events.
func (j *Journal[T]) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}
