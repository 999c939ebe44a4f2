package progress

import (
	"context"
	"sync"
	"time"

	"github.com/viant/marker/internal/clock"
)

// Delta is an incremental change to the counters.
type Delta struct {
	Loaded    int
	Reviewed  int
	Corrected int
	Claimed   int
	Finished  int
}

// Counters is a point-in-time copy of the tracker.
type Counters struct {
	RunID     string
	StartedAt time.Time

	ExamsLoaded int
	Reviews     int
	Corrections int
	Claims      int
	Finished    int
}

// Progress aggregates counters for one run. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// Update applies d. The onChange callback, if any, runs outside the lock
// with the counters as they were right after this update.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.counters.ExamsLoaded += d.Loaded
	p.counters.Reviews += d.Reviewed
	p.counters.Corrections += d.Corrected
	p.counters.Claims += d.Claimed
	p.counters.Finished += d.Finished
	snapshot := p.counters
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns the current counters.
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers the callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a tracker for runID and embeds it in a derived context.
func WithNewTracker(ctx context.Context, runID string, onChange func(Counters)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		counters: Counters{RunID: runID, StartedAt: clock.Now()},
		onChange: onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx applies d to the tracker carried by ctx, if any.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
