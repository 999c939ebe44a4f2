package worker

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/viant/marker/internal/logger"
	"github.com/viant/marker/model"
	"github.com/viant/marker/service/event"
)

// Option customises a Worker.
type Option func(w *Worker)

// WithPublisher publishes every activity of the worker under runID.
func WithPublisher(publisher *event.Publisher[model.Activity], runID string) Option {
	return func(w *Worker) {
		w.publisher = publisher
		w.runID = runID
	}
}

// WithLogOutput redirects the worker and loader log lines to out.
func WithLogOutput(out io.Writer) Option {
	return func(w *Worker) {
		w.out = out
	}
}

// WithRand sets the source of review, marking and polling delays and of
// correction decisions.
func WithRand(r *rand.Rand) Option {
	return func(w *Worker) {
		w.rand = r
	}
}

func (w *Worker) initLoggers() {
	w.logger = logger.New(fmt.Sprintf("[TA %d]", w.config.ID), w.out)
	w.loader = logger.New("[LOADER]", w.out)
}
