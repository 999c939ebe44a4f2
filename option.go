package marker

import (
	"io"

	"github.com/viant/afs"
	"github.com/viant/marker/model"
	"github.com/viant/marker/progress"
	"github.com/viant/marker/service/dao"
	"github.com/viant/marker/service/event"
	"github.com/viant/marker/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the Service. Options apply in order, so field overrides
// such as WithWorkers belong after WithConfig.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithWorkers sets the number of workers.
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.Workers = count
	}
}

// WithBaseline selects the variant without mutual exclusion.
func WithBaseline(baseline bool) Option {
	return func(s *Service) {
		s.config.Baseline = baseline
	}
}

// WithRubricStore sets the rubric store instead of the configured document.
func WithRubricStore(store dao.RubricStore) Option {
	return func(s *Service) {
		s.rubrics = store
	}
}

// WithExamSource sets the exam source instead of the configured location.
func WithExamSource(source dao.ExamSource) Option {
	return func(s *Service) {
		s.exams = source
	}
}

// WithFs sets the storage service used by the default stores.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogOutput redirects every console line; nil means stdout.
func WithLogOutput(out io.Writer) Option {
	return func(s *Service) {
		s.out = out
	}
}

// WithProgressListener registers a callback invoked on every counter change.
func WithProgressListener(listener func(progress.Counters)) Option {
	return func(s *Service) {
		s.progressListener = listener
	}
}

// WithEventListener registers a callback for every worker activity. An
// activity the listener fails on is delivered again, to every listener, until
// the queue's retries run out.
func WithEventListener(listener event.Handler[model.Activity]) Option {
	return func(s *Service) {
		s.eventListeners = append(s.eventListeners, listener)
	}
}

// WithSeed makes review, marking and correction choices reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = &seed
	}
}

// WithCorrection replaces the rubric correction policy.
func WithCorrection(correction model.Correction) Option {
	return func(s *Service) {
		s.correction = correction
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
