package marker

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/viant/afs"
	"github.com/viant/marker/internal/clock"
	"github.com/viant/marker/internal/idgen"
	"github.com/viant/marker/internal/lock"
	"github.com/viant/marker/internal/logger"
	"github.com/viant/marker/model"
	"github.com/viant/marker/progress"
	"github.com/viant/marker/report"
	"github.com/viant/marker/service/dao"
	"github.com/viant/marker/service/dao/exam"
	"github.com/viant/marker/service/dao/rubric"
	"github.com/viant/marker/service/event"
	"github.com/viant/marker/service/messaging/memory"
	"github.com/viant/marker/service/state"
	"github.com/viant/marker/service/worker"
	"github.com/viant/marker/tracing"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName    = "marker"
	serviceVersion = "0.1.0"
)

// Service coordinates one marking run. It never marks anything itself.
type Service struct {
	config  *Config
	fs      afs.Service
	rubrics dao.RubricStore
	exams   dao.ExamSource

	out              io.Writer
	seed             *uint64
	correction       model.Correction
	progressListener func(progress.Counters)
	eventListeners   []event.Handler[model.Activity]
	tracingErr       error
}

// Summary describes a finished run. Rubric is the final rubric; Exam and
// Student identify the last installed exam.
type Summary struct {
	RunID      string                         `json:"runID"`
	Workers    int                            `json:"workers"`
	Baseline   bool                           `json:"baseline"`
	Rubric     model.Rubric                   `json:"rubric"`
	Revision   *report.Revision               `json:"revision,omitempty"`
	Progress   progress.Counters              `json:"progress"`
	Activities []*event.Event[model.Activity] `json:"activities,omitempty"`
	Exam       int                            `json:"exam"`
	Student    int                            `json:"student"`
	Terminated bool                           `json:"terminated"`
}

// ClaimCounts returns, per exam index, how many times each question was
// claimed.
func (s *Summary) ClaimCounts() map[int][]int {
	ret := map[int][]int{}
	questions := len(s.Rubric)
	for _, evt := range s.Activities {
		activity := evt.Data
		if activity.Kind != model.ActivityClaim || activity.Question < 0 || activity.Question >= questions {
			continue
		}
		counts, ok := ret[activity.Exam]
		if !ok {
			counts = make([]int, questions)
			ret[activity.Exam] = counts
		}
		counts[activity.Question]++
	}
	return ret
}

// New creates a service; the configuration is validated here.
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(ret)
	}
	if ret.tracingErr != nil {
		return nil, fmt.Errorf("failed to initialise tracing: %w", ret.tracingErr)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.config.Tracing.Enabled {
		if err := tracing.Init(serviceName, serviceVersion, ret.config.Tracing.Output); err != nil {
			return nil, fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.rubrics == nil {
		ret.rubrics = rubric.New(ret.config.Storage.RubricURL, ret.config.Questions, rubric.WithFs(ret.fs))
	}
	if ret.exams == nil {
		ret.exams = exam.New(ret.config.Storage.ExamsURL, exam.WithFs(ret.fs), exam.WithPattern(ret.config.Storage.ExamPattern))
	}
	return ret, nil
}

// Config returns the validated configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Run loads the rubric and the first exam, runs every worker to completion
// and returns the summary. A rubric that cannot be loaded or a failing lock
// is an error; running out of exams is not. Cancelling ctx sets the
// terminate flag and the run winds down normally.
func (s *Service) Run(ctx context.Context) (summary *Summary, err error) {
	cfg := s.config
	runID := idgen.New()
	ctx, span := tracing.StartSpan(ctx, "marker.run", "INTERNAL")
	span.WithAttributes(map[string]string{
		"run.id":       runID,
		"run.workers":  strconv.Itoa(cfg.Workers),
		"run.baseline": strconv.FormatBool(cfg.Baseline),
	})
	defer func() { tracing.EndSpan(span, err) }()

	mainLog := logger.New("[MAIN]", s.out)
	loaderLog := logger.New("[LOADER]", s.out)

	var locker lock.Locker = lock.NewSemaphore()
	if cfg.Baseline {
		locker = lock.Nop{}
		mainLog.Println("Running without mutual exclusion (baseline).")
	}
	shared, err := state.New(cfg.Questions, cfg.MaxExams, locker, state.WithClaimWindow(cfg.Delays.ClaimWindow))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cErr := shared.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("failed to destroy lock: %w", cErr)
		}
	}()

	initial, err := s.rubrics.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric: %w", err)
	}
	if err = shared.SetRubric(initial); err != nil {
		return nil, err
	}

	ctx, tracker := progress.WithNewTracker(ctx, runID, s.progressListener)
	queue := memory.NewQueue[event.Event[model.Activity]](memory.DefaultConfig())
	publisher := event.NewPublisher[model.Activity](queue)
	journal := event.NewJournal[model.Activity]()
	listener := event.NewListener(publisher, func(evt *event.Event[model.Activity]) error {
		if err := journal.Append(evt); err != nil {
			return err
		}
		for _, handler := range s.eventListeners {
			if err := handler(evt); err != nil {
				return err
			}
		}
		return nil
	})
	listener.Start(context.WithoutCancel(ctx))
	defer listener.Stop()

	if err = s.loadFirst(ctx, shared, publisher, runID, loaderLog); err != nil {
		return nil, err
	}

	workers, err := s.workers(shared, publisher, runID)
	if err != nil {
		return nil, err
	}

	mainLog.Printf("Starting %d TA processes.", len(workers))
	stopAbort := context.AfterFunc(ctx, shared.Abort)
	group, groupCtx := errgroup.WithContext(ctx)
	for _, w := range workers {
		group.Go(func() error {
			wErr := w.Run(groupCtx)
			if wErr != nil {
				shared.Abort()
			}
			return wErr
		})
	}
	runErr := group.Wait()
	stopAbort()
	listener.Stop()
	if dropped := queue.Dropped(); dropped > 0 {
		mainLog.Printf("Dropped %d activity event(s) after failed deliveries.", dropped)
	}
	mainLog.Println("All TAs finished. Cleaning up.")

	snapshot, sErr := shared.Snapshot(context.WithoutCancel(ctx))
	if sErr != nil {
		snapshot = &state.Snapshot{
			Student:    shared.Student(),
			Total:      shared.Total(),
			Rubric:     shared.Rubric(),
			Terminated: shared.Terminated(),
		}
	}
	revision, rErr := report.Rubric(initial, snapshot.Rubric, cfg.Storage.RubricURL)
	if rErr != nil {
		mainLog.Printf("Failed to build rubric report: %v", rErr)
	} else if revision.HasChanges() {
		mainLog.Printf("Rubric revised on %d question(s):\n%s", len(revision.Questions), revision.Diff)
	}

	summary = &Summary{
		RunID:      runID,
		Workers:    len(workers),
		Baseline:   cfg.Baseline,
		Rubric:     snapshot.Rubric,
		Revision:   revision,
		Progress:   tracker.Snapshot(),
		Activities: journal.Events(),
		Exam:       snapshot.Index,
		Student:    snapshot.Student,
		Terminated: snapshot.Terminated,
	}
	return summary, runErr
}

// loadFirst installs exam 1. A missing or unreadable exam is not an error: it
// sets the terminate flag so the workers exit straight away.
func (s *Service) loadFirst(ctx context.Context, shared *state.Shared, publisher *event.Publisher[model.Activity], runID string, loaderLog *logger.Logger) error {
	first, err := s.exams.Load(ctx, 1)
	if err != nil {
		loaderLog.Printf("Failed to load exam 1: %v", err)
		return shared.Terminate(ctx)
	}
	if err = shared.Install(ctx, first); err != nil {
		return err
	}
	loaderLog.Printf("Loaded %s (student %s)", first.Location, model.StudentID(first.Student))
	progress.UpdateCtx(ctx, progress.Delta{Loaded: 1})
	evt := event.NewEvent(&event.Context{RunID: runID, Source: loaderLog.Prefix()}, model.Activity{
		Kind:     model.ActivityLoad,
		Exam:     first.Index,
		Student:  first.Student,
		Question: -1,
	})
	return publisher.Publish(ctx, evt)
}

func (s *Service) workers(shared *state.Shared, publisher *event.Publisher[model.Activity], runID string) ([]*worker.Worker, error) {
	cfg := s.config
	seed := uint64(clock.Now().UnixNano())
	if s.seed != nil {
		seed = *s.seed
	}
	ret := make([]*worker.Worker, 0, cfg.Workers)
	for id := 1; id <= cfg.Workers; id++ {
		w, err := worker.New(worker.Config{
			ID:             id,
			Leader:         id == cfg.Leader,
			Sentinel:       cfg.Sentinel,
			CorrectionRate: cfg.CorrectionRate,
			Review:         cfg.Delays.Review,
			Marking:        cfg.Delays.Marking,
			Poll:           cfg.Delays.Poll,
			Correction:     s.correction,
		}, shared, s.rubrics, s.exams,
			worker.WithPublisher(publisher, runID),
			worker.WithLogOutput(s.out),
			worker.WithRand(rand.New(rand.NewPCG(seed, uint64(id)))))
		if err != nil {
			return nil, fmt.Errorf("failed to create worker %d: %w", id, err)
		}
		ret = append(ret, w)
	}
	return ret, nil
}
