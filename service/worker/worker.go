package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/viant/marker/internal/clock"
	"github.com/viant/marker/internal/logger"
	"github.com/viant/marker/model"
	"github.com/viant/marker/progress"
	"github.com/viant/marker/service/dao"
	"github.com/viant/marker/service/event"
	"github.com/viant/marker/service/state"
	"github.com/viant/marker/tracing"
)

// Config represents a single worker's settings.
type Config struct {
	// ID is the 1-based worker id printed in every log line.
	ID int
	// Leader marks the one worker that advances to the next exam.
	Leader bool
	// Sentinel is the student id whose exam ends the run.
	Sentinel int
	// CorrectionRate is the probability of correcting a reviewed mark.
	CorrectionRate float64

	Review  Delay
	Marking Delay
	Poll    Delay

	// Correction derives the corrected mark; model.NextLetter when nil.
	Correction model.Correction
}

// Worker marks exams from the shared record until the run terminates.
type Worker struct {
	config  Config
	shared  *state.Shared
	rubrics dao.RubricStore
	exams   dao.ExamSource

	publisher *event.Publisher[model.Activity]
	runID     string
	out       io.Writer
	logger    *logger.Logger
	loader    *logger.Logger
	rand      *rand.Rand

	state State
}

// New creates a worker bound to the shared record and the stores.
func New(config Config, shared *state.Shared, rubrics dao.RubricStore, exams dao.ExamSource, options ...Option) (*Worker, error) {
	if config.ID <= 0 {
		return nil, fmt.Errorf("worker id must be > 0, got %d", config.ID)
	}
	if shared == nil {
		return nil, fmt.Errorf("shared state is required")
	}
	if rubrics == nil {
		return nil, fmt.Errorf("rubric store is required")
	}
	if config.Leader && exams == nil {
		return nil, fmt.Errorf("exam source is required for the leader")
	}
	if config.Correction == nil {
		config.Correction = model.NextLetter
	}
	ret := &Worker{
		config:  config,
		shared:  shared,
		rubrics: rubrics,
		exams:   exams,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.rand == nil {
		ret.rand = rand.New(rand.NewPCG(uint64(clock.Now().UnixNano()), uint64(config.ID)))
	}
	ret.initLoggers()
	return ret, nil
}

// ID returns the worker id.
func (w *Worker) ID() int {
	return w.config.ID
}

// State returns the last state the worker entered. Read it only after Run
// has returned.
func (w *Worker) State() State {
	return w.state
}

// Run executes the marking loop. It returns nil when the run terminates
// normally or ctx is cancelled, and an error when the lock fails.
func (w *Worker) Run(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "worker.run", "INTERNAL")
	span.WithAttributes(map[string]string{
		"worker.id":     strconv.Itoa(w.config.ID),
		"worker.leader": strconv.FormatBool(w.config.Leader),
	})
	defer func() {
		if isCancellation(err) {
			err = nil
		}
		if err != nil {
			w.logger.Printf("Fatal: %v", err)
			err = fmt.Errorf("worker %d: %w", w.config.ID, err)
		}
		w.transition(ctx, Terminated, model.NoStudent)
		w.logger.Println("Exiting.")
		w.emit(ctx, model.Activity{Kind: model.ActivityExit, Question: -1})
		tracing.EndSpan(span, err)
	}()

	for {
		w.transition(ctx, WaitingForExam, model.NoStudent)
		if !w.waitForExam() {
			return nil
		}
		var stop bool
		if stop, err = w.pass(ctx); err != nil || stop {
			return err
		}
	}
}

// pass works through one exam: review, marking and completion handling.
func (w *Worker) pass(ctx context.Context) (stop bool, err error) {
	student, index, err := w.shared.Current(ctx)
	if err != nil {
		return true, err
	}
	if student == model.NoStudent {
		return false, nil
	}
	ctx, span := tracing.StartSpan(ctx, "exam.pass", "INTERNAL")
	span.WithAttributes(map[string]string{
		"exam.index":   strconv.Itoa(index),
		"exam.student": model.StudentID(student),
		"worker.id":    strconv.Itoa(w.config.ID),
	})
	defer func() { tracing.EndSpan(span, err) }()

	w.logger.Printf("Working on exam %d (student %s)", index, model.StudentID(student))
	if err = w.review(ctx, student, index); err != nil {
		return true, err
	}
	if err = w.mark(ctx, span, student, index); err != nil {
		return true, err
	}
	if w.shared.Terminated() {
		return true, nil
	}
	if student == w.config.Sentinel {
		if err = w.shared.Terminate(ctx); err != nil {
			return true, err
		}
		w.logger.Printf("last student (%s) reached. Stopping.", model.StudentID(student))
		w.emit(ctx, model.Activity{Kind: model.ActivityTerminate, Exam: index, Student: student, Question: -1})
		return true, nil
	}
	if w.config.Leader {
		return w.advance(ctx)
	}
	w.waitForNext(ctx, student, index)
	return false, nil
}

// review reads every rubric mark and corrects some of them.
func (w *Worker) review(ctx context.Context, student, index int) error {
	w.transition(ctx, ReviewingRubric, student)
	for question := 0; question < w.shared.Questions(); question++ {
		if w.shared.Terminated() {
			return nil
		}
		mark, err := w.shared.Mark(ctx, question)
		if err != nil {
			return err
		}
		w.logger.Printf("Reviewing rubric Q%d = %c", question+1, mark)
		w.emit(ctx, model.Activity{Kind: model.ActivityReview, Exam: index, Student: student, Question: question, Old: mark})
		progress.UpdateCtx(ctx, progress.Delta{Reviewed: 1})

		w.config.Review.sleep(w.rand)
		if w.rand.Float64() >= w.config.CorrectionRate {
			continue
		}
		old, corrected, err := w.shared.Correct(ctx, question, w.config.Correction, func(rubric model.Rubric) {
			if err := w.rubrics.Save(context.WithoutCancel(ctx), rubric); err != nil {
				w.logger.Printf("Failed to save rubric: %v", err)
			}
		})
		if err != nil {
			return err
		}
		w.logger.Printf("Correcting rubric Q%d: %c -> %c", question+1, old, corrected)
		w.emit(ctx, model.Activity{Kind: model.ActivityCorrection, Exam: index, Student: student, Question: question, Old: old, New: corrected})
		progress.UpdateCtx(ctx, progress.Delta{Corrected: 1})
	}
	return nil
}

// mark claims and marks questions until none is left, the exam changes or
// the run terminates. Every claim is recorded on span.
func (w *Worker) mark(ctx context.Context, span *tracing.Span, student, index int) error {
	w.transition(ctx, Marking, student)
	for {
		if w.shared.Terminated() {
			return nil
		}
		question, status, err := w.shared.Claim(ctx, student, index)
		if err != nil {
			return err
		}
		switch status {
		case state.Stopped:
			return nil
		case state.ExamChanged:
			w.logger.Printf("Exam changed while marking student %s", model.StudentID(student))
			w.emit(ctx, model.Activity{Kind: model.ActivityExamChanged, Exam: index, Student: student, Question: -1})
			return nil
		case state.Exhausted:
			w.logger.Printf("All questions marked for student %s", model.StudentID(student))
			w.emit(ctx, model.Activity{Kind: model.ActivityAllMarked, Exam: index, Student: student, Question: -1})
			return nil
		}

		w.logger.Printf("Marking Q%d for student %s...", question+1, model.StudentID(student))
		span.AddEvent("claim", map[string]string{"question": strconv.Itoa(question + 1)})
		w.emit(ctx, model.Activity{Kind: model.ActivityClaim, Exam: index, Student: student, Question: question})
		progress.UpdateCtx(ctx, progress.Delta{Claimed: 1})

		w.config.Marking.sleep(w.rand)

		w.logger.Printf("Finished Q%d for student %s", question+1, model.StudentID(student))
		w.emit(ctx, model.Activity{Kind: model.ActivityFinish, Exam: index, Student: student, Question: question})
		progress.UpdateCtx(ctx, progress.Delta{Finished: 1})
	}
}

// advance loads the exam after the current one, or terminates the run when
// there is none.
func (w *Worker) advance(ctx context.Context) (stop bool, err error) {
	w.transition(ctx, Advancing, w.shared.Student())
	next, exhausted, err := w.shared.Next(ctx)
	if err != nil {
		return true, err
	}
	if exhausted {
		return true, w.terminate(ctx, next, "No more exams. Stopping all TAs.")
	}
	exam, err := w.exams.Load(ctx, next)
	if err != nil {
		if !dao.IsNoMoreWork(err) {
			w.loader.Printf("Failed to load exam %d: %v", next, err)
		}
		return true, w.terminate(ctx, next, fmt.Sprintf("No exam %d. Stopping all TAs.", next))
	}
	if err = w.shared.Install(ctx, exam); err != nil {
		return true, err
	}
	w.loader.Printf("Loaded %s (student %s)", exam.Location, model.StudentID(exam.Student))
	w.emit(ctx, model.Activity{Worker: w.config.ID, Kind: model.ActivityLoad, Exam: exam.Index, Student: exam.Student, Question: -1})
	progress.UpdateCtx(ctx, progress.Delta{Loaded: 1})
	return false, nil
}

func (w *Worker) terminate(ctx context.Context, next int, message string) error {
	if err := w.shared.Terminate(ctx); err != nil {
		return err
	}
	w.logger.Println(message)
	w.emit(ctx, model.Activity{Kind: model.ActivityTerminate, Exam: next, Question: -1})
	return nil
}

// waitForExam polls until an exam is loaded. It returns false once the run
// terminates.
func (w *Worker) waitForExam() bool {
	for {
		if w.shared.Terminated() {
			return false
		}
		if w.shared.Student() != model.NoStudent {
			return true
		}
		w.config.Poll.sleep(w.rand)
	}
}

// waitForNext polls until the active exam differs from the one just marked
// or the run terminates. The index is compared too since one student may sit
// consecutive exams.
func (w *Worker) waitForNext(ctx context.Context, student, index int) {
	w.transition(ctx, WaitingForNext, student)
	for !w.shared.Terminated() {
		if w.shared.Student() != student || w.shared.Index() != index {
			return
		}
		w.config.Poll.sleep(w.rand)
	}
}

func (w *Worker) transition(ctx context.Context, next State, student int) {
	if w.state == next {
		return
	}
	w.state = next
	w.logger.Printf("-> %s", next)
	w.emit(ctx, model.Activity{Kind: model.ActivityTransition, State: next.String(), Student: student, Question: -1})
}

func (w *Worker) emit(ctx context.Context, activity model.Activity) {
	if w.publisher == nil {
		return
	}
	if activity.Worker == 0 {
		activity.Worker = w.config.ID
	}
	if activity.State == "" {
		activity.State = w.state.String()
	}
	evt := event.NewEvent(&event.Context{RunID: w.runID, Source: w.logger.Prefix()}, activity)
	if err := w.publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		w.logger.Printf("Failed to publish %s: %v", activity.Kind, err)
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
