package state

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/viant/marker/internal/lock"
	"github.com/viant/marker/model"
)

// ClaimStatus is the outcome of a claim attempt.
type ClaimStatus int

const (
	// Claimed means the returned question now belongs to the caller.
	Claimed ClaimStatus = iota
	// Exhausted means every question of the current exam is already claimed.
	Exhausted
	// ExamChanged means the active exam is no longer the caller's.
	ExamChanged
	// Stopped means the terminate flag is set.
	Stopped
)

func (s ClaimStatus) String() string {
	switch s {
	case Claimed:
		return "claimed"
	case Exhausted:
		return "exhausted"
	case ExamChanged:
		return "examChanged"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("ClaimStatus(%d)", int(s))
}

// Option customises a Shared record.
type Option func(s *Shared)

// WithClaimWindow inserts a pause between observing and writing shared
// claim/exam fields inside critical sections.
func WithClaimWindow(d time.Duration) Option {
	return func(s *Shared) {
		s.claimWindow = d
	}
}

// Shared is the exam record all workers read and write.
type Shared struct {
	lock        lock.Locker
	claimWindow time.Duration

	rubric    []atomic.Uint32
	student   atomic.Int64
	index     atomic.Int32
	total     atomic.Int32
	claimed   []atomic.Bool
	terminate atomic.Bool
}

// Snapshot is a consistent copy of the shared record.
type Snapshot struct {
	Student    int
	Index      int
	Total      int
	Claimed    []bool
	Rubric     model.Rubric
	Terminated bool
}

// ClaimedCount returns the number of claimed questions.
func (s *Snapshot) ClaimedCount() int {
	count := 0
	for _, claimed := range s.Claimed {
		if claimed {
			count++
		}
	}
	return count
}

// New creates a zeroed record for the given number of questions and exams.
func New(questions, total int, locker lock.Locker, options ...Option) (*Shared, error) {
	if questions <= 0 {
		return nil, fmt.Errorf("questions must be > 0, got %d", questions)
	}
	if total <= 0 {
		return nil, fmt.Errorf("total exam count must be > 0, got %d", total)
	}
	if locker == nil {
		return nil, fmt.Errorf("locker is required")
	}
	ret := &Shared{
		lock:    locker,
		rubric:  make([]atomic.Uint32, questions),
		claimed: make([]atomic.Bool, questions),
	}
	ret.total.Store(int32(total))
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

// Questions returns the number of questions per exam.
func (s *Shared) Questions() int {
	return len(s.claimed)
}

// Total returns the total exam count.
func (s *Shared) Total() int {
	return int(s.total.Load())
}

// Student returns the active student without locking. Only use it to detect
// a change.
func (s *Shared) Student() int {
	return int(s.student.Load())
}

// Index returns the active exam index without locking. Only use it to detect
// a change.
func (s *Shared) Index() int {
	return int(s.index.Load())
}

// Terminated reports whether the terminate flag is set, without locking.
func (s *Shared) Terminated() bool {
	return s.terminate.Load()
}

// SetRubric installs the initial rubric. It is called once before any
// worker starts.
func (s *Shared) SetRubric(rubric model.Rubric) error {
	if len(rubric) != len(s.rubric) {
		return fmt.Errorf("rubric has %d marks, expected %d", len(rubric), len(s.rubric))
	}
	for i, mark := range rubric {
		s.rubric[i].Store(uint32(mark))
	}
	return nil
}

// Rubric returns a copy of the rubric as currently stored.
func (s *Shared) Rubric() model.Rubric {
	ret := make(model.Rubric, len(s.rubric))
	for i := range s.rubric {
		ret[i] = byte(s.rubric[i].Load())
	}
	return ret
}

// critical runs fn between Acquire and Release.
func (s *Shared) critical(ctx context.Context, fn func()) error {
	if err := s.lock.Acquire(ctx); err != nil {
		return err
	}
	fn()
	return s.lock.Release()
}

func (s *Shared) pause() {
	if s.claimWindow > 0 {
		time.Sleep(s.claimWindow)
	}
}

// Current returns the active student and exam index as one pair.
func (s *Shared) Current(ctx context.Context) (student, index int, err error) {
	err = s.critical(ctx, func() {
		student = int(s.student.Load())
		index = int(s.index.Load())
	})
	return student, index, err
}

// Mark reads one rubric entry.
func (s *Shared) Mark(ctx context.Context, question int) (mark byte, err error) {
	if err = s.checkQuestion(question); err != nil {
		return 0, err
	}
	err = s.critical(ctx, func() {
		mark = byte(s.rubric[question].Load())
	})
	return mark, err
}

// Correct re-reads a rubric entry, replaces it with correct(old) and hands
// the whole rubric to persist, all in one critical section so the stored
// mark and the persisted copy never diverge.
func (s *Shared) Correct(ctx context.Context, question int, correct model.Correction, persist func(model.Rubric)) (old, corrected byte, err error) {
	if err = s.checkQuestion(question); err != nil {
		return 0, 0, err
	}
	if correct == nil {
		correct = model.NextLetter
	}
	err = s.critical(ctx, func() {
		old = byte(s.rubric[question].Load())
		corrected = correct(old)
		s.rubric[question].Store(uint32(corrected))
		if persist != nil {
			persist(s.Rubric())
		}
	})
	return old, corrected, err
}

// Claim reserves the lowest unclaimed question of exam index taken by
// student. Both must still be active, so consecutive exams of one student are
// told apart. The question is -1 unless the status is Claimed.
func (s *Shared) Claim(ctx context.Context, student, index int) (question int, status ClaimStatus, err error) {
	question = -1
	err = s.critical(ctx, func() {
		if s.terminate.Load() {
			status = Stopped
			return
		}
		if int(s.student.Load()) != student || int(s.index.Load()) != index {
			status = ExamChanged
			return
		}
		for i := range s.claimed {
			if s.claimed[i].Load() {
				continue
			}
			s.pause()
			s.claimed[i].Store(true)
			question, status = i, Claimed
			return
		}
		status = Exhausted
	})
	return question, status, err
}

// Next returns the index following the current exam and whether it lies
// beyond the total exam count.
func (s *Shared) Next(ctx context.Context) (next int, exhausted bool, err error) {
	err = s.critical(ctx, func() {
		next = int(s.index.Load()) + 1
		exhausted = next > int(s.total.Load())
	})
	return next, exhausted, err
}

// Install makes exam the active one: student, index and a cleared claim
// array change together. The reserved student id model.NoStudent is
// rejected since it means no exam is loaded.
func (s *Shared) Install(ctx context.Context, exam *model.Exam) error {
	if exam == nil {
		return fmt.Errorf("exam was nil")
	}
	if exam.Student == model.NoStudent {
		return fmt.Errorf("exam %d: student id %s is reserved", exam.Index, model.StudentID(exam.Student))
	}
	return s.critical(ctx, func() {
		s.student.Store(int64(exam.Student))
		s.index.Store(int32(exam.Index))
		s.pause()
		for i := range s.claimed {
			s.claimed[i].Store(false)
		}
	})
}

// Terminate sets the terminate flag. The flag is never cleared.
func (s *Shared) Terminate(ctx context.Context) error {
	return s.critical(ctx, func() {
		s.terminate.Store(true)
	})
}

// Abort sets the terminate flag without taking the lock. It is used when the
// run is cancelled from outside and the lock may no longer be usable.
func (s *Shared) Abort() {
	s.terminate.Store(true)
}

// Snapshot copies the whole record in one critical section.
func (s *Shared) Snapshot(ctx context.Context) (*Snapshot, error) {
	ret := &Snapshot{}
	err := s.critical(ctx, func() {
		ret.Student = int(s.student.Load())
		ret.Index = int(s.index.Load())
		ret.Total = int(s.total.Load())
		ret.Claimed = make([]bool, len(s.claimed))
		for i := range s.claimed {
			ret.Claimed[i] = s.claimed[i].Load()
		}
		ret.Rubric = s.Rubric()
		ret.Terminated = s.terminate.Load()
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Close destroys the lock. The record must not be used afterwards.
func (s *Shared) Close() error {
	return s.lock.Close()
}

func (s *Shared) checkQuestion(question int) error {
	if question < 0 || question >= len(s.claimed) {
		return fmt.Errorf("question %d out of range [0,%d)", question, len(s.claimed))
	}
	return nil
}
