package dao

import (
	"context"

	"github.com/viant/marker/model"
)

// RubricStore loads and persists the grading rubric.
type RubricStore interface {
	// Load reads the whole rubric; any malformed line fails the load.
	Load(ctx context.Context) (model.Rubric, error)

	// Save overwrites the stored rubric with all marks.
	Save(ctx context.Context, rubric model.Rubric) error
}

// ExamSource loads exam records by their 1-based index.
type ExamSource interface {
	// Load returns the exam at index, ErrNotFound when there is none, or
	// ErrMalformed when its content cannot be read as a student id.
	Load(ctx context.Context, index int) (*model.Exam, error)
}
