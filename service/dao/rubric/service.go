// Package rubric stores the grading rubric as a text document on any afs
// backed location (local file, mem://, cloud storage).
package rubric

import (
	"bytes"
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/marker/model"
	"github.com/viant/marker/service/dao"
	"github.com/viant/marker/service/dao/parser"
)

// Service implements dao.RubricStore.
type Service struct {
	fs        afs.Service
	URL       string
	questions int
}

// Ensure Service implements dao.RubricStore
var _ dao.RubricStore = (*Service)(nil)

// Option customises the service.
type Option func(s *Service)

// WithFs sets the storage service.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// New creates a rubric store for the document at URL holding questions marks.
func New(URL string, questions int, options ...Option) *Service {
	ret := &Service{URL: url.Normalize(URL, file.Scheme), questions: questions}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// Load reads and parses the rubric document.
func (s *Service) Load(ctx context.Context) (model.Rubric, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read rubric %s: %w", s.URL, err)
	}
	marks, err := parser.Rubric(data, s.questions)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dao.ErrMalformed, s.URL, err)
	}
	return model.Rubric(marks), nil
}

// Save overwrites the rubric document.
func (s *Service) Save(ctx context.Context, rubric model.Rubric) error {
	if len(rubric) == 0 {
		return fmt.Errorf("cannot save empty rubric")
	}
	if err := s.fs.Upload(ctx, s.URL, file.DefaultFileOsMode, bytes.NewReader(rubric.Encode())); err != nil {
		return fmt.Errorf("failed to save rubric to %s: %w", s.URL, err)
	}
	return nil
}
