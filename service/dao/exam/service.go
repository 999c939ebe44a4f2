// Package exam reads exam records, one document per exam named after its
// zero-padded index (exam01.txt, exam02.txt, ...).
package exam

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/marker/model"
	"github.com/viant/marker/service/dao"
	"github.com/viant/marker/service/dao/parser"
)

// DefaultPattern names exam documents by index.
const DefaultPattern = "exam%02d.txt"

// Service implements dao.ExamSource.
type Service struct {
	fs      afs.Service
	baseURL string
	pattern string
}

// Ensure Service implements dao.ExamSource
var _ dao.ExamSource = (*Service)(nil)

// Option customises the service.
type Option func(s *Service)

// WithFs sets the storage service.
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithPattern sets the fmt pattern turning an index into a document name.
func WithPattern(pattern string) Option {
	return func(s *Service) {
		if pattern != "" {
			s.pattern = pattern
		}
	}
}

// New creates an exam source reading documents under baseURL.
func New(baseURL string, options ...Option) *Service {
	ret := &Service{baseURL: url.Normalize(baseURL, file.Scheme), pattern: DefaultPattern}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// Location returns the URL of the exam document with the given index.
func (s *Service) Location(index int) string {
	return url.Join(s.baseURL, fmt.Sprintf(s.pattern, index))
}

// Load reads the exam at index. A student id equal to model.NoStudent is
// malformed content.
func (s *Service) Load(ctx context.Context, index int) (*model.Exam, error) {
	if index <= 0 {
		return nil, fmt.Errorf("%w: exam index %d", dao.ErrNotFound, index)
	}
	location := s.Location(index)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check if exam %s exists: %w", location, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", dao.ErrNotFound, location)
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read exam %s: %w", location, err)
	}
	student, err := parser.Student(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dao.ErrMalformed, location, err)
	}
	if student == model.NoStudent {
		return nil, fmt.Errorf("%w: %s: student id %s is reserved", dao.ErrMalformed, location, model.StudentID(student))
	}
	return &model.Exam{Index: index, Student: student, Location: location}, nil
}
