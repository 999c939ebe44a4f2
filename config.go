package marker

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/marker/model"
	"github.com/viant/marker/service/dao/exam"
	"github.com/viant/marker/service/worker"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of a marking run. Fields left
// out of a YAML document keep their DefaultConfig values.
type Config struct {
	Workers        int     `json:"workers" yaml:"workers"`
	Leader         int     `json:"leader" yaml:"leader"`
	Questions      int     `json:"questions" yaml:"questions"`
	MaxExams       int     `json:"maxExams" yaml:"maxExams"`
	Sentinel       int     `json:"sentinel" yaml:"sentinel"`
	Baseline       bool    `json:"baseline" yaml:"baseline"`
	CorrectionRate float64 `json:"correctionRate" yaml:"correctionRate"`

	Delays  DelayConfig   `json:"delays" yaml:"delays"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// DelayConfig holds the simulated work and polling delays.
type DelayConfig struct {
	Review  worker.Delay `json:"review" yaml:"review"`
	Marking worker.Delay `json:"marking" yaml:"marking"`
	Poll    worker.Delay `json:"poll" yaml:"poll"`
	// ClaimWindow pauses between reading and writing claim and exam fields.
	ClaimWindow time.Duration `json:"claimWindow,omitempty" yaml:"claimWindow,omitempty"`
}

// StorageConfig locates the rubric and the exam documents.
type StorageConfig struct {
	RubricURL   string `json:"rubricURL" yaml:"rubricURL"`
	ExamsURL    string `json:"examsURL" yaml:"examsURL"`
	ExamPattern string `json:"examPattern" yaml:"examPattern"`
}

// TracingConfig enables the stdout span exporter.
type TracingConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Output is a file path; empty means stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// DefaultConfig returns the settings of the classic five question run.
func DefaultConfig() *Config {
	return &Config{
		Workers:        2,
		Leader:         1,
		Questions:      5,
		MaxExams:       20,
		Sentinel:       model.TerminalStudent,
		CorrectionRate: 0.5,
		Delays: DelayConfig{
			Review:  worker.Delay{Min: 500 * time.Millisecond, Max: time.Second},
			Marking: worker.Delay{Min: time.Second, Max: 2 * time.Second},
			Poll:    worker.Delay{Min: 50 * time.Millisecond, Max: 100 * time.Millisecond},
		},
		Storage: StorageConfig{
			RubricURL:   "rubric.txt",
			ExamsURL:    "exams",
			ExamPattern: exam.DefaultPattern,
		},
	}
}

// Validate returns the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if c.Workers < 2 {
		return fmt.Errorf("workers must be >= 2, got %d", c.Workers)
	}
	if c.Leader < 1 || c.Leader > c.Workers {
		return fmt.Errorf("leader must be in [1,%d], got %d", c.Workers, c.Leader)
	}
	if c.Questions <= 0 {
		return fmt.Errorf("questions must be > 0, got %d", c.Questions)
	}
	if c.MaxExams <= 0 {
		return fmt.Errorf("maxExams must be > 0, got %d", c.MaxExams)
	}
	if c.Sentinel == model.NoStudent {
		return fmt.Errorf("sentinel must not be %d", model.NoStudent)
	}
	if c.CorrectionRate < 0 || c.CorrectionRate > 1 {
		return fmt.Errorf("correctionRate must be in [0,1], got %v", c.CorrectionRate)
	}
	if err := c.Delays.Review.Validate("delays.review"); err != nil {
		return err
	}
	if err := c.Delays.Marking.Validate("delays.marking"); err != nil {
		return err
	}
	if err := c.Delays.Poll.Validate("delays.poll"); err != nil {
		return err
	}
	if c.Delays.Poll.Max <= 0 {
		return fmt.Errorf("delays.poll.max must be > 0")
	}
	if c.Delays.ClaimWindow < 0 {
		return fmt.Errorf("delays.claimWindow must be >= 0, got %v", c.Delays.ClaimWindow)
	}
	if c.Storage.RubricURL == "" {
		return fmt.Errorf("storage.rubricURL was empty")
	}
	if c.Storage.ExamsURL == "" {
		return fmt.Errorf("storage.examsURL was empty")
	}
	return nil
}

// LoadConfig reads a YAML config from URL on top of DefaultConfig.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return ret, nil
}
