package marker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(c *Config)
		expectErr   string
	}{
		{description: "defaults", mutate: func(c *Config) {}},
		{description: "single worker", mutate: func(c *Config) { c.Workers = 1 }, expectErr: "workers"},
		{description: "leader out of range", mutate: func(c *Config) { c.Leader = 3 }, expectErr: "leader"},
		{description: "no questions", mutate: func(c *Config) { c.Questions = 0 }, expectErr: "questions"},
		{description: "no exams", mutate: func(c *Config) { c.MaxExams = 0 }, expectErr: "maxExams"},
		{description: "sentinel collides with no student", mutate: func(c *Config) { c.Sentinel = 0 }, expectErr: "sentinel"},
		{description: "correction rate", mutate: func(c *Config) { c.CorrectionRate = 1.5 }, expectErr: "correctionRate"},
		{description: "inverted review delay", mutate: func(c *Config) { c.Delays.Review.Max = time.Millisecond }, expectErr: "delays.review"},
		{description: "zero poll", mutate: func(c *Config) { c.Delays.Poll.Min, c.Delays.Poll.Max = 0, 0 }, expectErr: "delays.poll"},
		{description: "missing rubric", mutate: func(c *Config) { c.Storage.RubricURL = "" }, expectErr: "rubricURL"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			cfg := DefaultConfig()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if testCase.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.expectErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	URL := "mem://localhost/marker/config/marker.yaml"
	document := `workers: 4
baseline: true
maxExams: 3
delays:
  review:
    min: 10ms
    max: 20ms
  claimWindow: 1ms
storage:
  rubricURL: /tmp/marker/rubric.txt
  examsURL: /tmp/marker/exams
`
	require.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(document)))

	cfg, err := LoadConfig(ctx, URL)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Baseline)
	assert.Equal(t, 3, cfg.MaxExams)
	assert.Equal(t, 10*time.Millisecond, cfg.Delays.Review.Min)
	assert.Equal(t, 20*time.Millisecond, cfg.Delays.Review.Max)
	assert.Equal(t, time.Millisecond, cfg.Delays.ClaimWindow)
	assert.Equal(t, "/tmp/marker/rubric.txt", cfg.Storage.RubricURL)
	assert.Equal(t, 5, cfg.Questions)
	assert.Equal(t, 1, cfg.Leader)
	assert.Equal(t, time.Second, cfg.Delays.Marking.Min)

	invalidURL := "mem://localhost/marker/config/invalid.yaml"
	require.NoError(t, fs.Upload(ctx, invalidURL, file.DefaultFileOsMode, strings.NewReader("workers: 1\n")))
	_, err = LoadConfig(ctx, invalidURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be >= 2")

	_, err = LoadConfig(ctx, "mem://localhost/marker/config/absent.yaml")
	assert.Error(t, err)
}
