package rubric

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/marker/model"
	"github.com/viant/marker/service/dao"
)

func TestService_Load(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()

	testCases := []struct {
		name        string
		URL         string
		content     string
		questions   int
		expected    model.Rubric
		malformed   bool
		shouldError bool
	}{
		{
			name:      "valid rubric",
			URL:       "mem://localhost/rubric/valid/rubric.txt",
			content:   "1, A\n2, B\n3, C\n4, D\n5, E\n",
			questions: 5,
			expected:  model.Rubric("ABCDE"),
		},
		{
			name:        "malformed line",
			URL:         "mem://localhost/rubric/malformed/rubric.txt",
			content:     "1, A\n2 B\n",
			questions:   2,
			malformed:   true,
			shouldError: true,
		},
		{
			name:        "missing document",
			URL:         "mem://localhost/rubric/missing/rubric.txt",
			questions:   2,
			shouldError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.content != "" {
				err := fs.Upload(ctx, tc.URL, file.DefaultFileOsMode, bytes.NewReader([]byte(tc.content)))
				assert.NoError(t, err)
			}
			srv := New(tc.URL, tc.questions, WithFs(fs))
			actual, err := srv.Load(ctx)
			if tc.shouldError {
				assert.Error(t, err)
				assert.Equal(t, tc.malformed, errors.Is(err, dao.ErrMalformed))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestService_SaveLoad(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	URL := "mem://localhost/rubric/roundtrip/rubric.txt"
	srv := New(URL, 3, WithFs(fs))

	assert.Error(t, srv.Save(ctx, nil))
	assert.NoError(t, srv.Save(ctx, model.Rubric("XYZ")))

	data, err := fs.DownloadWithURL(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, "1, X\n2, Y\n3, Z\n", string(data))

	assert.NoError(t, srv.Save(ctx, model.Rubric("XYA")))
	actual, err := srv.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, model.Rubric("XYA"), actual)
}

func TestService_SaveLoadBeyondPrintable(t *testing.T) {
	fs := afs.New()
	ctx := context.Background()
	URL := "mem://localhost/rubric/beyond/rubric.txt"
	srv := New(URL, 5, WithFs(fs))

	rubric := model.Rubric{'~', 0x7f, 0x80, 0xff, 0x00}
	assert.NoError(t, srv.Save(ctx, rubric))
	data, err := fs.DownloadWithURL(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, []byte("1, ~\n2, \x7f\n3, \x80\n4, \xff\n5, \x00\n"), data)

	actual, err := srv.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, rubric, actual)

	corrected := rubric.Clone()
	for i := range corrected {
		corrected[i] = model.NextLetter(corrected[i])
	}
	assert.NoError(t, srv.Save(ctx, corrected))
	actual, err = srv.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, corrected, actual)
}
