package exam

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
	baseURL := "mem://localhost/exam/load"
	files := map[string]string{
		baseURL + "/exam01.txt": "0101\n",
		baseURL + "/exam02.txt": "9999\n",
		baseURL + "/exam03.txt": "not a number\n",
		baseURL + "/exam05.txt": "0000\n",
	}
	for URL, content := range files {
		assert.NoError(t, fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader([]byte(content))))
	}
	srv := New(baseURL, WithFs(fs))

	testCases := []struct {
		name     string
		index    int
		expected *model.Exam
		expect   error
	}{
		{name: "first", index: 1, expected: &model.Exam{Index: 1, Student: 101, Location: baseURL + "/exam01.txt"}},
		{name: "sentinel", index: 2, expected: &model.Exam{Index: 2, Student: model.TerminalStudent, Location: baseURL + "/exam02.txt"}},
		{name: "malformed", index: 3, expect: dao.ErrMalformed},
		{name: "missing", index: 4, expect: dao.ErrNotFound},
		{name: "invalid index", index: 0, expect: dao.ErrNotFound},
		{name: "reserved student id", index: 5, expect: dao.ErrMalformed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := srv.Load(ctx, tc.index)
			if tc.expect != nil {
				assert.True(t, errors.Is(err, tc.expect), "%v", err)
				assert.True(t, dao.IsNoMoreWork(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestService_Location(t *testing.T) {
	srv := New("mem://localhost/exam/location", WithPattern("sheet-%03d.txt"))
	assert.Equal(t, "mem://localhost/exam/location/sheet-007.txt", srv.Location(7))
}
