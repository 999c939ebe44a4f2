// Package report describes how the rubric changed over a run.
package report

import (
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
	"github.com/viant/marker/model"
)

// Revision is the unified diff between the initial and final rubric.
type Revision struct {
	Diff    string `json:"diff,omitempty"`
	Added   int    `json:"added"`
	Changed int    `json:"changed"`
	Deleted int    `json:"deleted"`
	// Questions lists the zero-based questions whose mark changed.
	Questions []int `json:"questions,omitempty"`
}

// HasChanges reports whether any mark differs.
func (r *Revision) HasChanges() bool {
	return r != nil && len(r.Questions) > 0
}

// Rubric compares two rubrics; location names the document in the diff headers.
func Rubric(before, after model.Rubric, location string) (*Revision, error) {
	ret := &Revision{}
	for i := 0; i < len(before) || i < len(after); i++ {
		if i >= len(before) || i >= len(after) || before[i] != after[i] {
			ret.Questions = append(ret.Questions, i)
		}
	}
	if len(ret.Questions) == 0 {
		return ret, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before.Encode())),
		B:        difflib.SplitLines(string(after.Encode())),
		FromFile: location + " (initial)",
		ToFile:   location + " (final)",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, err
	}
	ret.Diff = text
	fileDiff, err := diff.ParseFileDiff([]byte(text))
	if err != nil {
		return nil, err
	}
	stat := fileDiff.Stat()
	ret.Added, ret.Changed, ret.Deleted = int(stat.Added), int(stat.Changed), int(stat.Deleted)
	return ret, nil
}
