package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/marker/model"
)

func TestRubric(t *testing.T) {
	testCases := []struct {
		name      string
		before    model.Rubric
		after     model.Rubric
		questions []int
		contains  []string
	}{
		{
			name:   "unchanged",
			before: model.Rubric("ABCDE"),
			after:  model.Rubric("ABCDE"),
		},
		{
			name:      "two corrections",
			before:    model.Rubric("ABCDE"),
			after:     model.Rubric("ABDDF"),
			questions: []int{2, 4},
			contains:  []string{"--- rubric.txt (initial)", "+++ rubric.txt (final)", "-3, C", "+3, D", "-5, E", "+5, F"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			revision, err := Rubric(tc.before, tc.after, "rubric.txt")
			require.NoError(t, err)
			assert.Equal(t, tc.questions, revision.Questions)
			if len(tc.questions) == 0 {
				assert.False(t, revision.HasChanges())
				assert.Empty(t, revision.Diff)
				return
			}
			assert.True(t, revision.HasChanges())
			for _, fragment := range tc.contains {
				assert.Contains(t, revision.Diff, fragment)
			}
			assert.Greater(t, revision.Added+revision.Changed+revision.Deleted, 0)
		})
	}
}
