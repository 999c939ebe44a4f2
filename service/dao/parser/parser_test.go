package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRubricLine(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		question    int
		mark        byte
		shouldError bool
	}{
		{description: "saved format", input: "1, A", question: 1, mark: 'A'},
		{description: "spaced comma", input: "2 , B", question: 2, mark: 'B'},
		{description: "no spaces", input: "3,C", question: 3, mark: 'C'},
		{description: "leading whitespace", input: "  4,\tD", question: 4, mark: 'D'},
		{description: "trailing text ignored", input: "5, E extra", question: 5, mark: 'E'},
		{description: "delete byte", input: "6, \x7f", question: 6, mark: 0x7f},
		{description: "high byte", input: "7, \x80", question: 7, mark: 0x80},
		{description: "nul byte", input: "8, \x00", question: 8, mark: 0x00},
		{description: "missing comma", input: "1 A", shouldError: true},
		{description: "missing mark", input: "1,", shouldError: true},
		{description: "blank mark", input: "1,  ", shouldError: true},
		{description: "missing number", input: ", A", shouldError: true},
		{description: "empty", input: "", shouldError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			question, mark, err := RubricLine([]byte(tc.input))
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tc.question, question)
			assert.Equal(t, tc.mark, mark)
		})
	}
}

func TestRubric(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		want        int
		expected    string
		shouldError bool
	}{
		{description: "five questions", input: "1, A\n2, B\n3, C\n4, D\n5, E\n", want: 5, expected: "ABCDE"},
		{description: "crlf and blank lines", input: "1, A\r\n\r\n2, B\r\n", want: 2, expected: "AB"},
		{description: "extra lines ignored", input: "1, A\n2, B\n3, C\n", want: 2, expected: "AB"},
		{description: "too few lines", input: "1, A\n", want: 2, shouldError: true},
		{description: "malformed line", input: "1, A\nbad\n", want: 2, shouldError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := Rubric([]byte(tc.input), tc.want)
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, string(actual))
		})
	}
}

func TestStudent(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    int
		shouldError bool
	}{
		{description: "padded", input: "0101\n", expected: 101},
		{description: "sentinel", input: "9999", expected: 9999},
		{description: "whitespace", input: "  42  \n", expected: 42},
		{description: "text", input: "student", shouldError: true},
		{description: "empty", input: "", shouldError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, err := Student([]byte(tc.input))
			if tc.shouldError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}
