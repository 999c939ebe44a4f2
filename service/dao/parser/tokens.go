package parser

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	numberCode
	commaCode
	markCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	numberToken     = parsly.NewToken(numberCode, "Number", &numberMatcher{})
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	markToken       = parsly.NewToken(markCode, "Mark", &markMatcher{})
)

// numberMatcher matches an optionally signed run of decimal digits.
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	matched := 0
	if input[pos] == '-' || input[pos] == '+' {
		matched++
	}
	digits := 0
	for i := pos + matched; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	return matched + digits
}

// markMatcher matches exactly one byte that is not whitespace. Bytes outside
// printable ASCII are accepted so every rubric the store writes loads back.
type markMatcher struct{}

func (m *markMatcher) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	if pos >= cursor.InputSize {
		return 0
	}
	if isSpace(cursor.Input[pos]) {
		return 0
	}
	return 1
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
