// Package parser reads the line-oriented rubric and exam formats.
package parser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/viant/parsly"
)

// RubricLine parses "<question> , <mark>" with optional whitespace around
// the comma. Anything after the mark is ignored.
func RubricLine(line []byte) (question int, mark byte, err error) {
	cursor := parsly.NewCursor("", line, 0)

	matched := cursor.MatchAfterOptional(whitespaceToken, numberToken)
	if matched.Code != numberToken.Code {
		return 0, 0, cursor.NewError(numberToken)
	}
	if question, err = strconv.Atoi(matched.Text(cursor)); err != nil {
		return 0, 0, err
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, commaToken)
	if matched.Code != commaToken.Code {
		return 0, 0, cursor.NewError(commaToken)
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, markToken)
	if matched.Code != markToken.Code {
		return 0, 0, cursor.NewError(markToken)
	}
	return question, matched.Text(cursor)[0], nil
}

// Rubric parses the first want lines of a rubric document, skipping blank
// lines. Marks are taken in line order.
func Rubric(data []byte, want int) ([]byte, error) {
	ret := make([]byte, 0, want)
	for i, line := range bytes.Split(data, []byte("\n")) {
		if len(ret) == want {
			break
		}
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		_, mark, err := RubricLine(line)
		if err != nil {
			return nil, fmt.Errorf("invalid rubric line %d: %w", i+1, err)
		}
		ret = append(ret, mark)
	}
	if len(ret) < want {
		return nil, fmt.Errorf("rubric has %d marks, expected %d", len(ret), want)
	}
	return ret, nil
}

// Student parses the leading integer of an exam document.
func Student(data []byte) (int, error) {
	cursor := parsly.NewCursor("", data, 0)
	matched := cursor.MatchAfterOptional(whitespaceToken, numberToken)
	if matched.Code != numberToken.Code {
		return 0, cursor.NewError(numberToken)
	}
	return strconv.Atoi(matched.Text(cursor))
}
