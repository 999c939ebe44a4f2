package model

import (
	"bytes"
	"strconv"
)

// Rubric holds one grading mark per question, in question order.
type Rubric []byte

// Clone returns an independent copy of the rubric.
func (r Rubric) Clone() Rubric {
	if r == nil {
		return nil
	}
	ret := make(Rubric, len(r))
	copy(ret, r)
	return ret
}

// Encode renders the rubric in its text form, one "<question>, <mark>" line
// per question, questions numbered from 1. Marks are written as raw bytes.
func (r Rubric) Encode() []byte {
	buf := bytes.Buffer{}
	for i, mark := range r {
		buf.WriteString(strconv.Itoa(i + 1))
		buf.WriteString(", ")
		buf.WriteByte(mark)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Correction derives a corrected mark from the current one.
type Correction func(mark byte) byte

// NextLetter advances the mark by one character (A -> B). Whitespace bytes
// are skipped since a rubric line cannot hold them; 0xFF wraps to 0x00.
func NextLetter(mark byte) byte {
	next := mark + 1
	for isSpace(next) {
		next++
	}
	return next
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
