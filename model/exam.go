package model

import "fmt"

const (
	// NoStudent is the active student value before any exam has been loaded.
	NoStudent = 0
	// TerminalStudent marks the last exam of a run: finishing it stops every worker.
	TerminalStudent = 9999
)

// Exam is a single loaded exam record.
type Exam struct {
	Index    int    `json:"index" yaml:"index"`
	Student  int    `json:"student" yaml:"student"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// StudentID formats a student identifier the way exam sheets print it.
func StudentID(student int) string {
	return fmt.Sprintf("%04d", student)
}
