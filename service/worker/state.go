package worker

import "fmt"

// State is a worker's position in its marking loop.
type State int

const (
	// Idle is the state before Run.
	Idle State = iota
	// WaitingForExam polls until the first exam is loaded.
	WaitingForExam
	// ReviewingRubric reads and possibly corrects every rubric mark.
	ReviewingRubric
	// Marking claims questions of the current exam.
	Marking
	// Advancing is the leader loading the next exam.
	Advancing
	// WaitingForNext polls until the active exam changes.
	WaitingForNext
	// Terminated is final; the worker has exited.
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WaitingForExam:
		return "waitingForExam"
	case ReviewingRubric:
		return "reviewingRubric"
	case Marking:
		return "marking"
	case Advancing:
		return "advancing"
	case WaitingForNext:
		return "waitingForNext"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
