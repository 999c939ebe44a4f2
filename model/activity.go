package model

// ActivityKind classifies a worker activity.
type ActivityKind string

const (
	ActivityTransition  ActivityKind = "transition"
	ActivityReview      ActivityKind = "review"
	ActivityCorrection  ActivityKind = "correction"
	ActivityClaim       ActivityKind = "claim"
	ActivityFinish      ActivityKind = "finish"
	ActivityAllMarked   ActivityKind = "allMarked"
	ActivityExamChanged ActivityKind = "examChanged"
	ActivityLoad        ActivityKind = "load"
	ActivityTerminate   ActivityKind = "terminate"
	ActivityExit        ActivityKind = "exit"
)

// Activity is what a worker reports about its progress. Worker 0 denotes the
// coordinator; Question is a zero-based index, -1 when not applicable.
type Activity struct {
	Worker   int          `json:"worker"`
	Kind     ActivityKind `json:"kind"`
	State    string       `json:"state,omitempty"`
	Exam     int          `json:"exam"`
	Student  int          `json:"student"`
	Question int          `json:"question"`
	Old      byte         `json:"old,omitempty"`
	New      byte         `json:"new,omitempty"`
}
