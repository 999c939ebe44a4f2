// Package worker runs one marking worker over the shared exam record: it
// waits for an exam, reviews and corrects the rubric, claims and marks
// questions, and then either advances to the next exam (leader) or waits for
// the leader to do so.
package worker
