// Package progress keeps the aggregated counters of a marking run: exams
// loaded, rubric reviews and corrections, questions claimed and finished.
// The tracker travels in the run context so workers update it without a
// global registry.
package progress
