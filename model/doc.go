// Package model defines the data marked by the worker pool: the grading
// rubric, exam records and the activities workers report while marking.
package model
