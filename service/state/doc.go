// Package state holds the exam record shared by every marking worker.
//
// Individual fields are stored in atomics so that single-field change
// detection (the active student, the terminate flag) can poll without the
// lock. Everything that must be observed or changed as a unit (student,
// exam index and claim bits; the rubric and its persisted copy) runs in a
// critical section guarded by the lock.Locker the record was created with.
// With lock.Nop those sections interleave freely, which is how the
// unsynchronized baseline exposes lost updates and duplicate claims.
package state
