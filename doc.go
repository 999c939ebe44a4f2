// Package marker runs a pool of marking workers ("TAs") over one shared exam
// record guarded by a binary semaphore.
//
// The Service loads the rubric and the first exam, starts the workers with
// worker 1 as the leader that advances through exams, waits for every worker
// to exit and reports what happened:
//
//	srv, _ := marker.New(marker.WithWorkers(3))
//	summary, err := srv.Run(ctx)
//
// Setting Config.Baseline runs the same workers without mutual exclusion,
// which exposes double-claimed questions and torn exam transitions.
package marker
