// Package assignment picks the worker who receives a new repair request.
//
// The choice is advisory. Nothing locks a worker's task count between the
// read here and the order write that follows, so two concurrent intakes can
// pick the same worker.
package assignment

import "repair_portal_backend/internal/repairs/domain"

// SelectLeastLoaded returns the active worker with the fewest tasks. Ties go
// to the first such worker in slice order. The boolean is false when no
// active worker exists.
func SelectLeastLoaded(workers []domain.Worker) (domain.Worker, bool) {
	var (
		best  domain.Worker
		found bool
	)
	for _, w := range workers {
		if !w.Active {
			continue
		}
		if !found || w.TaskCount < best.TaskCount {
			best = w
			found = true
		}
	}
	return best, found
}
