// Package services holds the domain services of the fulfillment core: logic
// that spans several aggregates and does not belong to any single one.
//
// The package includes:
//   - Splitter: partitions a new shipment into warehouse-scoped tasks
//   - LockManager: decides lock acquisition, takeover and release for a task
//
// Both services are pure. They read and mutate the aggregates they are given
// and leave persistence to the application layer.
//
// Example:
//
//	splitter, _ := services.NewSplitter(services.DefaultMaxTaskSize)
//	tasks, err := splitter.Split(shipment, now)
//
//	manager := services.NewLockManager(tasklock.DefaultPolicy(), actor.Policy{})
//	decision, err := manager.Acquire(services.AcquireRequest{
//		Task:    task,
//		Current: currentLock,
//		Actor:   worker,
//		Now:     now,
//	})
package services
