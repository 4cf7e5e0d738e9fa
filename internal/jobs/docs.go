// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field) and are
// managed through JobManager:
//
//	jobManager := jobs.NewJobManager(dispatchJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// StatisticsDispatchJob hands task reports waiting in the statistics outbox
// to the external points engine. Its schedule defaults to every five seconds.
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. A failed start stops
// every job that was already running.
package jobs
