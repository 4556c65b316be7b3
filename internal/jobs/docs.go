// Package jobs provides scheduled background tasks for the mailroom service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// NumberReconciliationJob frees package numbers that are reserved in the
// allocator but held by no live package: registrations that died between
// acquiring a number and saving the package, and releases that failed after a
// package was resolved. Only numbers reserved longer than the grace period are
// considered, so in-flight registrations are never touched.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reconcileHandler, "*/5 * * * *", 10*time.Minute, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed pass is logged and retried on the next tick. Overlapping passes
// are skipped.
package jobs
