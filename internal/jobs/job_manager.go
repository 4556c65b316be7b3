package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	numberReconciliationJob *NumberReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	reconcileHandler ReconcileNumbersHandler,
	reconcileSchedule string,
	reconcileGrace time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		numberReconciliationJob: NewNumberReconciliationJob(reconcileHandler, reconcileSchedule, reconcileGrace, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.numberReconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start number reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.numberReconciliationJob.Stop()
}
