package jobs

import (
	"context"
	"log/slog"
	"time"

	"mailroom/internal/core/application/usecases/commands"
	"mailroom/internal/metrics"

	"github.com/robfig/cron/v3"
)

// DefaultReconciliationSchedule runs the job every five minutes.
const DefaultReconciliationSchedule = "*/5 * * * *"

// ReconcileNumbersHandler is the command handler the job drives.
type ReconcileNumbersHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileNumbersCommand) (int, error)
}

// NumberReconciliationJob periodically frees package numbers that stayed
// reserved without a live package.
type NumberReconciliationJob struct {
	handler  ReconcileNumbersHandler
	schedule string
	grace    time.Duration
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNumberReconciliationJob creates the job. schedule is a standard
// five-field cron expression; an empty schedule selects
// DefaultReconciliationSchedule.
func NewNumberReconciliationJob(
	handler ReconcileNumbersHandler,
	schedule string,
	grace time.Duration,
	logger *slog.Logger,
) *NumberReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconciliationSchedule
	}
	return &NumberReconciliationJob{
		handler:  handler,
		schedule: schedule,
		grace:    grace,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "number_reconciliation_job"),
	}
}

// Start schedules the job. An invalid schedule is returned as an error.
func (j *NumberReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Number reconciliation job started",
		"schedule", j.schedule,
		"grace", j.grace.String(),
	)
	return nil
}

// RunOnce performs a single reconciliation pass and returns how many numbers
// it released.
func (j *NumberReconciliationJob) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewReconcileNumbersCommand(j.grace)
	if err != nil {
		j.logger.ErrorContext(ctx, "Number reconciliation job misconfigured", "error", err)
		return 0
	}

	released, err := j.handler.Handle(ctx, cmd)
	metrics.RecordReconciled(released)
	if err != nil {
		j.logger.ErrorContext(ctx, "Number reconciliation job failed", "error", err, "released", released)
		return released
	}

	if released > 0 {
		j.logger.InfoContext(ctx, "Number reconciliation job released numbers", "released", released)
	}
	return released
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *NumberReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Number reconciliation job stopped")
}
