// Package notification delivers "your package arrived" messages to residents.
//
// Delivery is decoupled from registration: the Dispatcher accepts
// notifications on a bounded queue and a single worker hands them to a
// ports.NotificationSender. A notification that cannot be queued or sent is
// turned into a NOTIFICATION_FAILED record for staff follow-up; it never
// fails the registration that produced it.
package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"mailroom/internal/core/domain/model/failure"
	"mailroom/internal/core/domain/model/kernel"
	"mailroom/internal/core/ports"
	"mailroom/internal/metrics"
)

// Notification outcomes reported to metrics.
const (
	OutcomeSent      = "sent"
	OutcomeFailed    = "failed"
	OutcomeQueueFull = "queue_full"
	OutcomeDropped   = "dropped"
)

var ErrDispatcherStopped = errors.New("notification dispatcher is stopped")

// Dispatcher is a bounded asynchronous notification queue.
//
// Example:
//
//	d := NewDispatcher(sender, failures, kernel.SystemClock{}, logger, 100, 10*time.Second)
//	d.Start()
//	defer d.Stop(ctx)
//	d.Enqueue(ctx, n) // never blocks
type Dispatcher struct {
	sender      ports.NotificationSender
	failures    ports.FailureRepository
	clock       kernel.Clock
	logger      *slog.Logger
	sendTimeout time.Duration

	queue chan ports.Notification
	wg    sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

func NewDispatcher(
	sender ports.NotificationSender,
	failures ports.FailureRepository,
	clock kernel.Clock,
	logger *slog.Logger,
	capacity int,
	sendTimeout time.Duration,
) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Dispatcher{
		sender:      sender,
		failures:    failures,
		clock:       clock,
		logger:      logger.With("component", "NotificationDispatcher"),
		sendTimeout: sendTimeout,
		queue:       make(chan ports.Notification, capacity),
	}
}

// Start launches the worker. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	d.wg.Add(1)
	go d.run()
}

// Enqueue queues n for delivery without waiting. If the queue is full or the
// dispatcher is stopped the notification is recorded as failed instead.
func (d *Dispatcher) Enqueue(ctx context.Context, n ports.Notification) {
	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		d.fail(ctx, n, OutcomeDropped, ErrDispatcherStopped)
		return
	}

	select {
	case d.queue <- n:
		d.mu.RUnlock()
		metrics.NotificationQueueDepth.Inc()
	default:
		d.mu.RUnlock()
		d.fail(ctx, n, OutcomeQueueFull, errors.New("notification queue is full"))
	}
}

// Stop closes the queue and waits until the worker has drained it or ctx is
// done, whichever comes first.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		for n := range d.queue {
			metrics.NotificationQueueDepth.Dec()
			d.fail(ctx, n, OutcomeDropped, ErrDispatcherStopped)
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification queue drained")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for n := range d.queue {
		metrics.NotificationQueueDepth.Dec()
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n ports.Notification) {
	ctx := context.Background()
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}

	if err := d.sender.Send(ctx, n); err != nil {
		d.fail(ctx, n, OutcomeFailed, err)
		return
	}

	metrics.RecordNotification(OutcomeSent)
	d.logger.Debug("notification sent",
		"package_id", n.ParcelID.String(),
		"number", n.PackageNumber,
	)
}

func (d *Dispatcher) fail(ctx context.Context, n ports.Notification, outcome string, cause error) {
	metrics.RecordNotification(outcome)
	d.logger.Warn("notification not delivered",
		"package_id", n.ParcelID.String(),
		"mailroom_id", n.MailroomID.String(),
		"outcome", outcome,
		"error", cause,
	)

	record, err := failure.NewNotificationFailure(
		kernel.NewUUID(),
		n.MailroomID,
		n.ParcelID,
		n.StudentID,
		cause.Error(),
		d.clock.Now(),
	)
	if err == nil {
		err = d.failures.Add(context.WithoutCancel(ctx), record)
	}
	if err != nil {
		d.logger.Error("failed to record notification failure",
			"package_id", n.ParcelID.String(),
			"error", err,
		)
	}
}
