package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/tower15/internal/models"
)

const (
	reconcileBatchSize = 25
	// minSyncLease outlasts a Hosthub push including its timeout.
	minSyncLease = 2 * time.Minute
)

// Reconciler retries reservations that were paid but never reached the channel manager.
type Reconciler struct {
	tasks       models.SyncTaskRepo
	writer      ReservationWriter
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger
}

func NewReconciler(tasks models.SyncTaskRepo, writer ReservationWriter, interval time.Duration, maxAttempts int, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		tasks:       tasks,
		writer:      writer,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// lease is how long a claimed task stays reserved for the claiming worker.
func (r *Reconciler) lease() time.Duration {
	return max(r.interval, minSyncLease)
}

type ReconcileReport struct {
	Skipped   int `json:"skipped"`
	Attempted int `json:"attempted"`
	Resolved  int `json:"resolved"`
	Failed    int `json:"failed"`
	Abandoned int `json:"abandoned"`
}

// Run reconciles immediately, then on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) error {
	if r.interval <= 0 {
		return fmt.Errorf("reconcile interval must be positive")
	}
	t := time.NewTicker(r.interval)
	defer t.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.tick(ctx)
		}
	}
}

func (r *Reconciler) tick(ctx context.Context) {
	rep, err := r.RunOnce(ctx)
	if err != nil {
		r.logger.Error("reconcile pass failed", "error", err)
		return
	}
	if rep.Attempted > 0 || rep.Skipped > 0 {
		r.logger.Info("reconcile pass finished",
			"attempted", rep.Attempted,
			"skipped", rep.Skipped,
			"resolved", rep.Resolved,
			"failed", rep.Failed,
			"abandoned", rep.Abandoned,
		)
	}
}

// RunOnce works through one batch of due tasks, oldest first. Each task is claimed
// before it is pushed, so concurrent passes from other replicas, the CLI or an
// operator retry never push the same reservation twice.
func (r *Reconciler) RunOnce(ctx context.Context) (ReconcileReport, error) {
	var rep ReconcileReport
	tasks, err := r.tasks.ListDueSyncTasks(ctx, reconcileBatchSize)
	if err != nil {
		return rep, err
	}

	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		claimed, err := r.tasks.ClaimSyncTask(ctx, t.ID.Hex(), r.lease(), false)
		if errors.Is(err, models.ErrSyncTaskBusy) {
			rep.Skipped++
			continue
		}
		if err != nil {
			r.logger.Error("failed to claim sync task", "task_id", t.ID.Hex(), "error", err)
			rep.Skipped++
			continue
		}

		rep.Attempted++
		res, err := r.attempt(ctx, claimed)
		if err != nil {
			r.logger.Error("failed to record reconcile attempt", "task_id", t.ID.Hex(), "error", err)
		}
		switch res {
		case models.SyncTaskResolved:
			rep.Resolved++
		case models.SyncTaskAbandoned:
			rep.Abandoned++
		default:
			rep.Failed++
		}
	}
	return rep, nil
}

// attempt pushes a claimed task once and records the result. It returns the task's new status.
func (r *Reconciler) attempt(ctx context.Context, t *models.SyncTask) (models.SyncTaskStatus, error) {
	id := t.ID.Hex()
	remoteID, pushErr := r.writer.PushBooking(ctx, t.Push)
	if pushErr == nil {
		r.logger.Info("sync task resolved", "task_id", id, "booking_id", t.BookingID, "remote_reservation_id", remoteID)
		return models.SyncTaskResolved, r.tasks.ResolveSyncTask(ctx, id, remoteID)
	}

	next := models.SyncTaskPending
	if t.Attempts+1 >= r.maxAttempts {
		next = models.SyncTaskAbandoned
		r.logger.Error("sync task abandoned, manual reconciliation required",
			"task_id", id, "booking_id", t.BookingID, "attempts", t.Attempts+1, "error", pushErr)
	} else {
		r.logger.Warn("sync task retry failed", "task_id", id, "booking_id", t.BookingID, "error", pushErr)
	}
	if err := r.tasks.RecordSyncFailure(ctx, id, pushErr.Error(), next); err != nil {
		return models.SyncTaskPending, err
	}
	return next, nil
}

// Retry pushes one task now, regardless of its attempt count. Abandoned tasks may be
// retried by an operator and stay abandoned if the push fails again; resolved ones are
// returned unchanged. A task another worker is pushing yields ErrSyncTaskBusy.
func (r *Reconciler) Retry(ctx context.Context, id string) (*models.SyncTask, error) {
	t, err := r.tasks.GetSyncTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == models.SyncTaskResolved {
		return t, nil
	}
	next := models.SyncTaskPending
	if t.Status == models.SyncTaskAbandoned {
		next = models.SyncTaskAbandoned
	}

	claimed, err := r.tasks.ClaimSyncTask(ctx, id, r.lease(), true)
	if err != nil {
		return nil, err
	}

	remoteID, pushErr := r.writer.PushBooking(ctx, claimed.Push)
	if pushErr != nil {
		if err := r.tasks.RecordSyncFailure(ctx, id, pushErr.Error(), next); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("retry failed: %v", pushErr)
	}
	if err := r.tasks.ResolveSyncTask(ctx, id, remoteID); err != nil {
		return nil, err
	}
	return r.tasks.GetSyncTask(ctx, id)
}

func (r *Reconciler) List(ctx context.Context, status models.SyncTaskStatus, limit int) ([]*models.SyncTask, error) {
	tasks, err := r.tasks.ListSyncTasks(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*models.SyncTask{}
	}
	return tasks, nil
}
