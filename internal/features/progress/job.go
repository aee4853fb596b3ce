package progress

import (
	"context"
	"time"

	"log/slog"

	"github.com/hiredvalley/career-server-go/internal/features/enrollment"
)

const reconcileBatchSize = 200

// ReconcileJob re-derives aggregates for recently active enrollments.
// Secondary-effect failures during request handling leave percentages
// stale; the full recompute is self-healing, so re-running it on a
// schedule closes those gaps.
type ReconcileJob struct {
	service *Service
	logger  *slog.Logger
	window  time.Duration
}

// NewReconcileJob creates a reconcile job covering enrollments accessed
// within the given window.
func NewReconcileJob(service *Service, logger *slog.Logger, window time.Duration) *ReconcileJob {
	return &ReconcileJob{service: service, logger: logger, window: window}
}

// Name returns the job identifier used by the scheduler.
func (j *ReconcileJob) Name() string {
	return "progress-reconcile"
}

// Execute recomputes the aggregate for every enrollment touched in the window.
func (j *ReconcileJob) Execute(ctx context.Context) error {
	since := time.Now().Add(-j.window)

	enrollments, err := enrollment.ActiveSince(ctx, j.service.db, since, reconcileBatchSize)
	if err != nil {
		return err
	}

	var failed int
	for _, e := range enrollments {
		key := lockKey(e.UserID, e.CourseID)
		j.service.locks.acquire(key)
		_, err := j.service.Recompute(ctx, e.UserID, e.CourseID)
		j.service.locks.release(key)

		if err != nil {
			failed++
			j.logger.Warn("reconcile recompute failed",
				"userId", e.UserID, "courseId", e.CourseID, "error", err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	j.logger.Info("progress reconcile pass finished",
		"checked", len(enrollments), "failed", failed)
	return nil
}
