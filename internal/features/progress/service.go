package progress

import (
	"context"
	"fmt"
	"math"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hiredvalley/career-server-go/internal/features/enrollment"
	"github.com/hiredvalley/career-server-go/internal/features/module"
	"github.com/hiredvalley/career-server-go/pkg/metrics"
)

// Service records module progress and keeps enrollment aggregates in sync.
type Service struct {
	db          *gorm.DB
	logger      *slog.Logger
	locks       *lockTable
	legacyTouch bool
	now         func() time.Time
}

// NewService creates a progress service. When legacyTouch is true the
// access tracker forces enrollments back to in_progress on every touch,
// matching the historical behavior instead of the status transition function.
func NewService(db *gorm.DB, logger *slog.Logger, legacyTouch bool) *Service {
	return &Service{
		db:          db,
		logger:      logger,
		locks:       newLockTable(),
		legacyTouch: legacyTouch,
		now:         time.Now,
	}
}

// RecordInput is one progress submission for a single module.
type RecordInput struct {
	UserID           uuid.UUID
	CourseID         uuid.UUID
	ModuleID         uuid.UUID
	Status           Status
	TimeSpentMinutes int
	Score            *float64
}

// RecordResult separates the durable progress write from the best-effort
// secondary effects so callers can observe each independently.
type RecordResult struct {
	Progress        *ModuleProgress
	AggregateSynced bool
	AccessStamped   bool
}

// Record upserts the module progress row, then synchronously recomputes the
// enrollment aggregate and stamps last access. The upsert is the primary
// write; failures in the two follow-up steps are logged and reported in the
// result but never roll it back.
func (s *Service) Record(ctx context.Context, input RecordInput) (*RecordResult, error) {
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	// Enrollment is the authorization boundary: no writes before this check.
	if _, err := enrollment.GetByUserCourse(ctx, s.db, input.UserID, input.CourseID); err != nil {
		return nil, err
	}

	mod, err := module.Get(ctx, s.db, input.ModuleID)
	if err != nil {
		return nil, err
	}
	if mod.CourseID != input.CourseID {
		return nil, ErrModuleNotInCourse
	}

	key := lockKey(input.UserID, input.CourseID)
	s.locks.acquire(key)
	defer s.locks.release(key)

	row, err := s.upsert(ctx, input)
	if err != nil {
		return nil, err
	}
	metrics.RecordProgressUpdate(string(input.Status))

	result := &RecordResult{Progress: row}

	if _, err := s.Recompute(ctx, input.UserID, input.CourseID); err != nil {
		s.logger.Error("progress aggregate recompute failed",
			"userId", input.UserID, "courseId", input.CourseID, "error", err)
		metrics.RecordSecondaryFailure("aggregate")
	} else {
		result.AggregateSynced = true
	}

	if err := s.touchAccess(ctx, input.UserID, input.CourseID); err != nil {
		s.logger.Error("access touch failed",
			"userId", input.UserID, "courseId", input.CourseID, "error", err)
		metrics.RecordSecondaryFailure("access_touch")
	} else {
		result.AccessStamped = true
	}

	return result, nil
}

// upsert writes the progress row keyed by (user, course, module).
// Timestamps are derived from the incoming status on every call: a repeat
// in_progress submission resets started_at, and a non-completed submission
// clears completed_at. Time spent and score are overwritten, not accumulated.
func (s *Service) upsert(ctx context.Context, input RecordInput) (*ModuleProgress, error) {
	now := s.now()

	var startedAt, completedAt *time.Time
	switch input.Status {
	case StatusInProgress:
		startedAt = &now
	case StatusCompleted:
		completedAt = &now
	}

	row := ModuleProgress{
		UserID:           input.UserID,
		CourseID:         input.CourseID,
		ModuleID:         input.ModuleID,
		Status:           input.Status,
		TimeSpentMinutes: input.TimeSpentMinutes,
		Score:            input.Score,
		StartedAt:        startedAt,
		CompletedAt:      completedAt,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "time_spent_minutes", "score", "started_at", "completed_at", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller sees the stored row, including the original
	// primary key when the conflict path took the update branch.
	var stored ModuleProgress
	err = s.db.WithContext(ctx).
		First(&stored, "user_id = ? AND course_id = ? AND module_id = ?",
			input.UserID, input.CourseID, input.ModuleID).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Recompute derives the enrollment aggregate from scratch: the percentage is
// completed required modules over all required modules, rounded half up, and
// zero when the course has no required modules.
func (s *Service) Recompute(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error) {
	e, err := enrollment.GetByUserCourse(ctx, s.db, userID, courseID)
	if err != nil {
		return nil, err
	}

	requiredIDs, err := module.RequiredIDs(ctx, s.db, courseID)
	if err != nil {
		return nil, err
	}

	var rows []ModuleProgress
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	completedByModule := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if row.Status == StatusCompleted {
			completedByModule[row.ModuleID] = true
		}
	}

	completed := 0
	for _, id := range requiredIDs {
		if completedByModule[id] {
			completed++
		}
	}

	percentage := 0
	if len(requiredIDs) > 0 {
		percentage = int(math.Round(100 * float64(completed) / float64(len(requiredIDs))))
	}

	status := enrollment.Advance(e.Status, percentage)

	updates := map[string]interface{}{
		"progress_percentage": percentage,
		"status":              status,
		"updated_at":          s.now(),
	}
	if status == enrollment.StatusCompleted {
		updates["completed_at"] = s.now()
	} else {
		updates["completed_at"] = nil
	}

	err = s.db.WithContext(ctx).Model(&enrollment.Enrollment{}).
		Where("id = ?", e.ID).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}

	return enrollment.GetByUserCourse(ctx, s.db, userID, courseID)
}

// touchAccess stamps last_accessed_at on the enrollment. The status written
// alongside goes through the same transition function as the aggregator
// unless legacy mode is on, in which case every touch forces in_progress —
// including immediately after a completion.
func (s *Service) touchAccess(ctx context.Context, userID, courseID uuid.UUID) error {
	e, err := enrollment.GetByUserCourse(ctx, s.db, userID, courseID)
	if err != nil {
		return err
	}

	status := enrollment.Advance(e.Status, e.ProgressPercentage)
	if s.legacyTouch {
		status = enrollment.StatusInProgress
	}

	return s.db.WithContext(ctx).Model(&enrollment.Enrollment{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"last_accessed_at": s.now(),
			"status":           status,
			"updated_at":       s.now(),
		}).Error
}

// ListByCourse returns a user's progress rows for one course.
func (s *Service) ListByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]ModuleProgress, error) {
	if _, err := enrollment.GetByUserCourse(ctx, s.db, userID, courseID); err != nil {
		return nil, err
	}

	var rows []ModuleProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func lockKey(userID, courseID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", userID, courseID)
}
