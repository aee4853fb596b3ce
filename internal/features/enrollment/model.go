package enrollment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/features/course"
	"github.com/hiredvalley/career-server-go/pkg/pagination"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

// Status represents the lifecycle state of an enrollment.
type Status string

const (
	StatusEnrolled   Status = "enrolled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Enrollment links a user to a course and tracks overall completion.
type Enrollment struct {
	types.BaseModel
	UserID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"userId"`
	CourseID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course" json:"courseId"`
	Status             Status     `gorm:"type:varchar(20);default:'enrolled'" json:"status"`
	ProgressPercentage int        `gorm:"default:0" json:"progressPercentage"`
	LastAccessedAt     *time.Time `json:"lastAccessedAt"`
	CompletedAt        *time.Time `json:"completedAt"`
}

// TableName specifies the table name for the Enrollment model.
func (Enrollment) TableName() string {
	return "enrollments"
}

// Advance returns the status an enrollment should move to given its
// completion percentage. A course is completed only at 100%; any earlier
// activity puts it in progress, and a completed course whose percentage
// drops back below 100 returns to in_progress.
func Advance(current Status, percentage int) Status {
	if percentage >= 100 {
		return StatusCompleted
	}
	if current == StatusEnrolled && percentage == 0 {
		return StatusEnrolled
	}
	return StatusInProgress
}

// Enroll creates an enrollment for a user in a published course.
func Enroll(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*Enrollment, *course.Course, error) {
	c, err := course.Get(ctx, db, courseID)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return nil, nil, course.ErrCourseNotFound
		}
		return nil, nil, err
	}

	if !c.Published {
		return nil, nil, course.ErrCourseNotAvailable
	}

	var existing int64
	err = db.WithContext(ctx).Model(&Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&existing).Error
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, ErrAlreadyEnrolled
	}

	e := Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   StatusEnrolled,
	}
	if err := db.WithContext(ctx).Create(&e).Error; err != nil {
		// The unique index closes the race between the existence check
		// and the insert when two requests enroll the same pair at once.
		if isUniqueViolation(err) {
			return nil, nil, ErrAlreadyEnrolled
		}
		return nil, nil, err
	}

	return &e, c, nil
}

// GetByUserCourse returns the enrollment for a user/course pair.
func GetByUserCourse(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*Enrollment, error) {
	var e Enrollment
	err := db.WithContext(ctx).
		First(&e, "user_id = ? AND course_id = ?", userID, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	return &e, nil
}

// ListByUser returns a user's enrollments, most recently accessed first.
func ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, params pagination.Params) ([]Enrollment, int64, error) {
	query := db.WithContext(ctx).Model(&Enrollment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enrollments []Enrollment
	err := query.
		Order("last_accessed_at DESC NULLS LAST, created_at DESC").
		Limit(params.Limit).
		Offset(params.Skip).
		Find(&enrollments).Error
	if err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

// ActiveSince returns enrollments touched within the given window.
// Used by the reconcile job to re-derive aggregates for recent activity.
func ActiveSince(ctx context.Context, db *gorm.DB, since time.Time, limit int) ([]Enrollment, error) {
	var enrollments []Enrollment
	err := db.WithContext(ctx).
		Where("last_accessed_at >= ?", since).
		Order("last_accessed_at DESC").
		Limit(limit).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// lib/pq surfaces unique violations as error code 23505; sqlite as
	// a constraint message. Match loosely so both test and prod drivers work.
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}
