package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/hiredvalley/career-server-go/pkg/types"
)

// Status represents the completion state of a single module for a user.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known progress status.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ModuleProgress records a user's state on one module of a course.
// One row per (user, course, module); repeat submissions update in place.
type ModuleProgress struct {
	types.BaseModel
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_module" json:"userId"`
	CourseID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_module" json:"courseId"`
	ModuleID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_course_module" json:"moduleId"`
	Status           Status     `gorm:"type:varchar(20);default:'not_started'" json:"status"`
	TimeSpentMinutes int        `gorm:"default:0" json:"timeSpentMinutes"`
	Score            *float64   `json:"score"`
	StartedAt        *time.Time `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
}

// TableName specifies the table name for the ModuleProgress model.
func (ModuleProgress) TableName() string {
	return "module_progress"
}
