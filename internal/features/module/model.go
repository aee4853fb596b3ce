package module

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/pkg/types"
)

// Module represents a single unit of course content.
type Module struct {
	types.BaseModel
	CourseID        uuid.UUID `gorm:"type:uuid;index;not null" json:"courseId"`
	Title           string    `gorm:"not null" json:"title"`
	Content         string    `gorm:"type:text" json:"content"`
	Order           int       `gorm:"column:sort_order;default:0" json:"order"`
	DurationMinutes int       `gorm:"default:0" json:"durationMinutes"`
	Required        bool      `gorm:"column:is_required" json:"isRequired"`
}

// TableName specifies the table name for the Module model.
func (Module) TableName() string {
	return "modules"
}

// ListByCourse returns all modules of a course in display order.
func ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]Module, error) {
	var modules []Module
	err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// RequiredIDs returns the IDs of required modules in a course.
func RequiredIDs(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).
		Model(&Module{}).
		Where("course_id = ? AND is_required = ?", courseID, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Get returns a module by ID.
func Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Module, error) {
	var m Module
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CreateInput holds the fields accepted when creating a module.
type CreateInput struct {
	CourseID        uuid.UUID
	Title           string
	Content         string
	Order           int
	DurationMinutes int
	Required        bool
}

// Create inserts a new module into a course.
func Create(ctx context.Context, db *gorm.DB, input CreateInput) (*Module, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.CourseID == uuid.Nil {
		return nil, ErrCourseRequired
	}

	m := Module{
		CourseID:        input.CourseID,
		Title:           strings.TrimSpace(input.Title),
		Content:         input.Content,
		Order:           input.Order,
		DurationMinutes: input.DurationMinutes,
		Required:        input.Required,
	}
	if err := db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateInput holds the mutable fields of a module. Nil pointers are left unchanged.
type UpdateInput struct {
	Title           *string
	Content         *string
	Order           *int
	DurationMinutes *int
	Required        *bool
}

// Update applies partial changes to an existing module.
func Update(ctx context.Context, db *gorm.DB, id uuid.UUID, input UpdateInput) (*Module, error) {
	m, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if input.DurationMinutes != nil {
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Required != nil {
		updates["is_required"] = *input.Required
	}

	if len(updates) == 0 {
		return m, nil
	}

	if err := db.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, err
	}
	return Get(ctx, db, id)
}

// Delete removes a module by ID.
func Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&Module{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrModuleNotFound
	}
	return nil
}
