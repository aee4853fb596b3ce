package course

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/pkg/pagination"
	"github.com/hiredvalley/career-server-go/pkg/types"
	"github.com/hiredvalley/career-server-go/pkg/validation"
)

// Course represents a course in the catalog.
type Course struct {
	types.BaseModel
	MentorID    uuid.UUID      `gorm:"type:uuid;index" json:"mentorId"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	Price       types.Money    `gorm:"type:numeric(12,2);default:0" json:"price"`
	Published   bool           `gorm:"column:is_published;default:false" json:"isPublished"`
}

// TableName specifies the table name for the Course model.
func (Course) TableName() string {
	return "courses"
}

// ListFilter narrows the catalog listing.
type ListFilter struct {
	Category      string
	Search        string
	PublishedOnly bool
}

// List returns courses matching the filter, newest first.
func List(ctx context.Context, db *gorm.DB, filter ListFilter, params pagination.Params) ([]Course, int64, error) {
	query := db.WithContext(ctx).Model(&Course{})

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []Course
	err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Skip).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Get returns a course by ID.
func Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Course, error) {
	var c Course
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetBySlug returns a course by its URL slug.
func GetBySlug(ctx context.Context, db *gorm.DB, slug string) (*Course, error) {
	var c Course
	if err := db.WithContext(ctx).First(&c, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateInput holds the fields accepted when creating a course.
type CreateInput struct {
	MentorID    uuid.UUID
	Title       string
	Slug        string
	Description string
	Category    string
	Tags        []string
	Price       types.Money
	Published   bool
}

// Create inserts a new course after validating title and slug.
func Create(ctx context.Context, db *gorm.DB, input CreateInput) (*Course, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	slug := input.Slug
	if slug == "" {
		slug = validation.Slugify(input.Title)
	}
	slug, err := validation.NormalizeSlug(slug)
	if err != nil {
		return nil, ErrInvalidSlug
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Course{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	c := Course{
		MentorID:    input.MentorID,
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Description: input.Description,
		Category:    input.Category,
		Tags:        input.Tags,
		Price:       input.Price,
		Published:   input.Published,
	}
	if err := db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateInput holds the mutable fields of a course. Nil pointers are left unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string
	Price       *types.Money
	Published   *bool
}

// Update applies partial changes to an existing course.
func Update(ctx context.Context, db *gorm.DB, id uuid.UUID, input UpdateInput) (*Course, error) {
	c, err := Get(ctx, db, id)
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
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Tags != nil {
		updates["tags"] = pq.StringArray(input.Tags)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.Published != nil {
		updates["is_published"] = *input.Published
	}

	if len(updates) == 0 {
		return c, nil
	}

	if err := db.WithContext(ctx).Model(c).Updates(updates).Error; err != nil {
		return nil, err
	}
	return Get(ctx, db, id)
}

// Delete removes a course by ID.
func Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(&Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}
