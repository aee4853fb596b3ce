package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/pkg/pagination"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

// User represents a platform user.
type User struct {
	types.BaseModel

	FullName     string         `gorm:"type:varchar(60);not null;column:full_name" json:"fullName"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"`
	UserType     types.UserType `gorm:"type:varchar(20);not null;default:'student';column:user_type;index" json:"userType"`
	Provider     *string        `gorm:"type:varchar(20)" json:"provider,omitempty"`
	RefreshToken *string        `gorm:"type:text;column:refresh_token" json:"-"`
	Active       bool           `gorm:"type:boolean;not null;default:true;column:is_active;index" json:"isActive"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// ComparePassword checks a plaintext password against the stored hash.
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// ListFilters defines user query filters.
type ListFilters struct {
	Keyword   string
	UserTypes []types.UserType
}

// CreateInput carries data for creating a new user.
type CreateInput struct {
	FullName string
	Email    string
	Password string
	UserType types.UserType
	Provider *string
	Active   *bool
}

// UpdateInput captures mutable user fields.
type UpdateInput struct {
	FullName *string
	Password *string
	UserType *types.UserType
	Active   *bool
}

// List queries users with filters and pagination.
func List(db *gorm.DB, filters ListFilters, params pagination.Params) ([]User, int64, error) {
	query := db.Model(&User{})

	if filters.Keyword != "" {
		keyword := "%" + strings.ToLower(filters.Keyword) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", keyword, keyword)
	}

	if len(filters.UserTypes) > 0 {
		query = query.Where("user_type IN ?", filters.UserTypes)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := query.
		Order("full_name ASC").
		Offset(params.Skip).
		Limit(params.Limit).
		Find(&users).Error

	return users, total, err
}

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uuid.UUID) (User, error) {
	var usr User
	if err := db.First(&usr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// GetByEmail retrieves a user by email.
func GetByEmail(db *gorm.DB, email string) (User, error) {
	var usr User
	if err := db.First(&usr, "LOWER(email) = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usr, ErrUserNotFound
		}
		return usr, err
	}
	return usr, nil
}

// Create inserts a new user with a hashed password.
func Create(db *gorm.DB, input CreateInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return User{}, ErrEmailRequired
	}

	if _, err := GetByEmail(db, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	userType := input.UserType
	if userType == "" {
		userType = types.UserTypeStudent
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	usr := User{
		FullName: strings.TrimSpace(input.FullName),
		Email:    email,
		Password: string(hashed),
		UserType: userType,
		Provider: input.Provider,
		Active:   active,
	}

	if err := db.Create(&usr).Error; err != nil {
		return User{}, err
	}

	return usr, nil
}

// Update modifies an existing user.
func Update(db *gorm.DB, id uuid.UUID, input UpdateInput) (User, error) {
	usr, err := Get(db, id)
	if err != nil {
		return usr, err
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return usr, ErrNameRequired
		}
		usr.FullName = strings.TrimSpace(*input.FullName)
	}

	if input.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return usr, err
		}
		usr.Password = string(hashed)
	}

	if input.UserType != nil {
		usr.UserType = *input.UserType
	}

	if input.Active != nil {
		usr.Active = *input.Active
	}

	if err := db.Save(&usr).Error; err != nil {
		return usr, err
	}

	return usr, nil
}
