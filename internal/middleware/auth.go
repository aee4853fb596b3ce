package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/utils/jwt"
	"github.com/hiredvalley/career-server-go/pkg/response"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

// User represents the authenticated user in middleware context.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;primaryKey" json:"id"`
	Email     string         `gorm:"column:email" json:"email"`
	FullName  string         `gorm:"column:full_name" json:"fullName"`
	UserType  types.UserType `gorm:"column:user_type" json:"userType"`
	Active    bool           `gorm:"column:is_active" json:"isActive"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Global instance to be initialized once at startup
var global *AuthMiddleware

// AuthMiddleware holds dependencies for authentication middleware.
type AuthMiddleware struct {
	db        *gorm.DB
	jwtSecret string
	logger    *slog.Logger
}

// Initialize sets up the global middleware instance (call once at startup).
func Initialize(db *gorm.DB, jwtSecret string, logger *slog.Logger) {
	global = &AuthMiddleware{
		db:        db,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// RequireRoles authorizes users based on their user type. SUPERADMIN always has access.
func RequireRoles(roles ...types.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, ok := ensureAuthenticated(c)
		if !ok {
			return
		}

		if len(roles) > 0 && usr.UserType != types.UserTypeSuperAdmin {
			if !containsRole(roles, types.UserTypeAll) && !containsRole(roles, usr.UserType) {
				response.ErrorWithLog(global.logger, c, http.StatusForbidden, "Access denied: Insufficient permissions.", nil)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the Gin context.
func GetUserFromContext(c *gin.Context) (*User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		return nil, false
	}

	if usr, ok := userVal.(*User); ok && usr != nil {
		return usr, true
	}

	if usr, ok := userVal.(User); ok {
		return &usr, true
	}

	return nil, false
}

func ensureAuthenticated(c *gin.Context) (*User, bool) {
	if usr, ok := GetUserFromContext(c); ok {
		return usr, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		response.ErrorWithLog(global.logger, c, http.StatusUnauthorized, "No token provided", nil)
		c.Abort()
		return nil, false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		response.ErrorWithLog(global.logger, c, http.StatusUnauthorized, "No token provided", nil)
		c.Abort()
		return nil, false
	}

	claims, err := jwt.VerifyToken(token, global.jwtSecret)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			response.ErrorWithLog(global.logger, c, http.StatusUnauthorized, "Token expired", err)
		default:
			response.ErrorWithLog(global.logger, c, http.StatusUnauthorized, "Invalid token", err)
		}
		c.Abort()
		return nil, false
	}

	if claims.UserID == uuid.Nil {
		response.ErrorWithLog(global.logger, c, http.StatusUnauthorized, "Invalid token payload", nil)
		c.Abort()
		return nil, false
	}

	var usr User
	if err := global.db.WithContext(c.Request.Context()).First(&usr, "id = ?", claims.UserID).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithLog(global.logger, c, http.StatusNotFound, "User not found", err)
		default:
			response.ErrorWithLog(global.logger, c, http.StatusInternalServerError, "Internal Server Error", err)
		}
		c.Abort()
		return nil, false
	}

	if !usr.Active && usr.UserType != types.UserTypeAdmin && usr.UserType != types.UserTypeSuperAdmin {
		response.ErrorWithLog(global.logger, c, http.StatusForbidden, "Account is inactive", nil)
		c.Abort()
		return nil, false
	}

	usrCopy := usr
	c.Set("user", &usrCopy)
	c.Set("userId", usr.ID)
	return &usrCopy, true
}

func containsRole(roles []types.UserType, target types.UserType) bool {
	for _, role := range roles {
		if role == target {
			return true
		}
	}
	return false
}
