package user

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/middleware"
	"github.com/hiredvalley/career-server-go/pkg/pagination"
	"github.com/hiredvalley/career-server-go/pkg/response"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

// Handler processes user HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler constructs a user handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// List returns paginated users.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)

	filters := ListFilters{Keyword: c.Query("filterKeyword")}
	if userType := c.Query("userType"); userType != "" {
		filters.UserTypes = []types.UserType{types.UserType(userType)}
	}

	users, total, err := List(h.db, filters, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to list users", err)
		return
	}

	response.Success(c, http.StatusOK, users, "", pagination.MetadataFrom(total, params))
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required.", nil)
		return
	}

	response.Success(c, http.StatusOK, usr, "", nil)
}

// GetByID returns a single user.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	usr, err := Get(h.db, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.ErrorWithLog(h.logger, c, http.StatusNotFound, "User not found", err)
			return
		}
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to load user", err)
		return
	}

	response.Success(c, http.StatusOK, usr, "", nil)
}

// Update modifies a user.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	var req struct {
		FullName *string         `json:"fullName"`
		Password *string         `json:"password"`
		UserType *types.UserType `json:"userType"`
		Active   *bool           `json:"isActive"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
		return
	}

	usr, err := Update(h.db, id, UpdateInput{
		FullName: req.FullName,
		Password: req.Password,
		UserType: req.UserType,
		Active:   req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.ErrorWithLog(h.logger, c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, ErrNameRequired):
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to update user", err)
		}
		return
	}

	response.Success(c, http.StatusOK, usr, "User updated successfully.", nil)
}
