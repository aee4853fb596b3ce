package module

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/pkg/apperrors"
	"github.com/hiredvalley/career-server-go/pkg/response"
)

// Handler handles module HTTP endpoints.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHandler creates a new module handler.
func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// ListByCourse returns the modules of a course in display order.
func (h *Handler) ListByCourse(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID", nil)
		return
	}

	modules, err := ListByCourse(c.Request.Context(), h.db, courseID)
	if err != nil {
		_ = c.Error(apperrors.Wrap(err, "Failed to retrieve modules", http.StatusInternalServerError, apperrors.ErrInternal))
		return
	}

	response.Success(c, http.StatusOK, modules, "Modules retrieved successfully", nil)
}

// GetByID returns a single module.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid module ID", nil)
		return
	}

	m, err := Get(c.Request.Context(), h.db, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrModuleNotFound):
			response.Error(c, http.StatusNotFound, "Module not found", nil)
		default:
			_ = c.Error(apperrors.Wrap(err, "Failed to retrieve module", http.StatusInternalServerError, apperrors.ErrInternal))
		}
		return
	}

	response.Success(c, http.StatusOK, m, "Module retrieved successfully", nil)
}

type createModuleRequest struct {
	Title           string `json:"title" binding:"required"`
	Content         string `json:"content"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"durationMinutes"`
	Required        *bool  `json:"isRequired"`
}

// Create adds a module to a course.
func (h *Handler) Create(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID", nil)
		return
	}

	var req createModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	required := true
	if req.Required != nil {
		required = *req.Required
	}

	created, err := Create(c.Request.Context(), h.db, CreateInput{
		CourseID:        courseID,
		Title:           req.Title,
		Content:         req.Content,
		Order:           req.Order,
		DurationMinutes: req.DurationMinutes,
		Required:        required,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrCourseRequired):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			_ = c.Error(apperrors.Wrap(err, "Failed to create module", http.StatusInternalServerError, apperrors.ErrInternal))
		}
		return
	}

	response.Success(c, http.StatusCreated, created, "Module created successfully", nil)
}

type updateModuleRequest struct {
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	Order           *int    `json:"order"`
	DurationMinutes *int    `json:"durationMinutes"`
	Required        *bool   `json:"isRequired"`
}

// Update applies partial changes to a module.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid module ID", nil)
		return
	}

	var req updateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := Update(c.Request.Context(), h.db, id, UpdateInput{
		Title:           req.Title,
		Content:         req.Content,
		Order:           req.Order,
		DurationMinutes: req.DurationMinutes,
		Required:        req.Required,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrModuleNotFound):
			response.Error(c, http.StatusNotFound, "Module not found", nil)
		case errors.Is(err, ErrTitleRequired):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			_ = c.Error(apperrors.Wrap(err, "Failed to update module", http.StatusInternalServerError, apperrors.ErrInternal))
		}
		return
	}

	response.Success(c, http.StatusOK, updated, "Module updated successfully", nil)
}

// Delete removes a module.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("moduleId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid module ID", nil)
		return
	}

	if err := Delete(c.Request.Context(), h.db, id); err != nil {
		switch {
		case errors.Is(err, ErrModuleNotFound):
			response.Error(c, http.StatusNotFound, "Module not found", nil)
		default:
			_ = c.Error(apperrors.Wrap(err, "Failed to delete module", http.StatusInternalServerError, apperrors.ErrInternal))
		}
		return
	}

	response.Success(c, http.StatusOK, nil, "Module deleted successfully", nil)
}
