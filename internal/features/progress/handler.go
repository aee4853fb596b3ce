package progress

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hiredvalley/career-server-go/internal/features/enrollment"
	"github.com/hiredvalley/career-server-go/internal/features/module"
	"github.com/hiredvalley/career-server-go/internal/middleware"
	"github.com/hiredvalley/career-server-go/pkg/response"
)

// Handler handles progress HTTP endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new progress handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type recordRequest struct {
	CourseID         uuid.UUID `json:"courseId" binding:"required"`
	ModuleID         uuid.UUID `json:"moduleId" binding:"required"`
	Status           Status    `json:"status" binding:"required"`
	TimeSpentMinutes int       `json:"timeSpentMinutes"`
	Score            *float64  `json:"score"`
}

type recordResponse struct {
	Progress        *ModuleProgress `json:"progress"`
	AggregateSynced bool            `json:"aggregateSynced"`
	AccessStamped   bool            `json:"accessStamped"`
}

// Record submits progress for one module of a course the user is enrolled in.
func (h *Handler) Record(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := h.service.Record(c.Request.Context(), RecordInput{
		UserID:           usr.ID,
		CourseID:         req.CourseID,
		ModuleID:         req.ModuleID,
		Status:           req.Status,
		TimeSpentMinutes: req.TimeSpentMinutes,
		Score:            req.Score,
	})
	if err != nil {
		switch {
		case errors.Is(err, enrollment.ErrNotEnrolled):
			response.Error(c, http.StatusForbidden, "Not enrolled in this course", nil)
		case errors.Is(err, module.ErrModuleNotFound):
			response.Error(c, http.StatusNotFound, "Module not found", nil)
		case errors.Is(err, ErrModuleNotInCourse):
			response.Error(c, http.StatusUnprocessableEntity, "Module does not belong to this course", nil)
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "Invalid progress status", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to record progress", err)
		}
		return
	}

	response.Success(c, http.StatusOK, recordResponse{
		Progress:        result.Progress,
		AggregateSynced: result.AggregateSynced,
		AccessStamped:   result.AccessStamped,
	}, "Progress recorded successfully", nil)
}

// ListByCourse returns the authenticated user's progress rows for a course.
func (h *Handler) ListByCourse(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	courseID, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID", nil)
		return
	}

	rows, err := h.service.ListByCourse(c.Request.Context(), usr.ID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, enrollment.ErrNotEnrolled):
			response.Error(c, http.StatusForbidden, "Not enrolled in this course", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to retrieve progress", err)
		}
		return
	}

	response.Success(c, http.StatusOK, rows, "Progress retrieved successfully", nil)
}
