package enrollment

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/features/course"
	"github.com/hiredvalley/career-server-go/internal/middleware"
	"github.com/hiredvalley/career-server-go/pkg/email"
	"github.com/hiredvalley/career-server-go/pkg/pagination"
	"github.com/hiredvalley/career-server-go/pkg/response"
)

// Handler handles enrollment HTTP endpoints.
type Handler struct {
	db     *gorm.DB
	email  *email.Client
	logger *slog.Logger
}

// NewHandler creates a new enrollment handler.
func NewHandler(db *gorm.DB, emailClient *email.Client, logger *slog.Logger) *Handler {
	return &Handler{db: db, email: emailClient, logger: logger}
}

type enrollRequest struct {
	CourseID uuid.UUID `json:"courseId" binding:"required"`
}

// Enroll enrolls the authenticated user in a course.
func (h *Handler) Enroll(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, enrolledCourse, err := Enroll(c.Request.Context(), h.db, usr.ID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, course.ErrCourseNotFound):
			response.Error(c, http.StatusNotFound, "Course not found", nil)
		case errors.Is(err, course.ErrCourseNotAvailable):
			response.Error(c, http.StatusUnprocessableEntity, "Course is not available for enrollment", nil)
		case errors.Is(err, ErrAlreadyEnrolled):
			response.Error(c, http.StatusConflict, "Already enrolled in this course", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to enroll", err)
		}
		return
	}

	// Confirmation email is best effort; enrollment already committed.
	go func(to, name, title string) {
		if err := h.email.SendEnrollmentConfirmation(to, name, title); err != nil {
			h.logger.Warn("failed to send enrollment confirmation", "email", to, "error", err)
		}
	}(usr.Email, usr.FullName, enrolledCourse.Title)

	response.Success(c, http.StatusCreated, created, "Enrolled successfully", nil)
}

// ListMine returns the authenticated user's enrollments.
func (h *Handler) ListMine(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	params := pagination.Extract(c)
	enrollments, total, err := ListByUser(c.Request.Context(), h.db, usr.ID, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to retrieve enrollments", err)
		return
	}

	response.Success(c, http.StatusOK, enrollments, "Enrollments retrieved successfully", pagination.MetadataFrom(total, params))
}

// GetMine returns the authenticated user's enrollment in one course.
func (h *Handler) GetMine(c *gin.Context) {
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

	e, err := GetByUserCourse(c.Request.Context(), h.db, usr.ID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEnrolled):
			response.Error(c, http.StatusNotFound, "Enrollment not found", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to retrieve enrollment", err)
		}
		return
	}

	response.Success(c, http.StatusOK, e, "Enrollment retrieved successfully", nil)
}
