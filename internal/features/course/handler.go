package course

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/middleware"
	"github.com/hiredvalley/career-server-go/pkg/cache"
	"github.com/hiredvalley/career-server-go/pkg/pagination"
	"github.com/hiredvalley/career-server-go/pkg/response"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

const (
	catalogCachePrefix = "catalog:"
	catalogCacheTTL    = 5 * time.Minute
)

// Handler handles course HTTP endpoints.
type Handler struct {
	db     *gorm.DB
	cache  cache.Client
	logger *slog.Logger
}

// NewHandler creates a new course handler.
func NewHandler(db *gorm.DB, cacheClient cache.Client, logger *slog.Logger) *Handler {
	return &Handler{db: db, cache: cacheClient, logger: logger}
}

type catalogPage struct {
	Courses  []Course            `json:"courses"`
	Metadata pagination.Metadata `json:"metadata"`
}

// List returns the published catalog. Results are cached per page in Redis.
func (h *Handler) List(c *gin.Context) {
	params := pagination.Extract(c)
	filter := ListFilter{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		PublishedOnly: true,
	}

	// Only cache unfiltered catalog pages; search results change too often.
	cacheable := filter.Category == "" && filter.Search == ""
	cacheKey := fmt.Sprintf("%spage:%d:limit:%d", catalogCachePrefix, params.Page, params.Limit)

	if cacheable && h.cache.Enabled() {
		var page catalogPage
		if hit, err := h.cache.GetJSON(c.Request.Context(), cacheKey, &page); err == nil && hit {
			response.Success(c, http.StatusOK, page.Courses, "Courses retrieved successfully", page.Metadata)
			return
		}
	}

	courses, total, err := List(c.Request.Context(), h.db, filter, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to retrieve courses", err)
		return
	}

	metadata := pagination.MetadataFrom(total, params)

	if cacheable && h.cache.Enabled() {
		if err := h.cache.SetJSON(c.Request.Context(), cacheKey, catalogPage{Courses: courses, Metadata: metadata}, catalogCacheTTL); err != nil {
			h.logger.Warn("failed to cache catalog page", "key", cacheKey, "error", err)
		}
	}

	response.Success(c, http.StatusOK, courses, "Courses retrieved successfully", metadata)
}

// ListAll returns every course including drafts. Admin and mentor view.
func (h *Handler) ListAll(c *gin.Context) {
	params := pagination.Extract(c)
	filter := ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	courses, total, err := List(c.Request.Context(), h.db, filter, params)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to retrieve courses", err)
		return
	}

	response.Success(c, http.StatusOK, courses, "Courses retrieved successfully", pagination.MetadataFrom(total, params))
}

// GetByID returns a single course by ID or slug.
func (h *Handler) GetByID(c *gin.Context) {
	idParam := c.Param("courseId")

	var (
		found *Course
		err   error
	)
	if id, parseErr := uuid.Parse(idParam); parseErr == nil {
		found, err = Get(c.Request.Context(), h.db, id)
	} else {
		found, err = GetBySlug(c.Request.Context(), h.db, idParam)
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			response.Error(c, http.StatusNotFound, "Course not found", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to retrieve course", err)
		}
		return
	}

	response.Success(c, http.StatusOK, found, "Course retrieved successfully", nil)
}

type createCourseRequest struct {
	Title       string      `json:"title" binding:"required"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags"`
	Price       types.Money `json:"price"`
	Published   bool        `json:"isPublished"`
}

// Create creates a new course owned by the authenticated mentor.
func (h *Handler) Create(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := Create(c.Request.Context(), h.db, CreateInput{
		MentorID:    usr.ID,
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Price:       req.Price,
		Published:   req.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrInvalidSlug):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, ErrSlugTaken):
			response.Error(c, http.StatusConflict, err.Error(), nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to create course", err)
		}
		return
	}

	h.invalidateCatalog(c)
	response.Success(c, http.StatusCreated, created, "Course created successfully", nil)
}

type updateCourseRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	Tags        []string     `json:"tags"`
	Price       *types.Money `json:"price"`
	Published   *bool        `json:"isPublished"`
}

// Update applies partial changes to a course.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID", nil)
		return
	}

	var req updateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	updated, err := Update(c.Request.Context(), h.db, id, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Price:       req.Price,
		Published:   req.Published,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			response.Error(c, http.StatusNotFound, "Course not found", nil)
		case errors.Is(err, ErrTitleRequired):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to update course", err)
		}
		return
	}

	h.invalidateCatalog(c)
	response.Success(c, http.StatusOK, updated, "Course updated successfully", nil)
}

// Delete removes a course.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid course ID", nil)
		return
	}

	if err := Delete(c.Request.Context(), h.db, id); err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			response.Error(c, http.StatusNotFound, "Course not found", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to delete course", err)
		}
		return
	}

	h.invalidateCatalog(c)
	response.Success(c, http.StatusOK, nil, "Course deleted successfully", nil)
}

func (h *Handler) invalidateCatalog(c *gin.Context) {
	if !h.cache.Enabled() {
		return
	}
	if err := h.cache.DeleteByPrefix(c.Request.Context(), catalogCachePrefix); err != nil {
		h.logger.Warn("failed to invalidate catalog cache", "error", err)
	}
}
