package auth

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/hiredvalley/career-server-go/internal/features/user"
	"github.com/hiredvalley/career-server-go/internal/middleware"
	"github.com/hiredvalley/career-server-go/internal/utils/jwt"
	"github.com/hiredvalley/career-server-go/pkg/response"
)

// Handler handles authentication HTTP endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type authResponse struct {
	User   *user.User     `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

type registerRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a new student account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	usr, tokens, err := h.service.Register(c.Request.Context(), RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			response.Error(c, http.StatusConflict, "Email is already registered", nil)
		case errors.Is(err, user.ErrEmailRequired):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to register", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, authResponse{User: usr, Tokens: tokens}, "Registered successfully", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates with email and password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	usr, tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "Invalid email or password", nil)
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "Account is inactive", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to log in", err)
		}
		return
	}

	response.Success(c, http.StatusOK, authResponse{User: usr, Tokens: tokens}, "Logged in successfully", nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh rotates the token pair.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRefreshToken):
			response.Error(c, http.StatusUnauthorized, "Invalid refresh token", nil)
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "Account is inactive", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to refresh tokens", err)
		}
		return
	}

	response.Success(c, http.StatusOK, tokens, "Tokens refreshed successfully", nil)
}

// Logout invalidates the stored refresh token.
func (h *Handler) Logout(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.Logout(c.Request.Context(), usr.ID); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	response.Success(c, http.StatusOK, nil, "Logged out successfully", nil)
}

// GoogleAuthURL returns the Google consent page URL.
func (h *Handler) GoogleAuthURL(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		response.Error(c, http.StatusBadRequest, "Missing state parameter", nil)
		return
	}

	url, err := h.service.GoogleAuthURL(state)
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Google sign-in is not configured", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": url}, "Authorization URL generated", nil)
}

type googleCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// GoogleCallback completes Google sign-in with an authorization code.
func (h *Handler) GoogleCallback(c *gin.Context) {
	var req googleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	usr, tokens, err := h.service.GoogleSignIn(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrOAuthNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, "Google sign-in is not configured", nil)
		case errors.Is(err, ErrOAuthExchange):
			response.Error(c, http.StatusUnauthorized, "Invalid authorization code", nil)
		case errors.Is(err, ErrAccountInactive):
			response.Error(c, http.StatusForbidden, "Account is inactive", nil)
		default:
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "Failed to sign in with Google", err)
		}
		return
	}

	response.Success(c, http.StatusOK, authResponse{User: usr, Tokens: tokens}, "Logged in successfully", nil)
}
