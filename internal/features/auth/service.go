package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauthapi "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/features/user"
	"github.com/hiredvalley/career-server-go/internal/utils/jwt"
	"github.com/hiredvalley/career-server-go/pkg/config"
	"github.com/hiredvalley/career-server-go/pkg/email"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	providerGoogle = "google"
)

// Service implements registration, login, token refresh and Google sign-in.
type Service struct {
	db     *gorm.DB
	cfg    *config.Config
	email  *email.Client
	logger *slog.Logger
	oauth  *oauth2.Config
}

// NewService creates an auth service. Google sign-in stays disabled when the
// OAuth client is not configured.
func NewService(db *gorm.DB, cfg *config.Config, emailClient *email.Client, logger *slog.Logger) *Service {
	s := &Service{db: db, cfg: cfg, email: emailClient, logger: logger}

	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		s.oauth = &oauth2.Config{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  cfg.OAuth.GoogleRedirectURL,
			Scopes:       []string{oauthapi.UserinfoEmailScope, oauthapi.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		}
	}

	return s
}

// RegisterInput carries the fields for self-service registration.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

// Register creates a student account and returns the user with a token pair.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*user.User, *jwt.TokenPair, error) {
	usr, err := user.Create(s.db.WithContext(ctx), user.CreateInput{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, &usr)
	if err != nil {
		return nil, nil, err
	}

	// Welcome email is best effort; the account is already created.
	go func(to, name string) {
		if err := s.email.SendWelcome(to, name); err != nil {
			s.logger.Warn("failed to send welcome email", "email", to, "error", err)
		}
	}(usr.Email, usr.FullName)

	return &usr, pair, nil
}

// Login verifies credentials and returns the user with a fresh token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, *jwt.TokenPair, error) {
	usr, err := user.GetByEmail(s.db.WithContext(ctx), email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !usr.ComparePassword(password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !usr.Active {
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issueTokens(ctx, &usr)
	if err != nil {
		return nil, nil, err
	}
	return &usr, pair, nil
}

// Refresh rotates the token pair using a stored refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := jwt.VerifyToken(refreshToken, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	usr, err := user.Get(s.db.WithContext(ctx), claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// The stored token is the only valid one; a rotated-out token is rejected.
	if usr.RefreshToken == nil || *usr.RefreshToken != refreshToken {
		return nil, ErrInvalidRefreshToken
	}
	if !usr.Active {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(ctx, &usr)
}

// Logout clears the stored refresh token so it can no longer be rotated.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", userID).
		Update("refresh_token", nil).Error
}

// GoogleAuthURL returns the consent page URL for the given CSRF state.
func (s *Service) GoogleAuthURL(state string) (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthNotConfigured
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// GoogleSignIn exchanges an authorization code, fetches the Google profile
// and finds or creates the matching account.
func (s *Service) GoogleSignIn(ctx context.Context, code string) (*user.User, *jwt.TokenPair, error) {
	if s.oauth == nil {
		return nil, nil, ErrOAuthNotConfigured
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("google oauth code exchange failed", "error", err)
		return nil, nil, ErrOAuthExchange
	}

	svc, err := oauthapi.NewService(ctx, option.WithTokenSource(s.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, nil, err
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, nil, err
	}

	usr, err := user.GetByEmail(s.db.WithContext(ctx), info.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		provider := providerGoogle
		usr, err = user.Create(s.db.WithContext(ctx), user.CreateInput{
			FullName: info.Name,
			Email:    info.Email,
			Password: randomPassword(),
			Provider: &provider,
		})
	}
	if err != nil {
		return nil, nil, err
	}

	if !usr.Active {
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issueTokens(ctx, &usr)
	if err != nil {
		return nil, nil, err
	}
	return &usr, pair, nil
}

func (s *Service) issueTokens(ctx context.Context, usr *user.User) (*jwt.TokenPair, error) {
	access, err := jwt.GenerateAccessToken(usr.ID, s.cfg.JWTSecret, accessTokenTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.GenerateRefreshToken(usr.ID, s.cfg.JWTRefreshSecret, refreshTokenTTL)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", usr.ID).
		Update("refresh_token", refresh).Error
	if err != nil {
		return nil, err
	}

	return &jwt.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// randomPassword fills the password column for provider accounts that never
// log in with one.
func randomPassword() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(buf)
}
