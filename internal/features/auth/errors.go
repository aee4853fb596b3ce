package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrOAuthNotConfigured  = errors.New("google sign-in is not configured")
	ErrOAuthExchange       = errors.New("failed to exchange authorization code")
)
