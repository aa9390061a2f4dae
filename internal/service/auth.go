package service

import (
	"errors"
	"fmt"

	"noteful/internal/auth"
	"noteful/internal/models"

	"go.uber.org/zap"
)

// AuthService drives the two auth transitions: credential login and
// token refresh. Both are stateless; a success only ever produces a new
// signed token.
type AuthService interface {
	Login(username, password string) (string, error)
	Refresh(principal models.Principal) (string, error)
}

type authService struct {
	local  *auth.LocalStrategy
	issuer *auth.Issuer
	logger *zap.Logger
}

func NewAuthService(local *auth.LocalStrategy, issuer *auth.Issuer, logger *zap.Logger) AuthService {
	return &authService{local: local, issuer: issuer, logger: logger}
}

func (s *authService) Login(username, password string) (string, error) {
	principal, err := s.local.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Error("Login failed", zap.Error(err))
		}
		return "", err
	}

	token, err := s.issuer.Issue(*principal)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", principal.Username))
	return token, nil
}

// Refresh mints a fresh token for an already-authenticated principal.
// The new expiry is computed from the current time, so it is always
// strictly later than the refreshed token's.
func (s *authService) Refresh(principal models.Principal) (string, error) {
	token, err := s.issuer.Issue(principal)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
