// Package auth holds the two authentication strategies and the token
// issuer. Strategies are plain values wired at startup with the stores
// and keys they need; there is no global registry.
package auth

import (
	"errors"
	"fmt"

	"noteful/internal/crypto"
	"noteful/internal/models"
	"noteful/internal/repository"

	"go.uber.org/zap"
)

// ErrInvalidCredentials covers both "no such user" and "wrong password"
// so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LocalStrategy authenticates a username/password pair against the
// credential store.
type LocalStrategy struct {
	users  repository.UserRepository
	hasher *crypto.PasswordHasher
	logger *zap.Logger
}

func NewLocalStrategy(users repository.UserRepository, hasher *crypto.PasswordHasher, logger *zap.Logger) *LocalStrategy {
	return &LocalStrategy{users: users, hasher: hasher, logger: logger}
}

// Authenticate verifies the pair and returns the principal. Read-only;
// password verification runs even though it is CPU-bound, each request
// has its own goroutine.
func (s *LocalStrategy) Authenticate(username, password string) (*models.Principal, error) {
	user, err := s.users.GetUserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	principal := user.Principal()
	return &principal, nil
}
