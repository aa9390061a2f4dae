package service

import (
	"errors"
	"fmt"
	"strings"

	"noteful/internal/crypto"
	"noteful/internal/models"
	"noteful/internal/repository"

	"go.uber.org/zap"
)

// ErrDuplicateUsername distinguishes the 400 conflict from the 422
// validation failures.
var ErrDuplicateUsername = errors.New("the username already exists")

// ValidationError is a rejected registration input. Location names the
// offending field where one can be singled out.
type ValidationError struct {
	Message  string
	Location string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserService creates accounts. The checks in Register run in a fixed
// order and stop at the first violation.
type UserService interface {
	Register(input map[string]interface{}) (*models.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher *crypto.PasswordHasher
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, hasher *crypto.PasswordHasher, logger *zap.Logger) UserService {
	return &userService{users: users, hasher: hasher, logger: logger}
}

// Register validates the raw request body, hashes the password, and
// persists the user. The input stays a raw map because the checks must
// tell "missing" from "wrong type" per field, in order.
func (s *userService) Register(input map[string]interface{}) (*models.User, error) {
	for _, field := range []string{"username", "password"} {
		if _, ok := input[field]; !ok {
			return nil, &ValidationError{
				Message:  fmt.Sprintf("Missing '%s' in request body", field),
				Location: field,
			}
		}
	}

	for _, field := range []string{"username", "fullName", "password"} {
		value, ok := input[field]
		if !ok {
			continue
		}
		if _, isString := value.(string); !isString {
			return nil, &ValidationError{
				Message:  "Incorrect field type: expected string",
				Location: field,
			}
		}
	}

	username := input["username"].(string)
	password := input["password"].(string)
	fullName, _ := input["fullName"].(string)

	for _, value := range []string{username, password} {
		if value != strings.TrimSpace(value) {
			return nil, &ValidationError{Message: "Cannot start or end with whitespace"}
		}
	}

	if len(username) < 1 {
		return nil, &ValidationError{
			Message:  "username must be at least 1 character(s)",
			Location: "username",
		}
	}
	if len(password) < 8 {
		return nil, &ValidationError{
			Message:  "password must be at least 8 character(s)",
			Location: "password",
		}
	}
	if len(password) > 72 {
		return nil, &ValidationError{
			Message:  "password cannot be greater than 72 characters",
			Location: "password",
		}
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: digest,
	}

	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
