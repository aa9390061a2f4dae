package repository

import (
	"database/sql"
	"errors"

	"noteful/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// UserRepository is the credential store. It owns User rows; everything
// else only ever sees the Principal projection.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewUserRepository(db *sqlx.DB, log *logrus.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

// CreateUser inserts the user, generating its ID. A username collision
// returns ErrDuplicate; the database's unique constraint is what makes
// concurrent registrations of the same username resolve to one winner.
func (r *userRepository) CreateUser(user *models.User) error {
	user.ID = uuid.New()
	query := `INSERT INTO users (id, username, full_name, password_hash) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.db.QueryRowx(query, user.ID, user.Username, user.FullName, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, full_name, password_hash, created_at FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
