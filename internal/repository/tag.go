package repository

import (
	"database/sql"
	"errors"

	"noteful/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TagRepository persists tags, scoped to the owning user.
type TagRepository interface {
	GetAllTags(userID uuid.UUID) ([]models.Tag, error)
	GetTagByID(userID, id uuid.UUID) (*models.Tag, error)
	CreateTag(tag *models.Tag) error
	UpdateTag(tag *models.Tag) error
	DeleteTag(userID, id uuid.UUID) error
}

type tagRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewTagRepository(db *sqlx.DB, logger *zap.Logger) TagRepository {
	return &tagRepository{db: db, logger: logger}
}

func (r *tagRepository) GetAllTags(userID uuid.UUID) ([]models.Tag, error) {
	tags := []models.Tag{}
	query := `SELECT id, user_id, name, created_at, updated_at FROM tags WHERE user_id = $1 ORDER BY name`
	if err := r.db.Select(&tags, query, userID); err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetTagByID(userID, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	query := `SELECT id, user_id, name, created_at, updated_at FROM tags WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&tag, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) CreateTag(tag *models.Tag) error {
	tag.ID = uuid.New()
	query := `INSERT INTO tags (id, user_id, name) VALUES ($1, $2, $3) RETURNING created_at, updated_at`
	err := r.db.QueryRowx(query, tag.ID, tag.UserID, tag.Name).Scan(&tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *tagRepository) UpdateTag(tag *models.Tag) error {
	query := `UPDATE tags SET name = $1, updated_at = now() WHERE id = $2 AND user_id = $3 RETURNING created_at, updated_at`
	err := r.db.QueryRowx(query, tag.Name, tag.ID, tag.UserID).Scan(&tag.CreatedAt, &tag.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// DeleteTag removes the tag and, via the note_tags cascade, unlinks it
// from every note that carried it.
func (r *tagRepository) DeleteTag(userID, id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM tags WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
