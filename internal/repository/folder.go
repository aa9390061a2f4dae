package repository

import (
	"database/sql"
	"errors"

	"noteful/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// FolderRepository persists folders. Every query is scoped to the
// owning user; ids belonging to other users read as ErrNotFound.
type FolderRepository interface {
	GetAllFolders(userID uuid.UUID) ([]models.Folder, error)
	GetFolderByID(userID, id uuid.UUID) (*models.Folder, error)
	CreateFolder(folder *models.Folder) error
	UpdateFolder(folder *models.Folder) error
	DeleteFolder(userID, id uuid.UUID) error
}

type folderRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFolderRepository(db *sqlx.DB, logger *zap.Logger) FolderRepository {
	return &folderRepository{db: db, logger: logger}
}

func (r *folderRepository) GetAllFolders(userID uuid.UUID) ([]models.Folder, error) {
	folders := []models.Folder{}
	query := `SELECT id, user_id, name, created_at, updated_at FROM folders WHERE user_id = $1 ORDER BY name`
	if err := r.db.Select(&folders, query, userID); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *folderRepository) GetFolderByID(userID, id uuid.UUID) (*models.Folder, error) {
	var folder models.Folder
	query := `SELECT id, user_id, name, created_at, updated_at FROM folders WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&folder, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) CreateFolder(folder *models.Folder) error {
	folder.ID = uuid.New()
	query := `INSERT INTO folders (id, user_id, name) VALUES ($1, $2, $3) RETURNING created_at, updated_at`
	err := r.db.QueryRowx(query, folder.ID, folder.UserID, folder.Name).Scan(&folder.CreatedAt, &folder.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *folderRepository) UpdateFolder(folder *models.Folder) error {
	query := `UPDATE folders SET name = $1, updated_at = now() WHERE id = $2 AND user_id = $3 RETURNING created_at, updated_at`
	err := r.db.QueryRowx(query, folder.Name, folder.ID, folder.UserID).Scan(&folder.CreatedAt, &folder.UpdatedAt)
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

// DeleteFolder removes the folder. Notes inside it are detached, not
// deleted (folder_id is ON DELETE SET NULL).
func (r *folderRepository) DeleteFolder(userID, id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
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
