package repository

import (
	"database/sql"
	"errors"
	"strconv"

	"noteful/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrInvalidReference is returned when a note points at a folder or tag
// the user does not own.
var ErrInvalidReference = errors.New("invalid reference")

// NoteFilter narrows GetAllNotes. Zero values mean "no filter".
type NoteFilter struct {
	FolderID   *uuid.UUID
	TagID      *uuid.UUID
	SearchTerm string
}

// NoteRepository persists notes and their tag links, scoped to the
// owning user.
type NoteRepository interface {
	GetAllNotes(userID uuid.UUID, filter NoteFilter) ([]models.Note, error)
	GetNoteByID(userID, id uuid.UUID) (*models.Note, error)
	CreateNote(note *models.Note) error
	UpdateNote(note *models.Note) error
	DeleteNote(userID, id uuid.UUID) error
}

type noteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewNoteRepository(db *sqlx.DB, logger *zap.Logger) NoteRepository {
	return &noteRepository{db: db, logger: logger}
}

func (r *noteRepository) GetAllNotes(userID uuid.UUID, filter NoteFilter) ([]models.Note, error) {
	query := `SELECT n.id, n.user_id, n.title, n.content, n.folder_id, n.created_at, n.updated_at
		FROM notes n WHERE n.user_id = $1`
	args := []interface{}{userID}

	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		query += ` AND n.folder_id = $2`
	}
	if filter.TagID != nil {
		args = append(args, *filter.TagID)
		query += ` AND EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = n.id AND nt.tag_id = $` + strconv.Itoa(len(args)) + `)`
	}
	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		query += ` AND (n.title ILIKE $` + strconv.Itoa(len(args)) + ` OR n.content ILIKE $` + strconv.Itoa(len(args)) + `)`
	}
	query += ` ORDER BY n.updated_at DESC`

	notes := []models.Note{}
	if err := r.db.Select(&notes, query, args...); err != nil {
		return nil, err
	}
	if err := r.loadTags(userID, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *noteRepository) GetNoteByID(userID, id uuid.UUID) (*models.Note, error) {
	var note models.Note
	query := `SELECT id, user_id, title, content, folder_id, created_at, updated_at FROM notes WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&note, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	notes := []models.Note{note}
	if err := r.loadTags(userID, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

func (r *noteRepository) CreateNote(note *models.Note) error {
	note.ID = uuid.New()
	return r.inTx(func(tx *sqlx.Tx) error {
		if err := r.checkReferences(tx, note); err != nil {
			return err
		}
		query := `INSERT INTO notes (id, user_id, title, content, folder_id) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
		if err := tx.QueryRowx(query, note.ID, note.UserID, note.Title, note.Content, note.FolderID).Scan(&note.CreatedAt, &note.UpdatedAt); err != nil {
			return err
		}
		return r.linkTags(tx, note)
	})
}

func (r *noteRepository) UpdateNote(note *models.Note) error {
	return r.inTx(func(tx *sqlx.Tx) error {
		if err := r.checkReferences(tx, note); err != nil {
			return err
		}
		query := `UPDATE notes SET title = $1, content = $2, folder_id = $3, updated_at = now()
			WHERE id = $4 AND user_id = $5 RETURNING created_at, updated_at`
		err := tx.QueryRowx(query, note.Title, note.Content, note.FolderID, note.ID, note.UserID).Scan(&note.CreatedAt, &note.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = $1`, note.ID); err != nil {
			return err
		}
		return r.linkTags(tx, note)
	})
}

func (r *noteRepository) DeleteNote(userID, id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
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

func (r *noteRepository) inTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

// checkReferences verifies the folder and every tag belong to the
// note's owner before linking them.
func (r *noteRepository) checkReferences(tx *sqlx.Tx, note *models.Note) error {
	if note.FolderID != nil {
		var ok bool
		err := tx.Get(&ok, `SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1 AND user_id = $2)`, *note.FolderID, note.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidReference
		}
	}
	if len(note.Tags) > 0 {
		query, args, err := sqlx.In(`SELECT COUNT(*) FROM tags WHERE user_id = ? AND id IN (?)`, note.UserID, note.Tags)
		if err != nil {
			return err
		}
		var count int
		if err := tx.Get(&count, tx.Rebind(query), args...); err != nil {
			return err
		}
		if count != len(note.Tags) {
			return ErrInvalidReference
		}
	}
	return nil
}

func (r *noteRepository) linkTags(tx *sqlx.Tx, note *models.Note) error {
	for _, tagID := range note.Tags {
		if _, err := tx.Exec(`INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)`, note.ID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// loadTags fills Tags for every note in the slice with two queries
// instead of one per note.
func (r *noteRepository) loadTags(userID uuid.UUID, notes []models.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
		notes[i].Tags = []uuid.UUID{}
	}

	query, args, err := sqlx.In(`SELECT note_id, tag_id FROM note_tags WHERE note_id IN (?)`, ids)
	if err != nil {
		return err
	}
	rows := []struct {
		NoteID uuid.UUID `db:"note_id"`
		TagID  uuid.UUID `db:"tag_id"`
	}{}
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return err
	}

	byNote := make(map[uuid.UUID][]uuid.UUID, len(notes))
	for _, row := range rows {
		byNote[row.NoteID] = append(byNote[row.NoteID], row.TagID)
	}
	for i := range notes {
		if tags, ok := byNote[notes[i].ID]; ok {
			notes[i].Tags = tags
		}
	}
	return nil
}
