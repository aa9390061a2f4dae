package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	UserID    uuid.UUID   `db:"user_id" json:"-"`
	Title     string      `db:"title" json:"title"`
	Content   string      `db:"content" json:"content"`
	FolderID  *uuid.UUID  `db:"folder_id" json:"folderId"`
	Tags      []uuid.UUID `db:"-" json:"tags"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time   `db:"updated_at" json:"updatedAt"`
}
