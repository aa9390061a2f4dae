package handler_test

import (
	"strings"
	"sync"
	"time"

	"noteful/internal/models"
	"noteful/internal/repository"

	"github.com/google/uuid"
)

// The resource fakes mirror the real repositories' contracts: every
// read is scoped to the owning user, uniqueness maps to ErrDuplicate,
// and rows owned by someone else read as ErrNotFound.

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[uuid.UUID]models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[uuid.UUID]models.Folder)}
}

func (r *fakeFolderRepo) GetAllFolders(userID uuid.UUID) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Folder{}
	for _, folder := range r.folders {
		if folder.UserID == userID {
			out = append(out, folder)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) GetFolderByID(userID, id uuid.UUID) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok || folder.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &folder, nil
}

func (r *fakeFolderRepo) CreateFolder(folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.folders {
		if existing.UserID == folder.UserID && existing.Name == folder.Name {
			return repository.ErrDuplicate
		}
	}
	folder.ID = uuid.New()
	now := time.Now()
	folder.CreatedAt, folder.UpdatedAt = now, now
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) UpdateFolder(folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.folders[folder.ID]
	if !ok || existing.UserID != folder.UserID {
		return repository.ErrNotFound
	}
	for id, other := range r.folders {
		if id != folder.ID && other.UserID == folder.UserID && other.Name == folder.Name {
			return repository.ErrDuplicate
		}
	}
	folder.CreatedAt = existing.CreatedAt
	folder.UpdatedAt = time.Now()
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) DeleteFolder(userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok || folder.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.folders, id)
	return nil
}

type fakeTagRepo struct {
	mu   sync.Mutex
	tags map[uuid.UUID]models.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[uuid.UUID]models.Tag)}
}

func (r *fakeTagRepo) GetAllTags(userID uuid.UUID) ([]models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Tag{}
	for _, tag := range r.tags {
		if tag.UserID == userID {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (r *fakeTagRepo) GetTagByID(userID, id uuid.UUID) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.tags[id]
	if !ok || tag.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &tag, nil
}

func (r *fakeTagRepo) CreateTag(tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return repository.ErrDuplicate
		}
	}
	tag.ID = uuid.New()
	now := time.Now()
	tag.CreatedAt, tag.UpdatedAt = now, now
	r.tags[tag.ID] = *tag
	return nil
}

func (r *fakeTagRepo) UpdateTag(tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tags[tag.ID]
	if !ok || existing.UserID != tag.UserID {
		return repository.ErrNotFound
	}
	for id, other := range r.tags {
		if id != tag.ID && other.UserID == tag.UserID && other.Name == tag.Name {
			return repository.ErrDuplicate
		}
	}
	tag.CreatedAt = existing.CreatedAt
	tag.UpdatedAt = time.Now()
	r.tags[tag.ID] = *tag
	return nil
}

func (r *fakeTagRepo) DeleteTag(userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.tags[id]
	if !ok || tag.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.tags, id)
	return nil
}

type fakeNoteRepo struct {
	mu      sync.Mutex
	notes   map[uuid.UUID]models.Note
	folders *fakeFolderRepo
	tags    *fakeTagRepo
}

func newFakeNoteRepo(folders *fakeFolderRepo, tags *fakeTagRepo) *fakeNoteRepo {
	return &fakeNoteRepo{
		notes:   make(map[uuid.UUID]models.Note),
		folders: folders,
		tags:    tags,
	}
}

func (r *fakeNoteRepo) checkReferences(note *models.Note) error {
	if note.FolderID != nil {
		if _, err := r.folders.GetFolderByID(note.UserID, *note.FolderID); err != nil {
			return repository.ErrInvalidReference
		}
	}
	for _, tagID := range note.Tags {
		if _, err := r.tags.GetTagByID(note.UserID, tagID); err != nil {
			return repository.ErrInvalidReference
		}
	}
	return nil
}

func (r *fakeNoteRepo) GetAllNotes(userID uuid.UUID, filter repository.NoteFilter) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Note{}
	for _, note := range r.notes {
		if note.UserID != userID {
			continue
		}
		if filter.FolderID != nil && (note.FolderID == nil || *note.FolderID != *filter.FolderID) {
			continue
		}
		if filter.TagID != nil && !containsID(note.Tags, *filter.TagID) {
			continue
		}
		if filter.SearchTerm != "" {
			term := strings.ToLower(filter.SearchTerm)
			if !strings.Contains(strings.ToLower(note.Title), term) &&
				!strings.Contains(strings.ToLower(note.Content), term) {
				continue
			}
		}
		out = append(out, note)
	}
	return out, nil
}

func (r *fakeNoteRepo) GetNoteByID(userID, id uuid.UUID) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.notes[id]
	if !ok || note.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &note, nil
}

func (r *fakeNoteRepo) CreateNote(note *models.Note) error {
	if err := r.checkReferences(note); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = uuid.New()
	now := time.Now()
	note.CreatedAt, note.UpdatedAt = now, now
	r.notes[note.ID] = *note
	return nil
}

func (r *fakeNoteRepo) UpdateNote(note *models.Note) error {
	if err := r.checkReferences(note); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.notes[note.ID]
	if !ok || existing.UserID != note.UserID {
		return repository.ErrNotFound
	}
	note.CreatedAt = existing.CreatedAt
	note.UpdatedAt = time.Now()
	r.notes[note.ID] = *note
	return nil
}

func (r *fakeNoteRepo) DeleteNote(userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.notes[id]
	if !ok || note.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func containsID(ids []uuid.UUID, want uuid.UUID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
