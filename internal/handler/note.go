package handler

import (
	"errors"
	"net/http"

	"noteful/internal/middleware"
	"noteful/internal/models"
	"noteful/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NoteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type noteHandler struct {
	noteRepo repository.NoteRepository
	logger   *zap.Logger
}

func NewNoteHandler(noteRepo repository.NoteRepository, logger *zap.Logger) NoteHandler {
	return &noteHandler{noteRepo: noteRepo, logger: logger}
}

type noteRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content"`
	FolderID *string  `json:"folderId"`
	Tags     []string `json:"tags"`
}

// toModel validates the id fields of the request. A malformed or
// foreign folder/tag id is the caller's mistake, not a missing row.
func (req *noteRequest) toModel(userID uuid.UUID) (*models.Note, error) {
	note := &models.Note{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    []uuid.UUID{},
	}
	if req.FolderID != nil && *req.FolderID != "" {
		folderID, err := uuid.Parse(*req.FolderID)
		if err != nil {
			return nil, errors.New("The `folderId` is not valid")
		}
		note.FolderID = &folderID
	}
	for _, raw := range req.Tags {
		tagID, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("The `tags` array contains an invalid id")
		}
		note.Tags = append(note.Tags, tagID)
	}
	return note, nil
}

// List handles GET /api/notes with optional folderId, tagId, and
// searchTerm query filters.
func (h *noteHandler) List(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	filter := repository.NoteFilter{SearchTerm: c.Query("searchTerm")}
	if raw := c.Query("folderId"); raw != "" {
		folderID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "The `folderId` is not valid"})
			return
		}
		filter.FolderID = &folderID
	}
	if raw := c.Query("tagId"); raw != "" {
		tagID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "The `tagId` is not valid"})
			return
		}
		filter.TagID = &tagID
	}

	notes, err := h.noteRepo.GetAllNotes(principal.ID, filter)
	if err != nil {
		h.logger.Error("Failed to list notes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, notes)
}

// Get handles GET /api/notes/:id
func (h *noteHandler) Get(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	note, err := h.noteRepo.GetNoteByID(principal.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		h.logger.Error("Failed to get note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, note)
}

// Create handles POST /api/notes
func (h *noteHandler) Create(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err, "title")})
		return
	}

	note, err := req.toModel(principal.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if err := h.noteRepo.CreateNote(note); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "The `folderId` or `tags` are not valid"})
			return
		}
		h.logger.Error("Failed to create note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Header("Location", "/api/notes/"+note.ID.String())
	c.JSON(http.StatusCreated, note)
}

// Update handles PUT /api/notes/:id
func (h *noteHandler) Update(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err, "title")})
		return
	}

	note, err := req.toModel(principal.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	note.ID = id

	if err := h.noteRepo.UpdateNote(note); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		case errors.Is(err, repository.ErrInvalidReference):
			c.JSON(http.StatusBadRequest, gin.H{"message": "The `folderId` or `tags` are not valid"})
		default:
			h.logger.Error("Failed to update note", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete handles DELETE /api/notes/:id
func (h *noteHandler) Delete(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	if err := h.noteRepo.DeleteNote(principal.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		h.logger.Error("Failed to delete note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Status(http.StatusNoContent)
}
