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

type FolderHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type folderHandler struct {
	folderRepo repository.FolderRepository
	logger     *zap.Logger
}

func NewFolderHandler(folderRepo repository.FolderRepository, logger *zap.Logger) FolderHandler {
	return &folderHandler{folderRepo: folderRepo, logger: logger}
}

type folderRequest struct {
	Name string `json:"name" binding:"required"`
}

// List handles GET /api/folders
func (h *folderHandler) List(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	folders, err := h.folderRepo.GetAllFolders(principal.ID)
	if err != nil {
		h.logger.Error("Failed to list folders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, folders)
}

// Get handles GET /api/folders/:id
func (h *folderHandler) Get(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	folder, err := h.folderRepo.GetFolderByID(principal.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		h.logger.Error("Failed to get folder", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, folder)
}

// Create handles POST /api/folders
func (h *folderHandler) Create(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err, "name")})
		return
	}

	folder := &models.Folder{UserID: principal.ID, Name: req.Name}
	if err := h.folderRepo.CreateFolder(folder); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Folder name already exists"})
			return
		}
		h.logger.Error("Failed to create folder", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Header("Location", "/api/folders/"+folder.ID.String())
	c.JSON(http.StatusCreated, folder)
}

// Update handles PUT /api/folders/:id
func (h *folderHandler) Update(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err, "name")})
		return
	}

	folder := &models.Folder{ID: id, UserID: principal.ID, Name: req.Name}
	if err := h.folderRepo.UpdateFolder(folder); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		case errors.Is(err, repository.ErrDuplicate):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Folder name already exists"})
		default:
			h.logger.Error("Failed to update folder", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, folder)
}

// Delete handles DELETE /api/folders/:id. Notes in the folder are
// detached, not removed.
func (h *folderHandler) Delete(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	if err := h.folderRepo.DeleteFolder(principal.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		h.logger.Error("Failed to delete folder", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Status(http.StatusNoContent)
}
