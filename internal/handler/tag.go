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

type TagHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type tagHandler struct {
	tagRepo repository.TagRepository
	logger  *zap.Logger
}

func NewTagHandler(tagRepo repository.TagRepository, logger *zap.Logger) TagHandler {
	return &tagHandler{tagRepo: tagRepo, logger: logger}
}

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// List handles GET /api/tags
func (h *tagHandler) List(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	tags, err := h.tagRepo.GetAllTags(principal.ID)
	if err != nil {
		h.logger.Error("Failed to list tags", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, tags)
}

// Get handles GET /api/tags/:id
func (h *tagHandler) Get(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	tag, err := h.tagRepo.GetTagByID(principal.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		h.logger.Error("Failed to get tag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, tag)
}

// Create handles POST /api/tags
func (h *tagHandler) Create(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err, "name")})
		return
	}

	tag := &models.Tag{UserID: principal.ID, Name: req.Name}
	if err := h.tagRepo.CreateTag(tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Tag name already exists"})
			return
		}
		h.logger.Error("Failed to create tag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Header("Location", "/api/tags/"+tag.ID.String())
	c.JSON(http.StatusCreated, tag)
}

// Update handles PUT /api/tags/:id
func (h *tagHandler) Update(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindErrorMessage(err, "name")})
		return
	}

	tag := &models.Tag{ID: id, UserID: principal.ID, Name: req.Name}
	if err := h.tagRepo.UpdateTag(tag); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		case errors.Is(err, repository.ErrDuplicate):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Tag name already exists"})
		default:
			h.logger.Error("Failed to update tag", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, tag)
}

// Delete handles DELETE /api/tags/:id. The tag is removed from every
// note that carried it.
func (h *tagHandler) Delete(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}

	if err := h.tagRepo.DeleteTag(principal.ID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		h.logger.Error("Failed to delete tag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Status(http.StatusNoContent)
}
