package handler

import (
	"errors"
	"fmt"
	"net/http"

	"noteful/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type UserHandler interface {
	Register(c *gin.Context)
}

type userHandler struct {
	userService service.UserService
	log         *logrus.Logger
}

func NewUserHandler(userService service.UserService, log *logrus.Logger) UserHandler {
	return &userHandler{userService: userService, log: log}
}

// Register handles POST /api/users. The body is decoded into a raw map
// so the service can run its ordered field checks; malformed input is a
// 422, a duplicate username is a 400.
func (h *userHandler) Register(c *gin.Context) {
	var input map[string]interface{}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	user, err := h.userService.Register(input)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			body := gin.H{
				"reason":  "ValidationError",
				"message": validationErr.Message,
			}
			if validationErr.Location != "" {
				body["location"] = validationErr.Location
			}
			c.JSON(http.StatusUnprocessableEntity, body)
			return
		}
		if errors.Is(err, service.ErrDuplicateUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "The username already exists"})
			return
		}
		h.log.Errorf("Failed to register user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.Header("Location", fmt.Sprintf("/api/users/%s", user.ID))
	c.JSON(http.StatusCreated, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"fullName": user.FullName,
	})
}
