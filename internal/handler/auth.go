package handler

import (
	"errors"
	"net/http"

	"noteful/internal/auth"
	"noteful/internal/middleware"
	"noteful/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler interface {
	Login(c *gin.Context)
	Refresh(c *gin.Context)
}

type authHandler struct {
	authService service.AuthService
	log         *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, log *logrus.Logger) AuthHandler {
	return &authHandler{authService: authService, log: log}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login. Empty or malformed credentials are a
// 400; a failed authentication is always the same 401 body.
func (h *authHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		h.log.Errorf("Failed to login user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}

// Refresh handles POST /api/refresh. The bearer middleware has already
// authenticated the caller; this just mints a fresh token with a later
// expiry.
func (h *authHandler) Refresh(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	token, err := h.authService.Refresh(principal)
	if err != nil {
		h.log.Errorf("Failed to refresh token for %s: %v", principal.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}
