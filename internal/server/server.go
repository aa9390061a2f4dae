package server

import (
	"context"
	"errors"
	"net/http"

	"noteful/internal/auth"
	"noteful/internal/config"
	"noteful/internal/crypto"
	"noteful/internal/handler"
	"noteful/internal/middleware"
	"noteful/internal/repository"
	"noteful/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	cfg        *config.Config
	log        *logrus.Logger
	logger     *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, log *logrus.Logger, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:     router,
		httpServer: &http.Server{Handler: router},
		db:         db,
		cfg:        cfg,
		log:        log,
		logger:     logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Strategies and the issuer are constructed here and handed to the
	// endpoints that need them; there is no ambient registry.
	hasher := crypto.NewPasswordHasher(bcrypt.DefaultCost)
	userRepo := repository.NewUserRepository(s.db, s.log)
	localStrategy := auth.NewLocalStrategy(userRepo, hasher, s.logger)
	tokenStrategy := auth.NewTokenStrategy([]byte(s.cfg.JWTSecret))
	issuer := auth.NewIssuer([]byte(s.cfg.JWTSecret), s.cfg.TokenTTL)

	authService := service.NewAuthService(localStrategy, issuer, s.logger)
	userService := service.NewUserService(userRepo, hasher, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.log)
	userHandler := handler.NewUserHandler(userService, s.log)

	noteRepo := repository.NewNoteRepository(s.db, s.logger)
	folderRepo := repository.NewFolderRepository(s.db, s.logger)
	tagRepo := repository.NewTagRepository(s.db, s.logger)
	noteHandler := handler.NewNoteHandler(noteRepo, s.logger)
	folderHandler := handler.NewFolderHandler(folderRepo, s.logger)
	tagHandler := handler.NewTagHandler(tagRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := s.router.Group("/api")
	api.POST("/login", authHandler.Login)
	api.POST("/users", userHandler.Register)

	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthRequired(tokenStrategy, s.logger))
	{
		authRequired.POST("/refresh", authHandler.Refresh)

		authRequired.GET("/notes", noteHandler.List)
		authRequired.GET("/notes/:id", noteHandler.Get)
		authRequired.POST("/notes", noteHandler.Create)
		authRequired.PUT("/notes/:id", noteHandler.Update)
		authRequired.DELETE("/notes/:id", noteHandler.Delete)

		authRequired.GET("/folders", folderHandler.List)
		authRequired.GET("/folders/:id", folderHandler.Get)
		authRequired.POST("/folders", folderHandler.Create)
		authRequired.PUT("/folders/:id", folderHandler.Update)
		authRequired.DELETE("/folders/:id", folderHandler.Delete)

		authRequired.GET("/tags", tagHandler.List)
		authRequired.GET("/tags/:id", tagHandler.Get)
		authRequired.POST("/tags", tagHandler.Create)
		authRequired.PUT("/tags/:id", tagHandler.Update)
		authRequired.DELETE("/tags/:id", tagHandler.Delete)
	}

	// Catch-all 404
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})
}

func (s *Server) Run(addr string) {
	s.httpServer.Addr = addr
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}

// Shutdown stops accepting new connections and waits for in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
