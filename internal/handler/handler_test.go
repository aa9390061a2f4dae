package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"noteful/internal/auth"
	"noteful/internal/crypto"
	"noteful/internal/handler"
	"noteful/internal/middleware"
	"noteful/internal/models"
	"noteful/internal/repository"
	"noteful/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.Username] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

type testEnv struct {
	router  *gin.Engine
	repo    *fakeUserRepo
	folders *fakeFolderRepo
	tags    *fakeTagRepo
	notes   *fakeNoteRepo
	hasher  *crypto.PasswordHasher
	issuer  *auth.Issuer
}

// newTestEnv wires the auth endpoints the same way the server does,
// with an in-memory credential store.
func newTestEnv(t *testing.T, ttl time.Duration) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	logger := zap.NewNop()
	hasher := crypto.NewPasswordHasher(bcrypt.MinCost)
	repo := newFakeUserRepo()

	folders := newFakeFolderRepo()
	tags := newFakeTagRepo()
	notes := newFakeNoteRepo(folders, tags)

	localStrategy := auth.NewLocalStrategy(repo, hasher, logger)
	tokenStrategy := auth.NewTokenStrategy(testSecret)
	issuer := auth.NewIssuer(testSecret, ttl)

	authHandler := handler.NewAuthHandler(service.NewAuthService(localStrategy, issuer, logger), log)
	userHandler := handler.NewUserHandler(service.NewUserService(repo, hasher, logger), log)
	noteHandler := handler.NewNoteHandler(notes, logger)
	folderHandler := handler.NewFolderHandler(folders, logger)
	tagHandler := handler.NewTagHandler(tags, logger)

	router := gin.New()
	router.POST("/api/login", authHandler.Login)
	router.POST("/api/users", userHandler.Register)

	authRequired := router.Group("/api")
	authRequired.Use(middleware.AuthRequired(tokenStrategy, logger))
	authRequired.POST("/refresh", authHandler.Refresh)
	authRequired.GET("/whoami", func(c *gin.Context) {
		principal := middleware.PrincipalFromContext(c)
		c.JSON(200, principal)
	})

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

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"message": "Not Found"})
	})

	return &testEnv{
		router:  router,
		repo:    repo,
		folders: folders,
		tags:    tags,
		notes:   notes,
		hasher:  hasher,
		issuer:  issuer,
	}
}

func (e *testEnv) seedUser(t *testing.T, username, password, fullName string) models.User {
	t.Helper()
	digest, err := e.hasher.Hash(password)
	require.NoError(t, err)
	user := models.User{Username: username, FullName: fullName, PasswordHash: digest}
	require.NoError(t, e.repo.CreateUser(&user))
	return user
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// loginAs seeds a user and returns a token for it, for exercising the
// protected resource routes.
func (e *testEnv) loginAs(t *testing.T, username string) (models.User, string) {
	t.Helper()
	user := e.seedUser(t, username, "correct horse battery", username)
	token, err := e.issuer.Issue(user.Principal())
	require.NoError(t, err)
	return user, token
}

// doJSON sends an authorized request with a JSON body (nil for none).
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// doRaw sends the body verbatim, for malformed-payload cases.
func (e *testEnv) doRaw(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// authIssuer builds an issuer sharing the test secret, for crafting
// tokens with arbitrary lifetimes.
func authIssuer(t *testing.T, ttl time.Duration) *auth.Issuer {
	t.Helper()
	return auth.NewIssuer(testSecret, ttl)
}

func newGetRequest(path, token string) *http.Request {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
