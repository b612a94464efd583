package handlers

import (
	"context"
	"testing"

	"library_catalog/internal/logger"
	"library_catalog/internal/models"
	"library_catalog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service mocks ----

type mockAuth struct {
	registerErr error
	loginToken  string
	loginErr    error
	identity    models.Identity
	authErr     error

	lastRegisterUsername string
	lastRegisterPassword string
	lastLoginUsername    string
	lastLoginPassword    string
	lastToken            string
}

func (m *mockAuth) Register(_ context.Context, username, password string) error {
	m.lastRegisterUsername = username
	m.lastRegisterPassword = password
	return m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) Authenticate(token string) (models.Identity, error) {
	m.lastToken = token
	return m.identity, m.authErr
}

type mockCatalog struct {
	listResp  []models.Book
	listErr   error
	getResp   models.Book
	getErr    error
	createID  int64
	createErr error
	updateErr error
	deleteErr error

	lastCreated models.Book
	lastUpdated models.Book
	lastDeleted int64
}

func (m *mockCatalog) List(context.Context) ([]models.Book, error) {
	return m.listResp, m.listErr
}

func (m *mockCatalog) Get(_ context.Context, id int64) (models.Book, error) {
	return m.getResp, m.getErr
}

func (m *mockCatalog) Create(_ context.Context, b models.Book) (models.Book, error) {
	m.lastCreated = b
	if m.createErr != nil {
		return models.Book{}, m.createErr
	}
	b.ID = m.createID
	b.Version = 1
	return b, nil
}

func (m *mockCatalog) Update(_ context.Context, b models.Book) error {
	m.lastUpdated = b
	return m.updateErr
}

func (m *mockCatalog) Delete(_ context.Context, id int64) error {
	m.lastDeleted = id
	return m.deleteErr
}

// ---- Shared test helpers ----

func newTestRouter(t *testing.T, s *service.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, logger.Nop(), nil, "")
	t.Cleanup(h.Close)
	return h.InitRoutes()
}
