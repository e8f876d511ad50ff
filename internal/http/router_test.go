package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/construlink/contracts-admin/internal/auth"
	"github.com/construlink/contracts-admin/internal/http/middleware"
	"github.com/construlink/contracts-admin/internal/model"
	"github.com/construlink/contracts-admin/internal/service"
)

type memUsers struct {
	mu   sync.Mutex
	rows map[uuid.UUID]struct {
		user model.User
		hash string
	}
}

func newMemUsers() *memUsers {
	return &memUsers{rows: make(map[uuid.UUID]struct {
		user model.User
		hash string
	})}
}

func (m *memUsers) Insert(_ context.Context, user *model.User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.LastLoginAt = user.CreatedAt
	m.rows[user.ID] = struct {
		user model.User
		hash string
	}{*user, passwordHash}
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.user.Email == email {
			user := row.user
			return &user, row.hash, nil
		}
	}
	return nil, "", gorm.ErrRecordNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user := row.user
	return &user, nil
}

func (m *memUsers) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUsers) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.user.LastLoginAt = time.Now()
	m.rows[id] = row
	return nil
}

type routerFixture struct {
	router *gin.Engine
	users  *memUsers
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUsers()
	issuer := auth.NewIssuer("test-secret", time.Hour)
	revoker := auth.NewRevoker()
	log := zerolog.Nop()

	authService := service.NewAuthService(users, issuer, revoker, log)
	contractService := service.NewContractService(nil, nil, nil, log)
	priceService := service.NewPriceService(nil, nil, log)

	handler := NewHandler(authService, contractService, priceService, log)
	authMiddleware := middleware.Auth(auth.NewParser("test-secret"), revoker)
	router := NewRouter(handler, authMiddleware, []string{"http://localhost:5173"}, "test")

	return &routerFixture{router: router, users: users}
}

func (f *routerFixture) seed(t *testing.T, email, password string, role model.UserRole) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &model.User{Email: email, DisplayName: "Seeded", Role: role}
	if err := f.users.Insert(context.Background(), user, hash); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func (f *routerFixture) login(t *testing.T, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(model.LoginCredentials{Email: email, Password: password})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var session service.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session.Token
}

func (f *routerFixture) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRejectUnauthenticated(t *testing.T) {
	f := newRouterFixture(t)
	if rec := f.do(http.MethodGet, "/admin/users", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminRoutesRejectNonAdminRole(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "eng@acme.com", "senha123", model.RoleEngenheiro)
	token := f.login(t, "eng@acme.com", "senha123")

	if rec := f.do(http.MethodGet, "/admin/users", token, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminCanListUsers(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "admin@acme.com", "senha123", model.RoleAdmin)
	token := f.login(t, "admin@acme.com", "senha123")

	rec := f.do(http.MethodGet, "/admin/users", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var users []model.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 1 || users[0].Email != "admin@acme.com" {
		t.Fatalf("users = %v", users)
	}
}

func TestSessionReturnsCurrentUser(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "admin@acme.com", "senha123", model.RoleAdmin)
	token := f.login(t, "admin@acme.com", "senha123")

	rec := f.do(http.MethodGet, "/auth/session", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var user model.User
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Email != "admin@acme.com" {
		t.Fatalf("user = %+v", user)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "admin@acme.com", "senha123", model.RoleAdmin)
	token := f.login(t, "admin@acme.com", "senha123")

	if rec := f.do(http.MethodPost, "/auth/logout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/auth/session", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", rec.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "admin@acme.com", "senha123", model.RoleAdmin)

	body, _ := json.Marshal(model.LoginCredentials{Email: "admin@acme.com", Password: "errada"})
	rec := f.do(http.MethodPost, "/auth/login", "", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRegisterThenLoginAsNewUser(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "admin@acme.com", "senha123", model.RoleAdmin)
	adminToken := f.login(t, "admin@acme.com", "senha123")

	body, _ := json.Marshal(model.RegisterCredentials{
		Email:       "novo@acme.com",
		Password:    "senha456",
		DisplayName: "Novo Usuário",
		CPF:         "12345678901",
		Role:        "suprimento",
	})
	rec := f.do(http.MethodPost, "/admin/users", adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	// The admin session survives the registration.
	if rec := f.do(http.MethodGet, "/auth/session", adminToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("admin session broken after register: %d", rec.Code)
	}

	// The created account can sign in, but has no admin access.
	newToken := f.login(t, "novo@acme.com", "senha456")
	if rec := f.do(http.MethodGet, "/admin/users", newToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin reached admin surface: %d", rec.Code)
	}
}

func TestRegisterValidationErrorsReturnFieldMap(t *testing.T) {
	f := newRouterFixture(t)
	f.seed(t, "admin@acme.com", "senha123", model.RoleAdmin)
	token := f.login(t, "admin@acme.com", "senha123")

	body, _ := json.Marshal(model.RegisterCredentials{Email: "inválido", Password: "123"})
	rec := f.do(http.MethodPost, "/admin/users", token, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"displayName", "email", "password", "cpf", "role"} {
		if _, ok := payload.Fields[field]; !ok {
			t.Fatalf("missing field %q in %v", field, payload.Fields)
		}
	}
}
