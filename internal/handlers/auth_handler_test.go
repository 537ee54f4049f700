package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coinlyapp/coinly-backend/internal/auth"
	"github.com/coinlyapp/coinly-backend/internal/config"
	"github.com/coinlyapp/coinly-backend/internal/dto"
	"github.com/coinlyapp/coinly-backend/internal/middleware"
	"github.com/coinlyapp/coinly-backend/internal/models"
	"github.com/coinlyapp/coinly-backend/internal/referral"
	"github.com/coinlyapp/coinly-backend/internal/services"
	"github.com/coinlyapp/coinly-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal in-memory AccountStore for exercising the full
// handler → service path.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[uuid.UUID]models.Account)}
}

func (m *memStore) find(match func(models.Account) bool) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if match(a) {
			out := a
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindByUniqueFields(_ context.Context, username, email, mobile string) (*models.Account, error) {
	return m.find(func(a models.Account) bool {
		return a.Username == username || a.Email == email || a.Mobile == mobile
	})
}

func (m *memStore) FindByIdentifier(_ context.Context, identifier string) (*models.Account, error) {
	return m.find(func(a models.Account) bool {
		return a.Email == identifier || a.Username == identifier
	})
}

func (m *memStore) FindByReferralCode(_ context.Context, code string) (*models.Account, error) {
	return m.find(func(a models.Account) bool { return a.ReferralCode == code })
}

func (m *memStore) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	return m.find(func(a models.Account) bool { return a.ID == id })
}

func (m *memStore) Create(_ context.Context, account *models.Account) error {
	if existing, err := m.FindByUniqueFields(context.Background(), account.Username, account.Email, account.Mobile); err == nil && existing != nil {
		return store.ErrDuplicate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = *account
	return nil
}

func (m *memStore) Save(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = *account
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *memStore) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	accounts := newMemStore()
	svc := services.NewAuthService(
		accounts,
		auth.NewPasswordHasher(),
		auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		referral.NewCodeGenerator(mathrand.NewSource(7)),
	)
	h := NewAuthHandler(svc)

	app := fiber.New()
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Get("/api/auth/me", middleware.JWTProtected(cfg), h.Me)
	return app, accounts
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func register(t *testing.T, app *fiber.App, username, email, mobile, password string) *http.Response {
	t.Helper()
	return postJSON(t, app, "/api/auth/register", dto.RegisterRequest{
		FullName: "Test " + username,
		Username: username,
		Email:    email,
		Mobile:   mobile,
		Password: password,
	})
}

func TestRegisterEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp := register(t, app, "alice", "a@x.com", "111", "p1")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var msg dto.MessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Equal(t, "Signup successful", msg.Message)
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	app, _ := newTestApp(t)

	register(t, app, "alice", "a@x.com", "111", "p1")
	resp := register(t, app, "alice", "other@x.com", "999", "p2")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterEndpoint_BadRequests(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/register", dto.RegisterRequest{Username: "alice"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "a@x.com", "111", "p1")

	resp := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Identifier: "a@x.com", Password: "p1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(raw, &login))
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "alice", login.Account.Username)
	assert.Equal(t, models.RoleUser, login.Account.Role)

	// Sensitive fields never reach the wire.
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "wallet")
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "a@x.com", "111", "p1")

	wrongPass := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Identifier: "alice", Password: "wrong"})
	unknown := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Identifier: "nobody", Password: "p1"})

	assert.Equal(t, fiber.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, unknown.StatusCode)

	var a, b dto.ErrorResponse
	require.NoError(t, json.NewDecoder(wrongPass.Body).Decode(&a))
	require.NoError(t, json.NewDecoder(unknown.Body).Decode(&b))
	assert.Equal(t, a.Message, b.Message)
}

func TestMeEndpoint(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "a@x.com", "111", "p1")

	resp := postJSON(t, app, "/api/auth/login", dto.LoginRequest{Identifier: "alice", Password: "p1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, meResp.StatusCode)

	var me dto.AccountResponse
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, login.Account.ID, me.ID)
	assert.Equal(t, "alice", me.Username)
}

func TestMeEndpoint_Unauthorized(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
