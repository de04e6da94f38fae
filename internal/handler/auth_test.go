package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/service"
)

// Minimal in-memory stores standing in for the MySQL repositories.

type memUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[string]model.User
}

func (m *memUserStore) Create(_ context.Context, p repository.CreateUserParams) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if _, ok := m.users[email]; ok {
		return model.User{}, repository.ErrEmailExists
	}
	m.nextID++
	u := model.User{
		ID:           m.nextID,
		Email:        email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		DisplayName:  p.DisplayName,
		Role:         p.Role,
		Status:       p.Status,
		RegisteredAt: time.Now().UTC(),
	}
	m.users[email] = u
	return u, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

type memSessionStore struct {
	mu       sync.Mutex
	nextID   uint64
	sessions map[uint64]model.RefreshSession
}

func (m *memSessionStore) FindByDeviceKey(_ context.Context, userID uint64, ip, fingerprint, userAgent string) (model.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.UserID == userID && s.IP == ip && s.Fingerprint == fingerprint && s.UserAgent == userAgent {
			return s, nil
		}
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (m *memSessionStore) GetByID(_ context.Context, id uint64) (model.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return model.RefreshSession{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *memSessionStore) Insert(_ context.Context, s model.RefreshSession) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.UserID == s.UserID && existing.IP == s.IP &&
			existing.Fingerprint == s.Fingerprint && existing.UserAgent == s.UserAgent {
			return 0, repository.ErrSessionExists
		}
	}
	m.nextID++
	s.ID = m.nextID
	m.sessions[s.ID] = s
	return s.ID, nil
}

func (m *memSessionStore) Update(_ context.Context, id uint64, refreshToken string, createdAt, expiredAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.RefreshToken = refreshToken
	s.CreatedAt = createdAt
	s.ExpiredAt = expiredAt
	m.sessions[id] = s
	return nil
}

func newTestServer() *echo.Echo {
	cfg := config.Config{
		JWTSecret:     "test-secret",
		JWTAlgorithm:  "HS256",
		AccessTTLMin:  15,
		RefreshTTLMin: 10080,
		BcryptCost:    4,
	}
	users := &memUserStore{users: map[string]model.User{}}
	sessions := &memSessionStore{sessions: map[uint64]model.RefreshSession{}}
	tokens := service.NewTokenService(&cfg, sessions)
	auth := service.NewAuthService(&cfg, users, tokens)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, auth, users))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "UA1")
	req.Host = "1.1.1.1"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const registrationBody = `{
	"fingerprint": "fp1",
	"user": {
		"email": "a@example.com",
		"password": "s3cret-password",
		"first_name": "Alice",
		"last_name": "Doe",
		"display_name": "alice"
	}
}`

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "refresh_token" {
			return ck
		}
	}
	t.Fatal("refresh_token cookie not set")
	return nil
}

func TestRegistrationEndpoint(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/auth/registration", registrationBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a@example.com", resp.User.Email)
	assert.Equal(t, "USER", resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)

	ck := refreshCookie(t, rec)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, 15*60, ck.MaxAge)
}

func TestRegistrationEndpointMalformedBody(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/registration", `{"fingerprint": `)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegistrationEndpointMissingFingerprint(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/registration",
		`{"user": {"email": "a@example.com", "password": "pw"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegistrationEndpointDuplicateEmail(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/auth/registration", registrationBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/registration", registrationBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestLoginEndpoint(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/auth/registration", registrationBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	firstCookie := refreshCookie(t, rec)

	loginBody := `{"fingerprint": "fp1", "user": {"email": "a@example.com", "password": "s3cret-password"}}`
	rec = doJSON(e, http.MethodPost, "/auth/login", loginBody)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same device tuple: the session row is recycled with a new token,
	// so the cookie value rotates.
	secondCookie := refreshCookie(t, rec)
	assert.NotEqual(t, firstCookie.Value, secondCookie.Value)

	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "a@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/auth/registration", registrationBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"fingerprint": "fp1", "user": {"email": "ghost@example.com", "password": "pw"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no user found")

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"fingerprint": "fp1", "user": {"email": "a@example.com", "password": "wrong"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid password")
}

func TestDeclaredButUnimplementedEndpoints(t *testing.T) {
	e := newTestServer()

	for _, path := range []string{"/auth/logout", "/auth/refresh"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotImplemented, rec.Code, path)
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
