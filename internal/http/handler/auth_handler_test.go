package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technet-isp/backoffice-api/internal/auth"
	"github.com/technet-isp/backoffice-api/internal/config"
	"github.com/technet-isp/backoffice-api/internal/domain"
	"github.com/technet-isp/backoffice-api/internal/http/handler"
	"github.com/technet-isp/backoffice-api/internal/repository"
	"github.com/technet-isp/backoffice-api/internal/service"
	"github.com/technet-isp/backoffice-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthHandler(db *gorm.DB) *handler.AuthHandler {
	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "backoffice-test",
		TokenTTL:  3600,
	})
	authService := service.NewAuthService(repository.NewUserRepository(db), tokens, zap.NewNop())
	return handler.NewAuthHandler(authService, zap.NewNop())
}

func createActiveUser(t *testing.T, db *gorm.DB, email, password string) *domain.User {
	t.Helper()

	hash, err := service.HashPassword(password, 4)
	require.NoError(t, err)

	user := &domain.User{
		Name:         "Handler User",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestLoginHandler_Success(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := createActiveUser(t, db, "login@example.com", "secret123")
	h := newAuthHandler(db)

	rec := postJSON(t, h.Login, "/api/v1/auth/login", domain.LoginRequest{
		Email:    "login@example.com",
		Password: "secret123",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.Email, resp.User.Email)

	// The password hash must never appear in the payload
	assert.NotContains(t, rec.Body.String(), "password_hash")
	assert.NotContains(t, rec.Body.String(), user.PasswordHash)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	db := testutil.OpenTestDB(t)
	createActiveUser(t, db, "login@example.com", "secret123")
	h := newAuthHandler(db)

	rec := postJSON(t, h.Login, "/api/v1/auth/login", domain.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrorTypeUnauthorized, apiErr.Type)
	assert.Equal(t, "Invalid credentials", apiErr.Detail)
}

func TestLoginHandler_ValidationError(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newAuthHandler(db)

	rec := postJSON(t, h.Login, "/api/v1/auth/login", domain.LoginRequest{
		Email: "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "email")
	assert.Contains(t, apiErr.Errors, "password")
}

func TestLoginHandler_MalformedBody(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newAuthHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeHandler(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := createActiveUser(t, db, "me@example.com", "secret123")
	h := newAuthHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(testutil.UserContextFor(user))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var loaded domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	assert.Equal(t, user.ID, loaded.ID)
}

func TestMeHandler_Unauthenticated(t *testing.T) {
	db := testutil.OpenTestDB(t)
	h := newAuthHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
