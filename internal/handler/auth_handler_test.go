package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/clinic-api/internal/domain/entity"
	apperrors "github.com/yourusername/clinic-api/internal/pkg/errors"
	"github.com/yourusername/clinic-api/internal/service"
	"github.com/yourusername/clinic-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext builds a *gin.Context with an optional JSON body.
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Success-path stubs. Register only touches the user and code repos plus
// the email sender, so the rest of the service wiring can stay nil.
// ============================================================================

type stubUserRepo struct {
	created *entity.User
}

func (s *stubUserRepo) Create(user *entity.User) error {
	user.ID = 1
	s.created = user
	return nil
}

func (s *stubUserRepo) GetByID(id uint) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(email string) (*entity.User, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubUserRepo) MarkVerified(userID uint) error { return nil }

func (s *stubUserRepo) UpdatePasswordHash(userID uint, passwordHash string) error { return nil }

type stubCodeRepo struct{}

func (s *stubCodeRepo) Create(code *entity.VerificationCode) error { return nil }

func (s *stubCodeRepo) GetLatestUnusedByUserID(userID uint) (*entity.VerificationCode, error) {
	return nil, apperrors.ErrNotFound
}

func (s *stubCodeRepo) MarkUsed(id uint) error { return nil }

type stubEmailService struct{}

func (s *stubEmailService) SendVerificationCode(ctx context.Context, toEmail, code, idempotencyKey string) error {
	return nil
}

func (s *stubEmailService) SendPasswordReset(ctx context.Context, toEmail, resetURL, idempotencyKey string) error {
	return nil
}

func newRegisterTestHandler(t *testing.T) *AuthHandler {
	t.Helper()

	jwtService, err := auth.NewJWTService("test-secret", 15*time.Minute)
	require.NoError(t, err)

	svc := service.NewAuthService(
		&stubUserRepo{}, &stubCodeRepo{}, nil, nil, nil,
		jwtService, &stubEmailService{},
		service.AuthConfig{FrontendURL: "http://localhost:3000", EmailFailOpen: true},
	)
	return NewAuthHandler(svc)
}

func TestRegister_ResponseBody(t *testing.T) {
	h := newRegisterTestHandler(t)

	c, w := newTestGinContext(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "new@example.com",
		"name":     "New User",
		"password": "password123",
	})
	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseJSONResponse(t, w)
	assert.NotEmpty(t, resp["message"])

	// Acknowledgment only: no account payload in the 201 body.
	_, hasUser := resp["user"]
	assert.False(t, hasUser)
	assert.NotContains(t, w.Body.String(), "password")
}

// ============================================================================
// Request validation tests. Binding rejects these before the service is
// touched, so a zero-value handler is enough.
// ============================================================================

func TestRegister_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing email", map[string]string{"name": "A", "password": "password123"}},
		{"malformed email", map[string]string{"email": "not-an-email", "name": "A", "password": "password123"}},
		{"missing password", map[string]string{"email": "a@example.com", "name": "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/register", tt.body)
			h.Register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "validation", resp["error_type"])
		})
	}
}

func TestVerify_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing code", map[string]string{"email": "a@example.com"}},
		{"code too short", map[string]string{"email": "a@example.com", "code": "123"}},
		{"code not numeric", map[string]string{"email": "a@example.com", "code": "12a456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/verify", tt.body)
			h.Verify(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "validation", resp["error_type"])
		})
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing email", map[string]string{"password": "password123"}},
		{"missing password", map[string]string{"email": "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/login", tt.body)
			h.Login(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "validation", resp["error_type"])
		})
	}
}

func TestRequestPasswordReset_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	c, w := newTestGinContext(http.MethodPost, "/api/auth/request-reset", map[string]string{"email": "nope"})
	h.RequestPasswordReset(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "validation", resp["error_type"])
}

func TestResetPassword_ValidationErrors(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing token", map[string]string{"email": "a@example.com", "newPassword": "password123"}},
		{"missing new password", map[string]string{"email": "a@example.com", "token": "tok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/reset-password", tt.body)
			h.ResetPassword(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "validation", resp["error_type"])
		})
	}
}

// ============================================================================
// Error mapping
// ============================================================================

func TestHandleAuthError_Mapping(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"conflict", fmt.Errorf("%w: taken", apperrors.ErrConflict), http.StatusBadRequest, "conflict"},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest, "invalid_credentials"},
		{"account not verified", service.ErrAccountNotVerified, http.StatusForbidden, "account_not_verified"},
		{"invalid code", service.ErrInvalidOrExpiredCode, http.StatusBadRequest, "invalid_or_expired_code"},
		{"invalid reset token", service.ErrInvalidOrExpiredResetToken, http.StatusBadRequest, "invalid_or_expired_reset_token"},
		{"unknown email", service.ErrUnknownEmail, http.StatusBadRequest, "unknown_email"},
		{"email delivery failed", service.ErrEmailDeliveryFailed, http.StatusServiceUnavailable, "email_delivery_failed"},
		{"password not set", service.ErrPasswordNotSet, http.StatusInternalServerError, "internal"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/login", nil)
			h.handleAuthError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantType, resp["error_type"])
		})
	}
}

func TestGetMe_MissingUserID(t *testing.T) {
	h := &AuthHandler{}

	c, w := newTestGinContext(http.MethodGet, "/api/users/me", nil)
	h.GetMe(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, "unauthorized", resp["error_type"])
}
