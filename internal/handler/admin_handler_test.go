package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vidpass/vidpass/internal/pkg/password"
)

func TestAdminRegister(t *testing.T) {
	router, fx := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, resp.Code)
	require.Contains(t, resp.Body.String(), "Admin Registered Successfully")

	stored, err := fx.admins.GetByEmail(context.Background(), "admin@x.com")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", stored.PasswordHash)
	require.NoError(t, password.Compare(stored.PasswordHash, "hunter22"))
}

func TestAdminRegisterMissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com"})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = postJSON(router, "/api/admin/register", map[string]string{"password": "hunter22"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminRegisterDuplicate(t *testing.T) {
	router, fx := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "first-pass"})
	require.Equal(t, http.StatusCreated, resp.Code)
	first, err := fx.admins.GetByEmail(context.Background(), "admin@x.com")
	require.NoError(t, err)

	resp = postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "second-pass"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Admin already exists")

	after, err := fx.admins.GetByEmail(context.Background(), "admin@x.com")
	require.NoError(t, err)
	require.Equal(t, first.PasswordHash, after.PasswordHash)
}

func TestAdminLogin(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = postJSON(router, "/api/admin/login", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "Authenticated", body.Message)
	require.NotEmpty(t, body.Token)
}

func TestAdminLoginFailures(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = postJSON(router, "/api/admin/login", map[string]string{"email": "admin@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), "Invalid Credentials")

	resp = postJSON(router, "/api/admin/login", map[string]string{"email": "nobody@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), "Admin Not Found")
}

func TestAdminResetPassword(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = postJSON(router, "/api/admin/reset-password", map[string]string{"email": "admin@x.com"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Password Reset Link Sent")

	resp = postJSON(router, "/api/admin/reset-password", map[string]string{"email": "nobody@x.com"})
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Contains(t, resp.Body.String(), "Admin Not Found")
}

func TestAdminAuthGate(t *testing.T) {
	router, _ := setupRouter(t)

	// Absent credentials: 403.
	req := httptest.NewRequest(http.MethodPost, "/api/upload-video", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
	require.Contains(t, resp.Body.String(), "No token provided")

	// Unverifiable credentials: 401.
	req = httptest.NewRequest(http.MethodPost, "/api/upload-video", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Contains(t, resp.Body.String(), "Unauthorized Access")
}

func TestAdminAuthGateAcceptsSessionToken(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(router, "/api/admin/register", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = postJSON(router, "/api/admin/login", map[string]string{"email": "admin@x.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

	// Past the gate; fails on the missing multipart form instead.
	req := httptest.NewRequest(http.MethodPost, "/api/upload-video", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutSessionMissingEmail(t *testing.T) {
	router, _ := setupRouter(t)

	resp := postJSON(router, "/api/create-checkout-session", map[string]string{})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "Email is required for payment")
}

func TestListVideosEmpty(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `[]`, resp.Body.String())
}
