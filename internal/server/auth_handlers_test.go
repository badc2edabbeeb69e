package server

import (
	"net/http"
	"testing"

	"tasklink/internal/middleware"
	"tasklink/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app := newTestApp(t, testConfig(), nil)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Asha", "email": "Asha@Example.com", "password": "intern2024",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "asha@example.com", user["email"])
	assert.NotContains(t, user, "password")

	claims, err := middleware.ParseToken(testJWTSecret, body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, claims.Role)

	status, body = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "asha@example.com", "password": "intern2024",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", body["message"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "weak@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["message"])
}

func TestLogin(t *testing.T) {
	_, app := newTestApp(t, testConfig(), nil)
	signupWithRole(t, app, "ravi@example.com", "")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "RAVI@example.com", "password": "intern2024",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ravi@example.com", "password": "wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestSetRole(t *testing.T) {
	_, app := newTestApp(t, testConfig(), nil)
	token := signupWithRole(t, app, "role@example.com", "student")

	claims, err := middleware.ParseToken(testJWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claims.Role)

	status, _ := doJSON(t, app, http.MethodPost, "/api/auth/role", token, map[string]string{"role": "student"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/role", token, map[string]string{"role": "company"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/role", "", map[string]string{"role": "company"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "student", body["user"].(map[string]any)["role"])
}

func TestLogoutRevokesToken(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	_, app := newTestApp(t, testConfig(), rdb)
	token := signupWithRole(t, app, "bye@example.com", "student")

	status, _ := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logged out", body["message"])

	status, body = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body["message"])
}
