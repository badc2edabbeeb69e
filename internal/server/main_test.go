package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"tasklink/internal/cache"
	"tasklink/internal/config"
	"tasklink/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-with-enough-entropy-0123456789"

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// setupTestDB returns a migrated in-memory SQLite database private to t.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      testJWTSecret,
		Port:           "0",
		Env:            "test",
		AllowedOrigins: "http://localhost:5173",
	}
}

// newTestApp wires a Server on SQLite. rdb may be nil.
func newTestApp(t *testing.T, cfg *config.Config, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	srv, err := NewServerWithDeps(cfg, setupTestDB(t), rdb)
	require.NoError(t, err)
	srv.authService.WithBcryptCost(bcrypt.MinCost)
	return srv, srv.NewApp()
}

// doJSON sends body as JSON and decodes the response into a generic value.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	status, raw := doRaw(t, app, method, path, token, body)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func doRaw(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// signupWithRole registers an account and picks its role, returning the
// role-bearing token.
func signupWithRole(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Test " + role, "email": email, "password": "intern2024",
	})
	require.Equal(t, http.StatusCreated, status, body)

	if role == "" {
		return body["token"].(string)
	}
	status, body = doJSON(t, app, http.MethodPost, "/api/auth/role", body["token"].(string), map[string]string{"role": role})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

// onboardCompany creates a recruiter with a company profile.
func onboardCompany(t *testing.T, app *fiber.App, email, companyName string) string {
	t.Helper()
	token := signupWithRole(t, app, email, "company")
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/details/company", token, map[string]string{
		"companyName": companyName,
	})
	require.Equal(t, http.StatusOK, status, body)
	return token
}
