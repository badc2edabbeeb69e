package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tasklink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, 42, models.RoleCompany)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleCompany, claims.Role)
	assert.NotEmpty(t, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt, time.Minute)

	_, err = ParseToken("another-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(testSecret, nil), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": c.Locals("userID"), "role": c.Locals("role")})
	})

	signed := func(claims jwt.MapClaims) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		s, _ := token.SignedString([]byte(testSecret))
		return s
	}
	valid, _ := IssueToken(testSecret, 123, models.RoleStudent)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID uint
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectedUserID: 123,
		},
		{
			name:           "Missing Header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Expired Token",
			authHeader: "Bearer " + signed(jwt.MapClaims{
				"sub": "123", "iss": TokenIssuer, "aud": TokenAudience,
				"exp": time.Now().Add(-time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong Audience",
			authHeader: "Bearer " + signed(jwt.MapClaims{
				"sub": "123", "iss": TokenIssuer, "aud": "someone-else",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Non Numeric Subject",
			authHeader: "Bearer " + signed(jwt.MapClaims{
				"sub": "abc", "iss": TokenIssuer, "aud": TokenAudience,
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.EqualValues(t, tt.expectedUserID, body["userID"])
				assert.Equal(t, "student", body["role"])
			} else {
				assert.Equal(t, "Unauthorized", body["message"])
			}
		})
	}
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	token, _ := IssueToken(testSecret, 9, models.RoleCompany)
	claims, _ := ParseToken(testSecret, token)

	revoked := func(_ context.Context, jti string) (bool, error) {
		return jti == claims.JTI, nil
	}
	failing := func(context.Context, string) (bool, error) {
		return false, errors.New("redis down")
	}

	for name, checker := range map[string]RevocationChecker{"revoked": revoked, "lookup error": failing} {
		t.Run(name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/test", AuthRequired(testSecret, checker), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			if name == "revoked" {
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			} else {
				assert.Equal(t, http.StatusOK, resp.StatusCode, "lookup errors fail open")
			}
		})
	}
}
