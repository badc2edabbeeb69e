package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaTake_Exemptions(t *testing.T) {
	q := Quota{Name: "test", Limit: 1, Window: time.Minute}

	for _, env := range []string{"", "test", "development", "stress"} {
		t.Run("env="+env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			ok, _, err := q.Take(context.Background(), nil, "ip:1")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}

	t.Run("production without redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		ok, _, err := q.Take(context.Background(), nil, "ip:1")
		assert.ErrorIs(t, err, errNoRedis)
		assert.False(t, ok)
	})
}

func TestThrottle_StoreUnavailable(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	tests := []struct {
		name       string
		failClosed bool
		want       int
	}{
		{"fail open", false, http.StatusOK},
		{"fail closed", true, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			q := Quota{Name: "x", Limit: 1, Window: time.Minute, FailClosed: tt.failClosed}
			app.Get("/x", Throttle(nil, q), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestThrottle_ExceedsLimit(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New()
	app.Post("/login", Throttle(rdb, Quota{Name: "login", Limit: 2, Window: time.Minute}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	var statuses []int
	var retryAfter string
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		retryAfter = resp.Header.Get(fiber.HeaderRetryAfter)
		_ = resp.Body.Close()
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	assert.Equal(t, "60", retryAfter)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "tasklink:rl:login:ip:")
	assert.Equal(t, time.Minute, mr.TTL(keys[0]))
}

func TestThrottle_KeysByUser(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New()
	app.Post("/jobs", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(42))
		return c.Next()
	}, Throttle(rdb, CreateJobQuota), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/jobs", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, mr.Exists("tasklink:rl:create_job:user:42"))
}
