package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"tasklink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Quota is a fixed-window request budget shared across instances through Redis.
type Quota struct {
	Name   string
	Limit  int
	Window time.Duration
	// FailClosed rejects requests with 503 when Redis cannot be consulted.
	FailClosed bool
}

var (
	SignupQuota    = Quota{Name: "signup", Limit: 5, Window: 10 * time.Minute}
	LoginQuota     = Quota{Name: "login", Limit: 10, Window: 5 * time.Minute}
	CreateJobQuota = Quota{Name: "create_job", Limit: 30, Window: time.Hour}
)

var errNoRedis = errors.New("rate limit store unavailable")

// quotasExempt reports whether APP_ENV turns quotas off. Unset means development.
func quotasExempt() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))) {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

func (q Quota) key(subject string) string {
	return "tasklink:rl:" + q.Name + ":" + subject
}

// Take consumes one unit of q for subject. It returns whether the request
// fits the budget and how long until the window resets.
func (q Quota) Take(ctx context.Context, rdb *redis.Client, subject string) (bool, time.Duration, error) {
	if quotasExempt() {
		return true, 0, nil
	}
	if rdb == nil {
		return false, 0, errNoRedis
	}

	key := q.key(subject)
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := rdb.Expire(ctx, key, q.Window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= int64(q.Limit) {
		return true, 0, nil
	}

	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = q.Window
	}
	return false, ttl, nil
}

// subject keys authenticated callers by user and everyone else by IP.
func subject(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
		return "user:" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + c.IP()
}

// Throttle enforces q per caller.
func Throttle(rdb *redis.Client, q Quota) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		ok, retryAfter, err := q.Take(ctx, rdb, subject(c))
		if err != nil {
			if !q.FailClosed {
				return c.Next()
			}
			Logger.WarnContext(ctx, "rate limit store unavailable, rejecting",
				slog.String("quota", q.Name),
				slog.String("error", err.Error()),
			)
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Message: "Rate limit unavailable"})
		}
		if !ok {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprint(int(math.Ceil(retryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{Message: "Too many requests, please try again later"})
		}
		return c.Next()
	}
}
