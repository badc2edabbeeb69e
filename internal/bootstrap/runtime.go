// Package bootstrap wires the runtime dependencies shared by the server and
// the command-line tools.
package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"

	"tasklink/internal/cache"
	"tasklink/internal/config"
	"tasklink/internal/database"
	"tasklink/internal/middleware"
	"tasklink/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the cache client unset.
	SkipRedis bool
}

// InitRuntime connects to DB and Redis and, in development, ensures the demo
// recruiter exists. The Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var r *redis.Client
	if !opts.SkipRedis {
		r = cache.InitRedis(cfg.RedisURL)
	}

	if err := ensureDemoRecruiter(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap demo recruiter: %w", err)
	}

	return db, r, nil
}

func ensureDemoRecruiter(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.SeedDemoRecruiter {
		return nil
	}
	if cfg.DemoPassword == "" {
		return fmt.Errorf("DEMO_RECRUITER_PASSWORD must be set when SEED_DEMO_RECRUITER is enabled")
	}

	user, err := seed.EnsureDemoRecruiter(db, seed.DemoRecruiter{
		Email:    cfg.DemoEmail,
		Password: cfg.DemoPassword,
	})
	if err != nil {
		return err
	}

	middleware.Logger.Info("demo recruiter ensured",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("email", user.Email),
	)
	return nil
}
