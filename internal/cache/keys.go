package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "tasklink:user:%d"
	OpenJobsKey        = "tasklink:jobs:open"
	TokenBlacklistPref = "tasklink:blacklist:"
)

const (
	UserTTL = 5 * time.Minute
	// DefaultOpenJobsTTL applies when no TTL is configured.
	DefaultOpenJobsTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateOpenJobs drops the cached public listing after any job mutation.
func InvalidateOpenJobs(ctx context.Context) {
	Invalidate(ctx, OpenJobsKey)
}

// RevokeToken blacklists a token id until the token would have expired anyway.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return client.Set(ctx, TokenBlacklistPref+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was blacklisted by RevokeToken.
func IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	if client == nil {
		return false, nil
	}
	n, err := client.Exists(ctx, TokenBlacklistPref+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
