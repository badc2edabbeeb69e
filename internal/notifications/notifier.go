// Package notifications delivers job lifecycle events to live subscribers
// through Redis pub/sub and WebSocket fan-out.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"tasklink/internal/models"
	"tasklink/internal/observability"

	"github.com/redis/go-redis/v9"
)

// JobFeedChannel is the Redis channel carrying every job event.
const JobFeedChannel = "jobs:feed"

// Notifier publishes job events into Redis and subscribes to them.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishJobEvent encodes event as JSON onto the job feed channel. A nil
// client is a no-op.
func (n *Notifier) PublishJobEvent(ctx context.Context, event models.JobEvent) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal job event: %w", err)
	}
	return n.rdb.Publish(ctx, JobFeedChannel, string(payload)).Err()
}

// StartJobFeedSubscriber subscribes to the job feed and calls onMessage for
// each payload until ctx is cancelled.
func (n *Notifier) StartJobFeedSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, JobFeedChannel)
	// Wait for the subscription to be confirmed so publishes right after
	// this call are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", JobFeedChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							observability.GlobalLogger.Error("panic in job feed subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())),
							)
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
