package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"tasklink/internal/models"
	"tasklink/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const defaultMaxFeedConns = 10000

// ErrHubClosed is returned by Register after Shutdown.
var ErrHubClosed = errors.New("job feed is shutting down")

// JobFeedHub fans job events out to every connected WebSocket subscriber.
type JobFeedHub struct {
	mu       sync.RWMutex
	subs     map[*Subscriber]struct{}
	maxConns int
	closed   bool
	log      *observability.WSLogger
}

// NewJobFeedHub creates a hub accepting at most maxConns subscribers; zero
// uses the default limit.
func NewJobFeedHub(maxConns int) *JobFeedHub {
	if maxConns <= 0 {
		maxConns = defaultMaxFeedConns
	}
	return &JobFeedHub{
		subs:     make(map[*Subscriber]struct{}),
		maxConns: maxConns,
		log:      observability.NewWSLogger("job feed hub"),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *JobFeedHub) Name() string { return "job feed hub" }

// Register adds a subscriber. conn may be nil in tests.
func (h *JobFeedHub) Register(conn *websocket.Conn, userID uint) (*Subscriber, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	if len(h.subs) >= h.maxConns {
		h.mu.Unlock()
		return nil, errors.New("server connection limit reached")
	}
	sub := newSubscriber(h, conn, userID)
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	observability.WebSocketConnectionsTotal.Inc()
	h.log.LogConnect(context.Background(), sub.ID)
	return sub, nil
}

// Unregister removes s and closes its send channel. Safe to call twice.
func (h *JobFeedHub) Unregister(s *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[s]
	if ok {
		delete(h.subs, s)
		close(s.send)
	}
	h.mu.Unlock()

	if ok {
		observability.WebSocketConnectionsTotal.Dec()
		h.log.LogDisconnect(context.Background(), s.ID, "unregistered")
	}
}

// Count returns the number of connected subscribers.
func (h *JobFeedHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// BroadcastAll sends message to every connected subscriber.
func (h *JobFeedHub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		s.deliver(message)
	}
}

// PublishJobEvent delivers event to this process's subscribers only. It is
// the publisher used when Redis is not configured.
func (h *JobFeedHub) PublishJobEvent(_ context.Context, event models.JobEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal job event: %w", err)
	}
	h.BroadcastAll(payload)
	return nil
}

// StartWiring forwards every Redis job feed message to local subscribers.
func (h *JobFeedHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartJobFeedSubscriber(ctx, func(payload string) {
		h.BroadcastAll([]byte(payload))
	})
}

// Shutdown closes every subscriber's send channel, which makes its write pump
// send a close frame, and refuses new registrations.
func (h *JobFeedHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[*Subscriber]struct{})
	h.mu.Unlock()

	for s := range subs {
		close(s.send)
		observability.WebSocketConnectionsTotal.Dec()
		h.log.LogDisconnect(context.Background(), s.ID, "shutdown")
	}
	return nil
}
