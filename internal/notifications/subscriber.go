package notifications

import (
	"context"
	"log/slog"
	"time"

	"tasklink/internal/observability"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10 // must stay below pongWait
	maxInboundSize = 4096
	sendBufferSize = 64
)

var dropNotice = []byte(`{"type":"messages_dropped","reason":"buffer_full"}`)

// Subscriber is one WebSocket connection on the job feed. The feed is
// push-only; inbound frames are read only to process pongs and closes.
type Subscriber struct {
	ID     string
	UserID uint // zero for anonymous

	hub  *JobFeedHub
	conn *websocket.Conn // nil in tests
	send chan []byte
}

func newSubscriber(hub *JobFeedHub, conn *websocket.Conn, userID uint) *Subscriber {
	return &Subscriber{
		ID:     uuid.NewString(),
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// Serve runs the connection until the peer leaves or the hub shuts down.
// It blocks, so call it from the upgrade handler.
func (s *Subscriber) Serve() {
	go s.writeLoop()
	s.readLoop()
}

func (s *Subscriber) readLoop() {
	defer func() {
		s.hub.Unregister(s)
		_ = s.conn.Close()
	}()

	extend := func() { _ = s.conn.SetReadDeadline(time.Now().Add(pongWait)) }
	s.conn.SetReadLimit(maxInboundSize)
	extend()
	s.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		_, _, err := s.conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			s.hub.log.LogError(context.Background(), s.ID, err, "read")
		}
		return
	}
}

func (s *Subscriber) writeLoop() {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver queues msg without blocking. When the buffer is full the message
// is dropped and, if room remains, the subscriber is told to re-fetch.
// Must be called with the hub's read lock held so send is not closed.
func (s *Subscriber) deliver(msg []byte) {
	select {
	case s.send <- msg:
		return
	default:
	}

	observability.WebSocketBackpressureDrops.WithLabelValues(s.hub.Name(), "full").Inc()
	observability.GlobalLogger.Warn("job feed subscriber too slow, message dropped",
		slog.String("subscriber_id", s.ID),
		slog.Uint64("user_id", uint64(s.UserID)),
	)
	select {
	case s.send <- dropNotice:
	default:
	}
}
