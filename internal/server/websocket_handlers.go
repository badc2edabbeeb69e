package server

import (
	"tasklink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// requireUpgrade rejects plain HTTP requests to websocket routes with 426.
func (s *Server) requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return models.RespondWithError(c, fiber.StatusUpgradeRequired,
			models.NewValidationError("WebSocket upgrade required"))
	}
	return c.Next()
}

// JobFeedHandler streams job lifecycle events to anonymous subscribers.
// @Summary Live job feed
// @Description WebSocket stream of job_created, job_updated, job_status_changed and job_deleted events.
// @Tags jobs
// @Router /ws/jobs [get]
func (s *Server) JobFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sub, err := s.jobFeed.Register(conn, 0)
		if err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"error","message":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		sub.Serve()
	})
}
