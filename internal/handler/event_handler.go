package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/service"
	"github.com/agora-labs/agora-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"
)

// EventHandler streams change events to clients over SSE and websocket so
// dashboards update without polling.
type EventHandler struct {
	service   service.EventService
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewEventHandler constructs a handler instance.
func NewEventHandler(service service.EventService, logger zerolog.Logger, keepAlive time.Duration) *EventHandler {
	return &EventHandler{
		service:   service,
		logger:    logger.With().Str("component", "event_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register binds the event streaming routes.
func (h *EventHandler) Register(router fiber.Router) {
	router.Get("/stream", h.stream)

	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *EventHandler) stream(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(withRequestContext(c))

	events, cleanup := h.service.Subscribe()

	interval := h.keepAlive
	if interval <= 0 {
		interval = 30 * time.Second
	}

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			cleanup()
			cancel()
		}()

		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := writeChangeEvent(w, event); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write change event")
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					h.logger.Debug().Err(err).Msg("failed to write keepalive")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}

func (h *EventHandler) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	userID := ""
	if v, ok := conn.Locals("user_id").(string); ok {
		userID = v
	}
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "user id missing"))
		return
	}

	events, cleanup := h.service.Subscribe()
	defer cleanup()

	h.logger.Info().Str("user_id", userID).Msg("event websocket connected")
	defer h.logger.Info().Str("user_id", userID).Msg("event websocket disconnected")

	// Reads are drained only to detect the close frame; clients do not
	// send payloads on this socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := h.keepAlive
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeChangeEvent(w *bufio.Writer, event dto.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "event: %s.%s\n", event.Entity, event.Action); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}

func writeKeepAlive(w *bufio.Writer) error {
	if _, err := fmt.Fprintf(w, ": keep-alive %s\n\n", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return w.Flush()
}
