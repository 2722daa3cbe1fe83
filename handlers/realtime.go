package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"snakeladder/models"
)

const writeWait = 10 * time.Second

// GameSSEHandler streams gameUpdated events. The current snapshot is sent
// first, then every committed change.
func (h *Handler) GameSSEHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	subscriber := h.hub.CreateGameSubscriber(g.ID, c.Request.Context())
	defer h.hub.RemoveGameSubscriber(subscriber)

	c.SSEvent(models.EventGameUpdated, g.Snapshot())
	c.Writer.Flush()

	for {
		select {
		case event, open := <-subscriber.Channel:
			if !open {
				return
			}
			c.SSEvent(event.Type, event.Data)
			c.Writer.Flush()
		case <-subscriber.Context.Done():
			return
		}
	}
}

// GameSocketHandler streams gameUpdated events as websocket frames of the
// form {"event":"gameUpdated","data":{...}}. Messages from the client are
// read and discarded.
func (h *Handler) GameSocketHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("game_id", g.ID), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	subscriber := h.hub.CreateGameSubscriber(g.ID, ctx)
	defer h.hub.RemoveGameSubscriber(subscriber)

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	initial := models.GameEvent{Type: models.EventGameUpdated, GameID: g.ID, Data: g.Snapshot()}
	if err := writeEvent(conn, initial); err != nil {
		return
	}

	for {
		select {
		case event, open := <-subscriber.Channel:
			if !open {
				return
			}
			if err := writeEvent(conn, event); err != nil {
				h.log.Debug("websocket write failed", zap.String("game_id", g.ID), zap.Error(err))
				return
			}
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, event models.GameEvent) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(event)
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
