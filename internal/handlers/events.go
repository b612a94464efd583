package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait     = 10 * time.Second
	wsPongWait      = 60 * time.Second
	wsPingPeriod    = (wsPongWait * 9) / 10
	wsMaxMsgSize    = 1 << 12
	feedInterval    = 5 * time.Second
	feedMinInterval = 1 * time.Second
	feedMaxInterval = 60 * time.Second
)

// wsEnvelope frames every message pushed on the catalog feed.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type catalogSnapshot struct {
	Count int         `json:"count"`
	Books interface{} `json:"books"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// catalogFeed streams periodic catalog snapshots so open tabs stay fresh
// without reloading. Browsers cannot set headers on websocket dials, so the
// bearer token is taken from the "token" query parameter instead.
func (h *Handler) catalogFeed(c *gin.Context) {
	raw := c.Query("token")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if _, err := h.services.Authenticate(raw); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(wsMaxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Drain incoming frames to service control messages and spot disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := feedIntervalParam(c)
	ticker := time.NewTicker(interval)
	ping := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := h.sendSnapshot(c.Request.Context(), conn); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.sendSnapshot(c.Request.Context(), conn); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

func feedIntervalParam(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= feedMinInterval && d <= feedMaxInterval {
			return d
		}
	}
	return feedInterval
}

func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn) error {
	books, err := h.services.List(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_snapshot_failed", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(wsEnvelope{
		Type: "catalog",
		Data: catalogSnapshot{Count: len(books), Books: books},
	})
}
