package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const liveWriteWait = 10 * time.Second

// liveHandler streams the overview to a websocket client: once on connect,
// then after every change, until either side goes away. A replaced
// dashboard is followed; a host that loses its dashboard ends the stream.
type liveHandler struct {
	source   DashboardSource
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func newLiveHandler(source DashboardSource, logger *slog.Logger) *liveHandler {
	return &liveHandler{
		source: source,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d, err := h.source.Dashboard()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("live upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only serve to notice the client closing.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		changed := d.Changed()
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
		if err := conn.WriteJSON(d.Overview()); err != nil {
			h.logger.Debug("live write failed", "error", err)
			return
		}

		select {
		case <-changed:
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(liveWriteWait))
			return
		}

		next, err := h.source.Dashboard()
		if err != nil {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()),
				time.Now().Add(liveWriteWait))
			return
		}
		d = next
	}
}

