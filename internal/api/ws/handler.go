package ws

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"remixarena/internal/platform/config"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Handler streams the fact log over a websocket. Each connection subscribes
// to the redis channel the event relay publishes on; an optional contest_id
// query param filters the stream client-side of redis.
type Handler struct {
	rdb      *redis.Client
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(rdb *redis.Client, logger *slog.Logger) *Handler {
	return &Handler{
		rdb: rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				return true
			},
		},
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var contestFilter *int64
	if raw := r.URL.Query().Get("contest_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid contest_id", http.StatusBadRequest)
			return
		}
		contestFilter = &id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(conn, h.rdb, config.AppConfig.EventChannel, contestFilter, h.logger)
	client.run(r.Context())
}
