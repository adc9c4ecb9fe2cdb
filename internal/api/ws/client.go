package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

// client bridges one redis subscription to one websocket connection.
type client struct {
	conn          *websocket.Conn
	rdb           *redis.Client
	channel       string
	contestFilter *int64
	logger        *slog.Logger
}

func newClient(conn *websocket.Conn, rdb *redis.Client, channel string, contestFilter *int64, logger *slog.Logger) *client {
	return &client{
		conn:          conn,
		rdb:           rdb,
		channel:       channel,
		contestFilter: contestFilter,
		logger:        logger,
	}
}

func (c *client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.conn.Close()

	pubsub := c.rdb.Subscribe(ctx, c.channel)
	defer pubsub.Close()

	go c.readPump(cancel)
	c.writePump(ctx, pubsub)
}

// readPump only exists to notice the peer going away.
func (c *client) readPump(cancel context.CancelFunc) {
	defer cancel()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump(ctx context.Context, pubsub *redis.PubSub) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if c.contestFilter != nil && !matchesContest(msg.Payload, *c.contestFilter) {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func matchesContest(payload string, contestID int64) bool {
	var probe struct {
		ContestID int64 `json:"contest_id"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return false
	}
	return probe.ContestID == contestID
}
