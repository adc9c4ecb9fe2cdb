package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"remixarena/internal/domain/repository"
	"remixarena/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// EventRelay tails the fact log and republishes each fact on a redis pub/sub
// channel for push consumers (the websocket feed). The cursor of the last
// published seq lives in redis, so a restart resumes where it left off. The
// durable log stays the source of truth; this path is best-effort fan-out.
type EventRelay struct {
	rdb       *redis.Client
	eventRepo repository.EventRepository
}

func NewEventRelay(rdb *redis.Client, eventRepo repository.EventRepository) *EventRelay {
	return &EventRelay{rdb: rdb, eventRepo: eventRepo}
}

func (w *EventRelay) Start(ctx context.Context) {
	interval := time.Duration(config.AppConfig.EventRelayIntervalMs) * time.Millisecond
	slog.Info("event relay started", "channel", config.AppConfig.EventChannel, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("event relay stopping")
			return
		case <-ticker.C:
			if err := w.relayOnce(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				slog.Error("event relay pass failed", "error", err)
			}
		}
	}
}

func (w *EventRelay) relayOnce(ctx context.Context) error {
	cursor, err := w.rdb.Get(ctx, config.AppConfig.EventCursorKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	events, err := w.eventRepo.ListAfter(ctx, cursor, config.AppConfig.EventRelayBatchSize, nil)
	if err != nil {
		return err
	}

	for _, event := range events {
		message, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := w.rdb.Publish(ctx, config.AppConfig.EventChannel, message).Err(); err != nil {
			return err
		}
		// Advance only after a successful publish. A crash between the
		// two means a duplicate on the channel, never a gap; payloads
		// carry their seq so consumers can dedupe.
		if err := w.rdb.Set(ctx, config.AppConfig.EventCursorKey, event.Seq, 0).Err(); err != nil {
			return err
		}
	}
	return nil
}
