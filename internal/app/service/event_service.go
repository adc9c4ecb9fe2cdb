package service

import (
	"context"

	"remixarena/internal/domain/model"
	"remixarena/internal/domain/repository"
)

type EventService struct {
	eventRepo repository.EventRepository
}

func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// ListEvents returns facts with seq greater than after, oldest first.
// Observers that poll keep their own cursor; every payload is self-contained
// so a missed window is recoverable by just polling again.
func (s *EventService) ListEvents(ctx context.Context, after int64, limit int, contestID *int64) ([]model.ContestEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.eventRepo.ListAfter(ctx, after, limit, contestID)
}
