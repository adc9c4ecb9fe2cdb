package repository

import (
	"context"
	"database/sql"
	"fmt"

	"remixarena/internal/domain/model"
)

type EventRepository interface {
	// Append writes the fact inside the same tx as the state change that
	// produced it, so the log never records something that was rolled back.
	Append(ctx context.Context, tx *sql.Tx, event *model.ContestEvent) error
	// ListAfter returns facts with seq > after in ascending seq order.
	// contestID narrows to one contest when non-nil.
	ListAfter(ctx context.Context, after int64, limit int, contestID *int64) ([]model.ContestEvent, error)
}

type pgEventRepository struct {
	db *sql.DB
}

func NewPgEventRepository(db *sql.DB) EventRepository {
	return &pgEventRepository{db: db}
}

func (r *pgEventRepository) Append(ctx context.Context, tx *sql.Tx, event *model.ContestEvent) error {
	query := `INSERT INTO contest_events (contest_id, type, payload, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING seq`
	err := tx.QueryRowContext(ctx, query,
		event.ContestID, string(event.Type), string(event.Payload), event.CreatedAt,
	).Scan(&event.Seq)
	if err != nil {
		return fmt.Errorf("pgEventRepository.Append: %w", err)
	}
	return nil
}

func (r *pgEventRepository) ListAfter(ctx context.Context, after int64, limit int, contestID *int64) ([]model.ContestEvent, error) {
	query := `SELECT seq, contest_id, type, payload, created_at FROM contest_events WHERE seq > $1`
	args := []interface{}{after}
	if contestID != nil {
		query += ` AND contest_id = $2`
		args = append(args, *contestID)
	}
	query += fmt.Sprintf(` ORDER BY seq ASC LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.ListAfter: %w", err)
	}
	defer rows.Close()

	var events []model.ContestEvent
	for rows.Next() {
		event := model.ContestEvent{}
		var eventType, payload string
		if err := rows.Scan(&event.Seq, &event.ContestID, &eventType, &payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgEventRepository.ListAfter scan: %w", err)
		}
		event.Type = model.EventType(eventType)
		event.Payload = []byte(payload)
		events = append(events, event)
	}
	return events, rows.Err()
}
