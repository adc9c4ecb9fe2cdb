package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"remixarena/internal/common"
	"remixarena/internal/domain/model"
)

type ContestRepository interface {
	Create(ctx context.Context, tx *sql.Tx, contest *model.Contest) error
	FindByID(ctx context.Context, id int64) (*model.Contest, error)
	FindBySlug(ctx context.Context, slug string) (*model.Contest, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]model.Contest, error)
	// MarkEnded flips active -> ended inside tx. It only touches rows that
	// are still active, so a concurrent settlement that lost the race
	// reports zero rows and maps to ErrAlreadyEnded.
	MarkEnded(ctx context.Context, tx *sql.Tx, id, winningSubmissionID, endedAt int64) error
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

const contestColumns = `id, slug, title, host, track_uri, prize_amount, active,
	allow_multiple_submissions, host_can_submit, separate_payout_address,
	winning_submission_id, created_at, ended_at`

func (r *pgContestRepository) Create(ctx context.Context, tx *sql.Tx, contest *model.Contest) error {
	query := `INSERT INTO contests
	          (slug, title, host, track_uri, prize_amount, active,
	           allow_multiple_submissions, host_can_submit, separate_payout_address, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		contest.Slug, contest.Title, contest.Host, contest.TrackURI, contest.PrizeAmount, contest.Active,
		contest.Policy.AllowMultipleSubmissions, contest.Policy.HostCanSubmit, contest.Policy.SeparatePayoutAddress,
		contest.CreatedAt,
	).Scan(&contest.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("contest slug already taken: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgContestRepository.Create: %w", err)
	}
	return nil
}

func (r *pgContestRepository) FindByID(ctx context.Context, id int64) (*model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *pgContestRepository) FindBySlug(ctx context.Context, slug string) (*model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests WHERE slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

func (r *pgContestRepository) scanOne(row *sql.Row) (*model.Contest, error) {
	contest := &model.Contest{}
	err := row.Scan(
		&contest.ID, &contest.Slug, &contest.Title, &contest.Host, &contest.TrackURI,
		&contest.PrizeAmount, &contest.Active,
		&contest.Policy.AllowMultipleSubmissions, &contest.Policy.HostCanSubmit, &contest.Policy.SeparatePayoutAddress,
		&contest.WinningSubmissionID, &contest.CreatedAt, &contest.EndedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrContestNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.scanOne: %w", err)
	}
	return contest, nil
}

func (r *pgContestRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]model.Contest, error) {
	query := `SELECT ` + contestColumns + ` FROM contests`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.List: %w", err)
	}
	defer rows.Close()

	var contests []model.Contest
	for rows.Next() {
		contest := model.Contest{}
		if err := rows.Scan(
			&contest.ID, &contest.Slug, &contest.Title, &contest.Host, &contest.TrackURI,
			&contest.PrizeAmount, &contest.Active,
			&contest.Policy.AllowMultipleSubmissions, &contest.Policy.HostCanSubmit, &contest.Policy.SeparatePayoutAddress,
			&contest.WinningSubmissionID, &contest.CreatedAt, &contest.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("pgContestRepository.List scan: %w", err)
		}
		contests = append(contests, contest)
	}
	return contests, rows.Err()
}

func (r *pgContestRepository) MarkEnded(ctx context.Context, tx *sql.Tx, id, winningSubmissionID, endedAt int64) error {
	query := `UPDATE contests
	          SET active = FALSE, winning_submission_id = $1, ended_at = $2
	          WHERE id = $3 AND active = TRUE`
	res, err := tx.ExecContext(ctx, query, winningSubmissionID, endedAt, id)
	if err != nil {
		return fmt.Errorf("pgContestRepository.MarkEnded: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgContestRepository.MarkEnded rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrAlreadyEnded
	}
	return nil
}
