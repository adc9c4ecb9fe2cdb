package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"remixarena/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
	FindByID(ctx context.Context, id int64) (*model.Submission, error)
	// ListByContest returns submissions in ascending id order, which is
	// insertion order. The settlement tie-break depends on it.
	ListByContest(ctx context.Context, contestID int64) ([]model.Submission, error)
	Leaderboard(ctx context.Context, contestID int64) ([]model.Submission, error)
	CountBySubmitter(ctx context.Context, contestID int64, submitter string) (int, error)
	// IncrementVoteCount bumps the live counter inside the same tx that
	// records the vote. Returns the new count.
	IncrementVoteCount(ctx context.Context, tx *sql.Tx, id int64) (int64, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

const submissionColumns = `id, contest_id, submitter, remix_uri, payout, vote_count, created_at`

func (r *pgSubmissionRepository) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions (contest_id, submitter, remix_uri, payout, vote_count, created_at)
	          VALUES ($1, $2, $3, $4, 0, $5)
	          RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		sub.ContestID, sub.Submitter, sub.RemixURI, sub.Payout, sub.CreatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id int64) (*model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.ContestID, &sub.Submitter, &sub.RemixURI, &sub.Payout, &sub.VoteCount, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) ListByContest(ctx context.Context, contestID int64) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE contest_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, contestID)
}

func (r *pgSubmissionRepository) Leaderboard(ctx context.Context, contestID int64) ([]model.Submission, error) {
	// Ties rank by ascending id, matching the settlement tie-break.
	query := `SELECT ` + submissionColumns + ` FROM submissions
	          WHERE contest_id = $1 ORDER BY vote_count DESC, id ASC`
	return r.list(ctx, query, contestID)
}

func (r *pgSubmissionRepository) list(ctx context.Context, query string, contestID int64) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.list: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub := model.Submission{}
		if err := rows.Scan(
			&sub.ID, &sub.ContestID, &sub.Submitter, &sub.RemixURI, &sub.Payout, &sub.VoteCount, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.list scan: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *pgSubmissionRepository) CountBySubmitter(ctx context.Context, contestID int64, submitter string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE contest_id = $1 AND submitter = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, contestID, submitter).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountBySubmitter: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) IncrementVoteCount(ctx context.Context, tx *sql.Tx, id int64) (int64, error) {
	query := `UPDATE submissions SET vote_count = vote_count + 1 WHERE id = $1
	          RETURNING vote_count`
	var newCount int64
	if err := tx.QueryRowContext(ctx, query, id).Scan(&newCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrSubmissionNotFound
		}
		return 0, fmt.Errorf("pgSubmissionRepository.IncrementVoteCount: %w", err)
	}
	return newCount, nil
}
