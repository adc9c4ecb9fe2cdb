package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"remixarena/internal/common"
	"remixarena/internal/domain/model"
)

type VoteRepository interface {
	// Create inserts the (contest, voter) record inside tx. The primary
	// key on (contest_id, voter) is the hard backstop against double
	// voting; the service pre-check only exists for a friendlier error.
	Create(ctx context.Context, tx *sql.Tx, vote *model.Vote) error
	HasVoted(ctx context.Context, contestID int64, voter string) (bool, error)
	FindByVoter(ctx context.Context, contestID int64, voter string) (*model.Vote, error)
	// CountBySubmission recounts from the ledger itself. Used to audit the
	// live per-submission counter, never to serve reads.
	CountBySubmission(ctx context.Context, submissionID int64) (int64, error)
}

type pgVoteRepository struct {
	db *sql.DB
}

func NewPgVoteRepository(db *sql.DB) VoteRepository {
	return &pgVoteRepository{db: db}
}

func (r *pgVoteRepository) Create(ctx context.Context, tx *sql.Tx, vote *model.Vote) error {
	query := `INSERT INTO votes (contest_id, voter, submission_id, created_at)
	          VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, query, vote.ContestID, vote.Voter, vote.SubmissionID, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyVoted
		}
		return fmt.Errorf("pgVoteRepository.Create: %w", err)
	}
	return nil
}

func (r *pgVoteRepository) HasVoted(ctx context.Context, contestID int64, voter string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM votes WHERE contest_id = $1 AND voter = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, contestID, voter).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgVoteRepository.HasVoted: %w", err)
	}
	return exists, nil
}

func (r *pgVoteRepository) FindByVoter(ctx context.Context, contestID int64, voter string) (*model.Vote, error) {
	query := `SELECT contest_id, voter, submission_id, created_at
	          FROM votes WHERE contest_id = $1 AND voter = $2`
	vote := &model.Vote{}
	err := r.db.QueryRowContext(ctx, query, contestID, voter).Scan(
		&vote.ContestID, &vote.Voter, &vote.SubmissionID, &vote.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no vote recorded: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgVoteRepository.FindByVoter: %w", err)
	}
	return vote, nil
}

func (r *pgVoteRepository) CountBySubmission(ctx context.Context, submissionID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM votes WHERE submission_id = $1`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, submissionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgVoteRepository.CountBySubmission: %w", err)
	}
	return count, nil
}
