package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"remixarena/internal/domain/model"
	"remixarena/internal/domain/repository"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	contestRepo    repository.ContestRepository
	eventRepo      repository.EventRepository
	db             *sql.DB
	locks          *ContestLocks
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	contestRepo repository.ContestRepository,
	eventRepo repository.EventRepository,
	db *sql.DB,
	locks *ContestLocks,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		contestRepo:    contestRepo,
		eventRepo:      eventRepo,
		db:             db,
		locks:          locks,
	}
}

type SubmitRemixRequest struct {
	RemixURI string `json:"remix_uri"`
	// Payout defaults to the submitter when empty.
	Payout string `json:"payout,omitempty"`
}

func (s *SubmissionService) SubmitRemix(ctx context.Context, contestID int64, submitter string, req SubmitRemixRequest) (*model.Submission, error) {
	if !model.ValidIdentity(submitter) {
		return nil, model.ErrInvalidIdentity
	}
	if req.RemixURI == "" {
		return nil, model.ErrEmptyReference
	}

	payout := req.Payout
	if payout == "" {
		payout = submitter
	}
	if !model.ValidIdentity(payout) {
		return nil, model.ErrInvalidIdentity
	}

	unlock := s.locks.Lock(contestID)
	defer unlock()

	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if !contest.Active {
		return nil, model.ErrContestEnded
	}
	if submitter == contest.Host && !contest.Policy.HostCanSubmit {
		return nil, model.ErrHostForbidden
	}
	if payout != submitter && !contest.Policy.SeparatePayoutAddress {
		return nil, model.ErrPayoutMismatch
	}
	if !contest.Policy.AllowMultipleSubmissions {
		count, err := s.submissionRepo.CountBySubmitter(ctx, contestID, submitter)
		if err != nil {
			return nil, fmt.Errorf("failed to count submissions: %w", err)
		}
		if count > 0 {
			return nil, model.ErrAlreadySubmitted
		}
	}

	submission := &model.Submission{
		ContestID: contestID,
		Submitter: submitter,
		RemixURI:  req.RemixURI,
		Payout:    payout,
		CreatedAt: time.Now().Unix(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.Create(ctx, tx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	event, err := model.NewContestEvent(contestID, model.EventRemixSubmitted, model.RemixSubmittedPayload{
		ContestID:    contestID,
		SubmissionID: submission.ID,
		Submitter:    submitter,
		RemixURI:     submission.RemixURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build remix_submitted event: %w", err)
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to append remix_submitted event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("remix submitted", "contest_id", contestID, "submission_id", submission.ID, "submitter", submitter)
	return submission, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	return s.submissionRepo.FindByID(ctx, id)
}

// GetSubmissions returns the contest's submissions in submission order
// (ascending id).
func (s *SubmissionService) GetSubmissions(ctx context.Context, contestID int64) ([]model.Submission, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		return nil, err
	}
	return s.submissionRepo.ListByContest(ctx, contestID)
}

// GetLeaderboard returns submissions ranked by votes desc, earliest first on
// ties.
func (s *SubmissionService) GetLeaderboard(ctx context.Context, contestID int64) ([]model.Submission, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		return nil, err
	}
	return s.submissionRepo.Leaderboard(ctx, contestID)
}
