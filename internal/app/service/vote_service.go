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

type VoteService struct {
	voteRepo       repository.VoteRepository
	submissionRepo repository.SubmissionRepository
	contestRepo    repository.ContestRepository
	eventRepo      repository.EventRepository
	db             *sql.DB
	locks          *ContestLocks
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	submissionRepo repository.SubmissionRepository,
	contestRepo repository.ContestRepository,
	eventRepo repository.EventRepository,
	db *sql.DB,
	locks *ContestLocks,
) *VoteService {
	return &VoteService{
		voteRepo:       voteRepo,
		submissionRepo: submissionRepo,
		contestRepo:    contestRepo,
		eventRepo:      eventRepo,
		db:             db,
		locks:          locks,
	}
}

// CastVote records the (contest, voter) vote and bumps the submission's live
// counter in one transaction. The counter must equal the number of vote rows
// after every successful call; the shared tx is what keeps that true.
func (s *VoteService) CastVote(ctx context.Context, contestID int64, voter string, submissionID int64) (*model.Vote, error) {
	if !model.ValidIdentity(voter) {
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
	if voter == contest.Host && !contest.Policy.HostCanSubmit {
		return nil, model.ErrSelfVoteForbidden
	}

	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.ContestID != contestID {
		return nil, model.ErrSubmissionNotFound
	}
	if submission.Submitter == voter {
		return nil, model.ErrSelfVoteForbidden
	}

	voted, err := s.voteRepo.HasVoted(ctx, contestID, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to check vote ledger: %w", err)
	}
	if voted {
		return nil, model.ErrAlreadyVoted
	}

	vote := &model.Vote{
		ContestID:    contestID,
		Voter:        voter,
		SubmissionID: submissionID,
		CreatedAt:    time.Now().Unix(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.voteRepo.Create(ctx, tx, vote); err != nil {
		return nil, err
	}
	newCount, err := s.submissionRepo.IncrementVoteCount(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}

	event, err := model.NewContestEvent(contestID, model.EventVoteCast, model.VoteCastPayload{
		ContestID:    contestID,
		SubmissionID: submissionID,
		Voter:        voter,
		NewVoteCount: newCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build vote_cast event: %w", err)
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to append vote_cast event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("vote cast", "contest_id", contestID, "submission_id", submissionID, "voter", voter, "new_count", newCount)
	return vote, nil
}

func (s *VoteService) HasVoted(ctx context.Context, contestID int64, voter string) (bool, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		return false, err
	}
	return s.voteRepo.HasVoted(ctx, contestID, voter)
}

// GetVote returns the voter's vote in the contest, or ErrNotFound.
func (s *VoteService) GetVote(ctx context.Context, contestID int64, voter string) (*model.Vote, error) {
	if _, err := s.contestRepo.FindByID(ctx, contestID); err != nil {
		return nil, err
	}
	return s.voteRepo.FindByVoter(ctx, contestID, voter)
}

// GetVoteCount reads the live counter for a submission, verifying it belongs
// to the contest it is queried under.
func (s *VoteService) GetVoteCount(ctx context.Context, contestID, submissionID int64) (int64, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return 0, err
	}
	if submission.ContestID != contestID {
		return 0, model.ErrSubmissionNotFound
	}
	return submission.VoteCount, nil
}
