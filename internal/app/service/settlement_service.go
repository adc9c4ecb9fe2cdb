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

// SettlementService ends a contest: it picks the winner from the live
// counters and pays the prize, exactly once. The ended flip, the transfer and
// both fact-log rows share one transaction, so "ended" and "paid" are never
// observable apart. A failed transfer rolls everything back and the contest
// stays active and retryable.
type SettlementService struct {
	contestRepo    repository.ContestRepository
	submissionRepo repository.SubmissionRepository
	eventRepo      repository.EventRepository
	ledger         repository.TokenLedger
	escrow         string
	db             *sql.DB
	locks          *ContestLocks
}

func NewSettlementService(
	contestRepo repository.ContestRepository,
	submissionRepo repository.SubmissionRepository,
	eventRepo repository.EventRepository,
	ledger repository.TokenLedger,
	escrow string,
	db *sql.DB,
	locks *ContestLocks,
) *SettlementService {
	return &SettlementService{
		contestRepo:    contestRepo,
		submissionRepo: submissionRepo,
		eventRepo:      eventRepo,
		ledger:         ledger,
		escrow:         escrow,
		db:             db,
		locks:          locks,
	}
}

type SettlementResult struct {
	Contest           *model.Contest    `json:"contest"`
	WinningSubmission *model.Submission `json:"winning_submission"`
	WinningVotes      int64             `json:"winning_votes"`
}

func (s *SettlementService) EndContest(ctx context.Context, contestID int64, caller string) (*SettlementResult, error) {
	unlock := s.locks.Lock(contestID)
	defer unlock()

	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		return nil, err
	}
	if caller != contest.Host {
		return nil, model.ErrNotHost
	}
	if !contest.Active {
		return nil, model.ErrAlreadyEnded
	}

	submissions, err := s.submissionRepo.ListByContest(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	if len(submissions) == 0 {
		return nil, model.ErrNoSubmissions
	}

	// Single left-to-right scan in submission order with a strict greater-
	// than comparison. The first-submitted entry among any tied maximum
	// wins; the guarantee comes from scan order, not from sorting.
	winner := &submissions[0]
	for i := 1; i < len(submissions); i++ {
		if submissions[i].VoteCount > winner.VoteCount {
			winner = &submissions[i]
		}
	}
	if winner.VoteCount == 0 {
		return nil, model.ErrNoWinner
	}

	endedAt := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.contestRepo.MarkEnded(ctx, tx, contestID, winner.ID, endedAt); err != nil {
		return nil, err
	}

	if err := s.ledger.TransferFrom(ctx, tx, contest.Host, s.escrow, winner.Payout, contest.PrizeAmount); err != nil {
		return nil, fmt.Errorf("prize transfer failed: %w", err)
	}

	endedEvent, err := model.NewContestEvent(contestID, model.EventContestEnded, model.ContestEndedPayload{
		ContestID:           contestID,
		WinningSubmissionID: winner.ID,
		Winner:              winner.Submitter,
		VoteCount:           winner.VoteCount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build contest_ended event: %w", err)
	}
	if err := s.eventRepo.Append(ctx, tx, endedEvent); err != nil {
		return nil, fmt.Errorf("failed to append contest_ended event: %w", err)
	}

	paidEvent, err := model.NewContestEvent(contestID, model.EventPrizePaid, model.PrizePaidPayload{
		ContestID: contestID,
		Recipient: winner.Payout,
		Amount:    contest.PrizeAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build prize_paid event: %w", err)
	}
	if err := s.eventRepo.Append(ctx, tx, paidEvent); err != nil {
		return nil, fmt.Errorf("failed to append prize_paid event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	contest.Active = false
	contest.EndedAt = &endedAt
	winnerID := winner.ID
	contest.WinningSubmissionID = &winnerID

	slog.Info("contest settled",
		"contest_id", contestID,
		"winning_submission_id", winner.ID,
		"votes", winner.VoteCount,
		"recipient", winner.Payout,
		"amount", contest.PrizeAmount,
	)

	return &SettlementResult{
		Contest:           contest,
		WinningSubmission: winner,
		WinningVotes:      winner.VoteCount,
	}, nil
}
