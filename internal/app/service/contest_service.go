package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"remixarena/internal/common"
	"remixarena/internal/domain/model"
	"remixarena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ContestService struct {
	contestRepo repository.ContestRepository
	eventRepo   repository.EventRepository
	ledger      repository.TokenLedger
	// escrow is the custodial spender the host's allowance must cover.
	escrow string
	db     *sql.DB
}

func NewContestService(
	contestRepo repository.ContestRepository,
	eventRepo repository.EventRepository,
	ledger repository.TokenLedger,
	escrow string,
	db *sql.DB,
) *ContestService {
	return &ContestService{
		contestRepo: contestRepo,
		eventRepo:   eventRepo,
		ledger:      ledger,
		escrow:      escrow,
		db:          db,
	}
}

type CreateContestRequest struct {
	Title       string `json:"title"`
	TrackURI    string `json:"track_uri"`
	PrizeAmount int64  `json:"prize_amount"`

	AllowMultipleSubmissions *bool `json:"allow_multiple_submissions,omitempty"`
	HostCanSubmit            *bool `json:"host_can_submit,omitempty"`
	SeparatePayoutAddress    *bool `json:"separate_payout_address,omitempty"`
}

func (s *ContestService) CreateContest(ctx context.Context, host string, req CreateContestRequest) (*model.Contest, error) {
	if !model.ValidIdentity(host) {
		return nil, model.ErrInvalidIdentity
	}
	if req.PrizeAmount <= 0 {
		return nil, model.ErrInvalidPrize
	}
	if req.TrackURI == "" {
		return nil, model.ErrInvalidReference
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title must not be empty: %w", common.ErrValidation)
	}

	// The prize is reserved by allowance, not moved. Funds transfer only at
	// settlement, so a contest that never concludes locks no capital.
	allowance, err := s.ledger.Allowance(ctx, host, s.escrow)
	if err != nil {
		return nil, fmt.Errorf("failed to check allowance: %w", err)
	}
	if allowance < req.PrizeAmount {
		return nil, model.ErrInsufficientAllowance
	}

	policy := model.DefaultContestPolicy()
	if req.AllowMultipleSubmissions != nil {
		policy.AllowMultipleSubmissions = *req.AllowMultipleSubmissions
	}
	if req.HostCanSubmit != nil {
		policy.HostCanSubmit = *req.HostCanSubmit
	}
	if req.SeparatePayoutAddress != nil {
		policy.SeparatePayoutAddress = *req.SeparatePayoutAddress
	}

	contest := &model.Contest{
		Slug:        slug.Make(req.Title) + "-" + uuid.NewString()[:8],
		Title:       req.Title,
		Host:        host,
		TrackURI:    req.TrackURI,
		PrizeAmount: req.PrizeAmount,
		Active:      true,
		Policy:      policy,
		CreatedAt:   time.Now().Unix(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.contestRepo.Create(ctx, tx, contest); err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	event, err := model.NewContestEvent(contest.ID, model.EventContestCreated, model.ContestCreatedPayload{
		ContestID:   contest.ID,
		Host:        contest.Host,
		TrackURI:    contest.TrackURI,
		PrizeAmount: contest.PrizeAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build contest_created event: %w", err)
	}
	if err := s.eventRepo.Append(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to append contest_created event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("contest created", "contest_id", contest.ID, "host", host, "prize", contest.PrizeAmount)
	return contest, nil
}

func (s *ContestService) GetContest(ctx context.Context, id int64) (*model.Contest, error) {
	return s.contestRepo.FindByID(ctx, id)
}

func (s *ContestService) GetContestBySlug(ctx context.Context, contestSlug string) (*model.Contest, error) {
	return s.contestRepo.FindBySlug(ctx, contestSlug)
}

func (s *ContestService) ListContests(ctx context.Context, activeOnly bool, limit, offset int) ([]model.Contest, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.contestRepo.List(ctx, activeOnly, limit, offset)
}
