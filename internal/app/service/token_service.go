package service

import (
	"context"
	"fmt"
	"log/slog"

	"remixarena/internal/common"
	"remixarena/internal/domain/model"
	"remixarena/internal/domain/repository"
)

// TokenService fronts the demo prize-token ledger: balances, the escrow
// allowance hosts must grant before creating a contest, and a faucet so demo
// accounts can fund themselves.
type TokenService struct {
	ledger     repository.TokenLedger
	escrow     string
	faucetDrip int64
}

func NewTokenService(ledger repository.TokenLedger, escrow string, faucetDrip int64) *TokenService {
	return &TokenService{ledger: ledger, escrow: escrow, faucetDrip: faucetDrip}
}

func (s *TokenService) EscrowAddress() string {
	return s.escrow
}

func (s *TokenService) Balance(ctx context.Context, owner string) (int64, error) {
	if !model.ValidIdentity(owner) {
		return 0, model.ErrInvalidIdentity
	}
	return s.ledger.Balance(ctx, owner)
}

func (s *TokenService) Allowance(ctx context.Context, owner string) (int64, error) {
	if !model.ValidIdentity(owner) {
		return 0, model.ErrInvalidIdentity
	}
	return s.ledger.Allowance(ctx, owner, s.escrow)
}

// Approve sets (not adds to) the owner's allowance for the contest escrow.
func (s *TokenService) Approve(ctx context.Context, owner string, amount int64) error {
	if !model.ValidIdentity(owner) {
		return model.ErrInvalidIdentity
	}
	if amount < 0 {
		return fmt.Errorf("allowance must not be negative: %w", common.ErrValidation)
	}
	if err := s.ledger.Approve(ctx, owner, s.escrow, amount); err != nil {
		return err
	}
	slog.Info("allowance approved", "owner", owner, "amount", amount)
	return nil
}

// Faucet credits the fixed drip amount to the caller.
func (s *TokenService) Faucet(ctx context.Context, owner string) (int64, error) {
	if !model.ValidIdentity(owner) {
		return 0, model.ErrInvalidIdentity
	}
	if err := s.ledger.Credit(ctx, owner, s.faucetDrip); err != nil {
		return 0, err
	}
	balance, err := s.ledger.Balance(ctx, owner)
	if err != nil {
		return 0, err
	}
	slog.Info("faucet drip", "owner", owner, "amount", s.faucetDrip)
	return balance, nil
}
