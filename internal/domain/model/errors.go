package model

import (
	"fmt"

	"remixarena/internal/common"
)

// Domain errors. Each wraps one of the common sentinels so the HTTP layer
// can map it to a status without knowing the specific failure.
var (
	ErrContestNotFound    = fmt.Errorf("contest not found: %w", common.ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("submission not found: %w", common.ErrNotFound)

	ErrInvalidPrize     = fmt.Errorf("prize amount must be positive: %w", common.ErrValidation)
	ErrInvalidReference = fmt.Errorf("track reference must not be empty: %w", common.ErrValidation)
	ErrEmptyReference   = fmt.Errorf("remix reference must not be empty: %w", common.ErrValidation)
	ErrInvalidIdentity  = fmt.Errorf("identity is not a well-formed address: %w", common.ErrValidation)
	ErrPayoutMismatch   = fmt.Errorf("contest does not allow a separate payout address: %w", common.ErrValidation)

	ErrContestEnded     = fmt.Errorf("contest has already ended: %w", common.ErrConflict)
	ErrAlreadyVoted     = fmt.Errorf("already voted in this contest: %w", common.ErrConflict)
	ErrAlreadySubmitted = fmt.Errorf("already submitted to this contest: %w", common.ErrConflict)
	ErrAlreadyEnded     = fmt.Errorf("contest settlement already happened: %w", common.ErrConflict)
	ErrNoSubmissions    = fmt.Errorf("contest has no submissions: %w", common.ErrConflict)
	ErrNoWinner         = fmt.Errorf("no submission received any votes: %w", common.ErrConflict)

	ErrNotHost           = fmt.Errorf("only the contest host may do this: %w", common.ErrForbidden)
	ErrHostForbidden     = fmt.Errorf("host may not enter their own contest: %w", common.ErrForbidden)
	ErrSelfVoteForbidden = fmt.Errorf("voting for yourself is forbidden: %w", common.ErrForbidden)

	ErrInsufficientAllowance = fmt.Errorf("prize allowance not covered: %w", common.ErrInsufficientFunds)
	ErrInsufficientBalance   = fmt.Errorf("balance does not cover amount: %w", common.ErrInsufficientFunds)
)
