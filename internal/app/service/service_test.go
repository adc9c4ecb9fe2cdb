package service

import (
	"context"
	"fmt"
	"testing"

	"remixarena/internal/domain/model"
	"remixarena/internal/domain/repository"
	"remixarena/internal/testutil"
)

const testEscrow = "0xe5c2077a1111111111111111111111111111e5c2"

// testEnv wires the real repositories over an in-memory database, the same
// way main wires them over Postgres.
type testEnv struct {
	contests    *ContestService
	submissions *SubmissionService
	votes       *VoteService
	settlement  *SettlementService
	events      *EventService
	tokens      *TokenService
	ledger      repository.TokenLedger
	voteRepo    repository.VoteRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenTestDB(t)

	contestRepo := repository.NewPgContestRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)
	voteRepo := repository.NewPgVoteRepository(db)
	eventRepo := repository.NewPgEventRepository(db)
	ledger := repository.NewPgTokenLedger(db)
	locks := NewContestLocks()

	return &testEnv{
		contests:    NewContestService(contestRepo, eventRepo, ledger, testEscrow, db),
		submissions: NewSubmissionService(submissionRepo, contestRepo, eventRepo, db, locks),
		votes:       NewVoteService(voteRepo, submissionRepo, contestRepo, eventRepo, db, locks),
		settlement:  NewSettlementService(contestRepo, submissionRepo, eventRepo, ledger, testEscrow, db, locks),
		events:      NewEventService(eventRepo),
		tokens:      NewTokenService(ledger, testEscrow, 1000),
		ledger:      ledger,
		voteRepo:    voteRepo,
	}
}

// addr builds a deterministic well-formed identity for test actors.
func addr(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

// fundHost credits the host and approves the escrow so contest creation and
// settlement can proceed.
func (e *testEnv) fundHost(t *testing.T, host string, amount int64) {
	t.Helper()
	ctx := context.Background()
	if err := e.ledger.Credit(ctx, host, amount); err != nil {
		t.Fatalf("Failed to credit host: %v", err)
	}
	if err := e.ledger.Approve(ctx, host, testEscrow, amount); err != nil {
		t.Fatalf("Failed to approve escrow: %v", err)
	}
}

// createContest is the happy-path fixture most tests start from.
func (e *testEnv) createContest(t *testing.T, host string, prize int64, req CreateContestRequest) *model.Contest {
	t.Helper()
	e.fundHost(t, host, prize)
	if req.Title == "" {
		req.Title = "Test Contest"
	}
	if req.TrackURI == "" {
		req.TrackURI = "ipfs://track"
	}
	req.PrizeAmount = prize

	contest, err := e.contests.CreateContest(context.Background(), host, req)
	if err != nil {
		t.Fatalf("Failed to create contest: %v", err)
	}
	return contest
}

func boolPtr(b bool) *bool { return &b }
