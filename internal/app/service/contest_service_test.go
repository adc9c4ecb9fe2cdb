package service

import (
	"context"
	"errors"
	"testing"

	"remixarena/internal/common"
	"remixarena/internal/domain/model"
)

func TestCreateContest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	env.fundHost(t, host, 500)

	contest, err := env.contests.CreateContest(ctx, host, CreateContestRequest{
		Title:       "Midnight Drive Remix Contest",
		TrackURI:    "ipfs://QmTrack",
		PrizeAmount: 100,
	})
	if err != nil {
		t.Fatalf("CreateContest failed: %v", err)
	}

	if contest.ID == 0 {
		t.Error("Expected a contest id to be assigned")
	}
	if !contest.Active {
		t.Error("New contest must be active")
	}
	if contest.WinningSubmissionID != nil || contest.EndedAt != nil {
		t.Error("New contest must not carry settlement state")
	}
	if contest.Slug == "" {
		t.Error("Expected a slug")
	}
	if contest.Policy.HostCanSubmit {
		t.Error("HostCanSubmit must default to false")
	}

	got, err := env.contests.GetContest(ctx, contest.ID)
	if err != nil {
		t.Fatalf("GetContest failed: %v", err)
	}
	if got.Host != host || got.PrizeAmount != 100 || got.TrackURI != "ipfs://QmTrack" {
		t.Errorf("Stored contest does not match: %+v", got)
	}

	// Creation emits a self-contained fact.
	events, err := env.events.ListEvents(ctx, 0, 10, &contest.ID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Type != model.EventContestCreated {
		t.Fatalf("Expected one contest_created event, got %+v", events)
	}
}

func TestCreateContestValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	env.fundHost(t, host, 500)

	tests := []struct {
		name    string
		host    string
		req     CreateContestRequest
		wantErr error
	}{
		{
			name:    "zero prize",
			host:    host,
			req:     CreateContestRequest{Title: "t", TrackURI: "ipfs://x", PrizeAmount: 0},
			wantErr: model.ErrInvalidPrize,
		},
		{
			name:    "negative prize",
			host:    host,
			req:     CreateContestRequest{Title: "t", TrackURI: "ipfs://x", PrizeAmount: -5},
			wantErr: model.ErrInvalidPrize,
		},
		{
			name:    "empty track reference",
			host:    host,
			req:     CreateContestRequest{Title: "t", TrackURI: "", PrizeAmount: 10},
			wantErr: model.ErrInvalidReference,
		},
		{
			name:    "malformed host identity",
			host:    "not-an-address",
			req:     CreateContestRequest{Title: "t", TrackURI: "ipfs://x", PrizeAmount: 10},
			wantErr: model.ErrInvalidIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.contests.CreateContest(ctx, tt.host, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateContestRequiresAllowance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	// Funded but never approved.
	if err := env.ledger.Credit(ctx, host, 500); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	_, err := env.contests.CreateContest(ctx, host, CreateContestRequest{
		Title:       "No Allowance",
		TrackURI:    "ipfs://x",
		PrizeAmount: 100,
	})
	if !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("Expected insufficient funds error, got %v", err)
	}

	// Partial allowance is not enough either.
	if err := env.ledger.Approve(ctx, host, testEscrow, 99); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	_, err = env.contests.CreateContest(ctx, host, CreateContestRequest{
		Title:       "Short Allowance",
		TrackURI:    "ipfs://x",
		PrizeAmount: 100,
	})
	if !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("Expected insufficient funds error, got %v", err)
	}
}

func TestGetContestNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.contests.GetContest(context.Background(), 999)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Expected not found error, got %v", err)
	}
}

func TestListContests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	first := env.createContest(t, host, 100, CreateContestRequest{Title: "First"})
	second := env.createContest(t, host, 100, CreateContestRequest{Title: "Second"})

	all, err := env.contests.ListContests(ctx, false, 10, 0)
	if err != nil {
		t.Fatalf("ListContests failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 contests, got %d", len(all))
	}
	// Newest first.
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Errorf("Expected newest-first ordering, got %d then %d", all[0].ID, all[1].ID)
	}
}
