package service

import (
	"context"
	"errors"
	"testing"

	"remixarena/internal/domain/model"
)

func TestSubmitRemix(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	artist := addr(2)

	contest := env.createContest(t, host, 100, CreateContestRequest{})

	submission, err := env.submissions.SubmitRemix(ctx, contest.ID, artist, SubmitRemixRequest{
		RemixURI: "ipfs://QmRemix1",
	})
	if err != nil {
		t.Fatalf("SubmitRemix failed: %v", err)
	}

	if submission.ID == 0 {
		t.Error("Expected a submission id to be assigned")
	}
	if submission.Payout != artist {
		t.Errorf("Payout must default to the submitter, got %s", submission.Payout)
	}
	if submission.VoteCount != 0 {
		t.Errorf("New submission must start at zero votes, got %d", submission.VoteCount)
	}

	subs, err := env.submissions.GetSubmissions(ctx, contest.ID)
	if err != nil {
		t.Fatalf("GetSubmissions failed: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != submission.ID {
		t.Fatalf("Expected the stored submission, got %+v", subs)
	}
}

func TestSubmitRemixSeparatePayout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	artist := addr(2)
	payout := addr(3)

	contest := env.createContest(t, host, 100, CreateContestRequest{})

	submission, err := env.submissions.SubmitRemix(ctx, contest.ID, artist, SubmitRemixRequest{
		RemixURI: "ipfs://QmRemix1",
		Payout:   payout,
	})
	if err != nil {
		t.Fatalf("SubmitRemix failed: %v", err)
	}
	if submission.Payout != payout {
		t.Errorf("Expected payout %s, got %s", payout, submission.Payout)
	}

	// Policy can forbid a separate payout identity.
	strict := env.createContest(t, host, 100, CreateContestRequest{
		Title:                 "Strict Payout",
		SeparatePayoutAddress: boolPtr(false),
	})
	_, err = env.submissions.SubmitRemix(ctx, strict.ID, artist, SubmitRemixRequest{
		RemixURI: "ipfs://QmRemix2",
		Payout:   payout,
	})
	if !errors.Is(err, model.ErrPayoutMismatch) {
		t.Fatalf("Expected ErrPayoutMismatch, got %v", err)
	}
}

func TestSubmitRemixValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	artist := addr(2)

	contest := env.createContest(t, host, 100, CreateContestRequest{})

	tests := []struct {
		name      string
		contestID int64
		submitter string
		req       SubmitRemixRequest
		wantErr   error
	}{
		{
			name:      "empty remix reference",
			contestID: contest.ID,
			submitter: artist,
			req:       SubmitRemixRequest{RemixURI: ""},
			wantErr:   model.ErrEmptyReference,
		},
		{
			name:      "unknown contest",
			contestID: 999,
			submitter: artist,
			req:       SubmitRemixRequest{RemixURI: "ipfs://x"},
			wantErr:   model.ErrContestNotFound,
		},
		{
			name:      "malformed submitter",
			contestID: contest.ID,
			submitter: "bogus",
			req:       SubmitRemixRequest{RemixURI: "ipfs://x"},
			wantErr:   model.ErrInvalidIdentity,
		},
		{
			name:      "malformed payout",
			contestID: contest.ID,
			submitter: artist,
			req:       SubmitRemixRequest{RemixURI: "ipfs://x", Payout: "zzz"},
			wantErr:   model.ErrInvalidIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.submissions.SubmitRemix(ctx, tt.contestID, tt.submitter, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHostCannotSubmitByDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	contest := env.createContest(t, host, 100, CreateContestRequest{})

	_, err := env.submissions.SubmitRemix(ctx, contest.ID, host, SubmitRemixRequest{
		RemixURI: "ipfs://QmHostRemix",
	})
	if !errors.Is(err, model.ErrHostForbidden) {
		t.Fatalf("Expected ErrHostForbidden, got %v", err)
	}

	subs, err := env.submissions.GetSubmissions(ctx, contest.ID)
	if err != nil {
		t.Fatalf("GetSubmissions failed: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("Contest state must be unchanged, got %d submissions", len(subs))
	}
}

func TestHostCanSubmitWhenPolicyAllows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	contest := env.createContest(t, host, 100, CreateContestRequest{
		HostCanSubmit: boolPtr(true),
	})

	if _, err := env.submissions.SubmitRemix(ctx, contest.ID, host, SubmitRemixRequest{
		RemixURI: "ipfs://QmHostRemix",
	}); err != nil {
		t.Fatalf("Expected host submission to be allowed, got %v", err)
	}
}

func TestSingleSubmissionPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	artist := addr(2)

	contest := env.createContest(t, host, 100, CreateContestRequest{
		Title:                    "One Entry Each",
		AllowMultipleSubmissions: boolPtr(false),
	})

	if _, err := env.submissions.SubmitRemix(ctx, contest.ID, artist, SubmitRemixRequest{
		RemixURI: "ipfs://QmRemix1",
	}); err != nil {
		t.Fatalf("First submission failed: %v", err)
	}

	_, err := env.submissions.SubmitRemix(ctx, contest.ID, artist, SubmitRemixRequest{
		RemixURI: "ipfs://QmRemix2",
	})
	if !errors.Is(err, model.ErrAlreadySubmitted) {
		t.Fatalf("Expected ErrAlreadySubmitted, got %v", err)
	}

	// Another artist still gets in.
	if _, err := env.submissions.SubmitRemix(ctx, contest.ID, addr(3), SubmitRemixRequest{
		RemixURI: "ipfs://QmRemix3",
	}); err != nil {
		t.Fatalf("Second artist submission failed: %v", err)
	}
}

func TestSubmissionsOrderedByInsertion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	contest := env.createContest(t, host, 100, CreateContestRequest{})

	var ids []int64
	for i := 2; i <= 5; i++ {
		sub, err := env.submissions.SubmitRemix(ctx, contest.ID, addr(i), SubmitRemixRequest{
			RemixURI: "ipfs://QmRemix",
		})
		if err != nil {
			t.Fatalf("SubmitRemix failed: %v", err)
		}
		ids = append(ids, sub.ID)
	}

	subs, err := env.submissions.GetSubmissions(ctx, contest.ID)
	if err != nil {
		t.Fatalf("GetSubmissions failed: %v", err)
	}
	for i, sub := range subs {
		if sub.ID != ids[i] {
			t.Fatalf("Expected ascending-id order %v, got %+v", ids, subs)
		}
	}
}
