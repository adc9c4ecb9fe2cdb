package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"remixarena/internal/domain/model"
)

// TestConcurrentVotes verifies that simultaneous votes from different voters
// leave the live counter equal to the number of vote records.
func TestConcurrentVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	contest := env.createContest(t, host, 100, CreateContestRequest{})
	sub, _ := env.submissions.SubmitRemix(ctx, contest.ID, addr(2), SubmitRemixRequest{RemixURI: "ipfs://r1"})

	numVoters := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()
			if _, err := env.votes.CastVote(ctx, contest.ID, addr(100+voterIdx), sub.ID); err == nil {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	cached, err := env.votes.GetVoteCount(ctx, contest.ID, sub.ID)
	if err != nil {
		t.Fatalf("GetVoteCount failed: %v", err)
	}
	recounted, err := env.voteRepo.CountBySubmission(ctx, sub.ID)
	if err != nil {
		t.Fatalf("CountBySubmission failed: %v", err)
	}
	if cached != int64(numVoters) || recounted != int64(numVoters) {
		t.Errorf("Counter drifted: cached=%d recounted=%d want=%d", cached, recounted, numVoters)
	}
}

// TestConcurrentDoubleVote verifies a racing voter gets exactly one vote in.
func TestConcurrentDoubleVote(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	voter := addr(7)

	contest := env.createContest(t, host, 100, CreateContestRequest{})
	sub, _ := env.submissions.SubmitRemix(ctx, contest.ID, addr(2), SubmitRemixRequest{RemixURI: "ipfs://r1"})

	attempts := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.votes.CastVote(ctx, contest.ID, voter, sub.ID); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Exactly one of the racing votes may succeed, got %d", successCount.Load())
	}
	count, _ := env.votes.GetVoteCount(ctx, contest.ID, sub.ID)
	if count != 1 {
		t.Errorf("Expected vote count 1, got %d", count)
	}
}

// TestConcurrentSettlement verifies two simultaneous end calls cannot both
// pay out.
func TestConcurrentSettlement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)
	payout := addr(20)

	contest := env.createContest(t, host, 100, CreateContestRequest{})
	sub, _ := env.submissions.SubmitRemix(ctx, contest.ID, addr(2), SubmitRemixRequest{RemixURI: "ipfs://r1", Payout: payout})
	if _, err := env.votes.CastVote(ctx, contest.ID, addr(3), sub.ID); err != nil {
		t.Fatalf("Vote failed: %v", err)
	}

	attempts := 8
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.settlement.EndContest(ctx, contest.ID, host)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, model.ErrAlreadyEnded):
				conflictCount.Add(1)
			default:
				t.Errorf("Unexpected settlement error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Exactly one settlement may succeed, got %d", successCount.Load())
	}
	if conflictCount.Load() != int32(attempts-1) {
		t.Errorf("Expected %d AlreadyEnded failures, got %d", attempts-1, conflictCount.Load())
	}

	// The prize moved exactly once.
	balance, _ := env.ledger.Balance(ctx, payout)
	if balance != 100 {
		t.Errorf("Payout balance must be exactly 100, got %d", balance)
	}
}

// TestConcurrentVotesAcrossContests verifies independent contests do not
// serialize against each other's state.
func TestConcurrentVotesAcrossContests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	contests := make([]*model.Contest, 4)
	subs := make([]int64, 4)
	for i := range contests {
		contests[i] = env.createContest(t, host, 100, CreateContestRequest{Title: "Parallel"})
		sub, err := env.submissions.SubmitRemix(ctx, contests[i].ID, addr(2), SubmitRemixRequest{RemixURI: "ipfs://r"})
		if err != nil {
			t.Fatalf("SubmitRemix failed: %v", err)
		}
		subs[i] = sub.ID
	}

	var wg sync.WaitGroup
	for i := range contests {
		for v := 0; v < 5; v++ {
			wg.Add(1)
			go func(contestIdx, voterIdx int) {
				defer wg.Done()
				if _, err := env.votes.CastVote(ctx, contests[contestIdx].ID, addr(200+voterIdx), subs[contestIdx]); err != nil {
					t.Errorf("Vote failed: %v", err)
				}
			}(i, i*5+v)
		}
	}
	wg.Wait()

	for i := range contests {
		count, _ := env.votes.GetVoteCount(ctx, contests[i].ID, subs[i])
		if count != 5 {
			t.Errorf("Contest %d: expected 5 votes, got %d", contests[i].ID, count)
		}
	}
}
