package service

import (
	"context"
	"encoding/json"
	"testing"

	"remixarena/internal/domain/model"
)

// seedFacts runs a small contest to completion and returns its id. The run
// produces five facts: created, two remixes, a vote, then ended and paid.
func seedFacts(t *testing.T, env *testEnv) int64 {
	t.Helper()
	ctx := context.Background()
	host := addr(1)

	contest := env.createContest(t, host, 100, CreateContestRequest{})
	subA, err := env.submissions.SubmitRemix(ctx, contest.ID, addr(2), SubmitRemixRequest{RemixURI: "ipfs://a"})
	if err != nil {
		t.Fatalf("SubmitRemix failed: %v", err)
	}
	if _, err := env.submissions.SubmitRemix(ctx, contest.ID, addr(3), SubmitRemixRequest{RemixURI: "ipfs://b"}); err != nil {
		t.Fatalf("SubmitRemix failed: %v", err)
	}
	if _, err := env.votes.CastVote(ctx, contest.ID, addr(4), subA.ID); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if _, err := env.settlement.EndContest(ctx, contest.ID, host); err != nil {
		t.Fatalf("EndContest failed: %v", err)
	}
	return contest.ID
}

func TestListEventsFullHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	contestID := seedFacts(t, env)

	events, err := env.events.ListEvents(ctx, 0, 50, &contestID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}

	want := []model.EventType{
		model.EventContestCreated,
		model.EventRemixSubmitted,
		model.EventRemixSubmitted,
		model.EventVoteCast,
		model.EventContestEnded,
		model.EventPrizePaid,
	}
	if len(events) != len(want) {
		t.Fatalf("Expected %d facts, got %d: %+v", len(want), len(events), events)
	}
	for i, event := range events {
		if event.Type != want[i] {
			t.Errorf("Fact %d: expected %s, got %s", i, want[i], event.Type)
		}
		if len(event.Payload) == 0 || !json.Valid(event.Payload) {
			t.Errorf("Fact %d: payload must be self-contained JSON, got %q", i, event.Payload)
		}
	}
}

// Observers page through the log with their own cursor; resuming from the
// last seen seq never replays or skips facts.
func TestListEventsCursorPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	contestID := seedFacts(t, env)

	var all []model.ContestEvent
	cursor := int64(0)
	for {
		page, err := env.events.ListEvents(ctx, cursor, 2, &contestID)
		if err != nil {
			t.Fatalf("ListEvents failed: %v", err)
		}
		if len(page) == 0 {
			break
		}
		if len(page) > 2 {
			t.Fatalf("Page must honor the limit, got %d facts", len(page))
		}
		all = append(all, page...)
		cursor = page[len(page)-1].Seq
	}

	if len(all) != 6 {
		t.Fatalf("Expected 6 facts across pages, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Seq <= all[i-1].Seq {
			t.Fatalf("Paged facts must be strictly ordered, got %d after %d", all[i].Seq, all[i-1].Seq)
		}
	}
}

func TestListEventsContestFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	host := addr(1)

	first := seedFacts(t, env)
	second := env.createContest(t, host, 100, CreateContestRequest{Title: "Second"})

	filtered, err := env.events.ListEvents(ctx, 0, 50, &second.ID)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ContestID != second.ID {
		t.Fatalf("Expected only the second contest's fact, got %+v", filtered)
	}

	firstOnly, err := env.events.ListEvents(ctx, 0, 50, &first)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(firstOnly) != 6 {
		t.Fatalf("Expected the first contest's 6 facts, got %d", len(firstOnly))
	}

	unfiltered, err := env.events.ListEvents(ctx, 0, 50, nil)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(unfiltered) != 7 {
		t.Fatalf("Expected 7 facts without a filter, got %d", len(unfiltered))
	}
}

func TestListEventsLimitClamped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedFacts(t, env)

	// Nonsense limits fall back to the default instead of erroring.
	for _, limit := range []int{0, -5, 10000} {
		events, err := env.events.ListEvents(ctx, 0, limit, nil)
		if err != nil {
			t.Fatalf("ListEvents with limit %d failed: %v", limit, err)
		}
		if len(events) != 6 {
			t.Errorf("Limit %d: expected all 6 facts, got %d", limit, len(events))
		}
	}
}
