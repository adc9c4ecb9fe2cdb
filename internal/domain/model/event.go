package model

import (
	"encoding/json"
	"time"
)

// EventType enumerates the facts the platform emits.
type EventType string

const (
	EventContestCreated EventType = "contest_created"
	EventRemixSubmitted EventType = "remix_submitted"
	EventVoteCast       EventType = "vote_cast"
	EventContestEnded   EventType = "contest_ended"
	EventPrizePaid      EventType = "prize_paid"
)

// ContestEvent is one row of the append-only fact log. Seq is globally
// monotonic; payloads are self-contained so observers that only poll ranges
// never depend on ordering across fact types.
type ContestEvent struct {
	Seq       int64           `json:"seq"`
	ContestID int64           `json:"contest_id"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"created_at"`
}

type ContestCreatedPayload struct {
	ContestID   int64  `json:"contest_id"`
	Host        string `json:"host"`
	TrackURI    string `json:"track_uri"`
	PrizeAmount int64  `json:"prize_amount"`
}

type RemixSubmittedPayload struct {
	ContestID    int64  `json:"contest_id"`
	SubmissionID int64  `json:"submission_id"`
	Submitter    string `json:"submitter"`
	RemixURI     string `json:"remix_uri"`
}

type VoteCastPayload struct {
	ContestID    int64  `json:"contest_id"`
	SubmissionID int64  `json:"submission_id"`
	Voter        string `json:"voter"`
	NewVoteCount int64  `json:"new_vote_count"`
}

type ContestEndedPayload struct {
	ContestID           int64  `json:"contest_id"`
	WinningSubmissionID int64  `json:"winning_submission_id"`
	Winner              string `json:"winner"`
	VoteCount           int64  `json:"vote_count"`
}

type PrizePaidPayload struct {
	ContestID int64  `json:"contest_id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

// NewContestEvent marshals the payload into a log row. Seq is assigned by
// the store on append.
func NewContestEvent(contestID int64, eventType EventType, payload interface{}) (*ContestEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ContestEvent{
		ContestID: contestID,
		Type:      eventType,
		Payload:   raw,
		CreatedAt: time.Now().Unix(),
	}, nil
}
