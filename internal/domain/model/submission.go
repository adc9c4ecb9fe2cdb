package model

// Submission is one remix entry. IDs are assigned from a single system-wide
// sequence, so insertion order within a contest equals ascending id order.
// The winner scan in settlement depends on that ordering.
type Submission struct {
	ID        int64  `json:"id"`
	ContestID int64  `json:"contest_id"`
	Submitter string `json:"submitter"`
	RemixURI  string `json:"remix_uri"`
	// Payout receives the prize if this submission wins. May differ from
	// Submitter when the contest policy allows it.
	Payout string `json:"payout"`
	// VoteCount is a live counter maintained in the same transaction as
	// each vote record, never recomputed lazily.
	VoteCount int64 `json:"vote_count"`
	CreatedAt int64 `json:"created_at"`
}
