package model

// Vote is keyed by (contest, voter): one per pair, ever. Votes are not
// revocable or changeable.
type Vote struct {
	ContestID    int64  `json:"contest_id"`
	Voter        string `json:"voter"`
	SubmissionID int64  `json:"submission_id"`
	CreatedAt    int64  `json:"created_at"`
}
