package model

// ContestPolicy holds the per-contest feature toggles. Policies are fixed at
// creation; changing the rules mid-contest would invalidate votes already
// cast under the old rules.
type ContestPolicy struct {
	// AllowMultipleSubmissions permits more than one submission per
	// submitter in the same contest.
	AllowMultipleSubmissions bool `json:"allow_multiple_submissions"`
	// HostCanSubmit permits the host to enter (and vote in) their own
	// contest. Off by default so a host cannot bias their own settlement.
	HostCanSubmit bool `json:"host_can_submit"`
	// SeparatePayoutAddress permits a payout identity different from the
	// submitter. When off, the payout is forced to the submitter.
	SeparatePayoutAddress bool `json:"separate_payout_address"`
}

func DefaultContestPolicy() ContestPolicy {
	return ContestPolicy{
		AllowMultipleSubmissions: true,
		HostCanSubmit:            false,
		SeparatePayoutAddress:    true,
	}
}

// Contest is one "host posts a track + prize, collects remixes, collects
// votes, pays a winner" instance. It is either
// active=true/endedAt=0/winner unset, or ended with all three set at once.
type Contest struct {
	ID          int64         `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Host        string        `json:"host"`
	TrackURI    string        `json:"track_uri"`
	PrizeAmount int64         `json:"prize_amount"`
	Active      bool          `json:"active"`
	Policy      ContestPolicy `json:"policy"`
	// WinningSubmissionID is nil until settlement and immutable after.
	WinningSubmissionID *int64 `json:"winning_submission_id,omitempty"`
	CreatedAt           int64  `json:"created_at"`
	EndedAt             *int64 `json:"ended_at,omitempty"`
}
