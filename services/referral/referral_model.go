package referral

import "time"

// Edge is one immutable membership link: a user references at most one
// referrer, ever.
type Edge struct {
	RefereeID  int64     `json:"referee_id"`
	ReferrerID int64     `json:"referrer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Member struct {
	UserID   int64     `json:"user_id"`
	Level    int       `json:"level"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamLevel is one bucket of the read-side projection over the membership
// graph. Computed on demand, never stored.
type TeamLevel struct {
	Level   int      `json:"level"`
	Members []Member `json:"members"`
}
