package dispute

import "time"

type Status string

const (
	StatusOpen     Status = "open"
	StatusInReview Status = "in_review"
	StatusResolved Status = "resolved"
	StatusClosed   Status = "closed"
)

var transitions = map[Status][]Status{
	StatusOpen:     {StatusInReview, StatusResolved, StatusClosed},
	StatusInReview: {StatusResolved, StatusClosed},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active disputes hold their order in the disputed status.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusInReview
}

type Favor string

const (
	FavorInitiator    Favor = "initiator"
	FavorCounterparty Favor = "counterparty"
	FavorMutual       Favor = "mutual"
)

func (f Favor) Valid() bool {
	return f == FavorInitiator || f == FavorCounterparty || f == FavorMutual
}

// Dispute is the secondary state machine attached to exactly one order.
type Dispute struct {
	ID          int64      `json:"id"`
	OrderID     int64      `json:"order_id"`
	RaisedBy    int64      `json:"raised_by"`
	Reason      string     `json:"reason"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Resolution  string     `json:"resolution,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
