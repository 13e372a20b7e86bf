package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is one VIP plan from the administrative catalog.
type Tier struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	MaxOrderAmount decimal.Decimal `json:"max_order_amount"`
	DurationDays   int             `json:"duration_days"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Subscription records one user's purchase of a tier. Upgrading supersedes
// the previous subscription; the most recent non-expired one wins.
type Subscription struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	TierID         int64           `json:"tier_id"`
	TierName       string          `json:"tier_name"`
	MaxOrderAmount decimal.Decimal `json:"max_order_amount"`
	StartedAt      time.Time       `json:"started_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

func (s *Subscription) Active(now time.Time) bool {
	return s != nil && s.ExpiresAt.After(now)
}
