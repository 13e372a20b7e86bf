package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusDisputed  Status = "disputed"
)

// transitions is the closed table of legal moves. Anything not listed is an
// invalid transition, full stop.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusDisputed},
	StatusDisputed:  {StatusCompleted, StatusCancelled, StatusConfirmed},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is one escrow agreement between an initiator and a counterparty.
// Once terminal it never changes again.
type Order struct {
	ID             int64           `json:"id"`
	Ref            uuid.UUID       `json:"ref"`
	PairID         int64           `json:"pair_id"`
	InitiatorID    int64           `json:"initiator_id"`
	CounterpartyID int64           `json:"counterparty_id,omitempty"` // 0 until matched
	Side           Side            `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	Price          decimal.Decimal `json:"price"`
	EscrowCurrency string          `json:"escrow_currency"`
	EscrowAmount   decimal.Decimal `json:"escrow_amount"`
	FeeAmount      decimal.Decimal `json:"fee_amount"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	DisputedAt     *time.Time      `json:"disputed_at,omitempty"`
}

// Matched reports whether a counterparty has taken the other side.
func (o *Order) Matched() bool {
	return o.CounterpartyID != 0
}

// Party reports whether the given user is on either side of the order.
func (o *Order) Party(userID int64) bool {
	return userID == o.InitiatorID || (o.Matched() && userID == o.CounterpartyID)
}

// Notional is the order's value in the quote currency.
func (o *Order) Notional() decimal.Decimal {
	return o.Amount.Mul(o.Price)
}

// TradingPair definitions are owned by the administrative collaborator; the
// lifecycle only reads them. Only IsActive and the limits ever change after
// orders reference a pair.
type TradingPair struct {
	ID              int64           `json:"id"`
	BaseCurrencyID  string          `json:"base_currency_id"`
	QuoteCurrencyID string          `json:"quote_currency_id"`
	Symbol          string          `json:"symbol"`
	MinOrderAmount  decimal.Decimal `json:"min_order_amount"`
	MaxOrderAmount  decimal.Decimal `json:"max_order_amount"`
	TradingFee      decimal.Decimal `json:"trading_fee"` // fraction, 0 <= fee < 1
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}
