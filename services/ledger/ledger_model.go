package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlatformAccountID is the reserved user id that collects trading fees.
const PlatformAccountID int64 = 0

type Wallet struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Currency      string          `json:"currency"`
	Balance       decimal.Decimal `json:"balance"`
	FrozenBalance decimal.Decimal `json:"frozen_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Total is the funds the wallet holds regardless of escrow state.
func (w *Wallet) Total() decimal.Decimal {
	return w.Balance.Add(w.FrozenBalance)
}

type EntryKind string

const (
	EntryReserve      EntryKind = "reserve"
	EntryRelease      EntryKind = "release"
	EntrySettleDebit  EntryKind = "settle_debit"
	EntrySettleCredit EntryKind = "settle_credit"
	EntryFee          EntryKind = "fee"
	EntryDeposit      EntryKind = "deposit"
	EntryTransfer     EntryKind = "transfer"
)

// Entry is one journal line; every balance movement leaves one behind so the
// whole ledger can be audited for conservation.
type Entry struct {
	ID        uuid.UUID       `json:"id"`
	WalletID  int64           `json:"wallet_id"`
	Kind      EntryKind       `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Reference uuid.UUID       `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
}

// Movement is an atomic delta against one wallet. BalanceDelta and
// FrozenDelta may both be set (a reservation moves funds between the two).
type Movement struct {
	WalletID     int64
	BalanceDelta decimal.Decimal
	FrozenDelta  decimal.Decimal
}
