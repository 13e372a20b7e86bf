package order

import (
	"context"
	"fmt"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/ledger"
	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/PeerTrade/PeerTrade-Backend/services/orderbook"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store interface {
	CreateOrder(ctx context.Context, o *Order) (*Order, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	UpdateOrder(ctx context.Context, o *Order) (*Order, error)
	ListUserOrders(ctx context.Context, userID int64) ([]Order, error)
	ListOpenOrdersByPair(ctx context.Context, pairID int64) ([]Order, error)
	ListStalePendingOrders(ctx context.Context, before time.Time) ([]Order, error)
	CreateTrade(ctx context.Context, t *orderbook.Trade) (*orderbook.Trade, error)
	GetPair(ctx context.Context, id int64) (*TradingPair, error)
	ListPairs(ctx context.Context) ([]TradingPair, error)
	CreatePair(ctx context.Context, p *TradingPair) (*TradingPair, error)
}

// Ledger is the escrow surface of the wallet ledger.
type Ledger interface {
	Reserve(ctx context.Context, userID int64, currency string, amount decimal.Decimal, ref uuid.UUID) error
	Release(ctx context.Context, userID int64, currency string, amount decimal.Decimal, ref uuid.UUID) error
	Settle(ctx context.Context, fromUserID, toUserID int64, currency string, amount, feeAmount decimal.Decimal, ref uuid.UUID) error
}

// Gate must pass before any reservation happens.
type Gate interface {
	Authorize(ctx context.Context, userID int64, amount decimal.Decimal) error
	RecordUsage(ctx context.Context, userID int64, amount decimal.Decimal)
}

// Notifier is told, fire-and-forget, when an order enters dispute.
type Notifier interface {
	OrderDisputed(orderID int64, raisedBy int64)
}

// Resolution is the settlement decision the dispute workflow hands back.
type Resolution string

const (
	ResolutionSettle  Resolution = "settle"
	ResolutionRelease Resolution = "release"
)

type Service struct {
	store    Store
	funds    Ledger
	gate     Gate
	book     *orderbook.Book
	notifier Notifier
	logger   *logging.Logger
	keys     *ledger.KeyMutex
}

func NewService(store Store, funds Ledger, gate Gate, book *orderbook.Book, notifier Notifier, logger *logging.Logger) *Service {
	return &Service{
		store:    store,
		funds:    funds,
		gate:     gate,
		book:     book,
		notifier: notifier,
		logger:   logger,
		keys:     ledger.NewKeyMutex(),
	}
}

func orderKey(id int64) string {
	return fmt.Sprintf("order/%d", id)
}

// Create places a new escrow order. The gate is consulted before any funds
// move, and a failed insert releases the reservation again, so either the
// whole thing lands or nothing does.
func (s *Service) Create(ctx context.Context, initiatorID, pairID int64, side Side, amount, price decimal.Decimal) (*Order, error) {
	if !side.Valid() || amount.LessThanOrEqual(decimal.Zero) || price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	pair, err := s.store.GetPair(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !pair.IsActive {
		return nil, ErrPairInactive
	}
	if amount.LessThan(pair.MinOrderAmount) {
		return nil, ErrInvalidAmount
	}
	if pair.MaxOrderAmount.IsPositive() && amount.GreaterThan(pair.MaxOrderAmount) {
		return nil, ErrInvalidAmount
	}

	notional := amount.Mul(price)
	if err := s.gate.Authorize(ctx, initiatorID, notional); err != nil {
		return nil, err
	}

	o := &Order{
		Ref:         uuid.New(),
		PairID:      pairID,
		InitiatorID: initiatorID,
		Side:        side,
		Amount:      amount,
		Price:       price,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	// The initiator escrows what they owe on settlement: base for a sell,
	// quote notional for a buy.
	if side == SideSell {
		o.EscrowCurrency = pair.BaseCurrencyID
		o.EscrowAmount = amount
	} else {
		o.EscrowCurrency = pair.QuoteCurrencyID
		o.EscrowAmount = notional
	}

	if err := s.funds.Reserve(ctx, initiatorID, o.EscrowCurrency, o.EscrowAmount, o.Ref); err != nil {
		return nil, err
	}

	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		if relErr := s.funds.Release(ctx, initiatorID, o.EscrowCurrency, o.EscrowAmount, o.Ref); relErr != nil {
			s.logger.Error(fmt.Sprintf("failed to release reservation after create failure: %v", relErr))
		}
		return nil, err
	}

	s.gate.RecordUsage(ctx, initiatorID, notional)
	s.book.Upsert(bookOrder(created))

	s.logger.WithField("order_id", created.ID).Info("order created")
	return created, nil
}

// Confirm lets the designated counterparty (or, for an unmatched order, the
// first taker) lock in the trade.
func (s *Service) Confirm(ctx context.Context, orderID, callerID int64) (*Order, error) {
	s.keys.Lock(orderKey(orderID))
	defer s.keys.Unlock(orderKey(orderID))

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, ErrInvalidTransition
	}
	if callerID == o.InitiatorID {
		return nil, ErrSelfTrade
	}
	if o.Matched() && callerID != o.CounterpartyID {
		return nil, ErrNotAuthorizedParty
	}

	now := time.Now().UTC()
	o.CounterpartyID = callerID
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now

	updated, err := s.store.UpdateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	// A matched order is no longer on the book.
	s.book.Remove(o.PairID, o.ID)
	return updated, nil
}

// Complete settles the escrow to the counterparty minus the pair fee.
func (s *Service) Complete(ctx context.Context, orderID, callerID int64) (*Order, error) {
	s.keys.Lock(orderKey(orderID))
	defer s.keys.Unlock(orderKey(orderID))

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCompleted {
		return nil, ErrAlreadyTerminal
	}
	if o.Status != StatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if !o.Party(callerID) {
		return nil, ErrNotAuthorizedParty
	}

	return s.settle(ctx, o)
}

// Cancel releases the escrow and retires the order. Only legal before the
// order settles and while no dispute holds it.
func (s *Service) Cancel(ctx context.Context, orderID, callerID int64) (*Order, error) {
	s.keys.Lock(orderKey(orderID))
	defer s.keys.Unlock(orderKey(orderID))

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if callerID != o.InitiatorID {
		return nil, ErrNotAuthorizedParty
	}

	return s.cancelLocked(ctx, o)
}

func (s *Service) cancelLocked(ctx context.Context, o *Order) (*Order, error) {
	if o.Status != StatusPending && o.Status != StatusConfirmed {
		return nil, ErrInvalidTransition
	}

	if err := s.funds.Release(ctx, o.InitiatorID, o.EscrowCurrency, o.EscrowAmount, o.Ref); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.Status = StatusCancelled
	o.CancelledAt = &now

	updated, err := s.store.UpdateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	s.book.Remove(o.PairID, o.ID)
	return updated, nil
}

// MarkDisputed suspends a confirmed order until the dispute workflow hands
// control back. Called by the dispute service, not by handlers.
func (s *Service) MarkDisputed(ctx context.Context, orderID, raisedBy int64) (*Order, error) {
	s.keys.Lock(orderKey(orderID))
	defer s.keys.Unlock(orderKey(orderID))

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if !o.Party(raisedBy) {
		return nil, ErrNotAuthorizedParty
	}

	now := time.Now().UTC()
	o.Status = StatusDisputed
	o.DisputedAt = &now

	updated, err := s.store.UpdateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderDisputed(o.ID, raisedBy)
	}
	return updated, nil
}

// ResolveDisputed is the only path out of the disputed status. The dispute
// workflow decides whether the escrow settles or releases.
func (s *Service) ResolveDisputed(ctx context.Context, orderID int64, res Resolution) (*Order, error) {
	s.keys.Lock(orderKey(orderID))
	defer s.keys.Unlock(orderKey(orderID))

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDisputed {
		return nil, ErrInvalidTransition
	}

	if res == ResolutionSettle {
		return s.settle(ctx, o)
	}

	if err := s.funds.Release(ctx, o.InitiatorID, o.EscrowCurrency, o.EscrowAmount, o.Ref); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	return s.store.UpdateOrder(ctx, o)
}

// ReopenFromDispute returns a disputed order to confirmed after its dispute
// is withdrawn, so the normal lifecycle can resume.
func (s *Service) ReopenFromDispute(ctx context.Context, orderID int64) (*Order, error) {
	s.keys.Lock(orderKey(orderID))
	defer s.keys.Unlock(orderKey(orderID))

	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusDisputed {
		return nil, ErrInvalidTransition
	}

	o.Status = StatusConfirmed
	return s.store.UpdateOrder(ctx, o)
}

func (s *Service) settle(ctx context.Context, o *Order) (*Order, error) {
	pair, err := s.store.GetPair(ctx, o.PairID)
	if err != nil {
		return nil, err
	}

	fee := o.EscrowAmount.Mul(pair.TradingFee)
	if err := s.funds.Settle(ctx, o.InitiatorID, o.CounterpartyID, o.EscrowCurrency, o.EscrowAmount, fee, o.Ref); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.FeeAmount = fee
	o.Status = StatusCompleted
	o.CompletedAt = &now

	updated, err := s.store.UpdateOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	trade := &orderbook.Trade{
		PairID:    o.PairID,
		Price:     o.Price,
		Amount:    o.Amount,
		CreatedAt: now,
	}
	if trade, err = s.store.CreateTrade(ctx, trade); err != nil {
		// The settlement already happened; losing the trade row only dents
		// the statistics, so log and move on.
		s.logger.Error(fmt.Sprintf("failed to persist trade for order %d: %v", o.ID, err))
	} else {
		s.book.RecordTrade(*trade)
	}

	return updated, nil
}

// CancelStale is the background sweep auto-cancelling pending orders nobody
// confirmed. Runs off the request path.
func (s *Service) CancelStale(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.store.ListStalePendingOrders(ctx, time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range stale {
		o := stale[i]
		s.keys.Lock(orderKey(o.ID))
		current, err := s.store.GetOrder(ctx, o.ID)
		if err == nil && current.Status == StatusPending {
			if _, err := s.cancelLocked(ctx, current); err != nil {
				s.logger.Error(fmt.Sprintf("stale sweep failed to cancel order %d: %v", o.ID, err))
			} else {
				cancelled++
			}
		}
		s.keys.Unlock(orderKey(o.ID))
	}

	if cancelled > 0 {
		s.logger.Info(fmt.Sprintf("stale sweep cancelled %d pending orders", cancelled))
	}
	return cancelled, nil
}

func (s *Service) Get(ctx context.Context, orderID int64) (*Order, error) {
	return s.store.GetOrder(ctx, orderID)
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}

func (s *Service) ListOpen(ctx context.Context, pairID int64) ([]Order, error) {
	return s.store.ListOpenOrdersByPair(ctx, pairID)
}

func (s *Service) Pairs(ctx context.Context) ([]TradingPair, error) {
	return s.store.ListPairs(ctx)
}

// CreatePair is the administrative surface for pair definitions.
func (s *Service) CreatePair(ctx context.Context, p TradingPair) (*TradingPair, error) {
	if p.Symbol == "" || p.BaseCurrencyID == "" || p.QuoteCurrencyID == "" {
		return nil, fmt.Errorf("pair symbol and currencies are required")
	}
	if p.TradingFee.IsNegative() || p.TradingFee.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("trading fee must be a fraction between 0 and 1")
	}
	if p.MinOrderAmount.IsNegative() || p.MaxOrderAmount.IsNegative() {
		return nil, fmt.Errorf("pair limits must be non-negative")
	}
	p.IsActive = true
	p.CreatedAt = time.Now().UTC()
	return s.store.CreatePair(ctx, &p)
}

func bookOrder(o *Order) orderbook.OpenOrder {
	return orderbook.OpenOrder{
		OrderID: o.ID,
		PairID:  o.PairID,
		Side:    string(o.Side),
		Amount:  o.Amount,
		Price:   o.Price,
	}
}
