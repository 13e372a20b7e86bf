package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence seam the ledger drives. ApplyMovements must be
// all-or-nothing: either every movement and entry lands or none do.
type Store interface {
	GetOrCreateWallet(ctx context.Context, userID int64, currency string) (*Wallet, error)
	GetWallet(ctx context.Context, userID int64, currency string) (*Wallet, error)
	ListWallets(ctx context.Context, userID int64) ([]Wallet, error)
	ApplyMovements(ctx context.Context, movements []Movement, entries []Entry) error
}

type Service struct {
	store  Store
	logger *logging.Logger
	keys   *KeyMutex
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		keys:   NewKeyMutex(),
	}
}

func walletKey(userID int64, currency string) string {
	return fmt.Sprintf("%d/%s", userID, currency)
}

func (s *Service) Wallets(ctx context.Context, userID int64) ([]Wallet, error) {
	return s.store.ListWallets(ctx, userID)
}

// Credit is the deposit hook for the external funding collaborator. It is the
// only way total funds enter the ledger.
func (s *Service) Credit(ctx context.Context, userID int64, currency string, amount decimal.Decimal, ref uuid.UUID) (*Wallet, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	key := walletKey(userID, currency)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	w, err := s.store.GetOrCreateWallet(ctx, userID, currency)
	if err != nil {
		return nil, err
	}

	err = s.store.ApplyMovements(ctx,
		[]Movement{{WalletID: w.ID, BalanceDelta: amount, FrozenDelta: decimal.Zero}},
		[]Entry{s.entry(w.ID, EntryDeposit, amount, ref)},
	)
	if err != nil {
		return nil, err
	}

	return s.store.GetWallet(ctx, userID, currency)
}

// Reserve moves amount from available balance into escrow.
func (s *Service) Reserve(ctx context.Context, userID int64, currency string, amount decimal.Decimal, ref uuid.UUID) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	key := walletKey(userID, currency)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	w, err := s.store.GetOrCreateWallet(ctx, userID, currency)
	if err != nil {
		return err
	}

	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	s.logger.WithField("wallet_id", w.ID).Info(fmt.Sprintf("reserving %s %s", amount, currency))

	return s.store.ApplyMovements(ctx,
		[]Movement{{WalletID: w.ID, BalanceDelta: amount.Neg(), FrozenDelta: amount}},
		[]Entry{s.entry(w.ID, EntryReserve, amount, ref)},
	)
}

// Release reverses a reservation, returning escrowed funds to the available
// balance. The exact inverse of Reserve for the same amount.
func (s *Service) Release(ctx context.Context, userID int64, currency string, amount decimal.Decimal, ref uuid.UUID) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	key := walletKey(userID, currency)
	s.keys.Lock(key)
	defer s.keys.Unlock(key)

	w, err := s.store.GetWallet(ctx, userID, currency)
	if err != nil {
		return err
	}

	if w.FrozenBalance.LessThan(amount) {
		return ErrOverRelease
	}

	return s.store.ApplyMovements(ctx,
		[]Movement{{WalletID: w.ID, BalanceDelta: amount, FrozenDelta: amount.Neg()}},
		[]Entry{s.entry(w.ID, EntryRelease, amount, ref)},
	)
}

// Settle debits the payer's escrow and credits the payee minus the platform
// fee. All three wallets move in one atomic application.
func (s *Service) Settle(ctx context.Context, fromUserID, toUserID int64, currency string, amount, feeAmount decimal.Decimal, ref uuid.UUID) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if feeAmount.IsNegative() || feeAmount.GreaterThanOrEqual(amount) {
		return ErrInvalidFee
	}

	unlock := s.keys.LockAll([]string{
		walletKey(fromUserID, currency),
		walletKey(toUserID, currency),
		walletKey(PlatformAccountID, currency),
	})
	defer unlock()

	payer, err := s.store.GetWallet(ctx, fromUserID, currency)
	if err != nil {
		return err
	}
	if payer.FrozenBalance.LessThan(amount) {
		return ErrOverRelease
	}

	payee, err := s.store.GetOrCreateWallet(ctx, toUserID, currency)
	if err != nil {
		return err
	}
	platform, err := s.store.GetOrCreateWallet(ctx, PlatformAccountID, currency)
	if err != nil {
		return err
	}

	credited := amount.Sub(feeAmount)
	movements := []Movement{
		{WalletID: payer.ID, BalanceDelta: decimal.Zero, FrozenDelta: amount.Neg()},
		{WalletID: payee.ID, BalanceDelta: credited, FrozenDelta: decimal.Zero},
	}
	entries := []Entry{
		s.entry(payer.ID, EntrySettleDebit, amount, ref),
		s.entry(payee.ID, EntrySettleCredit, credited, ref),
	}
	if feeAmount.IsPositive() {
		movements = append(movements, Movement{WalletID: platform.ID, BalanceDelta: feeAmount, FrozenDelta: decimal.Zero})
		entries = append(entries, s.entry(platform.ID, EntryFee, feeAmount, ref))
	}

	s.logger.WithField("reference", ref.String()).Info(fmt.Sprintf("settling %s %s (fee %s)", amount, currency, feeAmount))

	return s.store.ApplyMovements(ctx, movements, entries)
}

// Transfer moves available balance between users without an escrow leg.
// Used for subscription purchases paid to the platform account.
func (s *Service) Transfer(ctx context.Context, fromUserID, toUserID int64, currency string, amount decimal.Decimal, ref uuid.UUID) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	unlock := s.keys.LockAll([]string{
		walletKey(fromUserID, currency),
		walletKey(toUserID, currency),
	})
	defer unlock()

	payer, err := s.store.GetWallet(ctx, fromUserID, currency)
	if err != nil {
		return err
	}
	if payer.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	payee, err := s.store.GetOrCreateWallet(ctx, toUserID, currency)
	if err != nil {
		return err
	}

	return s.store.ApplyMovements(ctx,
		[]Movement{
			{WalletID: payer.ID, BalanceDelta: amount.Neg(), FrozenDelta: decimal.Zero},
			{WalletID: payee.ID, BalanceDelta: amount, FrozenDelta: decimal.Zero},
		},
		[]Entry{
			s.entry(payer.ID, EntryTransfer, amount.Neg(), ref),
			s.entry(payee.ID, EntryTransfer, amount, ref),
		},
	)
}

func (s *Service) entry(walletID int64, kind EntryKind, amount decimal.Decimal, ref uuid.UUID) Entry {
	return Entry{
		ID:        uuid.New(),
		WalletID:  walletID,
		Kind:      kind,
		Amount:    amount,
		Reference: ref,
		CreatedAt: time.Now().UTC(),
	}
}
