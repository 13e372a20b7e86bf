package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/ledger"
	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Store interface {
	ListTiers(ctx context.Context) ([]Tier, error)
	GetTier(ctx context.Context, id int64) (*Tier, error)
	CreateSubscription(ctx context.Context, sub *Subscription) (*Subscription, error)
	LatestSubscriptionByUser(ctx context.Context, userID int64) (*Subscription, error)
}

// Ledger is the slice of the wallet ledger subscriptions pay through.
type Ledger interface {
	Transfer(ctx context.Context, fromUserID, toUserID int64, currency string, amount decimal.Decimal, ref uuid.UUID) error
}

type Service struct {
	store  Store
	funds  Ledger
	logger *logging.Logger
}

func NewService(store Store, funds Ledger, logger *logging.Logger) *Service {
	return &Service{store: store, funds: funds, logger: logger}
}

func (s *Service) Catalog(ctx context.Context) ([]Tier, error) {
	return s.store.ListTiers(ctx)
}

// Subscribe charges the tier price from the user's available balance to the
// platform account and starts a fresh subscription superseding any prior one.
func (s *Service) Subscribe(ctx context.Context, userID int64, tierID int64) (*Subscription, error) {
	tier, err := s.store.GetTier(ctx, tierID)
	if err != nil {
		return nil, err
	}

	if tier.Price.IsPositive() {
		if err := s.funds.Transfer(ctx, userID, ledger.PlatformAccountID, tier.Currency, tier.Price, uuid.New()); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sub := &Subscription{
		UserID:         userID,
		TierID:         tier.ID,
		TierName:       tier.Name,
		MaxOrderAmount: tier.MaxOrderAmount,
		StartedAt:      now,
		ExpiresAt:      now.Add(time.Duration(tier.DurationDays) * 24 * time.Hour),
	}

	s.logger.Info(fmt.Sprintf("user %d subscribed to tier %q", userID, tier.Name))
	return s.store.CreateSubscription(ctx, sub)
}

// ActiveFor resolves the subscription that currently governs the user's
// ceiling: the most recent non-expired one.
func (s *Service) ActiveFor(ctx context.Context, userID int64) (*Subscription, error) {
	sub, err := s.store.LatestSubscriptionByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.Active(time.Now().UTC()) {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}
