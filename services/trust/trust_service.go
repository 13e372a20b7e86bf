package trust

import (
	"context"
	"fmt"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/kyc"
	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/PeerTrade/PeerTrade-Backend/services/subscription"
	"github.com/shopspring/decimal"
)

// Step function from KYC level to the largest single-order amount it permits,
// in quote units. Monotonically non-decreasing by construction.
var levelLimits = []decimal.Decimal{
	decimal.RequireFromString("50"),     // level 0 / unverified
	decimal.RequireFromString("1000"),   // level 1
	decimal.RequireFromString("10000"),  // level 2
	decimal.RequireFromString("100000"), // level 3
}

// Ceiling applied when a user carries no subscription at all.
var defaultSubscriptionCeiling = decimal.RequireFromString("100")

// Daily traded-volume caps per KYC level, enforced only when a volume
// tracker is configured.
var dailyVolumeLimits = []decimal.Decimal{
	decimal.RequireFromString("200"),
	decimal.RequireFromString("5000"),
	decimal.RequireFromString("50000"),
	decimal.RequireFromString("500000"),
}

func levelLimit(level int) decimal.Decimal {
	if level < 0 {
		level = 0
	}
	if level >= len(levelLimits) {
		level = len(levelLimits) - 1
	}
	return levelLimits[level]
}

func dailyLimit(level int) decimal.Decimal {
	if level < 0 {
		level = 0
	}
	if level >= len(dailyVolumeLimits) {
		level = len(dailyVolumeLimits) - 1
	}
	return dailyVolumeLimits[level]
}

// Store reads the two upstream records the gate derives its answer from.
// It never writes either.
type Store interface {
	LatestRecordByUser(ctx context.Context, userID int64) (*kyc.Record, error)
	LatestSubscriptionByUser(ctx context.Context, userID int64) (*subscription.Subscription, error)
}

// VolumeTracker accumulates a user's traded volume over the trailing day.
type VolumeTracker interface {
	DailyVolume(ctx context.Context, userID int64) (decimal.Decimal, error)
	AddDailyVolume(ctx context.Context, userID int64, amount decimal.Decimal) error
}

type Gate struct {
	store   Store
	volumes VolumeTracker
	logger  *logging.Logger
}

func NewGate(store Store, volumes VolumeTracker, logger *logging.Logger) *Gate {
	return &Gate{store: store, volumes: volumes, logger: logger}
}

func (g *Gate) effectiveLevel(record *kyc.Record) int {
	if record.Verified(time.Now().UTC()) {
		return record.Level
	}
	return 0
}

func (g *Gate) kycRecord(ctx context.Context, userID int64) (*kyc.Record, error) {
	record, err := g.store.LatestRecordByUser(ctx, userID)
	if err == kyc.ErrRecordNotFound {
		return &kyc.Record{UserID: userID, Status: kyc.StatusNotSubmitted}, nil
	}
	return record, err
}

// CeilingFor resolves the largest single-order amount the user may place:
// the lower of the subscription tier ceiling and the KYC level limit.
func (g *Gate) CeilingFor(ctx context.Context, userID int64) (decimal.Decimal, error) {
	record, err := g.kycRecord(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	subCeiling := defaultSubscriptionCeiling
	sub, err := g.store.LatestSubscriptionByUser(ctx, userID)
	if err != nil && err != subscription.ErrSubscriptionNotFound {
		return decimal.Zero, err
	}
	if sub != nil && sub.Active(time.Now().UTC()) {
		subCeiling = sub.MaxOrderAmount
	}

	kycCeiling := levelLimit(g.effectiveLevel(record))
	if subCeiling.LessThan(kycCeiling) {
		return subCeiling, nil
	}
	return kycCeiling, nil
}

// Authorize checks a requested order amount against the caller's ceiling and
// remaining daily volume. It must pass before any funds are reserved.
func (g *Gate) Authorize(ctx context.Context, userID int64, amount decimal.Decimal) error {
	record, err := g.kycRecord(ctx, userID)
	if err != nil {
		return err
	}

	ceiling, err := g.CeilingFor(ctx, userID)
	if err != nil {
		return err
	}

	if amount.GreaterThan(ceiling) {
		if record.Status == kyc.StatusNotSubmitted || record.Status == kyc.StatusRejected {
			return ErrKYCRequired
		}
		return ErrCeilingExceeded
	}

	if g.volumes != nil {
		used, err := g.volumes.DailyVolume(ctx, userID)
		if err != nil {
			// The tracker is advisory. Losing redis must not take order
			// placement down with it.
			g.logger.Warn(fmt.Sprintf("daily volume lookup failed for user %d: %v", userID, err))
			return nil
		}
		if used.Add(amount).GreaterThan(dailyLimit(g.effectiveLevel(record))) {
			return ErrDailyLimitExceeded
		}
	}

	return nil
}

// RecordUsage accumulates traded volume after a reservation succeeds.
// Best-effort: failures are logged, never surfaced.
func (g *Gate) RecordUsage(ctx context.Context, userID int64, amount decimal.Decimal) {
	if g.volumes == nil {
		return
	}
	if err := g.volumes.AddDailyVolume(ctx, userID, amount); err != nil {
		g.logger.Warn(fmt.Sprintf("daily volume tracking failed for user %d: %v", userID, err))
	}
}
