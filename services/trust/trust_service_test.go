package trust

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/kyc"
	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/PeerTrade/PeerTrade-Backend/services/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	records map[int64]*kyc.Record
	subs    map[int64]*subscription.Subscription
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[int64]*kyc.Record),
		subs:    make(map[int64]*subscription.Subscription),
	}
}

func (f *fakeStore) LatestRecordByUser(ctx context.Context, userID int64) (*kyc.Record, error) {
	r, ok := f.records[userID]
	if !ok {
		return nil, kyc.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeStore) LatestSubscriptionByUser(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	s, ok := f.subs[userID]
	if !ok {
		return nil, subscription.ErrSubscriptionNotFound
	}
	return s, nil
}

func (f *fakeStore) approve(userID int64, level int) {
	expires := time.Now().Add(365 * 24 * time.Hour)
	f.records[userID] = &kyc.Record{
		UserID:    userID,
		Status:    kyc.StatusApproved,
		Level:     level,
		ExpiresAt: &expires,
	}
}

func (f *fakeStore) subscribe(userID int64, maxOrderAmount string, expiresIn time.Duration) {
	f.subs[userID] = &subscription.Subscription{
		UserID:         userID,
		MaxOrderAmount: decimal.RequireFromString(maxOrderAmount),
		StartedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(expiresIn),
	}
}

type fakeVolumes struct {
	used map[int64]decimal.Decimal
	fail bool
}

func (f *fakeVolumes) DailyVolume(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if f.fail {
		return decimal.Zero, fmt.Errorf("redis down")
	}
	if v, ok := f.used[userID]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

func (f *fakeVolumes) AddDailyVolume(ctx context.Context, userID int64, amount decimal.Decimal) error {
	if f.fail {
		return fmt.Errorf("redis down")
	}
	if f.used == nil {
		f.used = make(map[int64]decimal.Decimal)
	}
	f.used[userID] = f.used[userID].Add(amount)
	return nil
}

func newTestGate(store Store, volumes VolumeTracker) *Gate {
	return NewGate(store, volumes, logging.NewLogger(nil))
}

func TestCeilingFor(t *testing.T) {
	ctx := context.Background()

	t.Run("NoKYCNoSubscription", func(t *testing.T) {
		g := newTestGate(newFakeStore(), nil)

		ceiling, err := g.CeilingFor(ctx, 1)
		require.NoError(t, err)
		// Unverified level limit is 50, below the default subscription ceiling.
		assert.True(t, ceiling.Equal(decimal.RequireFromString("50")))
	})

	t.Run("SubscriptionBoundByKYCLevel", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 1)
		store.subscribe(1, "10000", time.Hour)
		g := newTestGate(store, nil)

		ceiling, err := g.CeilingFor(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ceiling.Equal(decimal.RequireFromString("1000")))
	})

	t.Run("KYCBoundBySubscription", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 3)
		store.subscribe(1, "10000", time.Hour)
		g := newTestGate(store, nil)

		ceiling, err := g.CeilingFor(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ceiling.Equal(decimal.RequireFromString("10000")))
	})

	t.Run("ExpiredSubscriptionFallsBackToDefault", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 2)
		store.subscribe(1, "10000", -time.Hour)
		g := newTestGate(store, nil)

		ceiling, err := g.CeilingFor(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ceiling.Equal(decimal.RequireFromString("100")))
	})

	t.Run("ExpiredKYCDropsToLevelZero", func(t *testing.T) {
		store := newFakeStore()
		expired := time.Now().Add(-time.Hour)
		store.records[1] = &kyc.Record{
			UserID:    1,
			Status:    kyc.StatusApproved,
			Level:     3,
			ExpiresAt: &expired,
		}
		store.subscribe(1, "10000", time.Hour)
		g := newTestGate(store, nil)

		ceiling, err := g.CeilingFor(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ceiling.Equal(decimal.RequireFromString("50")))
	})

	t.Run("CeilingNeverDecreasesWithLevel", func(t *testing.T) {
		store := newFakeStore()
		store.subscribe(1, "1000000", time.Hour)
		g := newTestGate(store, nil)

		prev := decimal.Zero
		for level := 1; level <= 3; level++ {
			store.approve(1, level)
			ceiling, err := g.CeilingFor(ctx, 1)
			require.NoError(t, err)
			assert.True(t, ceiling.GreaterThanOrEqual(prev), "level %d", level)
			prev = ceiling
		}
	})
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("WithinCeiling", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 1)
		g := newTestGate(store, nil)

		assert.NoError(t, g.Authorize(ctx, 1, decimal.RequireFromString("100")))
	})

	t.Run("KYCRequiredWhenNeverSubmitted", func(t *testing.T) {
		g := newTestGate(newFakeStore(), nil)

		err := g.Authorize(ctx, 1, decimal.RequireFromString("500"))
		assert.ErrorIs(t, err, ErrKYCRequired)
	})

	t.Run("KYCRequiredWhenRejected", func(t *testing.T) {
		store := newFakeStore()
		store.records[1] = &kyc.Record{UserID: 1, Status: kyc.StatusRejected}
		g := newTestGate(store, nil)

		err := g.Authorize(ctx, 1, decimal.RequireFromString("500"))
		assert.ErrorIs(t, err, ErrKYCRequired)
	})

	t.Run("CeilingExceededWhenVerified", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 1)
		g := newTestGate(store, nil)

		// Level 1 allows 1000 but the missing subscription caps at 100.
		err := g.Authorize(ctx, 1, decimal.RequireFromString("101"))
		assert.ErrorIs(t, err, ErrCeilingExceeded)
	})

	t.Run("CeilingExceededWhilePendingReview", func(t *testing.T) {
		store := newFakeStore()
		store.records[1] = &kyc.Record{UserID: 1, Status: kyc.StatusPending}
		g := newTestGate(store, nil)

		err := g.Authorize(ctx, 1, decimal.RequireFromString("500"))
		assert.ErrorIs(t, err, ErrCeilingExceeded)
	})

	t.Run("DailyLimitExceeded", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 1)
		store.subscribe(1, "1000", time.Hour)
		volumes := &fakeVolumes{used: map[int64]decimal.Decimal{1: decimal.RequireFromString("4500")}}
		g := newTestGate(store, volumes)

		// Level 1 daily cap is 5000; 4500 used + 600 requested breaches it.
		err := g.Authorize(ctx, 1, decimal.RequireFromString("600"))
		assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	})

	t.Run("TrackerFailureIsAdvisory", func(t *testing.T) {
		store := newFakeStore()
		store.approve(1, 1)
		g := newTestGate(store, &fakeVolumes{fail: true})

		assert.NoError(t, g.Authorize(ctx, 1, decimal.RequireFromString("100")))
	})
}

func TestRecordUsage(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.approve(1, 2)
	store.subscribe(1, "10000", time.Hour)
	volumes := &fakeVolumes{}
	g := newTestGate(store, volumes)

	g.RecordUsage(ctx, 1, decimal.RequireFromString("250"))
	g.RecordUsage(ctx, 1, decimal.RequireFromString("750"))

	used, err := volumes.DailyVolume(ctx, 1)
	require.NoError(t, err)
	assert.True(t, used.Equal(decimal.RequireFromString("1000")))
}
