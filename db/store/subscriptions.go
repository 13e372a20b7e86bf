package store

import (
	"context"
	"database/sql"

	"github.com/PeerTrade/PeerTrade-Backend/services/subscription"
)

const tierColumns = `id, name, price, currency, max_order_amount, duration_days, created_at`

func scanTier(row interface {
	Scan(dest ...interface{}) error
}) (*subscription.Tier, error) {
	var t subscription.Tier
	err := row.Scan(&t.ID, &t.Name, &t.Price, &t.Currency, &t.MaxOrderAmount, &t.DurationDays, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const listTiers = `SELECT ` + tierColumns + ` FROM subscription_tiers ORDER BY price`

func (q *Queries) ListTiers(ctx context.Context) ([]subscription.Tier, error) {
	rows, err := q.db.QueryContext(ctx, listTiers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []subscription.Tier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *t)
	}
	return tiers, rows.Err()
}

const getTier = `SELECT ` + tierColumns + ` FROM subscription_tiers WHERE id = $1`

func (q *Queries) GetTier(ctx context.Context, id int64) (*subscription.Tier, error) {
	t, err := scanTier(q.db.QueryRowContext(ctx, getTier, id))
	if err == sql.ErrNoRows {
		return nil, subscription.ErrTierNotFound
	}
	return t, err
}

const createSubscription = `
INSERT INTO user_subscriptions (user_id, tier_id, started_at, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`

func (q *Queries) CreateSubscription(ctx context.Context, s *subscription.Subscription) (*subscription.Subscription, error) {
	err := q.db.QueryRowContext(ctx, createSubscription, s.UserID, s.TierID, s.StartedAt, s.ExpiresAt).Scan(&s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

const latestSubscription = `
SELECT us.id, us.user_id, us.tier_id, t.name, t.max_order_amount, us.started_at, us.expires_at
FROM user_subscriptions us
JOIN subscription_tiers t ON t.id = us.tier_id
WHERE us.user_id = $1
ORDER BY us.started_at DESC, us.id DESC
LIMIT 1
`

func (q *Queries) LatestSubscriptionByUser(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := q.db.QueryRowContext(ctx, latestSubscription, userID).Scan(
		&s.ID, &s.UserID, &s.TierID, &s.TierName, &s.MaxOrderAmount, &s.StartedAt, &s.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, subscription.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
