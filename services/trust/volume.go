package trust

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisVolumeTracker keeps each user's traded volume for the current
// calendar day. Keys expire at midnight so stale totals never leak into the
// next day.
type RedisVolumeTracker struct {
	client *redis.Client
}

func NewRedisVolumeTracker(client *redis.Client) *RedisVolumeTracker {
	return &RedisVolumeTracker{client: client}
}

func volumeKey(userID int64) string {
	return fmt.Sprintf("daily_volume:%d", userID)
}

// isSameDay checks if two times are on the same calendar day
func isSameDay(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (r *RedisVolumeTracker) AddDailyVolume(ctx context.Context, userID int64, amount decimal.Decimal) error {
	key := volumeKey(userID)

	current, err := r.DailyVolume(ctx, userID)
	if err != nil {
		return err
	}

	total := current.Add(amount)
	err = r.client.HSet(ctx, key, map[string]interface{}{
		"total_amount": total.String(),
		"created_at":   time.Now().Format(time.RFC3339),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store daily volume: %w", err)
	}

	// Expire at end of day
	midnight := time.Now().Add(24 * time.Hour).Truncate(24 * time.Hour)
	if err := r.client.ExpireAt(ctx, key, midnight).Err(); err != nil {
		return fmt.Errorf("failed to set expiration: %w", err)
	}

	return nil
}

func (r *RedisVolumeTracker) DailyVolume(ctx context.Context, userID int64) (decimal.Decimal, error) {
	key := volumeKey(userID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get daily volume: %w", err)
	}

	if len(fields) == 0 {
		return decimal.Zero, nil
	}

	createdAt, err := time.Parse(time.RFC3339, fields["created_at"])
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse created_at: %w", err)
	}

	// Tracked volume from a previous day no longer counts
	if !isSameDay(createdAt, time.Now()) {
		return decimal.Zero, nil
	}

	total, err := decimal.NewFromString(fields["total_amount"])
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse total_amount: %w", err)
	}

	return total, nil
}
