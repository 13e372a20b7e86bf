package store

import (
	"context"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/orderbook"
)

const createTrade = `
INSERT INTO trades (pair_id, price, amount, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, pair_id, price, amount, created_at
`

func (q *Queries) CreateTrade(ctx context.Context, t *orderbook.Trade) (*orderbook.Trade, error) {
	var created orderbook.Trade
	err := q.db.QueryRowContext(ctx, createTrade, t.PairID, t.Price, t.Amount, t.CreatedAt).
		Scan(&created.ID, &created.PairID, &created.Price, &created.Amount, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (q *Queries) queryTrades(ctx context.Context, query string, args ...interface{}) ([]orderbook.Trade, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []orderbook.Trade
	for rows.Next() {
		var t orderbook.Trade
		if err := rows.Scan(&t.ID, &t.PairID, &t.Price, &t.Amount, &t.CreatedAt); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

const listTradesSince = `
SELECT id, pair_id, price, amount, created_at
FROM trades
WHERE pair_id = $1 AND created_at > $2
ORDER BY created_at
`

func (q *Queries) ListTradesSince(ctx context.Context, pairID int64, since time.Time) ([]orderbook.Trade, error) {
	return q.queryTrades(ctx, listTradesSince, pairID, since)
}

const listRecentTrades = `
SELECT id, pair_id, price, amount, created_at
FROM trades
WHERE pair_id = $1
ORDER BY created_at DESC
LIMIT $2
`

func (q *Queries) ListRecentTrades(ctx context.Context, pairID int64, limit int) ([]orderbook.Trade, error) {
	return q.queryTrades(ctx, listRecentTrades, pairID, limit)
}

const listOpenBookOrders = `
SELECT id, pair_id, side, amount, price
FROM orders
WHERE status = 'pending'
`

// ListOpenBookOrders feeds the in-memory book rebuild at boot.
func (q *Queries) ListOpenBookOrders(ctx context.Context) ([]orderbook.OpenOrder, error) {
	rows, err := q.db.QueryContext(ctx, listOpenBookOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []orderbook.OpenOrder
	for rows.Next() {
		var o orderbook.OpenOrder
		if err := rows.Scan(&o.OrderID, &o.PairID, &o.Side, &o.Amount, &o.Price); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
