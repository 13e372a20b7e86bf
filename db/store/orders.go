package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/order"
)

const orderColumns = `id, ref, pair_id, initiator_id, counterparty_id, side, amount, price,
escrow_currency, escrow_amount, fee_amount, status, created_at, confirmed_at, completed_at, cancelled_at, disputed_at`

func scanOrder(row interface {
	Scan(dest ...interface{}) error
}) (*order.Order, error) {
	var o order.Order
	var counterparty sql.NullInt64
	err := row.Scan(
		&o.ID, &o.Ref, &o.PairID, &o.InitiatorID, &counterparty, &o.Side, &o.Amount, &o.Price,
		&o.EscrowCurrency, &o.EscrowAmount, &o.FeeAmount, &o.Status,
		&o.CreatedAt, &o.ConfirmedAt, &o.CompletedAt, &o.CancelledAt, &o.DisputedAt,
	)
	if err != nil {
		return nil, err
	}
	if counterparty.Valid {
		o.CounterpartyID = counterparty.Int64
	}
	return &o, nil
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

const createOrder = `
INSERT INTO orders (ref, pair_id, initiator_id, counterparty_id, side, amount, price,
  escrow_currency, escrow_amount, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns

func (q *Queries) CreateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	row := q.db.QueryRowContext(ctx, createOrder,
		o.Ref, o.PairID, o.InitiatorID, nullableID(o.CounterpartyID), o.Side, o.Amount, o.Price,
		o.EscrowCurrency, o.EscrowAmount, o.Status, o.CreatedAt,
	)
	return scanOrder(row)
}

const getOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	o, err := scanOrder(q.db.QueryRowContext(ctx, getOrder, id))
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	return o, err
}

const updateOrder = `
UPDATE orders
SET counterparty_id = $2, fee_amount = $3, status = $4,
    confirmed_at = $5, completed_at = $6, cancelled_at = $7, disputed_at = $8
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) UpdateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	row := q.db.QueryRowContext(ctx, updateOrder,
		o.ID, nullableID(o.CounterpartyID), o.FeeAmount, o.Status,
		o.ConfirmedAt, o.CompletedAt, o.CancelledAt, o.DisputedAt,
	)
	updated, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	return updated, err
}

func (q *Queries) queryOrders(ctx context.Context, query string, args ...interface{}) ([]order.Order, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

const listUserOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE initiator_id = $1 OR counterparty_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListUserOrders(ctx context.Context, userID int64) ([]order.Order, error) {
	return q.queryOrders(ctx, listUserOrders, userID)
}

const listOpenOrdersByPair = `
SELECT ` + orderColumns + `
FROM orders
WHERE pair_id = $1 AND status = 'pending'
ORDER BY created_at
`

func (q *Queries) ListOpenOrdersByPair(ctx context.Context, pairID int64) ([]order.Order, error) {
	return q.queryOrders(ctx, listOpenOrdersByPair, pairID)
}

const listStalePendingOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE status = 'pending' AND created_at < $1
ORDER BY created_at
`

func (q *Queries) ListStalePendingOrders(ctx context.Context, before time.Time) ([]order.Order, error) {
	return q.queryOrders(ctx, listStalePendingOrders, before)
}
