package store

import (
	"context"
	"database/sql"

	"github.com/PeerTrade/PeerTrade-Backend/services/order"
)

const pairColumns = `id, base_currency_id, quote_currency_id, symbol, min_order_amount, max_order_amount, trading_fee, is_active, created_at`

func scanPair(row interface {
	Scan(dest ...interface{}) error
}) (*order.TradingPair, error) {
	var p order.TradingPair
	err := row.Scan(
		&p.ID, &p.BaseCurrencyID, &p.QuoteCurrencyID, &p.Symbol,
		&p.MinOrderAmount, &p.MaxOrderAmount, &p.TradingFee, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const getPair = `SELECT ` + pairColumns + ` FROM trading_pairs WHERE id = $1`

func (q *Queries) GetPair(ctx context.Context, id int64) (*order.TradingPair, error) {
	p, err := scanPair(q.db.QueryRowContext(ctx, getPair, id))
	if err == sql.ErrNoRows {
		return nil, order.ErrPairNotFound
	}
	return p, err
}

const listPairs = `SELECT ` + pairColumns + ` FROM trading_pairs ORDER BY symbol`

func (q *Queries) ListPairs(ctx context.Context) ([]order.TradingPair, error) {
	rows, err := q.db.QueryContext(ctx, listPairs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []order.TradingPair
	for rows.Next() {
		p, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, *p)
	}
	return pairs, rows.Err()
}

const createPair = `
INSERT INTO trading_pairs (base_currency_id, quote_currency_id, symbol, min_order_amount, max_order_amount, trading_fee, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + pairColumns

func (q *Queries) CreatePair(ctx context.Context, p *order.TradingPair) (*order.TradingPair, error) {
	row := q.db.QueryRowContext(ctx, createPair,
		p.BaseCurrencyID, p.QuoteCurrencyID, p.Symbol,
		p.MinOrderAmount, p.MaxOrderAmount, p.TradingFee, p.IsActive, p.CreatedAt,
	)
	return scanPair(row)
}
