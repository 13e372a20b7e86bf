package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/PeerTrade/PeerTrade-Backend/services/ledger"
)

const getWallet = `
SELECT id, user_id, currency, balance, frozen_balance, created_at, updated_at
FROM wallets
WHERE user_id = $1 AND currency = $2
`

func (q *Queries) GetWallet(ctx context.Context, userID int64, currency string) (*ledger.Wallet, error) {
	var w ledger.Wallet
	err := q.db.QueryRowContext(ctx, getWallet, userID, currency).Scan(
		&w.ID, &w.UserID, &w.Currency, &w.Balance, &w.FrozenBalance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

const createWallet = `
INSERT INTO wallets (user_id, currency)
VALUES ($1, $2)
ON CONFLICT (user_id, currency) DO NOTHING
`

func (q *Queries) GetOrCreateWallet(ctx context.Context, userID int64, currency string) (*ledger.Wallet, error) {
	if _, err := q.db.ExecContext(ctx, createWallet, userID, currency); err != nil {
		return nil, err
	}
	return q.GetWallet(ctx, userID, currency)
}

const listWallets = `
SELECT id, user_id, currency, balance, frozen_balance, created_at, updated_at
FROM wallets
WHERE user_id = $1
ORDER BY currency
`

func (q *Queries) ListWallets(ctx context.Context, userID int64) ([]ledger.Wallet, error) {
	rows, err := q.db.QueryContext(ctx, listWallets, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []ledger.Wallet
	for rows.Next() {
		var w ledger.Wallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Currency, &w.Balance, &w.FrozenBalance, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

const applyMovement = `
UPDATE wallets
SET balance = balance + $2,
    frozen_balance = frozen_balance + $3,
    updated_at = now()
WHERE id = $1
RETURNING balance, frozen_balance
`

const insertEntry = `
INSERT INTO wallet_entries (id, wallet_id, kind, amount, reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

// ApplyMovements lands every movement and journal entry in one database
// transaction. Wallet rows are touched in ascending id order so concurrent
// settlements cannot deadlock, and the balance CHECK constraints are the
// final backstop against a negative wallet.
func (s *Store) ApplyMovements(ctx context.Context, movements []ledger.Movement, entries []ledger.Entry) error {
	ordered := make([]ledger.Movement, len(movements))
	copy(ordered, movements)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].WalletID < ordered[j].WalletID })

	return s.ExecTx(ctx, func(q *Queries) error {
		for _, m := range ordered {
			var balance, frozen string
			err := q.db.QueryRowContext(ctx, applyMovement, m.WalletID, m.BalanceDelta, m.FrozenDelta).
				Scan(&balance, &frozen)
			if err == sql.ErrNoRows {
				return ledger.ErrWalletNotFound
			}
			if err != nil {
				return fmt.Errorf("apply movement to wallet %d: %w", m.WalletID, err)
			}
		}

		for _, e := range entries {
			if _, err := q.db.ExecContext(ctx, insertEntry, e.ID, e.WalletID, e.Kind, e.Amount, e.Reference, e.CreatedAt); err != nil {
				return fmt.Errorf("insert wallet entry: %w", err)
			}
		}
		return nil
	})
}
