package store

import (
	"context"
	"database/sql"

	"github.com/PeerTrade/PeerTrade-Backend/services/referral"
	"github.com/lib/pq"
)

const createEdge = `
INSERT INTO referral_edges (referee_id, referrer_id)
VALUES ($1, $2)
RETURNING created_at
`

func (q *Queries) CreateEdge(ctx context.Context, edge *referral.Edge) error {
	err := q.db.QueryRowContext(ctx, createEdge, edge.RefereeID, edge.ReferrerID).Scan(&edge.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == DuplicateEntry {
		return referral.ErrAlreadyReferred
	}
	return err
}

const getReferrer = `
SELECT referee_id, referrer_id, created_at
FROM referral_edges
WHERE referee_id = $1
`

func (q *Queries) GetReferrer(ctx context.Context, refereeID int64) (*referral.Edge, error) {
	var e referral.Edge
	err := q.db.QueryRowContext(ctx, getReferrer, refereeID).Scan(&e.RefereeID, &e.ReferrerID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const listReferees = `
SELECT referee_id, referrer_id, created_at
FROM referral_edges
WHERE referrer_id = $1
ORDER BY created_at
`

func (q *Queries) ListReferees(ctx context.Context, referrerID int64) ([]referral.Edge, error) {
	rows, err := q.db.QueryContext(ctx, listReferees, referrerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []referral.Edge
	for rows.Next() {
		var e referral.Edge
		if err := rows.Scan(&e.RefereeID, &e.ReferrerID, &e.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
