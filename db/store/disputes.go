package store

import (
	"context"
	"database/sql"

	"github.com/PeerTrade/PeerTrade-Backend/services/dispute"
	"github.com/lib/pq"
)

const disputeColumns = `id, order_id, raised_by, reason, description, status, resolution, resolved_at, created_at`

func scanDispute(row interface {
	Scan(dest ...interface{}) error
}) (*dispute.Dispute, error) {
	var d dispute.Dispute
	var resolution sql.NullString
	err := row.Scan(&d.ID, &d.OrderID, &d.RaisedBy, &d.Reason, &d.Description, &d.Status, &resolution, &d.ResolvedAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Resolution = resolution.String
	return &d, nil
}

const createDispute = `
INSERT INTO disputes (order_id, raised_by, reason, description, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + disputeColumns

func (q *Queries) CreateDispute(ctx context.Context, d *dispute.Dispute) (*dispute.Dispute, error) {
	row := q.db.QueryRowContext(ctx, createDispute, d.OrderID, d.RaisedBy, d.Reason, d.Description, d.Status, d.CreatedAt)
	created, err := scanDispute(row)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == DuplicateEntry {
		// Partial unique index on active disputes per order.
		return nil, dispute.ErrDisputeAlreadyOpen
	}
	return created, err
}

const getDispute = `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`

func (q *Queries) GetDispute(ctx context.Context, id int64) (*dispute.Dispute, error) {
	d, err := scanDispute(q.db.QueryRowContext(ctx, getDispute, id))
	if err == sql.ErrNoRows {
		return nil, dispute.ErrDisputeNotFound
	}
	return d, err
}

const getActiveDisputeByOrder = `
SELECT ` + disputeColumns + `
FROM disputes
WHERE order_id = $1 AND status IN ('open', 'in_review')
`

func (q *Queries) GetActiveDisputeByOrder(ctx context.Context, orderID int64) (*dispute.Dispute, error) {
	d, err := scanDispute(q.db.QueryRowContext(ctx, getActiveDisputeByOrder, orderID))
	if err == sql.ErrNoRows {
		return nil, dispute.ErrDisputeNotFound
	}
	return d, err
}

const updateDispute = `
UPDATE disputes
SET status = $2, resolution = $3, resolved_at = $4
WHERE id = $1
RETURNING ` + disputeColumns

func (q *Queries) UpdateDispute(ctx context.Context, d *dispute.Dispute) (*dispute.Dispute, error) {
	resolution := sql.NullString{String: d.Resolution, Valid: d.Resolution != ""}
	updated, err := scanDispute(q.db.QueryRowContext(ctx, updateDispute, d.ID, d.Status, resolution, d.ResolvedAt))
	if err == sql.ErrNoRows {
		return nil, dispute.ErrDisputeNotFound
	}
	return updated, err
}

func (q *Queries) queryDisputes(ctx context.Context, query string, args ...interface{}) ([]dispute.Dispute, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []dispute.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, *d)
	}
	return disputes, rows.Err()
}

const listDisputesByUser = `
SELECT ` + disputeColumns + `
FROM disputes
WHERE raised_by = $1
ORDER BY created_at DESC
`

func (q *Queries) ListDisputesByUser(ctx context.Context, userID int64) ([]dispute.Dispute, error) {
	return q.queryDisputes(ctx, listDisputesByUser, userID)
}

const listDisputes = `
SELECT ` + disputeColumns + `
FROM disputes
WHERE $1 = '' OR status = $1
ORDER BY created_at DESC
`

func (q *Queries) ListDisputes(ctx context.Context, status dispute.Status) ([]dispute.Dispute, error) {
	return q.queryDisputes(ctx, listDisputes, string(status))
}
