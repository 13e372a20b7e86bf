package store

import (
	"context"
	"database/sql"

	"github.com/PeerTrade/PeerTrade-Backend/services/payment"
)

const methodColumns = `id, user_id, name, kind, details, created_at, updated_at`

func scanMethod(row interface {
	Scan(dest ...interface{}) error
}) (*payment.Method, error) {
	var m payment.Method
	var details []byte
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Kind, &details, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Details = details
	return &m, nil
}

const createMethod = `
INSERT INTO payment_methods (user_id, name, kind, details, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + methodColumns

func (q *Queries) CreateMethod(ctx context.Context, m *payment.Method) (*payment.Method, error) {
	row := q.db.QueryRowContext(ctx, createMethod, m.UserID, m.Name, m.Kind, []byte(m.Details), m.CreatedAt, m.UpdatedAt)
	return scanMethod(row)
}

const getMethod = `SELECT ` + methodColumns + ` FROM payment_methods WHERE id = $1`

func (q *Queries) GetMethod(ctx context.Context, id int64) (*payment.Method, error) {
	m, err := scanMethod(q.db.QueryRowContext(ctx, getMethod, id))
	if err == sql.ErrNoRows {
		return nil, payment.ErrMethodNotFound
	}
	return m, err
}

const listMethodsByUser = `
SELECT ` + methodColumns + `
FROM payment_methods
WHERE user_id = $1
ORDER BY created_at
`

func (q *Queries) ListMethodsByUser(ctx context.Context, userID int64) ([]payment.Method, error) {
	rows, err := q.db.QueryContext(ctx, listMethodsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []payment.Method
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *m)
	}
	return methods, rows.Err()
}

const updateMethod = `
UPDATE payment_methods
SET name = $2, details = $3, updated_at = $4
WHERE id = $1
RETURNING ` + methodColumns

func (q *Queries) UpdateMethod(ctx context.Context, m *payment.Method) (*payment.Method, error) {
	row := q.db.QueryRowContext(ctx, updateMethod, m.ID, m.Name, []byte(m.Details), m.UpdatedAt)
	updated, err := scanMethod(row)
	if err == sql.ErrNoRows {
		return nil, payment.ErrMethodNotFound
	}
	return updated, err
}

const deleteMethod = `DELETE FROM payment_methods WHERE id = $1`

func (q *Queries) DeleteMethod(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, deleteMethod, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return payment.ErrMethodNotFound
	}
	return nil
}
