package store

import (
	"context"
	"database/sql"

	"github.com/PeerTrade/PeerTrade-Backend/services/kyc"
)

const kycColumns = `id, user_id, status, level, document_type, country, document_front, document_back, selfie, rejection_reason, verified_at, expires_at, created_at`

func scanKYC(row interface {
	Scan(dest ...interface{}) error
}) (*kyc.Record, error) {
	var r kyc.Record
	var back, rejection sql.NullString
	err := row.Scan(
		&r.ID, &r.UserID, &r.Status, &r.Level, &r.DocumentType, &r.Country,
		&r.DocumentFront, &back, &r.Selfie, &rejection, &r.VerifiedAt, &r.ExpiresAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.DocumentBack = back.String
	r.RejectionReason = rejection.String
	return &r, nil
}

const createKYCRecord = `
INSERT INTO kyc_records (user_id, status, document_type, country, document_front, document_back, selfie, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + kycColumns

func (q *Queries) CreateRecord(ctx context.Context, r *kyc.Record) (*kyc.Record, error) {
	back := sql.NullString{String: r.DocumentBack, Valid: r.DocumentBack != ""}
	row := q.db.QueryRowContext(ctx, createKYCRecord,
		r.UserID, r.Status, r.DocumentType, r.Country, r.DocumentFront, back, r.Selfie, r.CreatedAt,
	)
	return scanKYC(row)
}

const getKYCRecord = `SELECT ` + kycColumns + ` FROM kyc_records WHERE id = $1`

func (q *Queries) GetRecord(ctx context.Context, id int64) (*kyc.Record, error) {
	r, err := scanKYC(q.db.QueryRowContext(ctx, getKYCRecord, id))
	if err == sql.ErrNoRows {
		return nil, kyc.ErrRecordNotFound
	}
	return r, err
}

const latestKYCRecord = `
SELECT ` + kycColumns + `
FROM kyc_records
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
`

func (q *Queries) LatestRecordByUser(ctx context.Context, userID int64) (*kyc.Record, error) {
	r, err := scanKYC(q.db.QueryRowContext(ctx, latestKYCRecord, userID))
	if err == sql.ErrNoRows {
		return nil, kyc.ErrRecordNotFound
	}
	return r, err
}

const listPendingKYC = `
SELECT ` + kycColumns + `
FROM kyc_records
WHERE status = 'pending'
ORDER BY created_at
`

func (q *Queries) ListPendingRecords(ctx context.Context) ([]kyc.Record, error) {
	rows, err := q.db.QueryContext(ctx, listPendingKYC)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []kyc.Record
	for rows.Next() {
		r, err := scanKYC(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

const updateKYCRecord = `
UPDATE kyc_records
SET status = $2, level = $3, rejection_reason = $4, verified_at = $5, expires_at = $6
WHERE id = $1
RETURNING ` + kycColumns

func (q *Queries) UpdateRecord(ctx context.Context, r *kyc.Record) (*kyc.Record, error) {
	rejection := sql.NullString{String: r.RejectionReason, Valid: r.RejectionReason != ""}
	row := q.db.QueryRowContext(ctx, updateKYCRecord, r.ID, r.Status, r.Level, rejection, r.VerifiedAt, r.ExpiresAt)
	updated, err := scanKYC(row)
	if err == sql.ErrNoRows {
		return nil, kyc.ErrRecordNotFound
	}
	return updated, err
}
