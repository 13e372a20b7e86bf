package kyc

import "time"

type Status string

const (
	StatusNotSubmitted Status = "not_submitted"
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusRejected     Status = "rejected"
)

// Record is one identity-verification submission. Records are superseded on
// resubmission, never deleted; the latest row is authoritative.
type Record struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	Status          Status     `json:"status"`
	Level           int        `json:"level"`
	DocumentType    string     `json:"document_type"`
	Country         string     `json:"country"`
	DocumentFront   string     `json:"document_front"`
	DocumentBack    string     `json:"document_back,omitempty"`
	Selfie          string     `json:"selfie"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Verified reports whether the record grants a usable level right now.
func (r *Record) Verified(now time.Time) bool {
	if r == nil || r.Status != StatusApproved || r.Level <= 0 {
		return false
	}
	if r.ExpiresAt != nil && !r.ExpiresAt.After(now) {
		return false
	}
	return true
}
