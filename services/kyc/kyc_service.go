package kyc

import (
	"context"
	"fmt"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
)

// validityPeriod is how long an approval grants its level before the user
// must re-verify.
const validityPeriod = 365 * 24 * time.Hour

type Store interface {
	CreateRecord(ctx context.Context, record *Record) (*Record, error)
	GetRecord(ctx context.Context, id int64) (*Record, error)
	LatestRecordByUser(ctx context.Context, userID int64) (*Record, error)
	ListPendingRecords(ctx context.Context) ([]Record, error)
	UpdateRecord(ctx context.Context, record *Record) (*Record, error)
}

type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

type Submission struct {
	DocumentType  string
	Country       string
	DocumentFront string
	DocumentBack  string
	Selfie        string
}

// Submit files a new verification request. A rejected user may resubmit; the
// new record supersedes the old one, which is kept for history.
func (s *Service) Submit(ctx context.Context, userID int64, sub Submission) (*Record, error) {
	latest, err := s.store.LatestRecordByUser(ctx, userID)
	if err != nil && err != ErrRecordNotFound {
		return nil, err
	}

	if latest != nil {
		switch latest.Status {
		case StatusPending:
			return nil, ErrAlreadyPending
		case StatusApproved:
			if latest.Verified(time.Now().UTC()) {
				return nil, ErrAlreadyVerified
			}
		}
	}

	record := &Record{
		UserID:        userID,
		Status:        StatusPending,
		DocumentType:  sub.DocumentType,
		Country:       sub.Country,
		DocumentFront: sub.DocumentFront,
		DocumentBack:  sub.DocumentBack,
		Selfie:        sub.Selfie,
		CreatedAt:     time.Now().UTC(),
	}

	s.logger.Info(fmt.Sprintf("kyc submission received for user %d", userID))
	return s.store.CreateRecord(ctx, record)
}

// Status returns the authoritative record for a user. Users who never
// submitted get a synthetic not_submitted record at level 0.
func (s *Service) Status(ctx context.Context, userID int64) (*Record, error) {
	latest, err := s.store.LatestRecordByUser(ctx, userID)
	if err == ErrRecordNotFound {
		return &Record{UserID: userID, Status: StatusNotSubmitted}, nil
	}
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (s *Service) Pending(ctx context.Context) ([]Record, error) {
	return s.store.ListPendingRecords(ctx)
}

type Review struct {
	Approve         bool
	Level           int
	RejectionReason string
}

// Review settles a pending submission. Approval grants the level with an
// expiry; rejection records the reason so the user can remediate.
func (s *Service) Review(ctx context.Context, recordID int64, review Review) (*Record, error) {
	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if record.Status != StatusPending {
		return nil, ErrNotReviewable
	}

	now := time.Now().UTC()
	if review.Approve {
		if review.Level < 1 {
			return nil, ErrInvalidLevel
		}
		expires := now.Add(validityPeriod)
		record.Status = StatusApproved
		record.Level = review.Level
		record.VerifiedAt = &now
		record.ExpiresAt = &expires
		record.RejectionReason = ""
	} else {
		if review.RejectionReason == "" {
			return nil, ErrMissingRejection
		}
		record.Status = StatusRejected
		record.Level = 0
		record.RejectionReason = review.RejectionReason
	}

	s.logger.Info(fmt.Sprintf("kyc record %d reviewed, approved=%v", recordID, review.Approve))
	return s.store.UpdateRecord(ctx, record)
}
