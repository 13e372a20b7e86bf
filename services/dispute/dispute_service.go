package dispute

import (
	"context"
	"fmt"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/PeerTrade/PeerTrade-Backend/services/order"
)

type Store interface {
	CreateDispute(ctx context.Context, d *Dispute) (*Dispute, error)
	GetDispute(ctx context.Context, id int64) (*Dispute, error)
	GetActiveDisputeByOrder(ctx context.Context, orderID int64) (*Dispute, error)
	UpdateDispute(ctx context.Context, d *Dispute) (*Dispute, error)
	ListDisputesByUser(ctx context.Context, userID int64) ([]Dispute, error)
	ListDisputes(ctx context.Context, status Status) ([]Dispute, error)
}

// Orders is the slice of the order lifecycle the workflow drives. Only these
// calls may move an order into or out of the disputed status.
type Orders interface {
	MarkDisputed(ctx context.Context, orderID, raisedBy int64) (*order.Order, error)
	ResolveDisputed(ctx context.Context, orderID int64, res order.Resolution) (*order.Order, error)
	ReopenFromDispute(ctx context.Context, orderID int64) (*order.Order, error)
}

type Service struct {
	store  Store
	orders Orders
	logger *logging.Logger
}

func NewService(store Store, orders Orders, logger *logging.Logger) *Service {
	return &Service{store: store, orders: orders, logger: logger}
}

// Open raises a dispute against a confirmed order and freezes its lifecycle.
func (s *Service) Open(ctx context.Context, orderID, raisedBy int64, reason, description string) (*Dispute, error) {
	existing, err := s.store.GetActiveDisputeByOrder(ctx, orderID)
	if err != nil && err != ErrDisputeNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDisputeAlreadyOpen
	}

	if _, err := s.orders.MarkDisputed(ctx, orderID, raisedBy); err != nil {
		return nil, err
	}

	d := &Dispute{
		OrderID:     orderID,
		RaisedBy:    raisedBy,
		Reason:      reason,
		Description: description,
		Status:      StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.store.CreateDispute(ctx, d)
	if err != nil {
		// Compensate: the order must not stay disputed without a dispute.
		if _, reopenErr := s.orders.ReopenFromDispute(ctx, orderID); reopenErr != nil {
			s.logger.Error(fmt.Sprintf("failed to reopen order %d after dispute create failure: %v", orderID, reopenErr))
		}
		return nil, err
	}

	s.logger.WithField("dispute_id", created.ID).Info(fmt.Sprintf("dispute opened against order %d", orderID))
	return created, nil
}

// BeginReview moves an open dispute under arbitration.
func (s *Service) BeginReview(ctx context.Context, disputeID int64) (*Dispute, error) {
	d, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !d.Status.CanTransitionTo(StatusInReview) {
		return nil, ErrInvalidTransition
	}

	d.Status = StatusInReview
	return s.store.UpdateDispute(ctx, d)
}

// Resolve settles the dispute with a decision. Favoring the initiator
// settles the escrow; favoring the counterparty or a mutual outcome releases
// it. Either way the parent order goes terminal.
func (s *Service) Resolve(ctx context.Context, disputeID int64, resolution string, favor Favor) (*Dispute, error) {
	if resolution == "" {
		return nil, ErrMissingResolution
	}
	if !favor.Valid() {
		return nil, ErrInvalidFavor
	}

	d, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if !d.Status.CanTransitionTo(StatusResolved) {
		return nil, ErrInvalidTransition
	}

	res := order.ResolutionRelease
	if favor == FavorInitiator {
		res = order.ResolutionSettle
	}
	if _, err := s.orders.ResolveDisputed(ctx, d.OrderID, res); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d.Status = StatusResolved
	d.Resolution = resolution
	d.ResolvedAt = &now

	s.logger.WithField("dispute_id", d.ID).Info(fmt.Sprintf("dispute resolved in favor of %s", favor))
	return s.store.UpdateDispute(ctx, d)
}

// Close withdraws the dispute with no funds movement; only its raiser may do
// so. The parent order resumes its normal lifecycle.
func (s *Service) Close(ctx context.Context, disputeID, callerID int64) (*Dispute, error) {
	d, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if callerID != d.RaisedBy {
		return nil, ErrNotAuthorizedParty
	}
	if !d.Status.CanTransitionTo(StatusClosed) {
		return nil, ErrInvalidTransition
	}

	if _, err := s.orders.ReopenFromDispute(ctx, d.OrderID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d.Status = StatusClosed
	d.ResolvedAt = &now
	return s.store.UpdateDispute(ctx, d)
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]Dispute, error) {
	return s.store.ListDisputesByUser(ctx, userID)
}

// List returns disputes for the arbitration surface, optionally filtered by
// status (empty string means all).
func (s *Service) List(ctx context.Context, status Status) ([]Dispute, error) {
	return s.store.ListDisputes(ctx, status)
}
