package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
)

type Store interface {
	CreateMethod(ctx context.Context, m *Method) (*Method, error)
	GetMethod(ctx context.Context, id int64) (*Method, error)
	ListMethodsByUser(ctx context.Context, userID int64) ([]Method, error)
	UpdateMethod(ctx context.Context, m *Method) (*Method, error)
	DeleteMethod(ctx context.Context, id int64) error
}

type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create validates the details payload against the kind's typed variant
// before anything is stored.
func (s *Service) Create(ctx context.Context, userID int64, name string, kind Kind, raw json.RawMessage) (*Method, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	if _, err := DecodeDetails(kind, raw); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m := &Method{
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		Details:   raw,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.store.CreateMethod(ctx, m)
}

func (s *Service) List(ctx context.Context, userID int64) ([]Method, error) {
	return s.store.ListMethodsByUser(ctx, userID)
}

// Update replaces the name and/or details. The kind is fixed at creation;
// switching rails means creating a new method.
func (s *Service) Update(ctx context.Context, userID, methodID int64, name string, raw json.RawMessage) (*Method, error) {
	m, err := s.store.GetMethod(ctx, methodID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, ErrNotYours
	}

	if name != "" {
		m.Name = name
	}
	if len(raw) > 0 {
		if _, err := DecodeDetails(m.Kind, raw); err != nil {
			return nil, err
		}
		m.Details = raw
	}
	m.UpdatedAt = time.Now().UTC()

	return s.store.UpdateMethod(ctx, m)
}

func (s *Service) Delete(ctx context.Context, userID, methodID int64) error {
	m, err := s.store.GetMethod(ctx, methodID)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrNotYours
	}
	return s.store.DeleteMethod(ctx, methodID)
}
