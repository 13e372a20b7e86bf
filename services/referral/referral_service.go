package referral

import (
	"context"
	"fmt"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/speps/go-hashids/v2"
)

// maxTeamDepth bounds the level buckets the projection walks.
const maxTeamDepth = 3

type Store interface {
	CreateEdge(ctx context.Context, edge *Edge) error
	GetReferrer(ctx context.Context, refereeID int64) (*Edge, error)
	ListReferees(ctx context.Context, referrerID int64) ([]Edge, error)
}

type Service struct {
	store  Store
	codec  *hashids.HashID
	logger *logging.Logger
}

func NewService(store Store, salt string, logger *logging.Logger) (*Service, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	codec, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("referral codec: %w", err)
	}
	return &Service{store: store, codec: codec, logger: logger}, nil
}

// CodeFor derives the user's shareable referral code. Deterministic, so no
// code ever needs storing.
func (s *Service) CodeFor(userID int64) (string, error) {
	return s.codec.EncodeInt64([]int64{userID})
}

func (s *Service) decode(code string) (int64, error) {
	ids, err := s.codec.DecodeInt64WithError(code)
	if err != nil || len(ids) != 1 {
		return 0, ErrInvalidCode
	}
	return ids[0], nil
}

// Track records the membership edge for a newly registered user. The edge is
// immutable: a second referrer for the same user is rejected.
func (s *Service) Track(ctx context.Context, code string, refereeID int64) (*Edge, error) {
	referrerID, err := s.decode(code)
	if err != nil {
		return nil, err
	}
	if referrerID == refereeID {
		return nil, ErrSelfReferral
	}

	if existing, err := s.store.GetReferrer(ctx, refereeID); err == nil && existing != nil {
		return nil, ErrAlreadyReferred
	}

	edge := &Edge{RefereeID: refereeID, ReferrerID: referrerID}
	if err := s.store.CreateEdge(ctx, edge); err != nil {
		return nil, err
	}

	s.logger.Info(fmt.Sprintf("user %d referred by %d", refereeID, referrerID))
	return edge, nil
}

// Team folds the flat membership graph into level buckets: direct referees
// at level 1, their referees at level 2, and so on down to maxTeamDepth.
func (s *Service) Team(ctx context.Context, userID int64) ([]TeamLevel, error) {
	var levels []TeamLevel

	frontier := []int64{userID}
	for depth := 1; depth <= maxTeamDepth && len(frontier) > 0; depth++ {
		var members []Member
		var next []int64

		for _, id := range frontier {
			edges, err := s.store.ListReferees(ctx, id)
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				members = append(members, Member{
					UserID:   e.RefereeID,
					Level:    depth,
					JoinedAt: e.CreatedAt,
				})
				next = append(next, e.RefereeID)
			}
		}

		if len(members) > 0 {
			levels = append(levels, TeamLevel{Level: depth, Members: members})
		}
		frontier = next
	}

	return levels, nil
}
