package referral

import (
	"context"
	"testing"
	"time"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	edges map[int64]*Edge // keyed by referee
}

func newFakeStore() *fakeStore {
	return &fakeStore{edges: make(map[int64]*Edge)}
}

func (f *fakeStore) CreateEdge(ctx context.Context, edge *Edge) error {
	if _, ok := f.edges[edge.RefereeID]; ok {
		return ErrAlreadyReferred
	}
	copied := *edge
	copied.CreatedAt = time.Now().UTC()
	f.edges[copied.RefereeID] = &copied
	edge.CreatedAt = copied.CreatedAt
	return nil
}

func (f *fakeStore) GetReferrer(ctx context.Context, refereeID int64) (*Edge, error) {
	e, ok := f.edges[refereeID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeStore) ListReferees(ctx context.Context, referrerID int64) ([]Edge, error) {
	var out []Edge
	for _, e := range f.edges {
		if e.ReferrerID == referrerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	s, err := NewService(store, "test-salt", logging.NewLogger(nil))
	require.NoError(t, err)
	return s, store
}

func TestCodeFor(t *testing.T) {
	s, _ := newTestService(t)

	code, err := s.CodeFor(42)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(code), 8)

	// Deterministic per user, distinct across users.
	again, err := s.CodeFor(42)
	require.NoError(t, err)
	assert.Equal(t, code, again)

	other, err := s.CodeFor(43)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestCodeChangesWithSalt(t *testing.T) {
	a, _ := newTestService(t)
	b, err := NewService(newFakeStore(), "other-salt", logging.NewLogger(nil))
	require.NoError(t, err)

	codeA, err := a.CodeFor(42)
	require.NoError(t, err)
	codeB, err := b.CodeFor(42)
	require.NoError(t, err)
	assert.NotEqual(t, codeA, codeB)
}

func TestTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsEdge", func(t *testing.T) {
		s, store := newTestService(t)
		code, err := s.CodeFor(1)
		require.NoError(t, err)

		edge, err := s.Track(ctx, code, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), edge.ReferrerID)
		assert.Equal(t, int64(2), edge.RefereeID)
		assert.False(t, edge.CreatedAt.IsZero())
		assert.Len(t, store.edges, 1)
	})

	t.Run("InvalidCode", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Track(ctx, "not-a-code", 2)
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("CodeFromAnotherSaltRejected", func(t *testing.T) {
		s, _ := newTestService(t)
		other, err := NewService(newFakeStore(), "other-salt", logging.NewLogger(nil))
		require.NoError(t, err)
		foreign, err := other.CodeFor(1)
		require.NoError(t, err)

		_, err = s.Track(ctx, foreign, 2)
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("SelfReferral", func(t *testing.T) {
		s, _ := newTestService(t)
		code, err := s.CodeFor(1)
		require.NoError(t, err)

		_, err = s.Track(ctx, code, 1)
		assert.ErrorIs(t, err, ErrSelfReferral)
	})

	t.Run("ReferrerIsImmutable", func(t *testing.T) {
		s, _ := newTestService(t)
		first, err := s.CodeFor(1)
		require.NoError(t, err)
		second, err := s.CodeFor(3)
		require.NoError(t, err)

		_, err = s.Track(ctx, first, 2)
		require.NoError(t, err)
		_, err = s.Track(ctx, second, 2)
		assert.ErrorIs(t, err, ErrAlreadyReferred)
	})
}

func TestTeam(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	// 1 refers 2 and 3; 2 refers 4; 4 refers 5; 5 refers 6.
	refer := func(referrer, referee int64) {
		t.Helper()
		code, err := s.CodeFor(referrer)
		require.NoError(t, err)
		_, err = s.Track(ctx, code, referee)
		require.NoError(t, err)
	}
	refer(1, 2)
	refer(1, 3)
	refer(2, 4)
	refer(4, 5)
	refer(5, 6)

	levels, err := s.Team(ctx, 1)
	require.NoError(t, err)
	require.Len(t, levels, 3)

	assert.Equal(t, 1, levels[0].Level)
	assert.Len(t, levels[0].Members, 2)

	assert.Equal(t, 2, levels[1].Level)
	require.Len(t, levels[1].Members, 1)
	assert.Equal(t, int64(4), levels[1].Members[0].UserID)

	// User 6 sits at depth 4 and falls outside the projection.
	assert.Equal(t, 3, levels[2].Level)
	require.Len(t, levels[2].Members, 1)
	assert.Equal(t, int64(5), levels[2].Members[0].UserID)
}

func TestTeamEmpty(t *testing.T) {
	s, _ := newTestService(t)
	levels, err := s.Team(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, levels)
}
