package dispute

import (
	"context"
	"fmt"
	"testing"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/PeerTrade/PeerTrade-Backend/services/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nextID     int64
	disputes   map[int64]*Dispute
	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{disputes: make(map[int64]*Dispute)}
}

func (f *fakeStore) CreateDispute(ctx context.Context, d *Dispute) (*Dispute, error) {
	if f.failCreate {
		return nil, fmt.Errorf("insert failed")
	}
	for _, existing := range f.disputes {
		if existing.OrderID == d.OrderID && existing.Status.Active() {
			return nil, ErrDisputeAlreadyOpen
		}
	}
	f.nextID++
	copied := *d
	copied.ID = f.nextID
	f.disputes[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeStore) GetDispute(ctx context.Context, id int64) (*Dispute, error) {
	d, ok := f.disputes[id]
	if !ok {
		return nil, ErrDisputeNotFound
	}
	copied := *d
	return &copied, nil
}

func (f *fakeStore) GetActiveDisputeByOrder(ctx context.Context, orderID int64) (*Dispute, error) {
	for _, d := range f.disputes {
		if d.OrderID == orderID && d.Status.Active() {
			copied := *d
			return &copied, nil
		}
	}
	return nil, ErrDisputeNotFound
}

func (f *fakeStore) UpdateDispute(ctx context.Context, d *Dispute) (*Dispute, error) {
	if _, ok := f.disputes[d.ID]; !ok {
		return nil, ErrDisputeNotFound
	}
	copied := *d
	f.disputes[d.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeStore) ListDisputesByUser(ctx context.Context, userID int64) ([]Dispute, error) {
	var out []Dispute
	for _, d := range f.disputes {
		if d.RaisedBy == userID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListDisputes(ctx context.Context, status Status) ([]Dispute, error) {
	var out []Dispute
	for _, d := range f.disputes {
		if status == "" || d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

// fakeOrders tracks the order-side state the workflow drives.
type fakeOrders struct {
	status      map[int64]order.Status
	resolutions []order.Resolution
	failMark    error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{status: make(map[int64]order.Status)}
}

func (f *fakeOrders) MarkDisputed(ctx context.Context, orderID, raisedBy int64) (*order.Order, error) {
	if f.failMark != nil {
		return nil, f.failMark
	}
	if f.status[orderID] != order.StatusConfirmed {
		return nil, order.ErrInvalidTransition
	}
	f.status[orderID] = order.StatusDisputed
	return &order.Order{ID: orderID, Status: order.StatusDisputed}, nil
}

func (f *fakeOrders) ResolveDisputed(ctx context.Context, orderID int64, res order.Resolution) (*order.Order, error) {
	if f.status[orderID] != order.StatusDisputed {
		return nil, order.ErrInvalidTransition
	}
	f.resolutions = append(f.resolutions, res)
	next := order.StatusCancelled
	if res == order.ResolutionSettle {
		next = order.StatusCompleted
	}
	f.status[orderID] = next
	return &order.Order{ID: orderID, Status: next}, nil
}

func (f *fakeOrders) ReopenFromDispute(ctx context.Context, orderID int64) (*order.Order, error) {
	if f.status[orderID] != order.StatusDisputed {
		return nil, order.ErrInvalidTransition
	}
	f.status[orderID] = order.StatusConfirmed
	return &order.Order{ID: orderID, Status: order.StatusConfirmed}, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeOrders) {
	t.Helper()
	store := newFakeStore()
	orders := newFakeOrders()
	return NewService(store, orders, logging.NewLogger(nil)), store, orders
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("FreezesTheOrder", func(t *testing.T) {
		s, _, orders := newTestService(t)
		orders.status[7] = order.StatusConfirmed

		d, err := s.Open(ctx, 7, 2, "not_paid", "seller never sent the funds")
		require.NoError(t, err)
		assert.Equal(t, StatusOpen, d.Status)
		assert.Equal(t, int64(7), d.OrderID)
		assert.Equal(t, order.StatusDisputed, orders.status[7])
	})

	t.Run("SecondActiveDisputeRejected", func(t *testing.T) {
		s, _, orders := newTestService(t)
		orders.status[7] = order.StatusConfirmed

		_, err := s.Open(ctx, 7, 2, "not_paid", "first")
		require.NoError(t, err)
		_, err = s.Open(ctx, 7, 1, "not_paid", "second")
		assert.ErrorIs(t, err, ErrDisputeAlreadyOpen)
	})

	t.Run("PendingOrderCannotBeDisputed", func(t *testing.T) {
		s, _, orders := newTestService(t)
		orders.status[7] = order.StatusPending

		_, err := s.Open(ctx, 7, 1, "not_paid", "too early")
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("CreateFailureReopensOrder", func(t *testing.T) {
		s, store, orders := newTestService(t)
		orders.status[7] = order.StatusConfirmed
		store.failCreate = true

		_, err := s.Open(ctx, 7, 2, "not_paid", "description")
		require.Error(t, err)
		assert.Equal(t, order.StatusConfirmed, orders.status[7])
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	open := func(t *testing.T, s *Service, orders *fakeOrders, orderID int64) *Dispute {
		t.Helper()
		orders.status[orderID] = order.StatusConfirmed
		d, err := s.Open(ctx, orderID, 2, "not_paid", "description")
		require.NoError(t, err)
		return d
	}

	t.Run("FavorInitiatorSettles", func(t *testing.T) {
		s, _, orders := newTestService(t)
		d := open(t, s, orders, 7)

		resolved, err := s.Resolve(ctx, d.ID, "evidence shows payment was made", FavorInitiator)
		require.NoError(t, err)
		assert.Equal(t, StatusResolved, resolved.Status)
		assert.NotNil(t, resolved.ResolvedAt)
		assert.Equal(t, []order.Resolution{order.ResolutionSettle}, orders.resolutions)
		assert.Equal(t, order.StatusCompleted, orders.status[7])
	})

	t.Run("FavorCounterpartyReleases", func(t *testing.T) {
		s, _, orders := newTestService(t)
		d := open(t, s, orders, 7)

		_, err := s.Resolve(ctx, d.ID, "no payment evidence", FavorCounterparty)
		require.NoError(t, err)
		assert.Equal(t, []order.Resolution{order.ResolutionRelease}, orders.resolutions)
		assert.Equal(t, order.StatusCancelled, orders.status[7])
	})

	t.Run("MutualReleases", func(t *testing.T) {
		s, _, orders := newTestService(t)
		d := open(t, s, orders, 7)

		_, err := s.Resolve(ctx, d.ID, "both parties agreed to unwind", FavorMutual)
		require.NoError(t, err)
		assert.Equal(t, []order.Resolution{order.ResolutionRelease}, orders.resolutions)
	})

	t.Run("RequiresResolutionText", func(t *testing.T) {
		s, _, orders := newTestService(t)
		d := open(t, s, orders, 7)

		_, err := s.Resolve(ctx, d.ID, "", FavorInitiator)
		assert.ErrorIs(t, err, ErrMissingResolution)
	})

	t.Run("RejectsUnknownFavor", func(t *testing.T) {
		s, _, orders := newTestService(t)
		d := open(t, s, orders, 7)

		_, err := s.Resolve(ctx, d.ID, "text", Favor("nobody"))
		assert.ErrorIs(t, err, ErrInvalidFavor)
	})

	t.Run("ResolvedDisputeStaysResolved", func(t *testing.T) {
		s, _, orders := newTestService(t)
		d := open(t, s, orders, 7)

		_, err := s.Resolve(ctx, d.ID, "done", FavorInitiator)
		require.NoError(t, err)
		_, err = s.Resolve(ctx, d.ID, "again", FavorCounterparty)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestBeginReview(t *testing.T) {
	ctx := context.Background()
	s, _, orders := newTestService(t)
	orders.status[7] = order.StatusConfirmed
	d, err := s.Open(ctx, 7, 2, "not_paid", "description")
	require.NoError(t, err)

	reviewed, err := s.BeginReview(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInReview, reviewed.Status)

	// Review is one-way.
	_, err = s.BeginReview(ctx, d.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("RaiserWithdrawsAndOrderResumes", func(t *testing.T) {
		s, _, orders := newTestService(t)
		orders.status[7] = order.StatusConfirmed
		d, err := s.Open(ctx, 7, 2, "not_paid", "description")
		require.NoError(t, err)

		closed, err := s.Close(ctx, d.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, StatusClosed, closed.Status)
		assert.Equal(t, order.StatusConfirmed, orders.status[7])
	})

	t.Run("OnlyRaiserMayClose", func(t *testing.T) {
		s, _, orders := newTestService(t)
		orders.status[7] = order.StatusConfirmed
		d, err := s.Open(ctx, 7, 2, "not_paid", "description")
		require.NoError(t, err)

		_, err = s.Close(ctx, d.ID, 1)
		assert.ErrorIs(t, err, ErrNotAuthorizedParty)
	})

	t.Run("NewDisputeMayFollowClosedOne", func(t *testing.T) {
		s, _, orders := newTestService(t)
		orders.status[7] = order.StatusConfirmed
		d, err := s.Open(ctx, 7, 2, "not_paid", "first")
		require.NoError(t, err)
		_, err = s.Close(ctx, d.ID, 2)
		require.NoError(t, err)

		second, err := s.Open(ctx, 7, 1, "item_not_as_described", "second attempt")
		require.NoError(t, err)
		assert.Equal(t, StatusOpen, second.Status)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s, _, orders := newTestService(t)
	for i, raiser := range []int64{1, 2, 1} {
		orderID := int64(10 + i)
		orders.status[orderID] = order.StatusConfirmed
		_, err := s.Open(ctx, orderID, raiser, "not_paid", "description")
		require.NoError(t, err)
	}

	mine, err := s.ListMine(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	open, err := s.List(ctx, StatusOpen)
	require.NoError(t, err)
	assert.Len(t, open, 3)

	resolved, err := s.List(ctx, StatusResolved)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusOpen.Active())
	assert.True(t, StatusInReview.Active())
	assert.False(t, StatusResolved.Active())
	assert.False(t, StatusClosed.Active())
}
