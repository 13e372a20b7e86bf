package payment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/PeerTrade/PeerTrade-Backend/services/monitoring/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	nextID  int64
	methods map[int64]*Method
}

func newFakeStore() *fakeStore {
	return &fakeStore{methods: make(map[int64]*Method)}
}

func (f *fakeStore) CreateMethod(ctx context.Context, m *Method) (*Method, error) {
	f.nextID++
	copied := *m
	copied.ID = f.nextID
	f.methods[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeStore) GetMethod(ctx context.Context, id int64) (*Method, error) {
	m, ok := f.methods[id]
	if !ok {
		return nil, ErrMethodNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeStore) ListMethodsByUser(ctx context.Context, userID int64) ([]Method, error) {
	var out []Method
	for _, m := range f.methods {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateMethod(ctx context.Context, m *Method) (*Method, error) {
	if _, ok := f.methods[m.ID]; !ok {
		return nil, ErrMethodNotFound
	}
	copied := *m
	f.methods[m.ID] = &copied
	out := copied
	return &out, nil
}

func (f *fakeStore) DeleteMethod(ctx context.Context, id int64) error {
	if _, ok := f.methods[id]; !ok {
		return ErrMethodNotFound
	}
	delete(f.methods, id)
	return nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, logging.NewLogger(nil)), store
}

func TestDecodeDetails(t *testing.T) {
	cases := []struct {
		name    string
		kind    Kind
		payload string
		wantErr error
	}{
		{"ValidBankTransfer", KindBankTransfer, `{"bankName":"N26","accountNumber":"123","accountName":"A. Trader"}`, nil},
		{"BankTransferMissingAccount", KindBankTransfer, `{"bankName":"N26"}`, ErrInvalidDetails},
		{"ValidPayPal", KindPayPal, `{"email":"trader@example.com"}`, nil},
		{"PayPalBadEmail", KindPayPal, `{"email":"not-an-email"}`, ErrInvalidDetails},
		{"ValidCrypto", KindCrypto, `{"address":"bc1qxyz","network":"bitcoin"}`, nil},
		{"CryptoMissingNetwork", KindCrypto, `{"address":"bc1qxyz"}`, ErrInvalidDetails},
		{"ValidMobileMoney", KindMobileMoney, `{"provider":"M-Pesa","phoneNumber":"+254712345678"}`, nil},
		{"MobileMoneyBadPhone", KindMobileMoney, `{"provider":"M-Pesa","phoneNumber":"0712"}`, ErrInvalidDetails},
		{"ValidCash", KindCash, `{"location":"Berlin Hauptbahnhof"}`, nil},
		{"UnknownFieldRejected", KindCash, `{"location":"Berlin","note":"call me"}`, ErrInvalidDetails},
		{"UnknownKind", Kind("iou"), `{}`, ErrUnknownKind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDetails(tc.kind, json.RawMessage(tc.payload))
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("StoresValidatedMethod", func(t *testing.T) {
		s, _ := newTestService()

		m, err := s.Create(ctx, 1, "My PayPal", KindPayPal, json.RawMessage(`{"email":"trader@example.com"}`))
		require.NoError(t, err)
		assert.Equal(t, KindPayPal, m.Kind)
		assert.Equal(t, int64(1), m.UserID)
	})

	t.Run("RejectsInvalidPayload", func(t *testing.T) {
		s, store := newTestService()

		_, err := s.Create(ctx, 1, "Bad", KindPayPal, json.RawMessage(`{"email":"nope"}`))
		assert.ErrorIs(t, err, ErrInvalidDetails)
		assert.Empty(t, store.methods)
	})

	t.Run("RejectsUnknownKind", func(t *testing.T) {
		s, _ := newTestService()
		_, err := s.Create(ctx, 1, "IOU", Kind("iou"), json.RawMessage(`{}`))
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("ReplacesDetails", func(t *testing.T) {
		s, _ := newTestService()
		m, err := s.Create(ctx, 1, "My PayPal", KindPayPal, json.RawMessage(`{"email":"old@example.com"}`))
		require.NoError(t, err)

		updated, err := s.Update(ctx, 1, m.ID, "", json.RawMessage(`{"email":"new@example.com"}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"email":"new@example.com"}`, string(updated.Details))
		assert.Equal(t, "My PayPal", updated.Name)
	})

	t.Run("ValidatesAgainstOriginalKind", func(t *testing.T) {
		s, _ := newTestService()
		m, err := s.Create(ctx, 1, "My PayPal", KindPayPal, json.RawMessage(`{"email":"old@example.com"}`))
		require.NoError(t, err)

		// A crypto payload is junk for a paypal method.
		_, err = s.Update(ctx, 1, m.ID, "", json.RawMessage(`{"address":"bc1qxyz","network":"bitcoin"}`))
		assert.ErrorIs(t, err, ErrInvalidDetails)
	})

	t.Run("OtherUsersMethodIsOffLimits", func(t *testing.T) {
		s, _ := newTestService()
		m, err := s.Create(ctx, 1, "My PayPal", KindPayPal, json.RawMessage(`{"email":"old@example.com"}`))
		require.NoError(t, err)

		_, err = s.Update(ctx, 2, m.ID, "stolen", nil)
		assert.ErrorIs(t, err, ErrNotYours)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesOwnMethod", func(t *testing.T) {
		s, store := newTestService()
		m, err := s.Create(ctx, 1, "Cash drop", KindCash, json.RawMessage(`{"location":"Berlin"}`))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, 1, m.ID))
		assert.Empty(t, store.methods)
	})

	t.Run("OtherUsersMethodIsOffLimits", func(t *testing.T) {
		s, _ := newTestService()
		m, err := s.Create(ctx, 1, "Cash drop", KindCash, json.RawMessage(`{"location":"Berlin"}`))
		require.NoError(t, err)

		assert.ErrorIs(t, s.Delete(ctx, 2, m.ID), ErrNotYours)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	_, err := s.Create(ctx, 1, "PayPal", KindPayPal, json.RawMessage(`{"email":"a@example.com"}`))
	require.NoError(t, err)
	_, err = s.Create(ctx, 2, "Cash", KindCash, json.RawMessage(`{"location":"Berlin"}`))
	require.NoError(t, err)

	methods, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, methods, 1)
}
