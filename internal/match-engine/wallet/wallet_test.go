package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type persistCall struct {
	userID  int64
	balance float64
}

type fakeBalanceStore struct {
	calls chan persistCall
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{calls: make(chan persistCall, 16)}
}

func (f *fakeBalanceStore) UpdateBalance(ctx context.Context, userID int64, balance float64) error {
	f.calls <- persistCall{userID, balance}
	return nil
}

func (f *fakeBalanceStore) wait(t *testing.T) persistCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("persistência não aconteceu")
		return persistCall{}
	}
}

func TestLoadAndBalance(t *testing.T) {
	s := NewSession(zap.NewNop(), newFakeBalanceStore())

	_, ok := s.Balance(1)
	assert.False(t, ok)

	s.Load(1, 1000)
	b, ok := s.Balance(1)
	require.True(t, ok)
	assert.Equal(t, 1000.0, b)
}

func TestCreditPersistsAsync(t *testing.T) {
	store := newFakeBalanceStore()
	s := NewSession(zap.NewNop(), store)
	s.Load(1, 100)

	require.NoError(t, s.Credit(context.Background(), 1, 42.5))

	b, _ := s.Balance(1)
	assert.Equal(t, 142.5, b)
	assert.Equal(t, persistCall{1, 142.5}, store.wait(t))
}

func TestDebitRefusesOverdraft(t *testing.T) {
	store := newFakeBalanceStore()
	s := NewSession(zap.NewNop(), store)
	s.Load(1, 50)

	err := s.Debit(context.Background(), 1, 80)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// saldo intocado e nada persistido
	b, _ := s.Balance(1)
	assert.Equal(t, 50.0, b)
	select {
	case c := <-store.calls:
		t.Fatalf("persistência inesperada: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.Debit(context.Background(), 1, 50))
	b, _ = s.Balance(1)
	assert.Equal(t, 0.0, b)
	assert.Equal(t, persistCall{1, 0}, store.wait(t))
}

func TestUnknownUser(t *testing.T) {
	s := NewSession(zap.NewNop(), newFakeBalanceStore())

	assert.ErrorIs(t, s.Credit(context.Background(), 9, 10), ErrUnknownUser)
	assert.ErrorIs(t, s.Debit(context.Background(), 9, 10), ErrUnknownUser)
}
