package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownUser       = errors.New("unknown user")
)

// BalanceStore persiste o saldo absoluto de um usuário (PATCH /users/{id}).
type BalanceStore interface {
	UpdateBalance(ctx context.Context, userID int64, balance float64) error
}

// Session mantém o saldo de sessão dos usuários logados. O valor em memória
// é o autoritativo; a persistência no store é assíncrona e eventualmente
// consistente. Crédito e débito são atômicos do ponto de vista de quem chama.
type Session struct {
	log   *zap.Logger
	store BalanceStore

	mu       sync.Mutex
	balances map[int64]float64
}

func NewSession(log *zap.Logger, store BalanceStore) *Session {
	return &Session{
		log:      log,
		store:    store,
		balances: make(map[int64]float64),
	}
}

// Load semeia o saldo de sessão de um usuário (no login ou no reset).
func (s *Session) Load(userID int64, balance float64) {
	s.mu.Lock()
	s.balances[userID] = balance
	s.mu.Unlock()
}

// Balance retorna o saldo de sessão do usuário, se carregado.
func (s *Session) Balance(userID int64) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userID]
	return b, ok
}

// Credit soma ao saldo e dispara a persistência em background.
func (s *Session) Credit(ctx context.Context, userID int64, amount float64) error {
	s.mu.Lock()
	b, ok := s.balances[userID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownUser
	}
	b += amount
	s.balances[userID] = b
	s.mu.Unlock()

	s.persist(userID, b)
	return nil
}

// Debit subtrai do saldo, recusando saldo insuficiente, e persiste em background.
func (s *Session) Debit(ctx context.Context, userID int64, amount float64) error {
	s.mu.Lock()
	b, ok := s.balances[userID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownUser
	}
	if b < amount {
		s.mu.Unlock()
		return ErrInsufficientFunds
	}
	b -= amount
	s.balances[userID] = b
	s.mu.Unlock()

	s.persist(userID, b)
	return nil
}

// persist grava o saldo no store fora do caminho crítico. Falha é só logada:
// o valor em memória segue valendo pra sessão.
func (s *Session) persist(userID int64, balance float64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.store.UpdateBalance(ctx, userID, balance); err != nil {
			s.log.Warn("balance persist failed",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}
