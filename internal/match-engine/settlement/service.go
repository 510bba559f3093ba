package settlement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// BetStore é a fatia do store que a liquidação usa: buscar pendentes
// de um jogo e aplicar a transição de status de cada aposta.
type BetStore interface {
	Bets(ctx context.Context, f store.BetFilter) ([]store.Bet, error)
	SettleBet(ctx context.Context, betID, status string, actualWin float64) error
}

// Wallet credita ganhos no saldo de sessão do usuário.
type Wallet interface {
	Credit(ctx context.Context, userID int64, amount float64) error
}

// Notifier é o equivalente do toast: avisa o usuário do resultado.
type Notifier interface {
	BetSettled(ctx context.Context, ev events.BetSettled)
}

// Service liquida todas as apostas pendentes de um jogo finalizado.
// Disparado exatamente uma vez, no tick que finaliza o jogo; reprocessar
// é no-op porque só apostas ainda pendentes são buscadas.
type Service struct {
	Log    *zap.Logger
	Bets   BetStore
	Wallet Wallet
	Notif  Notifier

	OnSettled func(status string) // métricas
}

// SettleGame resolve o resultado final e liquida as pendentes do jogo.
// Erros são logados e não bloqueiam as demais apostas: a falha é por
// aposta, nunca do lote inteiro. Ninguém espera síncrono por isso,
// então nada é propagado.
func (s *Service) SettleGame(ctx context.Context, g sim.Game) {
	if g.Live == nil {
		s.Log.Error("settle called without live state", zap.String("game_id", g.ID))
		return
	}

	result := Outcome(g.Live.HomeScore, g.Live.AwayScore)

	pending, err := s.Bets.Bets(ctx, store.BetFilter{Status: store.BetStatusPending, GameID: g.ID})
	if err != nil {
		s.Log.Error("fetch pending bets failed",
			zap.String("game_id", g.ID),
			zap.Error(err),
		)
		return
	}

	for _, bet := range pending {
		if bet.ID == "" {
			continue
		}
		won := bet.BetType == result
		status := store.BetStatusLost
		actualWin := 0.0
		if won {
			status = store.BetStatusWon
			actualWin = bet.PotentialWin
		}

		if err := s.Bets.SettleBet(ctx, bet.ID, status, actualWin); err != nil {
			s.Log.Warn("bet settle failed",
				zap.String("bet_id", bet.ID),
				zap.String("game_id", g.ID),
				zap.Error(err),
			)
			continue
		}

		if won {
			if err := s.Wallet.Credit(ctx, bet.UserID, bet.PotentialWin); err != nil {
				s.Log.Warn("win credit failed",
					zap.String("bet_id", bet.ID),
					zap.Int64("user_id", bet.UserID),
					zap.Error(err),
				)
			}
			s.Log.Info("bet won",
				zap.String("bet_id", bet.ID),
				zap.String("game", bet.GameDetails),
				zap.Float64("win", bet.PotentialWin),
			)
		} else {
			s.Log.Info("bet lost",
				zap.String("bet_id", bet.ID),
				zap.String("game", bet.GameDetails),
			)
		}

		if s.Notif != nil {
			s.Notif.BetSettled(ctx, events.BetSettled{
				BetID:       bet.ID,
				UserID:      bet.UserID,
				GameID:      g.ID,
				GameDetails: bet.GameDetails,
				BetType:     bet.BetType,
				Status:      status,
				ActualWin:   actualWin,
				Ts:          time.Now(),
			})
		}
		if s.OnSettled != nil {
			s.OnSettled(status)
		}
	}
}

// Outcome determina o resultado vencedor a partir do placar final.
func Outcome(homeScore, awayScore int) string {
	switch {
	case homeScore > awayScore:
		return store.BetTypeHomeWin
	case awayScore > homeScore:
		return store.BetTypeAwayWin
	default:
		return store.BetTypeDraw
	}
}
