package store

import (
	"time"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Tipos de aposta (resultado 1x2).
const (
	BetTypeHomeWin = "Home Win"
	BetTypeDraw    = "Draw"
	BetTypeAwayWin = "Away Win"
)

// Status de uma aposta. Transição única: pending → won | lost.
const (
	BetStatusPending = "pending"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
)

// Game como servido pelo store em GET /games (catálogo, sem estado ao vivo).
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sportKey"`
	SportTitle   string      `json:"sportTitle"`
	HomeTeam     string      `json:"homeTeam"`
	AwayTeam     string      `json:"awayTeam"`
	CommenceTime time.Time   `json:"commenceTime"`
	Odds         events.Odds `json:"odds"`
}

// User como servido pelo store. Password trafega porque o store é um mock
// de demonstração; o login compara em memória.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"password,omitempty"`
	Balance  float64 `json:"balance"`
}

// Bet é o registro persistido de uma aposta.
type Bet struct {
	ID           string    `json:"id,omitempty"`
	UserID       int64     `json:"userId"`
	GameID       string    `json:"gameId"`
	GameDetails  string    `json:"gameDetails"`
	BetType      string    `json:"betType"`
	Stake        float64   `json:"stake"`
	Odds         float64   `json:"odds"`
	PotentialWin float64   `json:"potentialWin"`
	ActualWin    float64   `json:"actualWin,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	IsLiveBet    bool      `json:"isLiveBet"`
	Status       string    `json:"status"`
}

// BetFilter é a combinação de filtros aceita por GET /bets (AND entre eles).
type BetFilter struct {
	UserID *int64
	Status string
	GameID string
}
