package dto

import (
	"time"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Game do catálogo, como persistido e servido em /games.
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sportKey"`
	SportTitle   string      `json:"sportTitle"`
	HomeTeam     string      `json:"homeTeam"`
	AwayTeam     string      `json:"awayTeam"`
	CommenceTime time.Time   `json:"commenceTime"`
	Odds         events.Odds `json:"odds"`
}

// User servido em /users. A senha trafega em claro porque o store é um
// mock de demonstração; o login acontece no cliente.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Balance  float64 `json:"balance"`
}

// Bet como persistida em /bets.
type Bet struct {
	ID           string    `json:"id"`
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

// BetFilter combina os filtros aceitos por GET /bets (AND entre eles).
type BetFilter struct {
	UserID *int64
	Status string
	GameID string
}

type UpdateUserRequest struct {
	Balance *float64 `json:"balance"`
}

type UpdateBetRequest struct {
	Status    string   `json:"status"`
	ActualWin *float64 `json:"actualWin"`
}
