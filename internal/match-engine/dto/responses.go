package dto

import (
	"time"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

type LoginResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

type LiveStateView struct {
	Minute      int                 `json:"minute"`
	HomeScore   int                 `json:"homeScore"`
	AwayScore   int                 `json:"awayScore"`
	Status      string              `json:"status"`
	Events      []events.MatchEvent `json:"events"`
	CurrentOdds events.Odds         `json:"currentOdds"`
}

type GameView struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sportKey"`
	SportTitle   string         `json:"sportTitle"`
	HomeTeam     string         `json:"homeTeam"`
	AwayTeam     string         `json:"awayTeam"`
	CommenceTime time.Time      `json:"commenceTime"`
	Odds         events.Odds    `json:"odds"`
	LiveState    *LiveStateView `json:"liveState,omitempty"`
}

// FromGame monta a visão JSON de um jogo da simulação.
func FromGame(g sim.Game) GameView {
	v := GameView{
		ID:           g.ID,
		SportKey:     g.SportKey,
		SportTitle:   g.SportTitle,
		HomeTeam:     g.HomeTeam,
		AwayTeam:     g.AwayTeam,
		CommenceTime: g.CommenceTime,
		Odds:         g.Odds,
	}
	if g.Live != nil {
		v.LiveState = &LiveStateView{
			Minute:      g.Live.Minute,
			HomeScore:   g.Live.HomeScore,
			AwayScore:   g.Live.AwayScore,
			Status:      string(g.Live.Status),
			Events:      g.Live.Events,
			CurrentOdds: g.Live.CurrentOdds,
		}
	}
	return v
}

func FromGames(games []sim.Game) []GameView {
	out := make([]GameView, 0, len(games))
	for _, g := range games {
		out = append(out, FromGame(g))
	}
	return out
}
