package sim

import (
	"time"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Status do ciclo de vida de uma partida ao vivo.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusHalfTime   Status = "half_time"
	StatusFinished   Status = "finished"
)

// LiveState é o estado mutável da partida depois que ela começa:
// relógio, placar, log de eventos e odds correntes.
// O log é append-only; minuto e placar nunca regridem.
type LiveState struct {
	Minute      int
	HomeScore   int
	AwayScore   int
	Status      Status
	Events      []events.MatchEvent
	CurrentOdds events.Odds
}

// Game é um jogo do catálogo. Um jogo nunca é removido, apenas migra
// entre os conjuntos pré-jogo, ao vivo e arquivado do scheduler.
type Game struct {
	ID           string
	SportKey     string
	SportTitle   string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Odds         events.Odds // odds base, fixadas na geração do catálogo
	Live         *LiveState  // nil enquanto pré-jogo
	FinishedAt   time.Time   // zero até o jogo terminar
}

// NewLiveState inicializa o estado ao vivo de um jogo recém promovido:
// placar zerado, minuto zero e odds correntes iguais às odds base.
func NewLiveState(base events.Odds) *LiveState {
	return &LiveState{
		Status:      StatusNotStarted,
		CurrentOdds: cloneOdds(base),
	}
}

// Clone devolve uma cópia profunda do jogo, segura pra expor em snapshots.
func (g Game) Clone() Game {
	if g.Live != nil {
		st := *g.Live
		st.Events = append([]events.MatchEvent(nil), g.Live.Events...)
		st.CurrentOdds = cloneOdds(g.Live.CurrentOdds)
		g.Live = &st
	}
	g.Odds = cloneOdds(g.Odds)
	return g
}

func cloneOdds(o events.Odds) events.Odds {
	if o.Draw != nil {
		d := *o.Draw
		o.Draw = &d
	}
	return o
}
