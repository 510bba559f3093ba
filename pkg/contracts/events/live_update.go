package events

import "time"

// Preços ofertados para um jogo. Draw é nil quando o esporte não tem empate.
type Odds struct {
	Home float64  `json:"home"`
	Draw *float64 `json:"draw,omitempty"`
	Away float64  `json:"away"`
}

// Um lance do log de eventos da partida (minuto simulado + descrição).
type MatchEvent struct {
	Minute      int    `json:"minute"`
	Description string `json:"description"`
}

// Evento publicado no tópico "live_updates" a cada tick do scheduler,
// um por jogo ao vivo. Version cresce a cada tick do processo.
type LiveUpdate struct {
	GameID    string      `json:"game_id"`
	Sport     string      `json:"sport"`
	HomeTeam  string      `json:"home_team"`
	AwayTeam  string      `json:"away_team"`
	Minute    int         `json:"minute"`
	HomeScore int         `json:"home_score"`
	AwayScore int         `json:"away_score"`
	Status    string      `json:"status"` // not_started | in_progress | half_time | finished
	Odds      Odds        `json:"odds"`
	LastEvent *MatchEvent `json:"last_event,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
	Source    string      `json:"source"` // "match-engine"
	Version   int64       `json:"version"`
}
