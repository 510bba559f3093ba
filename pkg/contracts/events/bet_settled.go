package events

import "time"

// Evento emitido pelo match-engine quando uma aposta pendente é liquidada
// no fim da partida. Consumido pelo live-feed para notificar o usuário.
type BetSettled struct {
	BetID       string    `json:"bet_id"`
	UserID      int64     `json:"user_id"`
	GameID      string    `json:"game_id"`
	GameDetails string    `json:"game_details"`
	BetType     string    `json:"bet_type"` // "Home Win" | "Draw" | "Away Win"
	Status      string    `json:"status"`   // "won" | "lost"
	ActualWin   float64   `json:"actual_win"`
	Ts          time.Time `json:"ts"`
}
