package dto

// GameSummary representa uma partida ao vivo no painel de listagem
type GameSummary struct {
	GameID    string `json:"gameId"`
	Sport     string `json:"sport"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	Minute    int    `json:"minute"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"`
}

// HistoryEntry representa um tick registrado no histórico de uma partida
type HistoryEntry struct {
	Minute    int      `json:"minute"`
	HomeScore int      `json:"homeScore"`
	AwayScore int      `json:"awayScore"`
	Status    string   `json:"status"`
	HomeOdd   float64  `json:"homeOdd"`
	DrawOdd   *float64 `json:"drawOdd,omitempty"`
	AwayOdd   float64  `json:"awayOdd"`
	LastEvent *string  `json:"lastEvent,omitempty"`
	Version   int64    `json:"version"`
	UpdatedAt string   `json:"updatedAt"`
}
