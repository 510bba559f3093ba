package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | watch_bets | unwatch_bets | ping
// GameID: obrigatório para subscribe/unsubscribe
// UserID: obrigatório para watch_bets/unwatch_bets
type ClientMsg struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
	UserID int64  `json:"userId,omitempty"`
}

// GameUpdate representa um tick de partida enviado para clientes WebSocket
type GameUpdate struct {
	GameID  string      `json:"gameId"`
	Payload interface{} `json:"payload"`
}

// UserNotification representa uma liquidação de aposta endereçada a um usuário
type UserNotification struct {
	UserID  int64       `json:"userId"`
	Payload interface{} `json:"payload"`
}
