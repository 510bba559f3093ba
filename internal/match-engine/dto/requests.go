package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SelectRequest struct {
	GameID string `json:"gameId"`
}

type LiveSelectRequest struct {
	GameID  string  `json:"gameId"`
	BetType string  `json:"betType"`
	Odds    float64 `json:"odds"` // preço ao vivo exibido na escolha
}

type ConfigRequest struct {
	BetType string  `json:"betType"`
	Stake   float64 `json:"stake"`
}

type TermsRequest struct {
	Accepted bool `json:"accepted"`
}
