package topics

const (
	// Simulação
	LiveUpdates = "live_updates"

	// Liquidação
	BetSettled = "bet_settled"

	// DLQs
	LiveUpdatesDLQ = "live_updates_dlq"
)
