package slip

import (
	"fmt"
	"math"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/scheduler"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
)

// FieldErrors são os erros de campo de uma seleção.
type FieldErrors struct {
	Type  string `json:"type,omitempty"`
	Stake string `json:"stake,omitempty"`
}

// ValidationErrors agrega tudo que impediu a submissão: mensagem global,
// erro de termos e erros por jogo, chaveados pelo id do jogo.
type ValidationErrors struct {
	Global string                 `json:"global,omitempty"`
	Terms  string                 `json:"terms,omitempty"`
	Fields map[string]FieldErrors `json:"fields,omitempty"`
}

// OK indica cupom válido pra submissão.
func (v ValidationErrors) OK() bool {
	return v.Global == "" && v.Terms == "" && len(v.Fields) == 0
}

// validate avalia todas as regras de uma vez, sem curto-circuito, pra
// devolver o conjunto completo de erros numa única passada.
func (c *Controller) validate(order []string, configs map[string]Config, terms bool, balance float64) (ValidationErrors, float64) {
	errs := ValidationErrors{Fields: make(map[string]FieldErrors)}

	if len(order) == 0 {
		errs.Global = "At least one game must be selected."
	}

	for _, gameID := range order {
		if g, set, ok := c.Games.Lookup(gameID); ok {
			finished := set == scheduler.SetArchived ||
				(g.Live != nil && g.Live.Status == sim.StatusFinished)
			if finished {
				errs.Global = "One or more selected games have finished. Please remove them."
				break
			}
		}
	}

	var totalStake float64
	for _, gameID := range order {
		cfg, has := configs[gameID]
		var fe FieldErrors
		if !has || cfg.Type == "" {
			fe.Type = "Bet type required."
		}
		if !has || !validStake(cfg.Stake) {
			fe.Stake = fmt.Sprintf("Stake must be a positive number up to €%d.", int(MaxStake))
		} else {
			totalStake += cfg.Stake
		}
		if fe != (FieldErrors{}) {
			errs.Fields[gameID] = fe
		}
	}

	if !terms {
		errs.Terms = "Accept T&C."
	}

	if totalStake > balance {
		errs.Global = fmt.Sprintf("Insufficient funds. Stake €%.2f > Balance €%.2f.", totalStake, balance)
	}

	if len(errs.Fields) == 0 {
		errs.Fields = nil
	}
	return errs, totalStake
}

func validStake(stake float64) bool {
	return !math.IsNaN(stake) && !math.IsInf(stake, 0) && stake > 0 && stake <= MaxStake
}
