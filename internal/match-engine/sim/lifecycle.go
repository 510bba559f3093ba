package sim

import (
	"math/rand"
	"strings"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Probabilidades por tick da simulação de partida.
const (
	chanceProbability = 0.05 // lance de perigo no tick
	goalProbability   = 0.7  // dentro de um lance, vira gol
	maxExtraMinutes   = 5.0  // acréscimo aleatório sobre a duração
	halfTimeMinute    = 45
)

// Descrições dos eventos de partida, iguais às exibidas no painel.
const (
	evMatchStarted = "Match Started!"
	evHalfTime     = "Half Time"
	evSecondHalf   = "Second Half!"
	evFullTime     = "Full Time!"
	evChance       = "Chance"
	evGoalPrefix   = "Goal! "
)

// Engine avança o estado ao vivo de uma partida, um tick por vez.
// Máquina de estados: not_started → in_progress ⇄ half_time → finished.
// finished é terminal aqui; arquivamento é responsabilidade do scheduler.
type Engine struct {
	Duration      int // minutos de jogo até o fim regulamentar
	HalfTimeBreak int // minutos parados no intervalo
	Rng           *rand.Rand
}

// Advance aplica um tick ao jogo. Retorna true no tick em que a partida
// termina; é nesse exato momento que o chamador dispara a liquidação.
// O jogo precisa ter estado ao vivo; status fora do enum não ocorre.
func (e *Engine) Advance(g *Game) bool {
	st := g.Live
	finished := false

	switch st.Status {
	case StatusNotStarted:
		st.Status = StatusInProgress
		st.Events = append(st.Events, events.MatchEvent{Minute: 0, Description: evMatchStarted})

	case StatusInProgress:
		st.Minute++

		// primeira e única passagem pelos 45: o guard varre o log
		if st.Minute == halfTimeMinute && !hasEvent(st.Events, evHalfTime) {
			st.Status = StatusHalfTime
			st.Events = append(st.Events, events.MatchEvent{Minute: halfTimeMinute, Description: evHalfTime})
		}

		if e.Rng.Float64() < chanceProbability {
			minute := st.Minute
			if e.Rng.Float64() < goalProbability {
				if e.Rng.Float64() < 0.5 {
					st.HomeScore++
					st.Events = append(st.Events, events.MatchEvent{Minute: minute, Description: evGoalPrefix + g.HomeTeam})
				} else {
					st.AwayScore++
					st.Events = append(st.Events, events.MatchEvent{Minute: minute, Description: evGoalPrefix + g.AwayTeam})
				}
			} else {
				st.Events = append(st.Events, events.MatchEvent{Minute: minute, Description: evChance})
			}
		}

		if float64(st.Minute) >= float64(e.Duration)+e.Rng.Float64()*maxExtraMinutes {
			st.Status = StatusFinished
			st.Events = append(st.Events, events.MatchEvent{Minute: st.Minute, Description: evFullTime})
			finished = true
		}

	case StatusHalfTime:
		if st.Minute < halfTimeMinute+e.HalfTimeBreak {
			st.Minute++
		} else {
			st.Status = StatusInProgress
			st.Events = append(st.Events, events.MatchEvent{Minute: halfTimeMinute + 1, Description: evSecondHalf})
		}
	}

	// odds correntes acompanham o jogo; ao finalizar, congelam no último valor
	if st.Status == StatusInProgress || st.Status == StatusHalfTime {
		st.CurrentOdds = Reprice(g.Odds, st, e.Duration, e.Rng)
	}

	return finished
}

func hasEvent(evs []events.MatchEvent, description string) bool {
	for _, ev := range evs {
		if strings.Contains(ev.Description, description) {
			return true
		}
	}
	return false
}
