package catalog

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
)

// Opções de ordenação da listagem pré-jogo.
const (
	SortDateAsc  = "date_asc"
	SortDateDesc = "date_desc"
	SortOddsAsc  = "odds_asc"
	SortOddsDesc = "odds_desc"
)

// FromStore converte o catálogo servido pelo store pro modelo da simulação
// e reescalona os horários pra demo andar: os primeiros maxImmediate jogos
// começam em segundos, o resto se espalha nos minutos seguintes.
func FromStore(games []store.Game, now time.Time, maxImmediate int, rng *rand.Rand) []sim.Game {
	out := make([]sim.Game, 0, len(games))
	for i, g := range games {
		var commence time.Time
		if i < maxImmediate {
			commence = now.Add(time.Duration(i+1)*2*time.Second + time.Second)
		} else {
			offset := time.Duration(maxImmediate*5)*time.Second +
				time.Duration((float64(i)*30+rng.Float64()*60)*float64(time.Second))
			commence = now.Add(offset)
		}
		out = append(out, sim.Game{
			ID:           g.ID,
			SportKey:     g.SportKey,
			SportTitle:   g.SportTitle,
			HomeTeam:     g.HomeTeam,
			AwayTeam:     g.AwayTeam,
			CommenceTime: commence,
			Odds:         g.Odds,
		})
	}
	return out
}

// FilterSort aplica ordenação, filtro por esporte e busca por nome de time
// sobre a listagem pré-jogo. Não muta a entrada.
func FilterSort(games []sim.Game, sport, search, sortBy string) []sim.Game {
	out := append([]sim.Game(nil), games...)

	sort.SliceStable(out, func(i, j int) bool {
		switch sortBy {
		case SortDateDesc:
			return out[i].CommenceTime.After(out[j].CommenceTime)
		case SortOddsAsc:
			return out[i].Odds.Home < out[j].Odds.Home
		case SortOddsDesc:
			return out[i].Odds.Home > out[j].Odds.Home
		default: // date_asc
			return out[i].CommenceTime.Before(out[j].CommenceTime)
		}
	})

	if sport != "" && sport != "all" {
		n := out[:0]
		for _, g := range out {
			if g.SportKey == sport {
				n = append(n, g)
			}
		}
		out = n
	}

	if term := strings.TrimSpace(search); term != "" {
		term = strings.ToLower(term)
		n := out[:0]
		for _, g := range out {
			if strings.Contains(strings.ToLower(g.HomeTeam), term) ||
				strings.Contains(strings.ToLower(g.AwayTeam), term) {
				n = append(n, g)
			}
		}
		out = n
	}

	return out
}

// Sports lista os esportes distintos do catálogo, na ordem de aparição.
func Sports(games []sim.Game) []string {
	seen := make(map[string]struct{})
	out := []string{"all"}
	for _, g := range games {
		if g.SportKey == "" {
			continue
		}
		if _, ok := seen[g.SportKey]; ok {
			continue
		}
		seen[g.SportKey] = struct{}{}
		out = append(out, g.SportKey)
	}
	return out
}
