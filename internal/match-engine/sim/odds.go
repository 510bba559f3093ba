package sim

import (
	"math"
	"math/rand"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Parâmetros do modelo de precificação ao vivo.
const (
	targetOverround = 1.05 // soma alvo de 1/preço sobre os resultados ofertados
	scoreSkew       = 0.10 // desvio por gol de diferença
	drawSkew        = 0.05
	timeDrift       = 0.5 // deriva por fração de tempo decorrido
	drawTimeDrift   = 0.2
	noiseSpread     = 0.05 // ruído de mercado: ±2,5% do preço
	minPrice        = 1.01
	maxPrice        = 50.0
	maxDrawPrice    = 30.0
)

// Reprice recalcula as odds correntes a partir das odds base e do estado
// ao vivo. Puro fora do rng injetado: quem está na frente encurta, quem
// está atrás alonga, e a vantagem pesa mais conforme o jogo avança.
// Depois do ruído, os preços são renormalizados pro overround alvo e
// limitados às faixas de preço.
//
// Odds base sem preço de casa/fora é erro de programação, não de runtime.
func Reprice(base events.Odds, st *LiveState, duration int, rng *rand.Rand) events.Odds {
	home := base.Home
	away := base.Away
	var draw *float64
	if base.Draw != nil {
		d := *base.Draw
		draw = &d
	}

	timeProgress := float64(st.Minute) / float64(duration)
	diff := st.HomeScore - st.AwayScore

	switch {
	case diff > 0:
		n := float64(diff)
		home = math.Max(minPrice, home*(1-scoreSkew*n)-timeProgress*timeDrift)
		away = math.Max(minPrice, away*(1+scoreSkew*n)+timeProgress*timeDrift)
		if draw != nil {
			*draw = math.Max(minPrice, *draw*(1+drawSkew*n)+timeProgress*drawTimeDrift)
		}
	case diff < 0:
		n := float64(-diff)
		away = math.Max(minPrice, away*(1-scoreSkew*n)-timeProgress*timeDrift)
		home = math.Max(minPrice, home*(1+scoreSkew*n)+timeProgress*timeDrift)
		if draw != nil {
			*draw = math.Max(minPrice, *draw*(1+drawSkew*n)+timeProgress*drawTimeDrift)
		}
	default:
		// jogo empatado: empate vai ficando mais provável com o tempo
		if draw != nil {
			*draw = math.Max(minPrice, *draw*(1-scoreSkew*timeProgress))
		}
	}

	// ruído simétrico de mercado, única fonte de não-determinismo
	home *= 1 + (rng.Float64()-0.5)*noiseSpread
	away *= 1 + (rng.Float64()-0.5)*noiseSpread
	if draw != nil {
		*draw *= 1 + (rng.Float64()-0.5)*noiseSpread
	}

	// renormaliza a margem implícita pro overround alvo: com p' = p*k,
	// Σ(1/p') = sumInv/k, então k = sumInv/alvo leva a soma exatamente no alvo
	sumInv := 1/home + 1/away
	if draw != nil {
		sumInv += 1 / *draw
	}
	margin := 1.0
	if sumInv > 0 {
		margin = sumInv / targetOverround
	}

	home = round2(clamp(home*margin, minPrice, maxPrice))
	away = round2(clamp(away*margin, minPrice, maxPrice))
	if draw != nil {
		*draw = round2(clamp(*draw*margin, minPrice, maxDrawPrice))
	}

	return events.Odds{Home: home, Draw: draw, Away: away}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
