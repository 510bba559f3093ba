package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

func baseOdds(home, draw, away float64) events.Odds {
	return events.Odds{Home: home, Draw: &draw, Away: away}
}

func TestRepriceKeepsTargetOverround(t *testing.T) {
	base := baseOdds(2.10, 3.30, 3.60)

	// o desvio de placar/tempo desloca a soma 1/preço bem longe do alvo
	// antes da renormalização; o alvo tem que valer em todos os estados
	states := []*LiveState{
		{Minute: 0, Status: StatusInProgress},
		{Minute: 30, HomeScore: 1, AwayScore: 0, Status: StatusInProgress},
		{Minute: 60, HomeScore: 0, AwayScore: 2, Status: StatusInProgress},
		{Minute: 85, HomeScore: 3, AwayScore: 0, Status: StatusInProgress},
	}

	rng := rand.New(rand.NewSource(7))
	for _, st := range states {
		got := Reprice(base, st, 90, rng)

		require.NotNil(t, got.Draw)
		sumInv := 1/got.Home + 1/got.Away + 1 / *got.Draw

		// arredondamento a 2 casas desloca a margem só marginalmente
		assert.InDelta(t, 1.05, sumInv, 0.02,
			"minute=%d score=%d-%d", st.Minute, st.HomeScore, st.AwayScore)
	}
}

func TestRepriceSkewsTowardsLeader(t *testing.T) {
	base := baseOdds(2.00, 3.40, 3.80)

	leading := &LiveState{Minute: 60, HomeScore: 2, AwayScore: 0}
	trailing := &LiveState{Minute: 60, HomeScore: 0, AwayScore: 2}

	lead := Reprice(base, leading, 90, rand.New(rand.NewSource(1)))
	trail := Reprice(base, trailing, 90, rand.New(rand.NewSource(1)))

	// quem lidera encurta em relação a quem está atrás
	assert.Less(t, lead.Home, trail.Home)
	assert.Greater(t, lead.Away, trail.Away)
}

func TestRepriceClampsExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	base := baseOdds(1.05, 2.50, 48.0)

	st := &LiveState{Minute: 89, HomeScore: 9, AwayScore: 0}
	for i := 0; i < 200; i++ {
		got := Reprice(base, st, 90, rng)
		require.NotNil(t, got.Draw)
		assert.GreaterOrEqual(t, got.Home, 1.01)
		assert.GreaterOrEqual(t, got.Away, 1.01)
		assert.GreaterOrEqual(t, *got.Draw, 1.01)
		assert.LessOrEqual(t, got.Home, 50.0)
		assert.LessOrEqual(t, got.Away, 50.0)
		assert.LessOrEqual(t, *got.Draw, 30.0)
	}
}

func TestRepriceTwoWayMarketHasNoDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	base := events.Odds{Home: 1.80, Away: 2.05}

	st := &LiveState{Minute: 20, HomeScore: 0, AwayScore: 1}
	got := Reprice(base, st, 90, rng)

	assert.Nil(t, got.Draw)
	assert.Greater(t, got.Home, 0.0)
	assert.Greater(t, got.Away, 0.0)
}

func TestRepriceDoesNotMutateBase(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	base := baseOdds(2.00, 3.00, 4.00)

	st := &LiveState{Minute: 70, HomeScore: 3, AwayScore: 1}
	_ = Reprice(base, st, 90, rng)

	assert.Equal(t, 2.00, base.Home)
	assert.Equal(t, 3.00, *base.Draw)
	assert.Equal(t, 4.00, base.Away)
}

func TestRepriceDeterministicForSeed(t *testing.T) {
	base := baseOdds(2.20, 3.10, 3.30)
	st := &LiveState{Minute: 50, HomeScore: 1, AwayScore: 1}

	a := Reprice(base, st, 90, rand.New(rand.NewSource(42)))
	b := Reprice(base, st, 90, rand.New(rand.NewSource(42)))

	assert.Equal(t, a.Home, b.Home)
	assert.Equal(t, a.Away, b.Away)
	assert.Equal(t, *a.Draw, *b.Draw)
}

func TestRepriceRoundsToTwoDecimals(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	base := baseOdds(2.37, 3.14, 2.93)
	st := &LiveState{Minute: 10, HomeScore: 0, AwayScore: 0}

	got := Reprice(base, st, 90, rng)
	for _, v := range []float64{got.Home, *got.Draw, got.Away} {
		assert.InDelta(t, v, round2(v), 1e-9)
	}
}
