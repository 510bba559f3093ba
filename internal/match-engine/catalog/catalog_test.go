package catalog

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

func storeGames(n int) []store.Game {
	out := make([]store.Game, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, store.Game{
			ID:       string(rune('a' + i)),
			SportKey: "soccer",
			HomeTeam: "Home",
			AwayTeam: "Away",
			Odds:     events.Odds{Home: 2.0, Away: 3.0},
		})
	}
	return out
}

func TestFromStoreStaggersKickoffs(t *testing.T) {
	now := time.Now()
	rng := rand.New(rand.NewSource(1))

	games := FromStore(storeGames(8), now, 3, rng)
	require.Len(t, games, 8)

	// os três primeiros começam em segundos, escalonados
	for i := 0; i < 3; i++ {
		offset := games[i].CommenceTime.Sub(now)
		assert.Equal(t, time.Duration(i+1)*2*time.Second+time.Second, offset)
	}

	// os demais ficam pra depois, espaçados ao longo dos minutos seguintes
	for i := 3; i < 8; i++ {
		offset := games[i].CommenceTime.Sub(now)
		assert.GreaterOrEqual(t, offset, 15*time.Second+time.Duration(i)*30*time.Second)
		assert.Less(t, offset, 15*time.Second+time.Duration(i)*30*time.Second+61*time.Second)
	}
}

func simGames() []sim.Game {
	mk := func(id, sport, home, away string, price float64, at time.Time) sim.Game {
		return sim.Game{
			ID: id, SportKey: sport, HomeTeam: home, AwayTeam: away,
			CommenceTime: at, Odds: events.Odds{Home: price, Away: price + 1},
		}
	}
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []sim.Game{
		mk("g1", "soccer", "Real Madrid", "Barcelona", 2.5, base.Add(2*time.Hour)),
		mk("g2", "tennis", "Player A", "Player B", 1.8, base.Add(time.Hour)),
		mk("g3", "soccer", "Liverpool", "Man City", 3.1, base.Add(3*time.Hour)),
	}
}

func TestFilterSortBySport(t *testing.T) {
	got := FilterSort(simGames(), "soccer", "", SortDateAsc)
	require.Len(t, got, 2)
	assert.Equal(t, "g1", got[0].ID)
	assert.Equal(t, "g3", got[1].ID)

	all := FilterSort(simGames(), "all", "", SortDateAsc)
	assert.Len(t, all, 3)
}

func TestFilterSortSearchIsCaseInsensitive(t *testing.T) {
	got := FilterSort(simGames(), "", "  bArCeLoNa ", SortDateAsc)
	require.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].ID)

	none := FilterSort(simGames(), "", "zebra", SortDateAsc)
	assert.Empty(t, none)
}

func TestFilterSortOrders(t *testing.T) {
	byDateDesc := FilterSort(simGames(), "", "", SortDateDesc)
	assert.Equal(t, []string{"g3", "g1", "g2"}, ids(byDateDesc))

	byOddsAsc := FilterSort(simGames(), "", "", SortOddsAsc)
	assert.Equal(t, []string{"g2", "g1", "g3"}, ids(byOddsAsc))

	byOddsDesc := FilterSort(simGames(), "", "", SortOddsDesc)
	assert.Equal(t, []string{"g3", "g1", "g2"}, ids(byOddsDesc))
}

func TestFilterSortDoesNotMutateInput(t *testing.T) {
	in := simGames()
	_ = FilterSort(in, "", "", SortDateDesc)
	assert.Equal(t, []string{"g1", "g2", "g3"}, ids(in))
}

func TestSports(t *testing.T) {
	got := Sports(simGames())
	assert.Equal(t, []string{"all", "soccer", "tennis"}, got)
}

func ids(in []sim.Game) []string {
	out := make([]string, 0, len(in))
	for _, g := range in {
		out = append(out, g.ID)
	}
	return out
}
