package fixtures

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamesGeneration(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	games := Games(200, now, rng)
	require.Len(t, games, 200)

	seen := make(map[string]struct{})
	for _, g := range games {
		_, dup := seen[g.ID]
		assert.False(t, dup, "id repetido: %s", g.ID)
		seen[g.ID] = struct{}{}

		assert.NotEqual(t, g.HomeTeam, g.AwayTeam)

		assert.GreaterOrEqual(t, g.Odds.Home, 1.2)
		assert.LessOrEqual(t, g.Odds.Home, 3.2)
		assert.GreaterOrEqual(t, g.Odds.Away, 1.5)
		assert.LessOrEqual(t, g.Odds.Away, 4.0)

		// empate só existe em mercado de três resultados
		twoWay := g.SportTitle == "Tennis" || g.SportTitle == "Basketball"
		if twoWay {
			assert.Nil(t, g.Odds.Draw, g.SportTitle)
		} else {
			require.NotNil(t, g.Odds.Draw, g.SportTitle)
			assert.GreaterOrEqual(t, *g.Odds.Draw, 2.5)
			assert.LessOrEqual(t, *g.Odds.Draw, 4.0)
		}

		assert.True(t, g.CommenceTime.After(now))
		assert.True(t, g.CommenceTime.Before(now.Add(7*24*time.Hour)))
	}
}

func TestSportNaming(t *testing.T) {
	now := time.Now()
	games := Games(100, now, rand.New(rand.NewSource(2)))

	keys := make(map[string]string)
	for _, g := range games {
		keys[g.SportKey] = g.SportTitle
	}

	assert.Equal(t, "Soccer", keys["soccer"])
	assert.Equal(t, "Esports Csgo", keys["esports csgo"])
	assert.Equal(t, "Esports Lol", keys["esports lol"])
}

func TestUsers(t *testing.T) {
	users := Users(1000)
	require.Len(t, users, 2)
	assert.Equal(t, "player1", users[0].Username)
	for _, u := range users {
		assert.Equal(t, 1000.0, u.Balance)
		assert.NotEmpty(t, u.Password)
	}
}
