package fixtures

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/radieske/live-bet-sim-poc/internal/store-service/dto"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Esportes e elencos usados na geração do catálogo de demonstração
var sportKeys = []string{"soccer", "basketball", "tennis", "esports_csgo", "esports_lol"}

var teamsBySport = map[string][]string{
	"soccer":       {"Real Madrid", "Barcelona", "Man City", "Liverpool", "Bayern Munich", "PSG", "Juventus", "Inter Milan"},
	"basketball":   {"Lakers", "Warriors", "Nets", "Bucks", "Suns", "Celtics", "76ers", "Clippers"},
	"tennis":       {"Player A", "Player B", "Player C", "Player D", "Player E", "Player F"},
	"esports_csgo": {"Navi", "FaZe", "G2", "Vitality", "Heroic", "Cloud9"},
	"esports_lol":  {"T1", "Gen.G", "JDG", "EDG", "DRX", "RNG"},
}

// noDrawSports: mercados de dois resultados, sem preço de empate
func noDraw(sport string) bool {
	return sport == "tennis" || sport == "basketball"
}

// round2 arredonda pra 2 casas, como os preços exibidos no catálogo
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// titleCase transforma "esports_csgo" em "Esports Csgo"
func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Games gera n jogos de demonstração com times distintos por partida,
// início aleatório na próxima semana e preços pré-jogo dentro das faixas
// usadas no catálogo (casa 1.20..3.20, empate 2.50..4.00, fora 1.50..4.00)
func Games(n int, now time.Time, rng *rand.Rand) []dto.Game {
	games := make([]dto.Game, 0, n)
	for i := 0; i < n; i++ {
		sport := sportKeys[rng.Intn(len(sportKeys))]
		teams := teamsBySport[sport]

		hi := rng.Intn(len(teams))
		ai := rng.Intn(len(teams) - 1)
		if ai >= hi {
			ai++
		}

		odds := events.Odds{
			Home: round2(rng.Float64()*2 + 1.2),
			Away: round2(rng.Float64()*2.5 + 1.5),
		}
		if !noDraw(sport) {
			d := round2(rng.Float64()*1.5 + 2.5)
			odds.Draw = &d
		}

		commence := now.Add(time.Duration(rng.Float64() * float64(7*24*time.Hour)))

		games = append(games, dto.Game{
			ID:           fmt.Sprintf("game_%d_%d", now.UnixMilli(), i),
			SportKey:     strings.Replace(sport, "_", " ", 1),
			SportTitle:   titleCase(sport),
			HomeTeam:     teams[hi],
			AwayTeam:     teams[ai],
			CommenceTime: commence,
			Odds:         odds,
		})
	}
	return games
}

// Users retorna os usuários de demonstração com o saldo inicial informado
func Users(balance float64) []dto.User {
	return []dto.User{
		{ID: 1, Username: "player1", Password: "password123", Balance: balance},
		{ID: 2, Username: "player2", Password: "password456", Balance: balance},
	}
}
