package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/fixtures"
	"github.com/radieske/live-bet-sim-poc/internal/shared/config"
	"github.com/radieske/live-bet-sim-poc/internal/shared/db"
	"github.com/radieske/live-bet-sim-poc/internal/shared/logger"
)

// Popula o banco de demonstração: cria o schema, gera o catálogo de jogos
// e garante os usuários de teste. Roda uma vez antes de subir os serviços.
func main() {
	numGames := flag.Int("games", 30, "quantidade de jogos gerados")
	seed := flag.Int64("seed", 0, "seed do gerador (0 = relógio)")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New("fixture-generator", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fixtures.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	games := fixtures.Games(*numGames, time.Now(), rng)
	users := fixtures.Users(cfg.ResetBalance)

	if err := fixtures.Seed(ctx, pg, games, users); err != nil {
		log.Fatal("seed", zap.Error(err))
	}

	log.Info("fixtures ready",
		zap.Int("games", len(games)),
		zap.Int("users", len(users)),
		zap.Int64("seed", *seed),
	)
}
