package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/shared/config"
	"github.com/radieske/live-bet-sim-poc/internal/shared/db"
	"github.com/radieske/live-bet-sim-poc/internal/shared/logger"
	"github.com/radieske/live-bet-sim-poc/internal/shared/metrics"
	sshttp "github.com/radieske/live-bet-sim-poc/internal/store-service/http"
	"github.com/radieske/live-bet-sim-poc/internal/store-service/repo"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	repository := repo.NewPostgres(pg)
	api := sshttp.NewServer(log, repository)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	addr := ":" + cfg.HTTPPort
	log.Info("store-service listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, api.Router()); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
