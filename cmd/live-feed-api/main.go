package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	feedhttp "github.com/radieske/live-bet-sim-poc/internal/live-feed-api/http"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed-api/repo"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed-api/ws"
	lcache "github.com/radieske/live-bet-sim-poc/internal/live-feed/cache"
	sharedcache "github.com/radieske/live-bet-sim-poc/internal/shared/cache"
	"github.com/radieske/live-bet-sim-poc/internal/shared/config"
	"github.com/radieske/live-bet-sim-poc/internal/shared/db"
	"github.com/radieske/live-bet-sim-poc/internal/shared/logger"
	"github.com/radieske/live-bet-sim-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// POC: aceita qualquer origem no WS (front roda em porta própria)
	hub := ws.NewHub(func(r *http.Request) bool { return true })

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// repassa ticks e liquidações do Redis Pub/Sub pros clientes WS
	ws.StartRedisSubscriber(ctx, redisClient, hub, cfg.ChannelLiveUpdates, cfg.ChannelBetSettled)

	api := &feedhttp.API{
		ReadRepo: &repo.ReadRepo{DB: pg},
		Cache:    lcache.NewRedisCache(redisClient, 60*time.Second),
		Hub:      hub,
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(hctx context.Context) error {
		if err := pg.PingContext(hctx); err != nil {
			return err
		}
		return redisClient.Ping(hctx).Err()
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	go func() {
		log.Info("live-feed-api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
	log.Info("live-feed-api stopped")
}
