package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/catalog"
	ehttp "github.com/radieske/live-bet-sim-poc/internal/match-engine/http"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/producer"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/scheduler"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/settlement"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/slip"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/wallet"
	"github.com/radieske/live-bet-sim-poc/internal/shared/config"
	"github.com/radieske/live-bet-sim-poc/internal/shared/kafka"
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

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Store mock de persistência (REST)
	storeClient := store.New(cfg.StoreURL)

	// Catálogo: busca do store com retry curto, o store pode subir depois
	var games []store.Game
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		games, err = storeClient.Games(ctx)
		cancel()
		if err == nil {
			break
		}
		if attempt >= 10 {
			log.Fatal("catalog fetch failed", zap.Error(err))
		}
		log.Warn("catalog fetch failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	log.Info("catalog loaded", zap.Int("games", len(games)))

	// Kafka writers: feed ao vivo e liquidações
	liveWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicLiveUpdates)
	defer liveWriter.Close()
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()
	publ := producer.NewKafkaPublisher(log, liveWriter, settledWriter)

	// Métricas Prometheus da simulação
	ticks := prometheus.NewCounter(prometheus.CounterOpts{Name: "engine_ticks_total", Help: "ticks do scheduler"})
	promoted := prometheus.NewCounter(prometheus.CounterOpts{Name: "engine_games_promoted_total", Help: "jogos promovidos pro ao vivo"})
	finished := prometheus.NewCounter(prometheus.CounterOpts{Name: "engine_games_finished_total", Help: "jogos finalizados"})
	archived := prometheus.NewCounter(prometheus.CounterOpts{Name: "engine_games_archived_total", Help: "jogos arquivados"})
	settled := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "engine_bets_settled_total", Help: "apostas liquidadas por resultado"}, []string{"status"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "engine_bets_placed_total", Help: "apostas registradas"})
	prometheus.MustRegister(ticks, promoted, finished, archived, settled, placed)

	// Saldo de sessão + liquidação
	walletSession := wallet.NewSession(log, storeClient)
	settler := &settlement.Service{
		Log:       log,
		Bets:      storeClient,
		Wallet:    walletSession,
		Notif:     publ,
		OnSettled: func(status string) { settled.WithLabelValues(status).Inc() },
	}

	// Scheduler: um único loop de ticks por processo
	engine := &sim.Engine{
		Duration:      cfg.MatchDuration,
		HalfTimeBreak: cfg.HalfTimeBreak,
		Rng:           rng,
	}
	sched := &scheduler.Scheduler{
		Log:          log,
		Engine:       engine,
		Settler:      settler,
		Publisher:    publ,
		TickInterval: cfg.TickInterval,
		ArchiveDelay: cfg.ArchiveDelay,
		Source:       cfg.ServiceName,
		OnTick:       func() { ticks.Inc() },
		OnPromoted:   func() { promoted.Inc() },
		OnFinished:   func() { finished.Inc() },
		OnArchived:   func() { archived.Inc() },
	}
	sched.SetCatalog(catalog.FromStore(games, time.Now(), cfg.MaxImmediateLive, rng))

	// Cupom de apostas
	slips := slip.NewController(log, sched, storeClient, walletSession)
	slips.OnPlaced = func() { placed.Inc() }

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.StoreURL+"/games", nil)
		if err != nil {
			return err
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}
		res.Body.Close()
		return nil
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go sched.Run(ctx)

	api := ehttp.NewServer(log, sched, slips, storeClient, walletSession, cfg.ResetBalance)
	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: api.Router()}

	go func() {
		<-ctx.Done()
		shCtx, shCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shCancel()
		_ = srv.Shutdown(shCtx)
	}()

	log.Info("match-engine listening", zap.String("addr", ":"+cfg.HTTPPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
	log.Info("match-engine stopped")
}
