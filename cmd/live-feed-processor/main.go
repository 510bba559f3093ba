package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/live-feed/cache"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed/consumer"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed/pubsub"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed/repository"
	sharedcache "github.com/radieske/live-bet-sim-poc/internal/shared/cache"
	"github.com/radieske/live-bet-sim-poc/internal/shared/config"
	"github.com/radieske/live-bet-sim-poc/internal/shared/db"
	shkafka "github.com/radieske/live-bet-sim-poc/internal/shared/kafka"
	"github.com/radieske/live-bet-sim-poc/internal/shared/logger"
	"github.com/radieske/live-bet-sim-poc/internal/shared/metrics"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Inicializa dependências: Postgres e Redis
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

	// Cache com TTL curto: se o engine parar de publicar, o estado some sozinho
	ttl := 60 * time.Second
	rcache := cache.NewRedisCache(redisClient, ttl)
	repo := repository.NewPostgresRepo(pg)

	// Consumers Kafka (consumer group live-feed-processor)
	liveReader := shkafka.NewReader(cfg.KafkaBrokers, cfg.TopicLiveUpdates, "live-feed-processor")
	defer liveReader.Close()

	settledReader := shkafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetSettled, "live-feed-processor")
	defer settledReader.Close()

	dlq := shkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicLiveUpdatesDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_messages_consumed_total", Help: "mensagens consumidas"})
	cached := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_cache_sets_total", Help: "sets no cache"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_db_writes_total", Help: "escritas no banco (upsert+history)"})
	relayed := prometheus.NewCounter(prometheus.CounterOpts{Name: "feed_proc_settlements_relayed_total", Help: "liquidações repassadas pro pub/sub"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "feed_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, cached, persist, relayed, errorsBy)

	// Broadcaster para publicar atualizações no Redis Pub/Sub (usado pelo live-feed-api/ws)
	broadcaster := pubsub.NewRedisBroadcaster(redisClient)

	proc := &consumer.Processor{
		Log:        log,
		Reader:     liveReader,
		Repo:       repo,
		Cache:      rcache,
		DLQ:        dlq,
		OnConsumed: func() { consumed.Inc() },
		OnCached:   func() { cached.Inc() },
		OnPersist:  func() { persist.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após sucesso de persistência, envia o tick pro WebSocket via Redis Pub/Sub
		OnAfterPersist: func(ev events.LiveUpdate) {
			msg := pubsub.WSUpdate{GameID: ev.GameID, Payload: ev}
			b, _ := json.Marshal(msg)

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := broadcaster.Publish(ctx, cfg.ChannelLiveUpdates, b); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	relay := &consumer.Relay{
		Log:         log,
		Reader:      settledReader,
		Broadcaster: broadcaster,
		Channel:     cfg.ChannelBetSettled,
		OnRelayed:   func() { relayed.Inc() },
		OnError:     func(stage string) { errorsBy.WithLabelValues("settled_" + stage).Inc() },
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("settlement relay stopped", zap.Error(err))
		}
	}()

	log.Info("live-feed-processor started")
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("live-feed-processor stopped")
}
