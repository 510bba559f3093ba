package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/live-feed/pubsub"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Relay consome o tópico de liquidações e repassa cada evento pro canal
// Redis Pub/Sub de notificações, de onde o live-feed-api entrega por usuário
type Relay struct {
	Log         *zap.Logger
	Reader      *kafka.Reader
	Broadcaster *pubsub.RedisBroadcaster
	Channel     string

	OnRelayed func()
	OnError   func(string)
}

// Run inicia o loop de consumo e repasse das liquidações
func (r *Relay) Run(ctx context.Context) error {
	for {
		m, err := r.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.Log.Warn("kafka read failed", zap.Error(err))
			if r.OnError != nil {
				r.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		var ev events.BetSettled
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.BetID == "" {
			r.Log.Warn("invalid settlement message", zap.Error(err))
			if r.OnError != nil {
				r.OnError("decode")
			}
			continue
		}

		msg := pubsub.WSNotification{UserID: ev.UserID, Payload: ev}
		b, _ := json.Marshal(msg)

		pctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		err = r.Broadcaster.Publish(pctx, r.Channel, b)
		cancel()

		if err != nil {
			r.Log.Warn("settlement broadcast failed", zap.Error(err))
			if r.OnError != nil {
				r.OnError("publish")
			}
			continue
		}
		if r.OnRelayed != nil {
			r.OnRelayed()
		}
	}
}
