package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// KafkaPublisher publica o feed da simulação: estado ao vivo por tick e
// liquidações de aposta. Um writer por tópico.
type KafkaPublisher struct {
	Log     *zap.Logger
	Live    *kafka.Writer
	Settled *kafka.Writer
}

func NewKafkaPublisher(log *zap.Logger, live, settled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Log: log, Live: live, Settled: settled}
}

func (p *KafkaPublisher) PublishLiveUpdate(ctx context.Context, e events.LiveUpdate) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Live.WriteMessages(ctx, kafka.Message{Key: []byte(e.GameID), Value: b})
}

// BetSettled implementa o Notifier da liquidação. Falha de publicação é
// só logada: a notificação é fan-out, não faz parte da liquidação em si.
func (p *KafkaPublisher) BetSettled(ctx context.Context, e events.BetSettled) {
	b, err := json.Marshal(e)
	if err != nil {
		p.Log.Warn("bet settled marshal failed", zap.Error(err))
		return
	}
	if err := p.Settled.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b}); err != nil {
		p.Log.Warn("bet settled publish failed",
			zap.String("bet_id", e.BetID),
			zap.Error(err),
		)
	}
}
