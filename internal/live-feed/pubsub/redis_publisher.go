package pubsub

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// Payload padrão do canal de estado ao vivo, repassado ao WS do live-feed-api
type WSUpdate struct {
	GameID  string      `json:"gameId"`
	Payload interface{} `json:"payload"`
}

// Payload do canal de liquidações, endereçado a um usuário específico
type WSNotification struct {
	UserID  int64       `json:"userId"`
	Payload interface{} `json:"payload"`
}
