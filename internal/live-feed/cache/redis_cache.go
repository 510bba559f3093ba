package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// RedisCache encapsula o cache do último estado ao vivo de cada jogo
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// Key gera a chave Redis do estado corrente de um jogo
func Key(gameID string) string { return "live:current:" + gameID }

// SetCurrent armazena o estado ao vivo mais recente de um jogo no Redis
func (r *RedisCache) SetCurrent(ctx context.Context, e events.LiveUpdate) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, Key(e.GameID), b, r.TTL).Err()
}

// GetCurrent recupera o estado ao vivo de um jogo, ou redis.Nil se não houver
func (r *RedisCache) GetCurrent(ctx context.Context, gameID string) (events.LiveUpdate, error) {
	var e events.LiveUpdate

	b, err := r.Client.Get(ctx, Key(gameID)).Bytes()
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return e, err
	}
	return e, nil
}
