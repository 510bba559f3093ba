package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// StartRedisSubscriber inicia uma goroutine que escuta os canais Redis Pub/Sub
// e repassa as mensagens recebidas para os clientes WebSocket conectados via Hub
//
// Funcionamento:
// - liveChannel carrega ticks de partidas (GameUpdate)
// - settledChannel carrega liquidações endereçadas a usuários (UserNotification)
func StartRedisSubscriber(ctx context.Context, r *redis.Client, hub *Hub, liveChannel, settledChannel string) {
	sub := r.Subscribe(ctx, liveChannel, settledChannel)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close() // encerra a inscrição ao finalizar o contexto
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				switch msg.Channel {
				case liveChannel:
					var upd GameUpdate
					if err := json.Unmarshal([]byte(msg.Payload), &upd); err != nil {
						log.Printf("ws subscriber unmarshal error: %v", err)
						continue
					}
					hub.Broadcast(upd) // envia tick para os clientes inscritos no jogo
				case settledChannel:
					var n UserNotification
					if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
						log.Printf("ws subscriber unmarshal error: %v", err)
						continue
					}
					hub.Notify(n) // envia liquidação para quem acompanha o usuário
				}
			}
		}
	}()
}
