package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// client envolve a conexão com um mutex próprio de escrita: o gorilla
// permite um único escritor concorrente por conexão, e aqui o pong do
// handler compete com os broadcasts das goroutines do Pub/Sub.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (c *client) write(b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket e assinaturas de partidas e de usuários
// subs: mapeia gameID para o conjunto de conexões inscritas
// userSubs: mapeia userID para as conexões que acompanham suas liquidações
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	// gameID -> set of connections
	subs map[string]map[*client]struct{}
	// userID -> set of connections
	userSubs map[int64]map[*client]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		subs:     make(map[string]map[*client]struct{}),
		userSubs: make(map[int64]map[*client]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket
// Permite subscribe/unsubscribe em partidas, watch/unwatch de liquidações
// por usuário, e responde a pings
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	cl := &client{conn: conn}

	for {
		var msg ClientMsg
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "subscribe":
			h.mu.Lock()
			if _, ok := h.subs[msg.GameID]; !ok {
				h.subs[msg.GameID] = make(map[*client]struct{})
			}
			h.subs[msg.GameID][cl] = struct{}{}
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			if m, ok := h.subs[msg.GameID]; ok {
				delete(m, cl)
				if len(m) == 0 {
					delete(h.subs, msg.GameID)
				}
			}
			h.mu.Unlock()
		case "watch_bets":
			h.mu.Lock()
			if _, ok := h.userSubs[msg.UserID]; !ok {
				h.userSubs[msg.UserID] = make(map[*client]struct{})
			}
			h.userSubs[msg.UserID][cl] = struct{}{}
			h.mu.Unlock()
		case "unwatch_bets":
			h.mu.Lock()
			if m, ok := h.userSubs[msg.UserID]; ok {
				delete(m, cl)
				if len(m) == 0 {
					delete(h.userSubs, msg.UserID)
				}
			}
			h.mu.Unlock()
		case "ping":
			b, _ := json.Marshal(map[string]string{"type": "pong"})
			_ = cl.write(b)
		}
	}
	// Remove a conexão de todas as assinaturas ao desconectar
	h.mu.Lock()
	for _, set := range h.subs {
		delete(set, cl)
	}
	for _, set := range h.userSubs {
		delete(set, cl)
	}
	h.mu.Unlock()
}

// snapshot copia o conjunto sob o lock: iterar o mapa vivo fora dele
// corre contra os Lock/delete do HandleWS.
func snapshot(set map[*client]struct{}) []*client {
	out := make([]*client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Broadcast envia um tick de partida para todos os clientes inscritos no gameID
func (h *Hub) Broadcast(update GameUpdate) {
	h.mu.RLock()
	conns := snapshot(h.subs[update.GameID])
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, _ := json.Marshal(update)
	for _, c := range conns {
		_ = c.write(b)
	}
}

// Notify envia uma liquidação para as conexões que acompanham o usuário
func (h *Hub) Notify(n UserNotification) {
	h.mu.RLock()
	conns := snapshot(h.userSubs[n.UserID])
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b, _ := json.Marshal(n)
	for _, c := range conns {
		_ = c.write(b)
	}
}
