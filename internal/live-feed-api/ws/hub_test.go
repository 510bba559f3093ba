package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// awaitPong envia um ping e espera o pong. Como o hub processa as mensagens de
// cada conexão em ordem, o pong garante que o subscribe anterior já valeu.
func awaitPong(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	require.Equal(t, "pong", pong["type"])
}

func TestSubscribeReceivesGameUpdates(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))
	awaitPong(t, conn)

	hub.Broadcast(GameUpdate{GameID: "g1", Payload: map[string]any{"minute": 12}})
	hub.Broadcast(GameUpdate{GameID: "g2", Payload: map[string]any{"minute": 99}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got GameUpdate
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "g1", got.GameID)

	// a mensagem de g2 não chega: a próxima leitura estoura o deadline
	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var extra GameUpdate
	assert.Error(t, conn.ReadJSON(&extra))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))
	awaitPong(t, conn)
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "unsubscribe", GameID: "g1"}))
	awaitPong(t, conn)

	hub.Broadcast(GameUpdate{GameID: "g1", Payload: "tick"})

	conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var got GameUpdate
	assert.Error(t, conn.ReadJSON(&got))
}

// Broadcasts e Notify rodam nas goroutines do Pub/Sub enquanto o handler
// altera as assinaturas e responde pings na mesma conexão. Sob -race, isto
// pega iteração de mapa concorrente com escrita e escrita dupla na conexão.
func TestHubConcurrentBroadcastAndChurn(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "watch_bets", UserID: 1}))
	awaitPong(t, conn)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.Broadcast(GameUpdate{GameID: "g1", Payload: i})
			hub.Notify(UserNotification{UserID: 1, Payload: i})
		}
	}()

	for i := 0; i < 50; i++ {
		require.NoError(t, conn.WriteJSON(ClientMsg{Type: "unsubscribe", GameID: "g1"}))
		require.NoError(t, conn.WriteJSON(ClientMsg{Type: "subscribe", GameID: "g1"}))
	}
	<-done

	// a conexão segue viva: drena o que chegou até ver o pong
	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "ping"}))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var raw map[string]any
		require.NoError(t, conn.ReadJSON(&raw))
		if raw["type"] == "pong" {
			break
		}
	}
}

func TestWatchBetsReceivesOwnNotificationsOnly(t *testing.T) {
	hub := NewHub(func(r *http.Request) bool { return true })
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(ClientMsg{Type: "watch_bets", UserID: 1}))
	awaitPong(t, conn)

	hub.Notify(UserNotification{UserID: 2, Payload: "not yours"})
	hub.Notify(UserNotification{UserID: 1, Payload: "bet won"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got UserNotification
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "bet won", got.Payload)
}
