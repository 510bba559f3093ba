package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/games", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"g1","sportKey":"soccer","homeTeam":"A","awayTeam":"B","odds":{"home":2.1,"draw":3.2,"away":3.4}}]`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	games, err := c.Games(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].ID)
	require.NotNil(t, games[0].Odds.Draw)
	assert.Equal(t, 3.2, *games[0].Odds.Draw)
}

func TestBetsSendsFilterAsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bets", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "7", q.Get("userId"))
		assert.Equal(t, "pending", q.Get("status"))
		assert.Equal(t, "g1", q.Get("gameId"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	uid := int64(7)
	c := New(srv.URL)
	bets, err := c.Bets(context.Background(), BetFilter{UserID: &uid, Status: "pending", GameID: "g1"})
	require.NoError(t, err)
	assert.Empty(t, bets)
}

func TestCreateBetReturnsAssignedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bets", r.URL.Path)

		var b Bet
		require.NoError(t, json.NewDecoder(r.Body).Decode(&b))
		assert.Equal(t, int64(1), b.UserID)
		assert.Equal(t, "Home Win", b.BetType)

		b.ID = "bet_abc"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(b)
	}))
	defer srv.Close()

	c := New(srv.URL)
	id, err := c.CreateBet(context.Background(), Bet{UserID: 1, GameID: "g1", BetType: "Home Win", Stake: 10, Odds: 2})
	require.NoError(t, err)
	assert.Equal(t, "bet_abc", id)
}

func TestSettleBetBody(t *testing.T) {
	var bodies []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.SettleBet(context.Background(), "b1", BetStatusWon, 42))
	require.NoError(t, c.SettleBet(context.Background(), "b2", BetStatusLost, 0))

	require.Len(t, bodies, 2)
	assert.Equal(t, "won", bodies[0]["status"])
	assert.Equal(t, 42.0, bodies[0]["actualWin"])
	// derrota não carrega ganho real
	assert.Equal(t, "lost", bodies[1]["status"])
	assert.NotContains(t, bodies[1], "actualWin")
}

func TestUpdateBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/3", r.URL.Path)
		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 925.5, body["balance"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.NoError(t, c.UpdateBalance(context.Background(), 3, 925.5))
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Games(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 500")
}
