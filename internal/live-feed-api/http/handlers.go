package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/radieske/live-bet-sim-poc/internal/live-feed-api/dto"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed-api/repo"
	"github.com/radieske/live-bet-sim-poc/internal/live-feed-api/ws"
	lcache "github.com/radieske/live-bet-sim-poc/internal/live-feed/cache"
)

// API expõe os endpoints REST de consulta do feed ao vivo
// Utiliza um repositório de leitura (Postgres) e o cache mantido pelo processor
type API struct {
	ReadRepo *repo.ReadRepo     // acesso ao banco de dados
	Cache    *lcache.RedisCache // cache de estado corrente
	Hub      *ws.Hub            // conexões WebSocket
}

// Router retorna o roteador HTTP com os endpoints REST e o WebSocket
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/live", a.listLive)                 // Lista partidas no painel ao vivo
	r.Get("/v1/live/{id}", a.getGame)             // Último tick de uma partida
	r.Get("/v1/live/{id}/history", a.listHistory) // Histórico de ticks da partida
	r.Get("/ws", a.Hub.HandleWS)                  // Stream de ticks e liquidações
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// listLive retorna as partidas presentes no painel ao vivo
func (a *API) listLive(w http.ResponseWriter, r *http.Request) {
	games, err := a.ReadRepo.ListLive(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if games == nil {
		games = []dto.GameSummary{}
	}
	writeJSON(w, http.StatusOK, games)
}

// getGame retorna o último tick de uma partida, preferencialmente do cache
func (a *API) getGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// cache miss ou Redis indisponível caem pro banco
	if ev, err := a.Cache.GetCurrent(r.Context(), id); err == nil {
		writeJSON(w, http.StatusOK, ev)
		return
	}

	ev, err := a.ReadRepo.GetCurrent(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// listHistory retorna o histórico de ticks de uma partida
func (a *API) listHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hist, err := a.ReadRepo.ListHistory(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if hist == nil {
		hist = []dto.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, hist)
}
