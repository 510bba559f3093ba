package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/catalog"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/dto"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/scheduler"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/slip"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/wallet"
)

// Server é a API pública do match-engine: listagem pré-jogo, snapshots
// ao vivo/arquivo, login, cupom de apostas e reset de histórico.
type Server struct {
	log          *zap.Logger
	sched        *scheduler.Scheduler
	slips        *slip.Controller
	store        *store.Client
	wallet       *wallet.Session
	resetBalance float64
}

func NewServer(log *zap.Logger, sched *scheduler.Scheduler, slips *slip.Controller, st *store.Client, w *wallet.Session, resetBalance float64) *Server {
	return &Server{
		log:          log,
		sched:        sched,
		slips:        slips,
		store:        st,
		wallet:       w,
		resetBalance: resetBalance,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/login", s.login)

	r.Get("/v1/games", s.listGames)
	r.Get("/v1/games/sports", s.listSports)
	r.Get("/v1/live", s.listLive)
	r.Get("/v1/archived", s.listArchived)

	r.Route("/v1/slip/{userID}", func(r chi.Router) {
		r.Get("/", s.getSlip)
		r.Delete("/", s.clearSlip)
		r.Post("/selections", s.toggleSelection)
		r.Post("/live-selections", s.selectLive)
		r.Put("/selections/{gameID}", s.updateConfig)
		r.Delete("/selections/{gameID}", s.removeSelection)
		r.Post("/terms", s.setTerms)
		r.Post("/submit", s.submit)
	})

	r.Get("/v1/users/{userID}/bets", s.listBets)
	r.Post("/v1/users/{userID}/history/reset", s.resetHistory)
	return r
}

// login resolve o usuário por nome e senha no store e semeia o saldo de sessão.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}

	users, err := s.store.Users(r.Context())
	if err != nil {
		s.log.Warn("login users fetch failed", zap.Error(err))
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}
	for _, u := range users {
		if u.Username == req.Username && (req.Password == "" || u.Password == req.Password) {
			s.wallet.Load(u.ID, u.Balance)
			writeJSON(w, http.StatusOK, dto.LoginResponse{ID: u.ID, Username: u.Username, Balance: u.Balance})
			return
		}
	}
	http.Error(w, "invalid credentials", http.StatusUnauthorized)
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	games := catalog.FilterSort(s.sched.Upcoming(), q.Get("sport"), q.Get("search"), q.Get("sort"))
	writeJSON(w, http.StatusOK, dto.FromGames(games))
}

func (s *Server) listSports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Sports(s.sched.Upcoming()))
}

func (s *Server) listLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromGames(s.sched.Live()))
}

func (s *Server) listArchived(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromGames(s.sched.Archived()))
}

func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.slips.Snapshot(userID))
}

func (s *Server) clearSlip(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	s.slips.Clear(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleSelection(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var req dto.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		http.Error(w, "gameId required", http.StatusBadRequest)
		return
	}
	if err := s.slips.Toggle(userID, req.GameID); err != nil {
		slipError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.slips.Snapshot(userID))
}

func (s *Server) selectLive(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var req dto.LiveSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" || req.BetType == "" {
		http.Error(w, "gameId and betType required", http.StatusBadRequest)
		return
	}
	if err := s.slips.SelectLive(userID, req.GameID, req.BetType, req.Odds); err != nil {
		slipError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.slips.Snapshot(userID))
}

func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var req dto.ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := s.slips.UpdateConfig(userID, chi.URLParam(r, "gameID"), req.BetType, req.Stake); err != nil {
		slipError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.slips.Snapshot(userID))
}

func (s *Server) removeSelection(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if err := s.slips.Remove(userID, chi.URLParam(r, "gameID")); err != nil {
		slipError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setTerms(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	var req dto.TermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	s.slips.SetTerms(userID, req.Accepted)
	w.WriteHeader(http.StatusNoContent)
}

// submit valida o cupom e registra as apostas. Erros de validação voltam
// num 422 com o mapa completo de erros; falha de persistência é um 502.
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	result, verrs, err := s.slips.Submit(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, slip.ErrUnknownUser):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, wallet.ErrInsufficientFunds):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "bet submission failed", http.StatusBadGateway)
		}
		return
	}
	if !verrs.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verrs})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// listBets repassa o histórico de apostas do usuário direto do store.
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	f := store.BetFilter{UserID: &userID}
	q := r.URL.Query()
	f.Status = q.Get("status")
	f.GameID = q.Get("gameId")
	bets, err := s.store.Bets(r.Context(), f)
	if err != nil {
		s.log.Warn("bets fetch failed", zap.Int64("user_id", userID), zap.Error(err))
		http.Error(w, "bets fetch failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

// resetHistory apaga todas as apostas do usuário e restaura o saldo inicial.
// Ação explícita do usuário; única forma de deletar apostas.
func (s *Server) resetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	bets, err := s.store.Bets(r.Context(), store.BetFilter{UserID: &userID})
	if err != nil {
		http.Error(w, "history reset failed", http.StatusBadGateway)
		return
	}
	for _, b := range bets {
		if err := s.store.DeleteBet(r.Context(), b.ID); err != nil {
			s.log.Warn("bet delete failed", zap.String("bet_id", b.ID), zap.Error(err))
			http.Error(w, "history reset failed", http.StatusBadGateway)
			return
		}
	}
	if err := s.store.UpdateBalance(r.Context(), userID, s.resetBalance); err != nil {
		http.Error(w, "history reset failed", http.StatusBadGateway)
		return
	}
	s.wallet.Load(userID, s.resetBalance)
	writeJSON(w, http.StatusOK, map[string]float64{"balance": s.resetBalance})
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func slipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, slip.ErrGameNotFound), errors.Is(err, slip.ErrNothingToDo):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, slip.ErrGameNotOpen), errors.Is(err, slip.ErrGameNotLive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
