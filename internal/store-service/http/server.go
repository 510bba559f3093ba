package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/store-service/dto"
	"github.com/radieske/live-bet-sim-poc/internal/store-service/repo"
)

// Repo define as operações de persistência usadas pelos handlers.
type Repo interface {
	ListGames(ctx context.Context) ([]dto.Game, error)
	ListUsers(ctx context.Context) ([]dto.User, error)
	UpdateUserBalance(ctx context.Context, userID int64, balance float64) error
	QueryBets(ctx context.Context, f dto.BetFilter) ([]dto.Bet, error)
	CreateBet(ctx context.Context, b dto.Bet) (dto.Bet, error)
	UpdateBet(ctx context.Context, betID, status string, actualWin *float64) error
	DeleteBet(ctx context.Context, betID string) error
}

// Server expõe o store mock como coleções REST simples: /games, /users
// e /bets. Nenhuma regra de negócio mora aqui, só registro de fatos.
type Server struct {
	log  *zap.Logger
	repo Repo
}

func NewServer(log *zap.Logger, r Repo) *Server { return &Server{log: log, repo: r} }

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/games", s.listGames)
	r.Get("/users", s.listUsers)
	r.Patch("/users/{id}", s.patchUser)
	r.Get("/bets", s.listBets)
	r.Post("/bets", s.createBet)
	r.Patch("/bets/{id}", s.patchBet)
	r.Delete("/bets/{id}", s.deleteBet)
	return r
}

func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.repo.ListGames(r.Context())
	if err != nil {
		s.fail(w, "list games", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(games))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.ListUsers(r.Context())
	if err != nil {
		s.fail(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

func (s *Server) patchUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Balance == nil {
		http.Error(w, "balance required", http.StatusBadRequest)
		return
	}
	if *req.Balance < 0 {
		http.Error(w, "balance must be non-negative", http.StatusBadRequest)
		return
	}
	if err := s.repo.UpdateUserBalance(r.Context(), id, *req.Balance); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		s.fail(w, "update balance", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listBets aceita userId, status e gameId em qualquer combinação (AND).
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f dto.BetFilter
	if v := q.Get("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid userId", http.StatusBadRequest)
			return
		}
		f.UserID = &id
	}
	f.Status = q.Get("status")
	f.GameID = q.Get("gameId")

	bets, err := s.repo.QueryBets(r.Context(), f)
	if err != nil {
		s.fail(w, "query bets", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(bets))
}

func (s *Server) createBet(w http.ResponseWriter, r *http.Request) {
	var b dto.Bet
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if b.UserID == 0 || b.GameID == "" || b.BetType == "" || b.Stake <= 0 || b.Odds <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if b.Status == "" {
		b.Status = "pending"
	}

	created, err := s.repo.CreateBet(r.Context(), b)
	if err != nil {
		s.fail(w, "create bet", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) patchBet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req dto.UpdateBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "status required", http.StatusBadRequest)
		return
	}
	if req.Status != "won" && req.Status != "lost" && req.Status != "pending" {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}
	if err := s.repo.UpdateBet(r.Context(), id, req.Status, req.ActualWin); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "bet not found", http.StatusNotFound)
			return
		}
		s.fail(w, "update bet", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteBet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.DeleteBet(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "bet not found", http.StatusNotFound)
			return
		}
		s.fail(w, "delete bet", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// orEmpty troca slice nil por vazio pra nunca servir null em coleção.
func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
