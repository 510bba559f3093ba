package slip

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/scheduler"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
)

// Teto de aposta por seleção.
const MaxStake = 9_000_000

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotOpen    = errors.New("game is live or has finished")
	ErrGameNotLive    = errors.New("game is not open for live betting")
	ErrNothingToDo    = errors.New("selection not in slip")
	ErrUnknownUser    = errors.New("unknown user")
	ErrSubmitRejected = errors.New("bet submission failed")
)

// Config é a configuração rascunho de uma seleção do cupom.
// LiveOdds preenchido indica seleção feita de um jogo ao vivo: o preço
// exibido na escolha fica travado e o tipo não pode mais ser editado.
type Config struct {
	Type     string   `json:"type"`
	Stake    float64  `json:"stake"`
	LiveOdds *float64 `json:"liveOdds,omitempty"`
}

// Selection é uma entrada do cupom como exposta pra fora.
type Selection struct {
	GameID string `json:"gameId"`
	Config Config `json:"config"`
}

// Snapshot é a visão completa do cupom de um usuário.
type Snapshot struct {
	Selections    []Selection `json:"selections"`
	TermsAccepted bool        `json:"termsAccepted"`
}

// SubmitResult resume uma submissão aceita.
type SubmitResult struct {
	TotalStake float64     `json:"totalStake"`
	Bets       []store.Bet `json:"bets"`
}

// GameSource resolve um jogo e o conjunto em que ele está no momento.
// Implementado pelo scheduler.
type GameSource interface {
	Lookup(id string) (sim.Game, string, bool)
}

// BetStore persiste apostas novas no store e desfaz as já criadas quando
// a submissão não completa.
type BetStore interface {
	CreateBet(ctx context.Context, b store.Bet) (string, error)
	DeleteBet(ctx context.Context, betID string) error
}

// Wallet é a fatia do saldo de sessão que o cupom precisa.
type Wallet interface {
	Balance(userID int64) (float64, bool)
	Debit(ctx context.Context, userID int64, amount float64) error
}

type userSlip struct {
	order   []string // ordem de inclusão das seleções
	configs map[string]Config
	terms   bool
}

// Controller mantém o cupom de cada usuário e valida e submete apostas.
// Estado próprio, guardado por mutex; os colaboradores entram por campo.
type Controller struct {
	Log    *zap.Logger
	Games  GameSource
	Bets   BetStore
	Wallet Wallet

	OnPlaced func() // métricas

	mu    sync.Mutex
	slips map[int64]*userSlip
}

func NewController(log *zap.Logger, games GameSource, bets BetStore, w Wallet) *Controller {
	return &Controller{
		Log:    log,
		Games:  games,
		Bets:   bets,
		Wallet: w,
		slips:  make(map[int64]*userSlip),
	}
}

func (c *Controller) slip(userID int64) *userSlip {
	s, ok := c.slips[userID]
	if !ok {
		s = &userSlip{configs: make(map[string]Config)}
		c.slips[userID] = s
	}
	return s
}

// Toggle inclui um jogo pré-jogo no cupom, ou o remove se já estava lá.
// Jogos ao vivo ou arquivados não entram por aqui.
func (c *Controller) Toggle(userID int64, gameID string) error {
	_, set, ok := c.Games.Lookup(gameID)
	if !ok {
		return ErrGameNotFound
	}
	if set != scheduler.SetUpcoming {
		return ErrGameNotOpen
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slip(userID)
	if _, selected := c.find(s, gameID); selected {
		c.remove(s, gameID)
		return nil
	}
	s.order = append(s.order, gameID)
	delete(s.configs, gameID) // começa sem configuração
	return nil
}

// SelectLive inclui uma seleção de um jogo ao vivo, travando o preço
// exibido e o tipo de aposta. Escolher de novo o mesmo tipo desfaz a
// seleção. Só vale enquanto a partida está rolando ou no intervalo.
func (c *Controller) SelectLive(userID int64, gameID, betType string, displayedOdds float64) error {
	g, set, ok := c.Games.Lookup(gameID)
	if !ok {
		return ErrGameNotFound
	}
	if set != scheduler.SetLive || g.Live == nil ||
		(g.Live.Status != sim.StatusInProgress && g.Live.Status != sim.StatusHalfTime) {
		return ErrGameNotLive
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slip(userID)

	if cfg, has := s.configs[gameID]; has && cfg.Type == betType {
		c.remove(s, gameID)
		return nil
	}

	if _, selected := c.find(s, gameID); !selected {
		s.order = append(s.order, gameID)
	}
	stake := 1.0
	if cfg, has := s.configs[gameID]; has && cfg.Stake > 0 {
		stake = cfg.Stake
	}
	odds := displayedOdds
	s.configs[gameID] = Config{Type: betType, Stake: stake, LiveOdds: &odds}
	return nil
}

// UpdateConfig altera tipo e valor de uma seleção. Em seleção ao vivo o
// tipo está travado; só o valor muda.
func (c *Controller) UpdateConfig(userID int64, gameID, betType string, stake float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slip(userID)
	if _, selected := c.find(s, gameID); !selected {
		return ErrNothingToDo
	}
	cfg := s.configs[gameID]
	if cfg.LiveOdds == nil {
		cfg.Type = betType
	}
	cfg.Stake = stake
	s.configs[gameID] = cfg
	return nil
}

// Remove tira uma seleção do cupom.
func (c *Controller) Remove(userID int64, gameID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slip(userID)
	if _, selected := c.find(s, gameID); !selected {
		return ErrNothingToDo
	}
	c.remove(s, gameID)
	return nil
}

// Clear zera o cupom inteiro, incluindo o aceite dos termos.
func (c *Controller) Clear(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slips, userID)
}

// SetTerms registra o aceite (ou retirada) dos termos.
func (c *Controller) SetTerms(userID int64, accepted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slip(userID).terms = accepted
}

// Snapshot devolve a visão corrente do cupom do usuário.
func (c *Controller) Snapshot(userID int64) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slip(userID)
	out := Snapshot{TermsAccepted: s.terms, Selections: make([]Selection, 0, len(s.order))}
	for _, id := range s.order {
		out.Selections = append(out.Selections, Selection{GameID: id, Config: s.configs[id]})
	}
	return out
}

// Submit valida o cupom e, aceito, cria uma aposta pendente por seleção,
// debita o total do saldo de sessão e limpa o cupom. A validação devolve
// todos os erros de uma vez; nada é persistido quando ela falha.
func (c *Controller) Submit(ctx context.Context, userID int64) (SubmitResult, ValidationErrors, error) {
	c.mu.Lock()
	s := c.slip(userID)
	order := append([]string(nil), s.order...)
	configs := make(map[string]Config, len(s.configs))
	for k, v := range s.configs {
		configs[k] = v
	}
	terms := s.terms
	c.mu.Unlock()

	balance, knownUser := c.Wallet.Balance(userID)
	if !knownUser {
		return SubmitResult{}, ValidationErrors{}, ErrUnknownUser
	}

	verrs, totalStake := c.validate(order, configs, terms, balance)
	if !verrs.OK() {
		return SubmitResult{}, verrs, nil
	}

	now := time.Now()
	bets := make([]store.Bet, 0, len(order))
	for _, gameID := range order {
		g, set, ok := c.Games.Lookup(gameID)
		if !ok {
			return SubmitResult{}, ValidationErrors{}, ErrGameNotFound
		}
		cfg := configs[gameID]
		price := c.price(g, cfg)
		bets = append(bets, store.Bet{
			UserID:       userID,
			GameID:       g.ID,
			GameDetails:  g.HomeTeam + " vs " + g.AwayTeam,
			BetType:      cfg.Type,
			Stake:        cfg.Stake,
			Odds:         price,
			PotentialWin: cfg.Stake * price,
			Timestamp:    now,
			IsLiveBet:    set == scheduler.SetLive,
			Status:       store.BetStatusPending,
		})
	}

	for i := range bets {
		id, err := c.Bets.CreateBet(ctx, bets[i])
		if err != nil {
			c.Log.Error("bet create failed",
				zap.Int64("user_id", userID),
				zap.String("game_id", bets[i].GameID),
				zap.Error(err),
			)
			c.rollback(ctx, userID, bets[:i])
			return SubmitResult{}, ValidationErrors{}, ErrSubmitRejected
		}
		bets[i].ID = id
		if c.OnPlaced != nil {
			c.OnPlaced()
		}
	}

	if err := c.Wallet.Debit(ctx, userID, totalStake); err != nil {
		c.Log.Error("stake debit failed", zap.Int64("user_id", userID), zap.Error(err))
		c.rollback(ctx, userID, bets)
		return SubmitResult{}, ValidationErrors{}, err
	}

	c.Clear(userID)
	return SubmitResult{TotalStake: totalStake, Bets: bets}, ValidationErrors{}, nil
}

// rollback desfaz apostas pendentes criadas numa submissão que não completou,
// pra não sobrar aposta sem o saldo correspondente debitado. Melhor esforço:
// falha de delete é só logada.
func (c *Controller) rollback(ctx context.Context, userID int64, created []store.Bet) {
	for _, b := range created {
		if err := c.Bets.DeleteBet(ctx, b.ID); err != nil {
			c.Log.Warn("bet rollback failed",
				zap.Int64("user_id", userID),
				zap.String("bet_id", b.ID),
				zap.Error(err),
			)
		}
	}
}

// price resolve o preço travado na submissão: o da escolha ao vivo quando
// houver, senão o preço exibido no momento (corrente se ao vivo, base se não).
func (c *Controller) price(g sim.Game, cfg Config) float64 {
	if cfg.LiveOdds != nil {
		return *cfg.LiveOdds
	}
	displayed := g.Odds
	if g.Live != nil {
		displayed = g.Live.CurrentOdds
	}
	switch cfg.Type {
	case store.BetTypeHomeWin:
		return displayed.Home
	case store.BetTypeAwayWin:
		return displayed.Away
	case store.BetTypeDraw:
		if displayed.Draw != nil {
			return *displayed.Draw
		}
	}
	return 1
}

func (c *Controller) find(s *userSlip, gameID string) (int, bool) {
	for i, id := range s.order {
		if id == gameID {
			return i, true
		}
	}
	return 0, false
}

func (c *Controller) remove(s *userSlip, gameID string) {
	if i, ok := c.find(s, gameID); ok {
		s.order = append(s.order[:i], s.order[i+1:]...)
	}
	delete(s.configs, gameID)
}
