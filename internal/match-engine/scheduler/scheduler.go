package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// Conjunto lógico em que um jogo está num dado momento.
const (
	SetUpcoming = "upcoming"
	SetLive     = "live"
	SetArchived = "archived"
)

// Settler liquida as apostas de um jogo finalizado. Chamado de forma
// síncrona dentro do próprio tick que finaliza o jogo.
type Settler interface {
	SettleGame(ctx context.Context, g sim.Game)
}

// Publisher propaga o estado ao vivo de cada jogo a cada tick.
type Publisher interface {
	PublishLiveUpdate(ctx context.Context, ev events.LiveUpdate) error
}

// Scheduler orquestra a simulação: promove jogos do catálogo pro conjunto
// ao vivo quando chega a hora, avança cada partida um tick por vez e,
// passado o cooldown de exibição, move os finalizados pro arquivo.
//
// Um único goroutine executa os ticks; é ele a única fonte de mutação.
// Os colaboradores chegam por campo, nunca capturados em closure, e os
// leitores só enxergam snapshots copiados por inteiro.
type Scheduler struct {
	Log          *zap.Logger
	Engine       *sim.Engine
	Settler      Settler
	Publisher    Publisher
	TickInterval time.Duration
	ArchiveDelay time.Duration
	Source       string // nome do serviço no campo source dos updates

	OnTick     func() // métricas
	OnPromoted func()
	OnFinished func()
	OnArchived func()

	mu       sync.RWMutex
	upcoming []sim.Game
	live     []sim.Game
	archived []sim.Game
	version  int64
}

// SetCatalog instala o catálogo pré-jogo. Ids já conhecidos são ignorados:
// um jogo nunca aparece em mais de um conjunto.
func (s *Scheduler) SetCatalog(games []sim.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{})
	for _, g := range s.live {
		known[g.ID] = struct{}{}
	}
	for _, g := range s.archived {
		known[g.ID] = struct{}{}
	}

	s.upcoming = s.upcoming[:0]
	for _, g := range games {
		if _, dup := known[g.ID]; dup {
			continue
		}
		known[g.ID] = struct{}{}
		s.upcoming = append(s.upcoming, g)
	}
}

// Run roda o loop de ticks até o contexto encerrar. Deve haver um único
// Run por processo; o modelo de um tick por vez é a garantia de
// consistência de todo o estado da simulação.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.TickInterval)
	defer ticker.Stop()

	s.Log.Info("scheduler started", zap.Duration("tick", s.TickInterval))
	for {
		select {
		case <-ctx.Done():
			s.Log.Info("scheduler stopped")
			return
		case now := <-ticker.C:
			s.Tick(ctx, now)
		}
	}
}

// Tick aplica um passo inteiro da simulação, na ordem fixa: promoção,
// avanço dos que já estavam ao vivo, arquivamento. Um jogo promovido
// neste tick termina o tick ainda em not_started, e nunca é promovido
// e arquivado no mesmo passo.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()

	// 1) promoção: jogos cujo horário já passou ganham estado ao vivo zerado
	var stillUpcoming, promoted []sim.Game
	for _, g := range s.upcoming {
		if !g.CommenceTime.After(now) {
			g.Live = sim.NewLiveState(g.Odds)
			promoted = append(promoted, g)
		} else {
			stillUpcoming = append(stillUpcoming, g)
		}
	}
	s.upcoming = stillUpcoming

	// 2) avanço: só quem já estava ao vivo antes da promoção deste tick
	var justFinished []sim.Game
	for i := range s.live {
		g := &s.live[i]
		if g.Live.Status == sim.StatusFinished {
			continue
		}
		if s.Engine.Advance(g) {
			g.FinishedAt = now
			justFinished = append(justFinished, g.Clone())
		}
	}

	// 3) arquivamento: finalizados ficam visíveis até o cooldown passar
	var remaining []sim.Game
	for _, g := range s.live {
		if g.Live.Status == sim.StatusFinished && now.Sub(g.FinishedAt) > s.ArchiveDelay {
			s.archived = append(s.archived, g)
			if s.OnArchived != nil {
				s.OnArchived()
			}
			continue
		}
		remaining = append(remaining, g)
	}
	s.live = append(remaining, promoted...)

	s.version++
	version := s.version
	updates := s.buildUpdates(now, version)
	s.mu.Unlock()

	if s.OnTick != nil {
		s.OnTick()
	}
	for range promoted {
		if s.OnPromoted != nil {
			s.OnPromoted()
		}
	}

	// liquidação síncrona, ainda dentro do tick que finalizou cada jogo
	for _, g := range justFinished {
		if s.OnFinished != nil {
			s.OnFinished()
		}
		if s.Settler != nil {
			s.Settler.SettleGame(ctx, g)
		}
	}

	if s.Publisher != nil {
		for _, ev := range updates {
			if err := s.Publisher.PublishLiveUpdate(ctx, ev); err != nil {
				s.Log.Warn("live update publish failed",
					zap.String("game_id", ev.GameID),
					zap.Error(err),
				)
			}
		}
	}
}

// buildUpdates monta os eventos de feed do tick corrente. Chamar com o lock.
func (s *Scheduler) buildUpdates(now time.Time, version int64) []events.LiveUpdate {
	out := make([]events.LiveUpdate, 0, len(s.live))
	for _, g := range s.live {
		st := g.Live
		ev := events.LiveUpdate{
			GameID:    g.ID,
			Sport:     g.SportKey,
			HomeTeam:  g.HomeTeam,
			AwayTeam:  g.AwayTeam,
			Minute:    st.Minute,
			HomeScore: st.HomeScore,
			AwayScore: st.AwayScore,
			Status:    string(st.Status),
			Odds:      cloneOdds(st.CurrentOdds),
			UpdatedAt: now.UTC(),
			Source:    s.Source,
			Version:   version,
		}
		if n := len(st.Events); n > 0 {
			last := st.Events[n-1]
			ev.LastEvent = &last
		}
		out = append(out, ev)
	}
	return out
}

// Upcoming retorna uma cópia do conjunto pré-jogo.
func (s *Scheduler) Upcoming() []sim.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGames(s.upcoming)
}

// Live retorna uma cópia do conjunto ao vivo.
func (s *Scheduler) Live() []sim.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGames(s.live)
}

// Archived retorna uma cópia do arquivo.
func (s *Scheduler) Archived() []sim.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGames(s.archived)
}

// Lookup localiza um jogo e informa em qual conjunto ele está.
func (s *Scheduler) Lookup(id string) (sim.Game, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.upcoming {
		if g.ID == id {
			return g.Clone(), SetUpcoming, true
		}
	}
	for _, g := range s.live {
		if g.ID == id {
			return g.Clone(), SetLive, true
		}
	}
	for _, g := range s.archived {
		if g.ID == id {
			return g.Clone(), SetArchived, true
		}
	}
	return sim.Game{}, "", false
}

func cloneGames(in []sim.Game) []sim.Game {
	out := make([]sim.Game, 0, len(in))
	for _, g := range in {
		out = append(out, g.Clone())
	}
	return out
}

func cloneOdds(o events.Odds) events.Odds {
	if o.Draw != nil {
		d := *o.Draw
		o.Draw = &d
	}
	return o
}
