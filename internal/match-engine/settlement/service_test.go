package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/match-engine/sim"
	"github.com/radieske/live-bet-sim-poc/internal/match-engine/store"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

type settledCall struct {
	betID     string
	status    string
	actualWin float64
}

type fakeBetStore struct {
	pending   []store.Bet
	gotFilter store.BetFilter
	fetchErr  error
	failIDs   map[string]bool
	calls     []settledCall
}

func (f *fakeBetStore) Bets(ctx context.Context, filter store.BetFilter) ([]store.Bet, error) {
	f.gotFilter = filter
	return f.pending, f.fetchErr
}

func (f *fakeBetStore) SettleBet(ctx context.Context, betID, status string, actualWin float64) error {
	if f.failIDs[betID] {
		return errors.New("store down")
	}
	f.calls = append(f.calls, settledCall{betID, status, actualWin})
	return nil
}

type fakeWallet struct {
	credits map[int64]float64
}

func (f *fakeWallet) Credit(ctx context.Context, userID int64, amount float64) error {
	if f.credits == nil {
		f.credits = make(map[int64]float64)
	}
	f.credits[userID] += amount
	return nil
}

type fakeNotifier struct {
	events []events.BetSettled
}

func (f *fakeNotifier) BetSettled(ctx context.Context, ev events.BetSettled) {
	f.events = append(f.events, ev)
}

func finishedGame(home, away int) sim.Game {
	return sim.Game{
		ID: "g1",
		Live: &sim.LiveState{
			Status:    sim.StatusFinished,
			HomeScore: home,
			AwayScore: away,
		},
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, store.BetTypeHomeWin, Outcome(2, 0))
	assert.Equal(t, store.BetTypeAwayWin, Outcome(1, 3))
	assert.Equal(t, store.BetTypeDraw, Outcome(0, 0))
	assert.Equal(t, store.BetTypeDraw, Outcome(2, 2))
}

func TestSettleGameResolvesWinnersAndLosers(t *testing.T) {
	bets := &fakeBetStore{pending: []store.Bet{
		{ID: "b1", UserID: 1, BetType: store.BetTypeHomeWin, PotentialWin: 25, GameDetails: "A vs B"},
		{ID: "b2", UserID: 2, BetType: store.BetTypeAwayWin, PotentialWin: 40, GameDetails: "A vs B"},
	}}
	wallet := &fakeWallet{}
	notif := &fakeNotifier{}
	var statuses []string
	svc := &Service{
		Log:       zap.NewNop(),
		Bets:      bets,
		Wallet:    wallet,
		Notif:     notif,
		OnSettled: func(st string) { statuses = append(statuses, st) },
	}

	svc.SettleGame(context.Background(), finishedGame(1, 0))

	// só pendentes do jogo são buscadas, o que torna reprocesso um no-op
	assert.Equal(t, store.BetFilter{Status: store.BetStatusPending, GameID: "g1"}, bets.gotFilter)

	require.Len(t, bets.calls, 2)
	assert.Equal(t, settledCall{"b1", store.BetStatusWon, 25}, bets.calls[0])
	assert.Equal(t, settledCall{"b2", store.BetStatusLost, 0}, bets.calls[1])

	assert.Equal(t, 25.0, wallet.credits[1])
	assert.NotContains(t, wallet.credits, int64(2))

	require.Len(t, notif.events, 2)
	assert.Equal(t, store.BetStatusWon, notif.events[0].Status)
	assert.Equal(t, 25.0, notif.events[0].ActualWin)
	assert.Equal(t, store.BetStatusLost, notif.events[1].Status)

	assert.Equal(t, []string{store.BetStatusWon, store.BetStatusLost}, statuses)
}

func TestSettleGameIsolatesPerBetFailures(t *testing.T) {
	bets := &fakeBetStore{
		pending: []store.Bet{
			{ID: "b1", UserID: 1, BetType: store.BetTypeDraw, PotentialWin: 10},
			{ID: "b2", UserID: 2, BetType: store.BetTypeDraw, PotentialWin: 12},
		},
		failIDs: map[string]bool{"b1": true},
	}
	wallet := &fakeWallet{}
	notif := &fakeNotifier{}
	svc := &Service{Log: zap.NewNop(), Bets: bets, Wallet: wallet, Notif: notif}

	svc.SettleGame(context.Background(), finishedGame(1, 1))

	// b1 falhou, mas b2 ainda é liquidada e creditada
	require.Len(t, bets.calls, 1)
	assert.Equal(t, "b2", bets.calls[0].betID)
	assert.Equal(t, 12.0, wallet.credits[2])
	require.Len(t, notif.events, 1)
	assert.Equal(t, "b2", notif.events[0].BetID)
}

func TestSettleGameFetchFailureStopsQuietly(t *testing.T) {
	bets := &fakeBetStore{fetchErr: errors.New("store down")}
	svc := &Service{Log: zap.NewNop(), Bets: bets, Wallet: &fakeWallet{}}

	svc.SettleGame(context.Background(), finishedGame(2, 1))

	assert.Empty(t, bets.calls)
}

func TestSettleGameWithoutLiveStateIsNoop(t *testing.T) {
	bets := &fakeBetStore{pending: []store.Bet{{ID: "b1"}}}
	svc := &Service{Log: zap.NewNop(), Bets: bets, Wallet: &fakeWallet{}}

	svc.SettleGame(context.Background(), sim.Game{ID: "g1"})

	assert.Empty(t, bets.calls)
	assert.Equal(t, store.BetFilter{}, bets.gotFilter)
}
