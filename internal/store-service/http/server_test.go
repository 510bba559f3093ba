package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/live-bet-sim-poc/internal/store-service/dto"
	"github.com/radieske/live-bet-sim-poc/internal/store-service/repo"
)

type fakeRepo struct {
	games []dto.Game
	users []dto.User
	bets  []dto.Bet

	gotFilter   dto.BetFilter
	balances    map[int64]float64
	patchedBets map[string]string
	deleted     []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		balances:    make(map[int64]float64),
		patchedBets: make(map[string]string),
	}
}

func (f *fakeRepo) ListGames(ctx context.Context) ([]dto.Game, error) { return f.games, nil }
func (f *fakeRepo) ListUsers(ctx context.Context) ([]dto.User, error) { return f.users, nil }

func (f *fakeRepo) UpdateUserBalance(ctx context.Context, userID int64, balance float64) error {
	if userID == 404 {
		return repo.ErrNotFound
	}
	f.balances[userID] = balance
	return nil
}

func (f *fakeRepo) QueryBets(ctx context.Context, filter dto.BetFilter) ([]dto.Bet, error) {
	f.gotFilter = filter
	return f.bets, nil
}

func (f *fakeRepo) CreateBet(ctx context.Context, b dto.Bet) (dto.Bet, error) {
	b.ID = "bet_new"
	return b, nil
}

func (f *fakeRepo) UpdateBet(ctx context.Context, betID, status string, actualWin *float64) error {
	if betID == "missing" {
		return repo.ErrNotFound
	}
	f.patchedBets[betID] = status
	return nil
}

func (f *fakeRepo) DeleteBet(ctx context.Context, betID string) error {
	if betID == "missing" {
		return repo.ErrNotFound
	}
	f.deleted = append(f.deleted, betID)
	return nil
}

func newTestServer(f *fakeRepo) *httptest.Server {
	return httptest.NewServer(NewServer(zap.NewNop(), f).Router())
}

func TestListGamesNeverReturnsNull(t *testing.T) {
	srv := newTestServer(newFakeRepo())
	defer srv.Close()

	res, err := http.Get(srv.URL + "/games")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	var body []dto.Game
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.NotNil(t, body)
	assert.Empty(t, body)
}

func TestPatchUserBalance(t *testing.T) {
	f := newFakeRepo()
	srv := newTestServer(f)
	defer srv.Close()

	res := doPatch(t, srv.URL+"/users/1", `{"balance": 250.5}`)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, 250.5, f.balances[1])

	res = doPatch(t, srv.URL+"/users/1", `{"balance": -10}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = doPatch(t, srv.URL+"/users/1", `{}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = doPatch(t, srv.URL+"/users/404", `{"balance": 1}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = doPatch(t, srv.URL+"/users/abc", `{"balance": 1}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestListBetsParsesFilter(t *testing.T) {
	f := newFakeRepo()
	srv := newTestServer(f)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/bets?userId=7&status=pending&gameId=g1")
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, f.gotFilter.UserID)
	assert.Equal(t, int64(7), *f.gotFilter.UserID)
	assert.Equal(t, "pending", f.gotFilter.Status)
	assert.Equal(t, "g1", f.gotFilter.GameID)

	res, err = http.Get(srv.URL + "/bets?userId=abc")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateBetDefaultsToPending(t *testing.T) {
	srv := newTestServer(newFakeRepo())
	defer srv.Close()

	payload := `{"userId":1,"gameId":"g1","betType":"Home Win","stake":10,"odds":2.5,"potentialWin":25}`
	res, err := http.Post(srv.URL+"/bets", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created dto.Bet
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, "bet_new", created.ID)
	assert.Equal(t, "pending", created.Status)
}

func TestCreateBetRejectsInvalidPayload(t *testing.T) {
	srv := newTestServer(newFakeRepo())
	defer srv.Close()

	for _, payload := range []string{
		`not json`,
		`{"gameId":"g1","betType":"Home Win","stake":10,"odds":2}`, // sem userId
		`{"userId":1,"betType":"Home Win","stake":10,"odds":2}`,    // sem gameId
		`{"userId":1,"gameId":"g1","betType":"Home Win","stake":0,"odds":2}`,
	} {
		res, err := http.Post(srv.URL+"/bets", "application/json", strings.NewReader(payload))
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, payload)
	}
}

func TestPatchBet(t *testing.T) {
	f := newFakeRepo()
	srv := newTestServer(f)
	defer srv.Close()

	res := doPatch(t, srv.URL+"/bets/b1", `{"status":"won","actualWin":42}`)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "won", f.patchedBets["b1"])

	res = doPatch(t, srv.URL+"/bets/b1", `{"status":"refunded"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = doPatch(t, srv.URL+"/bets/missing", `{"status":"lost"}`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestDeleteBet(t *testing.T) {
	f := newFakeRepo()
	srv := newTestServer(f)
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/bets/b9", nil)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, []string{"b9"}, f.deleted)

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/bets/missing", nil)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func doPatch(t *testing.T, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPatch, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	return res
}
