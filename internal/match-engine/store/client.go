package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client acessa o store de persistência (API REST mock) por HTTP.
// Toda chamada é fire-once: sem retry, erro sobe pro chamador decidir.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Games retorna o catálogo completo de jogos.
func (c *Client) Games(ctx context.Context) ([]Game, error) {
	var out []Game
	if err := c.getJSON(ctx, "/games", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users retorna todos os usuários; usado só pra resolver login por nome/senha.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.getJSON(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBalance persiste o saldo absoluto de um usuário.
func (c *Client) UpdateBalance(ctx context.Context, userID int64, balance float64) error {
	body := map[string]float64{"balance": balance}
	return c.send(ctx, http.MethodPatch, "/users/"+strconv.FormatInt(userID, 10), body, nil)
}

// Bets consulta apostas; filtros não vazios são combinados com AND.
func (c *Client) Bets(ctx context.Context, f BetFilter) ([]Bet, error) {
	q := url.Values{}
	if f.UserID != nil {
		q.Set("userId", strconv.FormatInt(*f.UserID, 10))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.GameID != "" {
		q.Set("gameId", f.GameID)
	}
	path := "/bets"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []Bet
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBet registra uma aposta nova e devolve o id atribuído pelo store.
func (c *Client) CreateBet(ctx context.Context, b Bet) (string, error) {
	var created Bet
	if err := c.send(ctx, http.MethodPost, "/bets", b, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// SettleBet aplica a transição de status de uma aposta (e o ganho real, se houver).
func (c *Client) SettleBet(ctx context.Context, betID, status string, actualWin float64) error {
	body := map[string]any{"status": status}
	if status == BetStatusWon {
		body["actualWin"] = actualWin
	}
	return c.send(ctx, http.MethodPatch, "/bets/"+betID, body, nil)
}

// DeleteBet remove uma aposta; usado apenas pelo reset de histórico.
func (c *Client) DeleteBet(ctx context.Context, betID string) error {
	return c.send(ctx, http.MethodDelete, "/bets/"+betID, nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	return c.send(ctx, http.MethodGet, path, nil, dst)
}

func (c *Client) send(ctx context.Context, method, path string, body any, dst any) error {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("store %s %s: http %d", method, path, res.StatusCode)
	}
	if dst != nil {
		if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
			return fmt.Errorf("store %s %s: decode: %w", method, path, err)
		}
	}
	return nil
}
