package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/radieske/live-bet-sim-poc/internal/store-service/dto"
)

var ErrNotFound = errors.New("not found")

// Postgres implementa a persistência do store mock: catálogo de jogos,
// usuários e apostas.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// ListGames retorna o catálogo completo, na ordem de criação.
func (p *Postgres) ListGames(ctx context.Context) ([]dto.Game, error) {
	const q = `
		SELECT id, sport_key, sport_title, home_team, away_team, commence_time,
		       home_odd, draw_odd, away_odd
		FROM games
		ORDER BY created_at, id
	`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.Game
	for rows.Next() {
		var g dto.Game
		var draw sql.NullFloat64
		if err := rows.Scan(&g.ID, &g.SportKey, &g.SportTitle, &g.HomeTeam, &g.AwayTeam,
			&g.CommenceTime, &g.Odds.Home, &draw, &g.Odds.Away); err != nil {
			return nil, err
		}
		if draw.Valid {
			d := draw.Float64
			g.Odds.Draw = &d
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListUsers retorna todos os usuários (resolução de login no cliente).
func (p *Postgres) ListUsers(ctx context.Context) ([]dto.User, error) {
	const q = `SELECT id, username, password, balance FROM users ORDER BY id`
	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.User
	for rows.Next() {
		var u dto.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Balance); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateUserBalance grava o saldo absoluto de um usuário.
func (p *Postgres) UpdateUserBalance(ctx context.Context, userID int64, balance float64) error {
	res, err := p.db.ExecContext(ctx, `UPDATE users SET balance=$1 WHERE id=$2`, balance, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// QueryBets devolve as apostas que casam com todos os filtros informados.
func (p *Postgres) QueryBets(ctx context.Context, f dto.BetFilter) ([]dto.Bet, error) {
	q := `
		SELECT id, user_id, game_id, game_details, bet_type, stake, odd_value,
		       potential_win, COALESCE(actual_win, 0), created_at, is_live_bet, status
		FROM bets
	`
	var conds []string
	var args []any
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, "user_id=$"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, "status=$"+strconv.Itoa(len(args)))
	}
	if f.GameID != "" {
		args = append(args, f.GameID)
		conds = append(conds, "game_id=$"+strconv.Itoa(len(args)))
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY created_at DESC"

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dto.Bet
	for rows.Next() {
		var b dto.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.GameID, &b.GameDetails, &b.BetType,
			&b.Stake, &b.Odds, &b.PotentialWin, &b.ActualWin, &b.Timestamp, &b.IsLiveBet, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateBet insere a aposta com id novo e devolve o registro criado.
func (p *Postgres) CreateBet(ctx context.Context, b dto.Bet) (dto.Bet, error) {
	b.ID = uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, game_id, game_details, bet_type, stake,
		                  odd_value, potential_win, is_live_bet, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.UserID, b.GameID, b.GameDetails, b.BetType, b.Stake,
		b.Odds, b.PotentialWin, b.IsLiveBet, b.Status, b.Timestamp,
	)
	if err != nil {
		return dto.Bet{}, fmt.Errorf("insert bet: %w", err)
	}
	return b, nil
}

// UpdateBet aplica a transição de status (e o ganho real, quando houver).
func (p *Postgres) UpdateBet(ctx context.Context, betID string, status string, actualWin *float64) error {
	var res sql.Result
	var err error
	if actualWin != nil {
		res, err = p.db.ExecContext(ctx,
			`UPDATE bets SET status=$1, actual_win=$2, updated_at=NOW() WHERE id=$3`,
			status, *actualWin, betID)
	} else {
		res, err = p.db.ExecContext(ctx,
			`UPDATE bets SET status=$1, updated_at=NOW() WHERE id=$2`,
			status, betID)
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteBet remove uma aposta (só o reset de histórico usa isso).
func (p *Postgres) DeleteBet(ctx context.Context, betID string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM bets WHERE id=$1`, betID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
