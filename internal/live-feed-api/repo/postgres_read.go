package repo

import (
	"context"
	"database/sql"

	"github.com/radieske/live-bet-sim-poc/internal/live-feed-api/dto"
	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

type ReadRepo struct {
	DB *sql.DB
}

func (r *ReadRepo) ListLive(ctx context.Context) ([]dto.GameSummary, error) {
	const q = `
		SELECT game_id, sport, home_team, away_team, minute, home_score, away_score, status
		FROM live_current
		ORDER BY game_id;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.GameSummary
	for rows.Next() {
		var g dto.GameSummary
		if err := rows.Scan(&g.GameID, &g.Sport, &g.HomeTeam, &g.AwayTeam,
			&g.Minute, &g.HomeScore, &g.AwayScore, &g.Status); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetCurrent reconstrói o último tick de uma partida a partir da linha corrente
// Retorna sql.ErrNoRows quando a partida não está (mais) no painel ao vivo
func (r *ReadRepo) GetCurrent(ctx context.Context, gameID string) (events.LiveUpdate, error) {
	const q = `
		SELECT game_id, sport, home_team, away_team, minute, home_score, away_score,
		       status, home_odd, draw_odd, away_odd, last_event, version, updated_at
		FROM live_current
		WHERE game_id = $1;
	`
	var (
		e         events.LiveUpdate
		lastEvent sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, q, gameID).Scan(
		&e.GameID, &e.Sport, &e.HomeTeam, &e.AwayTeam,
		&e.Minute, &e.HomeScore, &e.AwayScore, &e.Status,
		&e.Odds.Home, &e.Odds.Draw, &e.Odds.Away,
		&lastEvent, &e.Version, &e.UpdatedAt,
	)
	if err != nil {
		return e, err
	}
	if lastEvent.Valid {
		e.LastEvent = &events.MatchEvent{Minute: e.Minute, Description: lastEvent.String}
	}
	return e, nil
}

func (r *ReadRepo) ListHistory(ctx context.Context, gameID string) ([]dto.HistoryEntry, error) {
	const q = `
		SELECT minute, home_score, away_score, status, home_odd, draw_odd, away_odd,
		       last_event, version, to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SSZ')
		FROM live_history
		WHERE game_id = $1
		ORDER BY version;
	`
	rows, err := r.DB.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.HistoryEntry
	for rows.Next() {
		var h dto.HistoryEntry
		if err := rows.Scan(&h.Minute, &h.HomeScore, &h.AwayScore, &h.Status,
			&h.HomeOdd, &h.DrawOdd, &h.AwayOdd, &h.LastEvent, &h.Version, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
