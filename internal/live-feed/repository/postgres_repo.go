package repository

import (
	"context"
	"database/sql"

	"github.com/radieske/live-bet-sim-poc/pkg/contracts/events"
)

// PostgresRepo persiste o estado ao vivo corrente e o histórico de ticks
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// lastEventText achata o último lance para uma coluna de texto (nullable)
func lastEventText(e *events.MatchEvent) sql.NullString {
	if e == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: e.Description, Valid: true}
}

// UpsertCurrent insere ou atualiza o estado corrente de um jogo na tabela live_current
// Utiliza ON CONFLICT para garantir atomicidade e evitar duplicidade por game_id
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, e events.LiveUpdate) error {
	const q = `
		INSERT INTO live_current
		  (game_id, sport, home_team, away_team, minute, home_score, away_score,
		   status, home_odd, draw_odd, away_odd, last_event, version, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (game_id) DO UPDATE SET
		  sport      = EXCLUDED.sport,
		  home_team  = EXCLUDED.home_team,
		  away_team  = EXCLUDED.away_team,
		  minute     = EXCLUDED.minute,
		  home_score = EXCLUDED.home_score,
		  away_score = EXCLUDED.away_score,
		  status     = EXCLUDED.status,
		  home_odd   = EXCLUDED.home_odd,
		  draw_odd   = EXCLUDED.draw_odd,
		  away_odd   = EXCLUDED.away_odd,
		  last_event = EXCLUDED.last_event,
		  version    = EXCLUDED.version,
		  updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.GameID, e.Sport, e.HomeTeam, e.AwayTeam,
		e.Minute, e.HomeScore, e.AwayScore, e.Status,
		e.Odds.Home, e.Odds.Draw, e.Odds.Away,
		lastEventText(e.LastEvent), e.Version, e.UpdatedAt,
	)
	return err
}

// InsertHistory insere um tick no histórico de estados (live_history)
func (r *PostgresRepo) InsertHistory(ctx context.Context, e events.LiveUpdate) error {
	const q = `
		INSERT INTO live_history
		  (game_id, minute, home_score, away_score, status,
		   home_odd, draw_odd, away_odd, last_event, version, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.DB.ExecContext(ctx, q,
		e.GameID, e.Minute, e.HomeScore, e.AwayScore, e.Status,
		e.Odds.Home, e.Odds.Draw, e.Odds.Away,
		lastEventText(e.LastEvent), e.Version, e.UpdatedAt,
	)
	return err
}
