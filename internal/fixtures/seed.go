package fixtures

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/live-bet-sim-poc/internal/store-service/dto"
)

// schema cria as tabelas usadas pelo store-service e pelo live-feed.
// idempotente, pode rodar em cima de um banco já populado
const schema = `
CREATE TABLE IF NOT EXISTS games (
	id            TEXT PRIMARY KEY,
	sport_key     TEXT NOT NULL,
	sport_title   TEXT NOT NULL,
	home_team     TEXT NOT NULL,
	away_team     TEXT NOT NULL,
	commence_time TIMESTAMPTZ NOT NULL,
	home_odd      DOUBLE PRECISION NOT NULL,
	draw_odd      DOUBLE PRECISION,
	away_odd      DOUBLE PRECISION NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
	id       BIGINT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	balance  DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS bets (
	id            TEXT PRIMARY KEY,
	user_id       BIGINT NOT NULL REFERENCES users(id),
	game_id       TEXT NOT NULL,
	game_details  TEXT NOT NULL,
	bet_type      TEXT NOT NULL,
	stake         DOUBLE PRECISION NOT NULL,
	odd_value     DOUBLE PRECISION NOT NULL,
	potential_win DOUBLE PRECISION NOT NULL,
	actual_win    DOUBLE PRECISION,
	is_live_bet   BOOLEAN NOT NULL DEFAULT FALSE,
	status        TEXT NOT NULL DEFAULT 'pending',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS live_current (
	game_id    TEXT PRIMARY KEY,
	sport      TEXT NOT NULL,
	home_team  TEXT NOT NULL,
	away_team  TEXT NOT NULL,
	minute     INT NOT NULL,
	home_score INT NOT NULL,
	away_score INT NOT NULL,
	status     TEXT NOT NULL,
	home_odd   DOUBLE PRECISION NOT NULL,
	draw_odd   DOUBLE PRECISION,
	away_odd   DOUBLE PRECISION NOT NULL,
	last_event TEXT,
	version    BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS live_history (
	id         BIGSERIAL PRIMARY KEY,
	game_id    TEXT NOT NULL,
	minute     INT NOT NULL,
	home_score INT NOT NULL,
	away_score INT NOT NULL,
	status     TEXT NOT NULL,
	home_odd   DOUBLE PRECISION NOT NULL,
	draw_odd   DOUBLE PRECISION,
	away_odd   DOUBLE PRECISION NOT NULL,
	last_event TEXT,
	version    BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_live_history_game ON live_history (game_id, version);
CREATE INDEX IF NOT EXISTS idx_bets_user ON bets (user_id);
`

// EnsureSchema cria as tabelas do banco de demonstração, se não existirem
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Seed substitui o catálogo de jogos e garante os usuários de demonstração.
// Apostas e estado ao vivo anteriores são descartados junto com o catálogo,
// já que referenciam jogos que deixam de existir
func Seed(ctx context.Context, db *sql.DB, games []dto.Game, users []dto.User) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, t := range []string{"bets", "live_history", "live_current", "games"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	const insGame = `
		INSERT INTO games
		  (id, sport_key, sport_title, home_team, away_team, commence_time, home_odd, draw_odd, away_odd)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	for _, g := range games {
		if _, err := tx.ExecContext(ctx, insGame,
			g.ID, g.SportKey, g.SportTitle, g.HomeTeam, g.AwayTeam,
			g.CommenceTime, g.Odds.Home, g.Odds.Draw, g.Odds.Away); err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}

	const insUser = `
		INSERT INTO users (id, username, password, balance)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO NOTHING
	`
	for _, u := range users {
		if _, err := tx.ExecContext(ctx, insUser, u.ID, u.Username, u.Password, u.Balance); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Username, err)
		}
	}

	return tx.Commit()
}
