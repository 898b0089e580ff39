package repository

import (
	"context"
	"fmt"

	"stars_raffle_bot/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sqlx.DB
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func New(cfg Config) (*Repository, error) {
	url := cfg.GetDatabaseURL()
	db, err := sqlx.Connect("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	logger.Logger().Info("Connected to database successfully")

	return r, nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id     BIGINT PRIMARY KEY,
	username    TEXT,
	plan_key    TEXT,
	stars_paid  BIGINT NOT NULL DEFAULT 0 CHECK (stars_paid >= 0),
	tickets     BIGINT NOT NULL DEFAULT 0 CHECK (tickets >= 0),
	wish        TEXT,
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS referrals (
	id          BIGSERIAL PRIMARY KEY,
	inviter_id  BIGINT NOT NULL REFERENCES users (user_id),
	invited_id  BIGINT NOT NULL UNIQUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS referrals_inviter_id_idx ON referrals (inviter_id);

CREATE TABLE IF NOT EXISTS draws (
	id            UUID PRIMARY KEY,
	winner_id     BIGINT NOT NULL REFERENCES users (user_id),
	total_tickets BIGINT NOT NULL,
	participants  INT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (r *Repository) initSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}
