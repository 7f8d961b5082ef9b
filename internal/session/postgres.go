package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ent0n29/samvad/internal/dialogue"
)

// PostgresStore keeps each session as a JSONB document so several service
// replicas can share calls.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ivr_sessions (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			doc JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ivr_sessions_updated ON ivr_sessions (updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (p *PostgresStore) Create(ctx context.Context, s *dialogue.Session) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO ivr_sessions (id, state, doc, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, string(s.State), doc, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*dialogue.Session, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM ivr_sessions WHERE id=$1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s dialogue.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (p *PostgresStore) Put(ctx context.Context, s *dialogue.Session) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE ivr_sessions SET state=$2, doc=$3, updated_at=$4 WHERE id=$1`,
		s.ID, string(s.State), doc, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM ivr_sessions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) ExpireIdle(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := p.pool.Query(ctx, `DELETE FROM ivr_sessions WHERE updated_at < $1 RETURNING id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("expire sessions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("expire sessions: %w", err)
	}
	return ids, nil
}

func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM ivr_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// Ping reports whether the database is reachable.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
