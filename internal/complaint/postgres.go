package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresStore keeps complaints in a shared PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := initPostgresSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func initPostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS complaints (
			complaint_id TEXT PRIMARY KEY,
			category TEXT NOT NULL,
			sub_category TEXT NOT NULL DEFAULT '',
			sub_category_code TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			landmark TEXT NOT NULL DEFAULT '',
			ward TEXT NOT NULL DEFAULT '',
			zone TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			priority TEXT NOT NULL DEFAULT 'normal',
			status TEXT NOT NULL DEFAULT 'pending',
			source TEXT NOT NULL DEFAULT 'ivr',
			session_id TEXT NOT NULL DEFAULT '',
			assigned_to TEXT NOT NULL DEFAULT '',
			resolution_notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_category ON complaints (category, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, r Record) error {
	r = normalize(r, p.now())
	_, err := p.pool.Exec(ctx,
		`INSERT INTO complaints (`+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		r.ComplaintID, r.Category, r.SubCategory, r.SubCategoryCode, r.Description,
		r.Area, r.Landmark, r.Ward, r.Zone, r.Phone, r.Language, r.Priority, string(r.Status), r.Source, r.SessionID,
		r.AssignedTo, r.ResolutionNotes, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("save complaint: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM complaints WHERE complaint_id=$1`, id)
	r, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get complaint: %w", err)
	}
	return r, nil
}

func (p *PostgresStore) List(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if f.Zone != "" {
		args = append(args, f.Zone)
		where = append(where, fmt.Sprintf("lower(zone) = lower($%d)", len(args)))
	}
	query := `SELECT ` + recordColumns + ` FROM complaints`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.limit())
	query += fmt.Sprintf(" ORDER BY created_at DESC, complaint_id DESC LIMIT $%d", len(args))

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status, notes string) (Record, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Record{}, err
	}
	row := p.pool.QueryRow(ctx,
		`UPDATE complaints SET status=$2,
			resolution_notes = CASE WHEN $3 = '' THEN resolution_notes ELSE $3 END,
			updated_at=$4
		 WHERE complaint_id=$1
		 RETURNING `+recordColumns,
		id, string(status), notes, p.now().UTC(),
	)
	r, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("update complaint status: %w", err)
	}
	return r, nil
}

func (p *PostgresStore) Assign(ctx context.Context, id, assignee string) (Record, error) {
	row := p.pool.QueryRow(ctx,
		`UPDATE complaints SET assigned_to=$2, status=$3, updated_at=$4
		 WHERE complaint_id=$1
		 RETURNING `+recordColumns,
		id, assignee, string(StatusInProgress), p.now().UTC(),
	)
	r, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("assign complaint: %w", err)
	}
	return r, nil
}

func (p *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	st := newStats()
	rows, err := p.pool.Query(ctx, `SELECT status, category, zone, COUNT(*) FROM complaints GROUP BY status, category, zone`)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status, category, zone string
		var n int
		if err := rows.Scan(&status, &category, &zone, &n); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		st.Total += n
		st.ByStatus[status] += n
		st.ByCategory[category] += n
		st.ByZone[zone] += n
	}
	return st, rows.Err()
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func scanPostgres(row rowScanner) (Record, error) {
	var (
		r      Record
		status string
	)
	err := row.Scan(&r.ComplaintID, &r.Category, &r.SubCategory, &r.SubCategoryCode, &r.Description,
		&r.Area, &r.Landmark, &r.Ward, &r.Zone, &r.Phone, &r.Language, &r.Priority, &status, &r.Source, &r.SessionID,
		&r.AssignedTo, &r.ResolutionNotes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	r.Status = Status(status)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}
