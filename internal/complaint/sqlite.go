package complaint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Fixed-width UTC timestamps sort lexically.
const sqliteTime = "2006-01-02 15:04:05.000000000"

const recordColumns = `complaint_id, category, sub_category, sub_category_code, description,
	area, landmark, ward, zone, phone, language, priority, status, source, session_id,
	assigned_to, resolution_notes, created_at, updated_at`

// SQLiteStore keeps complaints in a single SQLite file, the default for a
// single-node deployment.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (and creates) the database at path. ":memory:" gives
// a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := initSQLiteSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func initSQLiteSchema(ctx context.Context, db *sql.DB) error {
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
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints (status, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_complaints_category ON complaints (category, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, r Record) error {
	r = normalize(r, s.now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO complaints (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ComplaintID, r.Category, r.SubCategory, r.SubCategoryCode, r.Description,
		r.Area, r.Landmark, r.Ward, r.Zone, r.Phone, r.Language, r.Priority, string(r.Status), r.Source, r.SessionID,
		r.AssignedTo, r.ResolutionNotes, r.CreatedAt.Format(sqliteTime), r.UpdatedAt.Format(sqliteTime),
	)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && isConstraint(se.Code()) {
			return ErrDuplicate
		}
		return fmt.Errorf("save complaint: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM complaints WHERE complaint_id = ?`, id)
	r, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get complaint: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Category != "" {
		where = append(where, "category = ? COLLATE NOCASE")
		args = append(args, f.Category)
	}
	if f.Zone != "" {
		where = append(where, "zone = ? COLLATE NOCASE")
		args = append(args, f.Zone)
	}
	query := `SELECT ` + recordColumns + ` FROM complaints`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, complaint_id DESC LIMIT ?"
	args = append(args, f.limit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status Status, notes string) (Record, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Record{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE complaints SET status = ?,
			resolution_notes = CASE WHEN ? = '' THEN resolution_notes ELSE ? END,
			updated_at = ?
		 WHERE complaint_id = ?`,
		string(status), notes, notes, s.now().UTC().Format(sqliteTime), id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("update complaint status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Record{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Assign(ctx context.Context, id, assignee string) (Record, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE complaints SET assigned_to = ?, status = ?, updated_at = ? WHERE complaint_id = ?`,
		assignee, string(StatusInProgress), s.now().UTC().Format(sqliteTime), id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("assign complaint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Record{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	st := newStats()
	groups := []struct {
		column string
		into   map[string]int
	}{
		{"status", st.ByStatus},
		{"category", st.ByCategory},
		{"zone", st.ByZone},
	}
	for _, g := range groups {
		rows, err := s.db.QueryContext(ctx, `SELECT `+g.column+`, COUNT(*) FROM complaints GROUP BY `+g.column)
		if err != nil {
			return Stats{}, fmt.Errorf("stats by %s: %w", g.column, err)
		}
		for rows.Next() {
			var key string
			var n int
			if err := rows.Scan(&key, &n); err != nil {
				rows.Close()
				return Stats{}, fmt.Errorf("scan stats: %w", err)
			}
			g.into[key] = n
			if g.column == "status" {
				st.Total += n
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return Stats{}, err
		}
		rows.Close()
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (Record, error) {
	var (
		r                Record
		status           string
		created, updated string
	)
	err := row.Scan(&r.ComplaintID, &r.Category, &r.SubCategory, &r.SubCategoryCode, &r.Description,
		&r.Area, &r.Landmark, &r.Ward, &r.Zone, &r.Phone, &r.Language, &r.Priority, &status, &r.Source, &r.SessionID,
		&r.AssignedTo, &r.ResolutionNotes, &created, &updated)
	if err != nil {
		return Record{}, err
	}
	r.Status = Status(status)
	if r.CreatedAt, err = time.Parse(sqliteTime, created); err != nil {
		return Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	if r.UpdatedAt, err = time.Parse(sqliteTime, updated); err != nil {
		return Record{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return r, nil
}

// isConstraint matches both primary and extended constraint result codes.
func isConstraint(code int) bool {
	return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code&0xff == sqlite3.SQLITE_CONSTRAINT
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
