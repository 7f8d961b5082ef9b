package complaint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ent0n29/samvad/internal/reliability"
)

// NewStore opens the complaint store named by dsn:
//
//	""                         in-memory
//	"sqlite:<path>"            SQLite file (or "sqlite::memory:")
//	"postgres://..."           PostgreSQL
//
// Connecting is attempted up to attempts times so the service can start
// alongside its database.
func NewStore(ctx context.Context, dsn string, attempts int) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	var open func(context.Context) (Store, error)
	switch {
	case dsn == "" || dsn == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(dsn, "sqlite:")
		if path == "" {
			return nil, fmt.Errorf("complaint: sqlite dsn %q has no path", dsn)
		}
		open = func(ctx context.Context) (Store, error) { return NewSQLiteStore(ctx, path) }
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		open = func(ctx context.Context) (Store, error) { return NewPostgresStore(ctx, dsn) }
	default:
		return nil, fmt.Errorf("complaint: unsupported store dsn %q", dsn)
	}

	var store Store
	err := reliability.Retry(ctx, attempts, 200*time.Millisecond, 3*time.Second, func(ctx context.Context) error {
		s, err := open(ctx)
		if err != nil {
			return err
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
