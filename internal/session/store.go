package session

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ent0n29/samvad/internal/dialogue"
)

var ErrNotFound = errors.New("session not found")

// ErrExpired means the session was evicted while a turn was being processed.
// It is distinct from ErrNotFound so callers do not restart the call.
var ErrExpired = errors.New("session expired during turn")

// Store is the keyed session backing store. Implementations must return
// copies: callers mutate what Get returns and hand it back through Put.
type Store interface {
	Create(ctx context.Context, s *dialogue.Session) error
	Get(ctx context.Context, id string) (*dialogue.Session, error)
	Put(ctx context.Context, s *dialogue.Session) error
	Delete(ctx context.Context, id string) error
	// ExpireIdle deletes sessions not updated since cutoff and returns their ids.
	ExpireIdle(ctx context.Context, cutoff time.Time) ([]string, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// NewStore creates a postgres-backed store when kind is "postgres",
// otherwise in-memory.
func NewStore(ctx context.Context, kind, databaseURL string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewPostgresStore(ctx, databaseURL)
	default:
		return nil, errors.New("session: unknown store kind " + kind)
	}
}

// MemoryStore is an in-process store for local/dev use and single-node
// deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*dialogue.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*dialogue.Session)}
}

func (m *MemoryStore) Create(_ context.Context, s *dialogue.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return errors.New("session: duplicate id " + s.ID)
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*dialogue.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Put(_ context.Context, s *dialogue.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) ExpireIdle(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []string
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	sort.Strings(expired)
	return expired, nil
}

func (m *MemoryStore) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

func (m *MemoryStore) Close() error { return nil }
