package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/dialogue"
	"github.com/ent0n29/samvad/internal/observability"
	"github.com/ent0n29/samvad/internal/policy"
)

// Recorder persists a session that has just reached the complete state.
type Recorder interface {
	Record(ctx context.Context, s *dialogue.Session) error
}

// Option configures a Manager.
type Option func(*Manager)

func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithInactivityTimeout sets how long a session may stay idle before the
// janitor evicts it.
func WithInactivityTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.inactivityTimeout = d
		}
	}
}

// Manager owns the session lifecycle: it loads a session, runs the dialogue
// engine on it and stores it back, holding a per-session lock for the whole
// round trip. Independent sessions proceed in parallel.
type Manager struct {
	store             Store
	engine            *dialogue.Engine
	recorder          Recorder
	metrics           *observability.Metrics
	logger            *zap.Logger
	locks             *keyedMutex
	inactivityTimeout time.Duration
	now               func() time.Time
}

func NewManager(store Store, engine *dialogue.Engine, opts ...Option) *Manager {
	m := &Manager{
		store:             store,
		engine:            engine,
		logger:            zap.NewNop(),
		locks:             newKeyedMutex(),
		inactivityTimeout: 10 * time.Minute,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) InactivityTimeout() time.Duration { return m.inactivityTimeout }

// Start creates a new session in the greeting state.
func (m *Manager) Start(ctx context.Context) (*dialogue.Session, error) {
	s := m.engine.NewSession(uuid.NewString())
	if err := m.store.Create(ctx, s); err != nil {
		m.metrics.StoreError("session", "create")
		return nil, fmt.Errorf("create session: %w", err)
	}
	m.metrics.SessionEvent("created")
	m.refreshActive(ctx)
	m.logger.Info("session started", zap.String("session_id", s.ID))
	return s, nil
}

// Submit processes one utterance for an existing session.
func (m *Manager) Submit(ctx context.Context, id, utterance string) (dialogue.Response, error) {
	release := m.locks.Lock(id)
	defer release()

	started := time.Now()
	s, err := m.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.metrics.StoreError("session", "get")
		}
		return dialogue.Response{}, err
	}
	m.metrics.ObserveStage(observability.StageStoreGet, time.Since(started))

	from := s.State
	processStart := time.Now()
	resp := m.engine.Process(utterance, s)
	m.metrics.ObserveStage(observability.StageProcess, time.Since(processStart))

	putStart := time.Now()
	if err := m.store.Put(ctx, s); err != nil {
		if errors.Is(err, ErrNotFound) {
			m.metrics.SessionEvent("expired_mid_turn")
			m.logger.Warn("session expired during turn", zap.String("session_id", id))
			return dialogue.Response{}, fmt.Errorf("store session %s: %w", id, ErrExpired)
		}
		m.metrics.StoreError("session", "put")
		return dialogue.Response{}, fmt.Errorf("store session %s: %w", id, err)
	}
	m.metrics.ObserveStage(observability.StageStorePut, time.Since(putStart))

	if from != dialogue.StateComplete && s.State == dialogue.StateComplete {
		m.record(ctx, s)
	}

	m.metrics.ObserveTurn(string(from), string(s.State), time.Since(started))
	m.observeIndicators(from, s.State)
	m.logger.Debug("turn processed",
		zap.String("session_id", id),
		zap.String("state", string(from)),
		zap.String("next_state", string(s.State)),
		zap.String("language", string(s.Language)),
		zap.String("utterance", policy.Redact(utterance)),
	)
	return resp, nil
}

// Process submits to id, starting a fresh session first when id is empty or
// no longer known.
func (m *Manager) Process(ctx context.Context, id, utterance string) (dialogue.Response, error) {
	if strings.TrimSpace(id) != "" {
		resp, err := m.Submit(ctx, id, utterance)
		if !errors.Is(err, ErrNotFound) {
			return resp, err
		}
	}
	s, err := m.Start(ctx)
	if err != nil {
		return dialogue.Response{}, err
	}
	return m.Submit(ctx, s.ID, utterance)
}

// Get returns a snapshot of the session.
func (m *Manager) Get(ctx context.Context, id string) (*dialogue.Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		m.metrics.StoreError("session", "get")
	}
	return s, err
}

// End deletes the session.
func (m *Manager) End(ctx context.Context, id string) error {
	release := m.locks.Lock(id)
	defer release()

	if err := m.store.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.metrics.StoreError("session", "delete")
		}
		return err
	}
	m.metrics.SessionEvent("ended")
	m.refreshActive(ctx)
	m.logger.Info("session ended", zap.String("session_id", id))
	return nil
}

// ActiveCount returns the number of stored sessions, 0 on store errors.
func (m *Manager) ActiveCount(ctx context.Context) int {
	n, err := m.store.Count(ctx)
	if err != nil {
		m.metrics.StoreError("session", "count")
		return 0
	}
	return n
}

// StartJanitor evicts idle sessions every interval until ctx is done. The
// returned channel is closed once the janitor goroutine has exited.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive(ctx)
			}
		}
	}()
	return done
}

func (m *Manager) expireInactive(ctx context.Context) {
	cutoff := m.now().UTC().Add(-m.inactivityTimeout)
	ids, err := m.store.ExpireIdle(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			m.metrics.StoreError("session", "expire")
			m.logger.Warn("expire idle sessions failed", zap.Error(err))
		}
		return
	}
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		m.metrics.SessionEvent("expired")
		m.logger.Info("session expired", zap.String("session_id", id))
	}
	m.refreshActive(ctx)
}

func (m *Manager) record(ctx context.Context, s *dialogue.Session) {
	m.metrics.ComplaintRegistered(string(s.Data.Category))
	m.logger.Info("complaint registered",
		zap.String("session_id", s.ID),
		zap.String("complaint_id", s.Data.ComplaintID),
		zap.String("category", string(s.Data.Category)),
	)
	if m.recorder == nil {
		return
	}
	started := time.Now()
	if err := m.recorder.Record(ctx, s); err != nil {
		m.metrics.StoreError("complaint", "save")
		m.metrics.Indicator("record_failed")
		m.logger.Error("persist complaint failed",
			zap.String("session_id", s.ID),
			zap.String("complaint_id", s.Data.ComplaintID),
			zap.Error(err),
		)
		return
	}
	m.metrics.ObserveStage(observability.StageRecord, time.Since(started))
}

func (m *Manager) observeIndicators(from, to dialogue.State) {
	switch {
	case from == dialogue.StateAskPhone && to == dialogue.StateAskPhone:
		m.metrics.Indicator("phone_retry")
	case from == dialogue.StateConfirm && to == dialogue.StateConfirm:
		m.metrics.Indicator("confirm_unclear")
	case from == dialogue.StateConfirm && to == dialogue.StateAskIssue:
		m.metrics.Indicator("cancelled")
	}
}

func (m *Manager) refreshActive(ctx context.Context) {
	if m.metrics == nil {
		return
	}
	m.metrics.SetActiveSessions(m.ActiveCount(ctx))
}
