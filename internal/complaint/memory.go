package complaint

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps complaints in process. Records are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[r.ComplaintID]; exists {
		return ErrDuplicate
	}
	m.records[r.ComplaintID] = normalize(r, m.now())
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryStore) List(_ context.Context, f Filter) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if f.match(r) {
			out = append(out, r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ComplaintID > out[j].ComplaintID
	})
	if len(out) > f.limit() {
		out = out[:f.limit()]
	}
	return out, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status Status, notes string) (Record, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return Record{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	r.Status = status
	if notes != "" {
		r.ResolutionNotes = notes
	}
	r.UpdatedAt = m.now().UTC()
	m.records[id] = r
	return r, nil
}

func (m *MemoryStore) Assign(_ context.Context, id, assignee string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	r.AssignedTo = assignee
	r.Status = StatusInProgress
	r.UpdatedAt = m.now().UTC()
	m.records[id] = r
	return r, nil
}

func (m *MemoryStore) Stats(context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := newStats()
	for _, r := range m.records {
		s.Total++
		s.ByStatus[string(r.Status)]++
		s.ByCategory[r.Category]++
		s.ByZone[r.Zone]++
	}
	return s, nil
}

func (m *MemoryStore) Close() error { return nil }
