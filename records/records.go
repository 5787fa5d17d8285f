package records

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tbxark/planagent/form"
	"github.com/tbxark/planagent/schedule"
)

var ErrNotFound = errors.New("records: not found")

// Record is one saved plan: the inputs that produced it plus the
// generated schedule, scoped to a user.
type Record struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	EventType string            `json:"event_type"`
	Responses form.Values       `json:"responses"`
	Schedule  schedule.Schedule `json:"schedule"`
	CreatedAt time.Time         `json:"created_at"`
}

// Store is the persisted-record CRUD boundary. Implementations assign
// ID and CreatedAt on first save when they are empty.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, userID, id string) (*Record, error)
	// List returns the user's records, newest first.
	List(ctx context.Context, userID string) ([]*Record, error)
	Delete(ctx context.Context, userID, id string) error
}

func fillDefaults(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func sortNewestFirst(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}

type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]map[string]*Record{}}
}

func (m *MemoryStore) Save(ctx context.Context, rec *Record) error {
	fillDefaults(rec)
	cp := *rec
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.users[rec.UserID]
	if !ok {
		byID = map[string]*Record{}
		m.users[rec.UserID] = byID
	}
	byID[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, userID, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.users[userID][id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) List(ctx context.Context, userID string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Record, 0, len(m.users[userID]))
	for _, rec := range m.users[userID] {
		cp := *rec
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID][id]; !ok {
		return ErrNotFound
	}
	delete(m.users[userID], id)
	return nil
}
