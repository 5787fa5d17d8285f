package form

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tbxark/planagent/cache"
	"github.com/tbxark/planagent/template"
)

// Store owns the ResponseMap for one session. Every mutation goes
// through Set, which writes the whole map back to the local cache, so
// the write-through and fail-open invariants live in one place.
type Store struct {
	mu       sync.RWMutex
	template *template.Template
	values   Values
	cache    cache.Store[Values]
}

func NewStore(tpl *template.Template, c cache.Store[Values]) *Store {
	return &Store{
		template: tpl,
		values:   Values{},
		cache:    c,
	}
}

// Set replaces or inserts the answer for a field and persists the map.
// Keys are restricted to the template's field ids.
func (s *Store) Set(ctx context.Context, fieldID string, value any) error {
	if !s.template.HasField(fieldID) {
		return fmt.Errorf("field %q is not part of template %q", fieldID, s.template.EventType)
	}
	s.mu.Lock()
	s.values[fieldID] = value
	snapshot := s.values.Clone()
	s.mu.Unlock()
	if err := s.cache.Set(ctx, snapshot); err != nil {
		return fmt.Errorf("persist responses: %w", err)
	}
	return nil
}

func (s *Store) String(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.String(id)
}

func (s *Store) Number(id string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Number(id)
}

func (s *Store) Bool(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Bool(id)
}

func (s *Store) StringSet(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.StringSet(id)
}

func (s *Store) DateRange(id string) DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.DateRange(id)
}

// Snapshot returns a copy of the current ResponseMap.
func (s *Store) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// ReplaceAll swaps in a whole ResponseMap (loading a saved record),
// dropping keys the template does not know, and persists it.
func (s *Store) ReplaceAll(ctx context.Context, values Values) error {
	next := Values{}
	for id, val := range values {
		if s.template.HasField(id) {
			next[id] = val
		}
	}
	s.mu.Lock()
	s.values = next
	snapshot := next.Clone()
	s.mu.Unlock()
	if err := s.cache.Set(ctx, snapshot); err != nil {
		return fmt.Errorf("persist responses: %w", err)
	}
	return nil
}

// Restore loads the cached map at session start. Missing or corrupted
// cache data leaves the store empty; it never aborts the session.
func (s *Store) Restore(ctx context.Context) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		slog.Warn("restore responses failed, starting empty", "template", s.template.EventType, "error", err)
		return
	}
	if !ok {
		return
	}
	restored := Values{}
	for id, val := range cached {
		if s.template.HasField(id) {
			restored[id] = val
		}
	}
	s.mu.Lock()
	s.values = restored
	s.mu.Unlock()
}

// Reset drops all answers and the cached copy.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.values = Values{}
	s.mu.Unlock()
	return s.cache.Del(ctx)
}
