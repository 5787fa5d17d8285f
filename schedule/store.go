package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/tbxark/planagent/cache"
)

// ErrIndexOutOfRange reports a day or activity index outside the
// current schedule. Out-of-range access is a caller bug; callers log
// and drop it rather than crash.
var ErrIndexOutOfRange = errors.New("schedule: activity index out of range")

type operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

func applyPatch(current Schedule, ops []operation) (Schedule, error) {
	currentJSON, err := sonic.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("marshal current schedule: %w", err)
	}
	patchJSON, err := sonic.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("marshal patch operations: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	var result Schedule
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return nil, fmt.Errorf("unmarshal patched schedule: %w", err)
	}
	return result, nil
}

// Store owns the current Schedule. All mutation goes through it and is
// written back to the local cache, so two regenerations finishing in
// either order stay consistent as long as they touch disjoint indices.
// The lock is held across the cache write: snapshots reach the cache in
// mutation order, so the last persisted one is never missing an earlier
// replace.
type Store struct {
	mu    sync.Mutex
	days  Schedule
	cache cache.Store[Schedule]
}

func NewStore(c cache.Store[Schedule]) *Store {
	return &Store{cache: c}
}

// Set replaces the whole schedule (fresh generation or loading a saved
// record) and persists it.
func (s *Store) Set(ctx context.Context, sched Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = sched.Clone()
	if err := s.cache.Set(ctx, s.days.Clone()); err != nil {
		return fmt.Errorf("persist schedule: %w", err)
	}
	return nil
}

func (s *Store) Get() Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days.Clone()
}

// ReplaceActivity swaps one activity in place, leaving every other
// entry untouched, and persists the result.
func (s *Store) ReplaceActivity(ctx context.Context, dayIndex, activityIndex int, act Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dayIndex < 0 || dayIndex >= len(s.days) {
		return ErrIndexOutOfRange
	}
	if activityIndex < 0 || activityIndex >= len(s.days[dayIndex].Activities) {
		return ErrIndexOutOfRange
	}
	ops := []operation{{
		Op:    "replace",
		Path:  fmt.Sprintf("/%d/activities/%d", dayIndex, activityIndex),
		Value: act,
	}}
	patched, err := applyPatch(s.days, ops)
	if err != nil {
		return err
	}
	s.days = patched
	if err := s.cache.Set(ctx, s.days.Clone()); err != nil {
		return fmt.Errorf("persist schedule: %w", err)
	}
	return nil
}

// Activity returns one entry by index, for building regeneration requests.
func (s *Store) Activity(dayIndex, activityIndex int) (dayLabel string, act Activity, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dayIndex < 0 || dayIndex >= len(s.days) {
		return "", Activity{}, ErrIndexOutOfRange
	}
	day := s.days[dayIndex]
	if activityIndex < 0 || activityIndex >= len(day.Activities) {
		return "", Activity{}, ErrIndexOutOfRange
	}
	return day.Label, day.Activities[activityIndex], nil
}

// Restore loads the cached schedule at session start, failing open.
func (s *Store) Restore(ctx context.Context) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		slog.Warn("restore schedule failed, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}
	s.mu.Lock()
	s.days = cached
	s.mu.Unlock()
}

// Reset drops the schedule and its cached copy.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = nil
	return s.cache.Del(ctx)
}

func (s *Store) PlainText() string {
	return s.Get().PlainText()
}
