package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tbxark/planagent/cache"
	"github.com/tbxark/planagent/form"
	"github.com/tbxark/planagent/gateway"
	"github.com/tbxark/planagent/plan"
	"github.com/tbxark/planagent/records"
	"github.com/tbxark/planagent/schedule"
	"github.com/tbxark/planagent/template"
)

// ErrGenerationInFlight is returned when a whole-plan generation is
// requested while another one is still running. At most one outstanding
// generation per session; this guard lives in the data layer, not in
// whatever UI sits on top.
var ErrGenerationInFlight = errors.New("planner: a generation is already in flight")

// GenerationClient is the session's view of the generation gateway.
// Both gateway.Client (remote) and gateway.ModelGenerator (in-process)
// satisfy it.
type GenerationClient = gateway.Service

// Session is the single owned state container for one user's planning
// flow: the step cursor, the answers, the generated schedule, and the
// handles to the generation gateway and the record store. Every
// component that needs to read or mutate state gets it from here;
// there are no ambient globals.
type Session struct {
	userID   string
	template *template.Template

	mu        sync.RWMutex
	eventType string

	flow      *form.Flow
	responses *form.Store
	schedule  *schedule.Store

	responsesCache cache.Store[form.Values]
	eventTypeCache cache.Store[string]
	gen            GenerationClient
	records        records.Store

	generating atomic.Bool
}

func NewSession(userID string, tpl *template.Template, stores Stores, gen GenerationClient, rec records.Store) *Session {
	return &Session{
		userID:         userID,
		template:       tpl,
		eventType:      tpl.EventType,
		flow:           form.NewFlow(tpl),
		responses:      form.NewStore(tpl, stores.Responses),
		schedule:       schedule.NewStore(stores.Schedule),
		responsesCache: stores.Responses,
		eventTypeCache: stores.EventType,
		gen:            gen,
		records:        rec,
	}
}

func (s *Session) scoped(ctx context.Context) context.Context {
	return cache.WithSessionKey(ctx, s.userID)
}

// Restore loads cached state from a previous session. Every part fails
// open: missing or corrupt cache entries leave the defaults in place.
func (s *Session) Restore(ctx context.Context) {
	ctx = s.scoped(ctx)
	et, ok, err := s.eventTypeCache.Get(ctx)
	if err != nil {
		slog.Warn("restore event type failed, keeping default", "error", err)
	} else if ok && et != "" {
		s.mu.Lock()
		s.eventType = et
		s.mu.Unlock()
	}
	s.responses.Restore(ctx)
	s.schedule.Restore(ctx)
}

func (s *Session) EventType() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventType
}

func (s *Session) SetEventType(ctx context.Context, eventType string) error {
	s.mu.Lock()
	s.eventType = eventType
	s.mu.Unlock()
	if err := s.eventTypeCache.Set(s.scoped(ctx), eventType); err != nil {
		return fmt.Errorf("persist event type: %w", err)
	}
	return nil
}

// Form state.

func (s *Session) SetResponse(ctx context.Context, fieldID string, value any) error {
	return s.responses.Set(s.scoped(ctx), fieldID, value)
}

func (s *Session) Responses() form.Values {
	return s.responses.Snapshot()
}

func (s *Session) Next()        { s.flow.Next() }
func (s *Session) Back()        { s.flow.Back() }
func (s *Session) Step() int    { return s.flow.Current() }
func (s *Session) StepLen() int { return s.flow.Len() }

func (s *Session) CurrentStep() template.Step {
	return s.flow.CurrentStep()
}

func (s *Session) FieldsForCurrentStep() []template.Field {
	return s.flow.FieldsForCurrentStep()
}

// Generate builds the event plan from the current answers, submits it
// to the gateway, and parses the result. On any failure the stored
// schedule is left exactly as it was. Only one generation may run at a
// time per session.
func (s *Session) Generate(ctx context.Context) (schedule.Schedule, error) {
	if !s.generating.CompareAndSwap(false, true) {
		return nil, ErrGenerationInFlight
	}
	defer s.generating.Store(false)

	ctx = s.scoped(ctx)
	p := plan.Build(s.EventType(), s.responses.Snapshot())
	slog.Debug("requesting plan generation", "event_type", p.EventType)
	raw, err := s.gen.GeneratePlan(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	parsed, err := schedule.Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := s.schedule.Set(ctx, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// RegenerateActivity asks the gateway to rewrite a single activity and
// swaps it in place. Regenerations of distinct activities may run
// concurrently; the schedule store serializes the swaps.
func (s *Session) RegenerateActivity(ctx context.Context, dayIndex, activityIndex int, prompt string) (schedule.Activity, error) {
	ctx = s.scoped(ctx)
	dayLabel, current, err := s.schedule.Activity(dayIndex, activityIndex)
	if err != nil {
		return schedule.Activity{}, err
	}
	next, err := s.gen.RegenerateActivity(ctx, dayLabel, current, prompt)
	if err != nil {
		return schedule.Activity{}, fmt.Errorf("regenerate activity: %w", err)
	}
	if err := s.schedule.ReplaceActivity(ctx, dayIndex, activityIndex, next); err != nil {
		return schedule.Activity{}, err
	}
	return next, nil
}

// EditActivity applies a manual edit to one activity.
func (s *Session) EditActivity(ctx context.Context, dayIndex, activityIndex int, act schedule.Activity) error {
	return s.schedule.ReplaceActivity(s.scoped(ctx), dayIndex, activityIndex, act)
}

func (s *Session) Schedule() schedule.Schedule {
	return s.schedule.Get()
}

func (s *Session) PlainText() string {
	return s.schedule.PlainText()
}

// Record store operations.

// Save writes the current plan to the remote record store.
func (s *Session) Save(ctx context.Context) (*records.Record, error) {
	rec := &records.Record{
		UserID:    s.userID,
		EventType: s.EventType(),
		Responses: s.responses.Snapshot(),
		Schedule:  s.schedule.Get(),
	}
	if err := s.records.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}
	return rec, nil
}

func (s *Session) SavedPlans(ctx context.Context) ([]*records.Record, error) {
	return s.records.List(ctx, s.userID)
}

// LoadRecord restores a saved plan into the session. A record for a
// different event type switches the session to that type's template,
// rebuilding the step flow and response store, so the record's answers
// survive the load instead of being dropped as unknown fields.
func (s *Session) LoadRecord(ctx context.Context, id string) error {
	rec, err := s.records.Get(ctx, s.userID, id)
	if err != nil {
		return err
	}
	if rec.EventType != s.template.EventType {
		tpl, ok := template.ByEventType(rec.EventType)
		if !ok {
			return fmt.Errorf("load record %s: no template for event type %q", id, rec.EventType)
		}
		s.mu.Lock()
		s.template = tpl
		s.mu.Unlock()
		s.flow = form.NewFlow(tpl)
		s.responses = form.NewStore(tpl, s.responsesCache)
	}
	if err := s.SetEventType(ctx, rec.EventType); err != nil {
		return err
	}
	if err := s.responses.ReplaceAll(s.scoped(ctx), rec.Responses); err != nil {
		return err
	}
	return s.schedule.Set(s.scoped(ctx), rec.Schedule)
}

// UpdateRecordMeta edits a saved record's event type and displayed
// date range without touching its schedule.
func (s *Session) UpdateRecordMeta(ctx context.Context, id, eventType, datesDuration string) error {
	rec, err := s.records.Get(ctx, s.userID, id)
	if err != nil {
		return err
	}
	rec.EventType = eventType
	if rec.Responses == nil {
		rec.Responses = form.Values{}
	}
	rec.Responses[plan.DatesDurationKey] = datesDuration
	return s.records.Save(ctx, rec)
}

func (s *Session) DeleteRecord(ctx context.Context, id string) error {
	return s.records.Delete(ctx, s.userID, id)
}

// Reset clears all session state (logout or new-plan action).
func (s *Session) Reset(ctx context.Context) error {
	ctx = s.scoped(ctx)
	s.mu.Lock()
	s.eventType = s.template.EventType
	s.mu.Unlock()
	s.flow = form.NewFlow(s.template)
	if err := s.eventTypeCache.Del(ctx); err != nil {
		return err
	}
	if err := s.responses.Reset(ctx); err != nil {
		return err
	}
	return s.schedule.Reset(ctx)
}
