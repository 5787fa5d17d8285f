package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/planagent/form"
	"github.com/tbxark/planagent/plan"
	"github.com/tbxark/planagent/records"
	"github.com/tbxark/planagent/schedule"
	"github.com/tbxark/planagent/template"
)

const validPlanJSON = `[{"day":"Day 1","activities":[{"time":"9-10","title":"Intro","notes":"Welcome"}]},{"day":"Day 2","activities":[{"time":"9-10","title":"Retro"}]}]`

type stubGen struct {
	mu       sync.Mutex
	planText string
	planErr  error
	act      schedule.Activity
	actErr   error

	block    chan struct{}
	lastPlan plan.EventPlan
}

func (g *stubGen) GeneratePlan(ctx context.Context, p plan.EventPlan) (string, error) {
	g.mu.Lock()
	g.lastPlan = p
	block := g.block
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return g.planText, g.planErr
}

func (g *stubGen) RegenerateActivity(ctx context.Context, day string, act schedule.Activity, prompt string) (schedule.Activity, error) {
	return g.act, g.actErr
}

func newTestSession(t *testing.T, gen *stubGen) *Session {
	t.Helper()
	return newTestSessionWith(t, gen, records.NewMemoryStore())
}

func newTestSessionWith(t *testing.T, gen *stubGen, rec records.Store) *Session {
	t.Helper()
	tpl, ok := template.ByEventType("Company Retreat")
	require.True(t, ok)
	return NewSession("alice", tpl, MemoryStores(), gen, rec)
}

func TestGeneratePersistsParsedSchedule(t *testing.T) {
	ctx := context.Background()
	gen := &stubGen{planText: validPlanJSON}
	session := newTestSession(t, gen)
	require.NoError(t, session.SetResponse(ctx, "location", "Lisbon"))

	sched, err := session.Generate(ctx)
	require.NoError(t, err)
	require.Len(t, sched, 2)
	assert.Equal(t, sched, session.Schedule())
	assert.Equal(t, "Lisbon", gen.lastPlan.Responses.String("location"))
}

func TestGenerateParseFailureKeepsPriorSchedule(t *testing.T) {
	ctx := context.Background()
	gen := &stubGen{planText: validPlanJSON}
	session := newTestSession(t, gen)
	_, err := session.Generate(ctx)
	require.NoError(t, err)
	before := session.Schedule()

	gen.planText = "Sorry, I can't produce JSON today."
	_, err = session.Generate(ctx)
	var pe *schedule.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, gen.planText, pe.Raw)
	assert.Equal(t, before, session.Schedule(), "failed generation must not clobber the stored schedule")
}

func TestGenerateGatewayFailure(t *testing.T) {
	gen := &stubGen{planErr: errors.New("gateway down")}
	session := newTestSession(t, gen)
	_, err := session.Generate(context.Background())
	require.Error(t, err)
	assert.Empty(t, session.Schedule())
}

func TestGenerateRejectsConcurrentRuns(t *testing.T) {
	ctx := context.Background()
	gen := &stubGen{planText: validPlanJSON, block: make(chan struct{})}
	session := newTestSession(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := session.Generate(ctx)
		done <- err
	}()

	// Wait until the first call is parked inside the stub.
	require.Eventually(t, func() bool {
		gen.mu.Lock()
		defer gen.mu.Unlock()
		return gen.lastPlan.EventType != ""
	}, time.Second, 5*time.Millisecond)

	_, err := session.Generate(ctx)
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(gen.block)
	require.NoError(t, <-done)

	// The guard releases once the first run finishes.
	gen.block = nil
	_, err = session.Generate(ctx)
	assert.NoError(t, err)
}

func TestRegenerateActivitySwapsInPlace(t *testing.T) {
	ctx := context.Background()
	next := schedule.Activity{Time: "9-10", Title: "Improv", Notes: "Outdoors"}
	gen := &stubGen{planText: validPlanJSON, act: next}
	session := newTestSession(t, gen)
	_, err := session.Generate(ctx)
	require.NoError(t, err)

	got, err := session.RegenerateActivity(ctx, 0, 0, "more fun")
	require.NoError(t, err)
	assert.Equal(t, next, got)
	assert.Equal(t, next, session.Schedule()[0].Activities[0])

	_, err = session.RegenerateActivity(ctx, 7, 0, "")
	assert.ErrorIs(t, err, schedule.ErrIndexOutOfRange)
}

func TestEditActivity(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, &stubGen{planText: validPlanJSON})
	_, err := session.Generate(ctx)
	require.NoError(t, err)

	edit := schedule.Activity{Time: "10-11", Title: "Lightning talks", Notes: ""}
	require.NoError(t, session.EditActivity(ctx, 1, 0, edit))
	assert.Equal(t, edit, session.Schedule()[1].Activities[0])
}

func TestSaveListLoadDelete(t *testing.T) {
	ctx := context.Background()
	rec := records.NewMemoryStore()
	tpl, ok := template.ByEventType("Company Retreat")
	require.True(t, ok)
	session := NewSession("alice", tpl, MemoryStores(), &stubGen{planText: validPlanJSON}, rec)

	require.NoError(t, session.SetResponse(ctx, "location", "Lisbon"))
	_, err := session.Generate(ctx)
	require.NoError(t, err)

	saved, err := session.Save(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "alice", saved.UserID)

	plans, err := session.SavedPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	// A fresh session loads the record back in full.
	fresh := NewSession("alice", tpl, MemoryStores(), &stubGen{}, rec)
	require.NoError(t, fresh.LoadRecord(ctx, saved.ID))
	assert.Equal(t, "Company Retreat", fresh.EventType())
	assert.Equal(t, "Lisbon", fresh.Responses().String("location"))
	assert.Equal(t, session.Schedule(), fresh.Schedule())

	require.NoError(t, session.DeleteRecord(ctx, saved.ID))
	assert.ErrorIs(t, session.LoadRecord(ctx, saved.ID), records.ErrNotFound)
}

func TestLoadRecordSwitchesTemplate(t *testing.T) {
	ctx := context.Background()
	rec := records.NewMemoryStore()
	saved := &records.Record{
		UserID:    "alice",
		EventType: "Wellness Day",
		Responses: form.Values{"pace": "Relaxed", "location": "Porto"},
		Schedule: schedule.Schedule{
			{Label: "Day 1", Activities: []schedule.Activity{{Time: "9-10", Title: "Yoga"}}},
		},
	}
	require.NoError(t, rec.Save(ctx, saved))

	// Session starts on the retreat template; the record is a wellness plan.
	session := newTestSessionWith(t, &stubGen{}, rec)
	session.Next()
	require.NoError(t, session.LoadRecord(ctx, saved.ID))

	assert.Equal(t, "Wellness Day", session.EventType())
	assert.Equal(t, 3, session.StepLen(), "flow must page the loaded template's steps")
	assert.Equal(t, 0, session.Step())
	assert.Equal(t, "Relaxed", session.Responses().String("pace"), "loaded answers must survive the template switch")
	assert.Equal(t, saved.Schedule, session.Schedule())

	// Answers keep validating against the new template.
	require.NoError(t, session.SetResponse(ctx, "catering", true))
	assert.Error(t, session.SetResponse(ctx, "retreat_goals", "x"))
}

func TestLoadRecordUnknownEventType(t *testing.T) {
	ctx := context.Background()
	rec := records.NewMemoryStore()
	saved := &records.Record{UserID: "alice", EventType: "Murder Mystery"}
	require.NoError(t, rec.Save(ctx, saved))

	session := newTestSessionWith(t, &stubGen{}, rec)
	err := session.LoadRecord(ctx, saved.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Murder Mystery")
	assert.Equal(t, "Company Retreat", session.EventType(), "failed load must not change the session")
}

func TestUpdateRecordMeta(t *testing.T) {
	ctx := context.Background()
	rec := records.NewMemoryStore()
	tpl, ok := template.ByEventType("Company Retreat")
	require.True(t, ok)
	session := NewSession("alice", tpl, MemoryStores(), &stubGen{planText: validPlanJSON}, rec)
	_, err := session.Generate(ctx)
	require.NoError(t, err)
	saved, err := session.Save(ctx)
	require.NoError(t, err)

	require.NoError(t, session.UpdateRecordMeta(ctx, saved.ID, "Offsite", "October 12, 2025–October 14, 2025"))
	got, err := rec.Get(ctx, "alice", saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Offsite", got.EventType)
	assert.Equal(t, "October 12, 2025–October 14, 2025", got.Responses[plan.DatesDurationKey])
	assert.Equal(t, session.Schedule(), got.Schedule)
}

func TestRestoreAcrossSessions(t *testing.T) {
	ctx := context.Background()
	stores := MemoryStores()
	tpl, ok := template.ByEventType("Company Retreat")
	require.True(t, ok)

	first := NewSession("alice", tpl, stores, &stubGen{planText: validPlanJSON}, records.NewMemoryStore())
	require.NoError(t, first.SetResponse(ctx, "tone", "Relaxed"))
	_, err := first.Generate(ctx)
	require.NoError(t, err)

	second := NewSession("alice", tpl, stores, &stubGen{}, records.NewMemoryStore())
	second.Restore(ctx)
	assert.Equal(t, "Relaxed", second.Responses().String("tone"))
	assert.Equal(t, first.Schedule(), second.Schedule())

	// Another user sees nothing of alice's state.
	other := NewSession("bob", tpl, stores, &stubGen{}, records.NewMemoryStore())
	other.Restore(ctx)
	assert.Empty(t, other.Responses())
	assert.Empty(t, other.Schedule())
}

func TestStepNavigation(t *testing.T) {
	session := newTestSession(t, &stubGen{})
	assert.Equal(t, 0, session.Step())
	for i := 0; i < session.StepLen()+3; i++ {
		session.Next()
	}
	assert.Equal(t, session.StepLen()-1, session.Step(), "next clamps at the last step")
	assert.NotEmpty(t, session.FieldsForCurrentStep())
	for i := 0; i < session.StepLen()+3; i++ {
		session.Back()
	}
	assert.Equal(t, 0, session.Step(), "back clamps at the first step")
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, &stubGen{planText: validPlanJSON})
	require.NoError(t, session.SetEventType(ctx, "Offsite"))
	require.NoError(t, session.SetResponse(ctx, "location", "Lisbon"))
	_, err := session.Generate(ctx)
	require.NoError(t, err)
	session.Next()

	require.NoError(t, session.Reset(ctx))
	assert.Equal(t, "Company Retreat", session.EventType())
	assert.Empty(t, session.Responses())
	assert.Empty(t, session.Schedule())
	assert.Equal(t, 0, session.Step())
}
