package planner

import (
	"github.com/tbxark/planagent/cache"
	"github.com/tbxark/planagent/form"
	"github.com/tbxark/planagent/schedule"
)

// Persisted local state, one namespace per key the session writes
// through: eventType, responses, schedule.
const (
	nsEventType = "eventType"
	nsResponses = "responses"
	nsSchedule  = "schedule"
)

// Stores bundles the three typed cache views a session persists into.
type Stores struct {
	EventType cache.Store[string]
	Responses cache.Store[form.Values]
	Schedule  cache.Store[schedule.Schedule]
}

// FileStores persists session state as JSON documents under dir.
func FileStores(dir string) Stores {
	return Stores{
		EventType: cache.NewStore[string](cache.NewFile[string](dir), nsEventType),
		Responses: cache.NewStore[form.Values](cache.NewFile[form.Values](dir), nsResponses),
		Schedule:  cache.NewStore[schedule.Schedule](cache.NewFile[schedule.Schedule](dir), nsSchedule),
	}
}

// MemoryStores keeps session state in process memory, for tests and
// throwaway sessions.
func MemoryStores() Stores {
	return Stores{
		EventType: cache.NewStore[string](cache.NewMemory[string](), nsEventType),
		Responses: cache.NewStore[form.Values](cache.NewMemory[form.Values](), nsResponses),
		Schedule:  cache.NewStore[schedule.Schedule](cache.NewMemory[schedule.Schedule](), nsSchedule),
	}
}
