package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tbxark/planagent/plan"
	"github.com/tbxark/planagent/schedule"
)

func TestBuildPlanPrompt(t *testing.T) {
	p := plan.EventPlan{
		EventType: "Company Retreat",
		Responses: map[string]any{
			"retreat_goals":  []string{"Team bonding", "Planning"},
			"attendees":      24,
			"dates_duration": "October 12, 2025–October 14, 2025",
			"day_count":      3,
		},
	}
	prompt, err := buildPlanPrompt(p)
	require.NoError(t, err)

	assert.Contains(t, prompt, "You're an expert event planner.")
	assert.Contains(t, prompt, "Event Type: Company Retreat")
	// Keys render in the details table with underscores spaced out.
	assert.Contains(t, prompt, "dates duration")
	assert.Contains(t, prompt, "October 12, 2025–October 14, 2025")
	assert.Contains(t, prompt, "Team bonding, Planning")
	// The reflected day schema rides along so the model sees field names.
	assert.Contains(t, prompt, `"activities"`)
}

func TestBuildRegeneratePrompt(t *testing.T) {
	req := RegenerateRequest{
		Day:      "Day 2 (Oct 13)",
		Activity: schedule.Activity{Time: "9-10", Title: "Yoga", Notes: "Bring a mat"},
		Prompt:   "something higher energy",
	}
	prompt := buildRegeneratePrompt(req)
	assert.Contains(t, prompt, "Day: Day 2 (Oct 13)")
	assert.Contains(t, prompt, "title: Yoga")
	assert.Contains(t, prompt, "something higher energy")

	req.Prompt = ""
	assert.NotContains(t, buildRegeneratePrompt(req), "User guidance")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "yes", formatValue(true))
	assert.Equal(t, "no", formatValue(false))
	assert.Equal(t, "24", formatValue(float64(24)))
	assert.Equal(t, "3", formatValue(3))
	assert.Equal(t, "a, b", formatValue([]any{"a", "b"}))
	assert.Equal(t, "plain", formatValue("plain"))
}
