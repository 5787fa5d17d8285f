package gateway

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/tbxark/planagent/form"
	"github.com/tbxark/planagent/plan"
	"github.com/tbxark/planagent/schedule"
)

const systemPrompt = "You are a highly skilled event planning assistant."

const planPromptHeader = `You're an expert event planner. Create a realistic schedule in this exact JSON format:

[
  {
    "day": "Day 1 (e.g. Oct 12)",
    "activities": [
      {
        "time": "e.g. 7:30AM–9:00AM",
        "title": "Activity title",
        "notes": "Brief description"
      }
    ]
  }
]`

var daySchemaJSON = sync.OnceValues(func() (string, error) {
	s := jsonschema.Reflect(&schedule.Day{})
	s.Title = "Day"
	s.Description = "One day of a generated event schedule."
	data, err := sonic.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal day schema: %w", err)
	}
	return string(data), nil
})

func formatDetailsSection(responses form.Values) string {
	keys := make([]string, 0, len(responses))
	for k := range responses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Detail", "Value")
	for _, k := range keys {
		_ = table.Append(strings.ReplaceAll(k, "_", " "), formatValue(responses[k]))
	}
	_ = table.Render()
	return buf.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		data, err := sonic.MarshalString(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return data
	}
}

func buildPlanPrompt(p plan.EventPlan) (string, error) {
	daySchema, err := daySchemaJSON()
	if err != nil {
		return "", err
	}
	sections := []string{
		planPromptHeader,
		fmt.Sprintf("Each array element must satisfy this JSON schema:\n```json\n%s\n```", daySchema),
		fmt.Sprintf("Event Type: %s", p.EventType),
		fmt.Sprintf("Details:\n%s", formatDetailsSection(p.Responses)),
	}
	return strings.Join(sections, "\n\n"), nil
}

func buildRegeneratePrompt(req RegenerateRequest) string {
	sections := []string{
		"Rewrite one activity from an event schedule.",
		fmt.Sprintf("Day: %s", req.Day),
		fmt.Sprintf("Current activity:\n- time: %s\n- title: %s\n- notes: %s", req.Activity.Time, req.Activity.Title, req.Activity.Notes),
	}
	if req.Prompt != "" {
		sections = append(sections, fmt.Sprintf("User guidance:\n%s", req.Prompt))
	}
	sections = append(sections, "Keep the same time window unless the guidance asks otherwise.")
	return strings.Join(sections, "\n\n")
}
