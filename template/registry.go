package template

func floatPtr(v float64) *float64 { return &v }

var companyRetreat = &Template{
	EventType: "Company Retreat",
	Fields: []Field{
		{ID: "retreat_goals", Label: "Retreat Goals", Kind: KindText, Placeholder: "e.g. Align on Q3 roadmap, celebrate launch"},
		{ID: "attendees", Label: "Number of Attendees", Kind: KindNumber, Min: floatPtr(1), Max: floatPtr(500)},
		{ID: "dates", Label: "Dates", Kind: KindDateRange},
		{ID: "location", Label: "Location", Kind: KindText, Placeholder: "City, venue or \"remote\""},
		{ID: "tone", Label: "Tone", Kind: KindSelect, Options: []string{"Relaxed", "Professional", "High-energy", "Mixed"}},
		{ID: "time_blocks", Label: "Preferred Time Blocks", Kind: KindTextarea, Placeholder: "e.g. no sessions before 9AM, free evenings"},
		{ID: "team_building", Label: "Team Building Activities", Kind: KindMultiSelect, Options: []string{"Workshops", "Outdoor games", "Cooking class", "Hackathon", "Trivia night"}},
		{ID: "external_facilitators", Label: "External Facilitators", Kind: KindBoolean},
		{ID: "budget", Label: "Budget per Attendee", Kind: KindNumber, Min: floatPtr(0)},
		{ID: "accessibility", Label: "Accessibility Needs", Kind: KindTextarea, Placeholder: "Dietary restrictions, mobility, quiet rooms..."},
	},
	Steps: []Step{
		{Name: "Goals", FieldIDs: []string{"retreat_goals", "attendees"}},
		{Name: "When & Where", FieldIDs: []string{"dates", "location", "tone"}},
		{Name: "Activities", FieldIDs: []string{"time_blocks", "team_building", "external_facilitators"}},
		{Name: "Logistics", FieldIDs: []string{"budget", "accessibility"}},
	},
}

var wellnessDay = &Template{
	EventType: "Wellness Day",
	Fields: []Field{
		{ID: "focus_areas", Label: "Focus Areas", Kind: KindMultiSelect, Options: []string{"Yoga", "Meditation", "Nutrition", "Massage", "Fitness", "Mental health"}},
		{ID: "attendees", Label: "Number of Attendees", Kind: KindNumber, Min: floatPtr(1), Max: floatPtr(200)},
		{ID: "dates", Label: "Dates", Kind: KindDateRange},
		{ID: "location", Label: "Location", Kind: KindText},
		{ID: "pace", Label: "Pace", Kind: KindSelect, Options: []string{"Relaxed", "Balanced", "Energetic"}},
		{ID: "catering", Label: "Healthy Catering", Kind: KindBoolean},
		{ID: "special_requests", Label: "Special Requests", Kind: KindTextarea, Placeholder: "Anything the planner should know"},
	},
	Steps: []Step{
		{Name: "Focus", FieldIDs: []string{"focus_areas", "attendees"}},
		{Name: "When & Where", FieldIDs: []string{"dates", "location"}},
		{Name: "Preferences", FieldIDs: []string{"pace", "catering", "special_requests"}},
	},
}

var registry = []*Template{companyRetreat, wellnessDay}

// ByEventType looks up a template by its event type name.
func ByEventType(eventType string) (*Template, bool) {
	for _, t := range registry {
		if t.EventType == eventType {
			return t, true
		}
	}
	return nil, false
}

// EventTypes lists every registered event type, in registry order.
func EventTypes() []string {
	names := make([]string, 0, len(registry))
	for _, t := range registry {
		names = append(names, t.EventType)
	}
	return names
}
