package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	s := Schedule{
		{Label: "Day 1", Activities: []Activity{
			{Time: "9-10", Title: "Intro", Notes: "Welcome"},
			{Time: "10-11", Title: "Workshop"},
		}},
		{Label: "Day 2", Activities: []Activity{
			{Time: "9-10", Title: "Retro"},
		}},
	}
	want := "Day 1\n- 9-10: Intro (Welcome)\n- 10-11: Workshop (No notes)\n\nDay 2\n- 9-10: Retro (No notes)"
	assert.Equal(t, want, s.PlainText())
	// Stable across calls for the same value.
	assert.Equal(t, s.PlainText(), s.PlainText())
}

func TestPlainTextEmpty(t *testing.T) {
	assert.Equal(t, "", Schedule{}.PlainText())
}

func TestCloneIsDeep(t *testing.T) {
	s := Schedule{{Label: "Day 1", Activities: []Activity{{Time: "9", Title: "A"}}}}
	c := s.Clone()
	c[0].Activities[0].Title = "B"
	assert.Equal(t, "A", s[0].Activities[0].Title)
}
