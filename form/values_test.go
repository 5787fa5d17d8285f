package form

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindDefaults(t *testing.T) {
	v := Values{}
	assert.Equal(t, "", v.String("missing"))
	assert.Equal(t, 0.0, v.Number("missing"))
	assert.False(t, v.Bool("missing"))
	assert.Empty(t, v.StringSet("missing"))
	assert.Equal(t, DateRange{}, v.DateRange("missing"))
}

func TestAccessorsIgnoreWrongTypes(t *testing.T) {
	v := Values{"x": 42.0}
	assert.Equal(t, "", v.String("x"))
	assert.False(t, v.Bool("x"))
	assert.Empty(t, v.StringSet("x"))
}

func TestNumberCoercion(t *testing.T) {
	v := Values{"a": 3.5, "b": 7, "c": int64(9)}
	assert.Equal(t, 3.5, v.Number("a"))
	assert.Equal(t, 7.0, v.Number("b"))
	assert.Equal(t, 9.0, v.Number("c"))
}

func TestStringSetCoercion(t *testing.T) {
	v := Values{
		"native":  []string{"Yoga", "Massage"},
		"decoded": []any{"Yoga", "Massage"},
		"mixed":   []any{"Yoga", 1, "Massage"},
	}
	assert.Equal(t, []string{"Yoga", "Massage"}, v.StringSet("native"))
	assert.Equal(t, []string{"Yoga", "Massage"}, v.StringSet("decoded"))
	assert.Equal(t, []string{"Yoga", "Massage"}, v.StringSet("mixed"))
}

func TestDateRangeSurvivesJSONRoundTrip(t *testing.T) {
	start := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	v := Values{"dates": DateRange{Start: &start, End: &end}}

	data, err := sonic.Marshal(v)
	require.NoError(t, err)
	var decoded Values
	require.NoError(t, sonic.Unmarshal(data, &decoded))

	dr := decoded.DateRange("dates")
	require.True(t, dr.Complete())
	assert.True(t, dr.Start.Equal(start))
	assert.True(t, dr.End.Equal(end))
}

func TestDateRangeComplete(t *testing.T) {
	now := time.Now()
	assert.False(t, DateRange{}.Complete())
	assert.False(t, DateRange{Start: &now}.Complete())
	assert.True(t, DateRange{Start: &now, End: &now}.Complete())
}

func TestCloneIsIndependent(t *testing.T) {
	v := Values{"a": "1"}
	c := v.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", v.String("a"))
}
