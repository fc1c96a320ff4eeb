package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggedSetTolerantDecode verifies that legacy string values and junk
// decode without error into the per-field defaults.
func TestLoggedSetTolerantDecode(t *testing.T) {
	var s LoggedSet
	err := json.Unmarshal([]byte(`{"pos":"2","reps":"8","weight":"heavy","rpe":null,"rest":90,"done":"true"}`), &s)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Pos)
	require.NotNil(t, s.Reps)
	assert.Equal(t, 8.0, *s.Reps)
	assert.Nil(t, s.Weight)
	assert.Nil(t, s.RPE)
	require.NotNil(t, s.Rest)
	assert.Equal(t, 90.0, *s.Rest)
	assert.True(t, s.Done)
}

func TestLoggedSetDoneDefaultsFalse(t *testing.T) {
	var s LoggedSet
	require.NoError(t, json.Unmarshal([]byte(`{"pos":1,"reps":5}`), &s))
	assert.False(t, s.Done)
}

func TestSetValuesDecodeInsideSession(t *testing.T) {
	var r Routine
	data := `{"id":"r1","name":"Push","moves":[{"exerciseId":"bench","sets":[{"reps":"10","weight":60,"rpe":"x"}]}]}`
	require.NoError(t, json.Unmarshal([]byte(data), &r))

	require.Len(t, r.Moves, 1)
	require.Len(t, r.Moves[0].Sets, 1)
	set := r.Moves[0].Sets[0]
	assert.Equal(t, 10.0, *set.Reps)
	assert.Equal(t, 60.0, *set.Weight)
	assert.Nil(t, set.RPE)
}

func TestCloneSetsIsDeep(t *testing.T) {
	reps := 5.0
	src := []SetValues{{Reps: &reps}}
	dst := CloneSets(src)
	*dst[0].Reps = 6
	assert.Equal(t, 5.0, *src[0].Reps)
	assert.NotNil(t, CloneSets(nil))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-05T18:30", nil)
	require.NoError(t, err)
	assert.Equal(t, 18, d.Hour())

	d, err = ParseDate("2024-03-05T18:30:00+02:00", nil)
	require.NoError(t, err)
	assert.Equal(t, 16, d.UTC().Hour())

	_, err = ParseDate("yesterday", nil)
	assert.Error(t, err)
}

func TestCalendarDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", CalendarDate("2024-03-05T18:30:00"))
	assert.Equal(t, "2024-03-05", CalendarDate("2024-03-05"))
	assert.Equal(t, "bad", CalendarDate("bad"))
}

func TestMetricValid(t *testing.T) {
	for _, m := range Metrics {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, Metric("tempo").Valid())
}

func TestSessionExercise(t *testing.T) {
	s := Session{Exercises: []SessionExercise{{ExerciseID: "squat"}}}
	_, ok := s.Exercise("squat")
	assert.True(t, ok)
	_, ok = s.Exercise("bench")
	assert.False(t, ok)
}

func TestRangeEvaluate(t *testing.T) {
	lo, hi := 10.0, 20.0
	r := Range{Min: &lo, Max: &hi}

	assert.Equal(t, RangeBelow, r.Evaluate(9.9))
	assert.Equal(t, RangeWithin, r.Evaluate(10))
	assert.Equal(t, RangeWithin, r.Evaluate(20))
	assert.Equal(t, RangeAbove, r.Evaluate(20.1))
	assert.Equal(t, RangeWithin, Range{Min: &lo}.Evaluate(1e6))
	assert.Equal(t, RangeUnset, Range{}.Evaluate(5))
}
