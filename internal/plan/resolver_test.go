package plan

import (
	"testing"

	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDayDataCreatesAndClamps(t *testing.T) {
	p := &models.Plan{}

	d := EnsureDayData(p, 99, 0)
	require.NotNil(t, d)
	assert.Empty(t, d.Modifiers)
	assert.NotNil(t, d.ExerciseOverrides)

	// clamped into cycle MaxCycles, day 1
	require.Contains(t, p.Mesocycle.Cycles, MaxCycles)
	assert.Same(t, d, p.Mesocycle.Cycles[MaxCycles].Days[1])

	// second call returns the same entry
	assert.Same(t, d, EnsureDayData(p, MaxCycles, 1))
}

func TestLookupDayDoesNotCreate(t *testing.T) {
	p := &models.Plan{}
	assert.Nil(t, LookupDay(p, 1, 1))
	assert.Nil(t, p.Mesocycle.Cycles)
}

func TestNormalizeModifiers(t *testing.T) {
	in := []models.Modifier{
		{Metric: "tempo", Value: 3},
		{Metric: models.MetricReps, Value: 10.04},
		{Metric: models.MetricSets, Value: 1.6},
		{Metric: models.MetricRPE, Value: -0.55},
		{Metric: models.MetricReps, Value: 50},
	}
	got := NormalizeModifiers(in)

	assert.Equal(t, []models.Modifier{
		{Metric: models.MetricReps, Value: 10},
		{Metric: models.MetricSets, Value: 2},
		{Metric: models.MetricRPE, Value: -0.6},
	}, got)
}

func TestAddModifierIsToggleByMetric(t *testing.T) {
	p := &models.Plan{}

	assert.True(t, AddModifier(p, 1, 3, models.Modifier{Metric: models.MetricWeight, Value: 5}))
	assert.False(t, AddModifier(p, 1, 3, models.Modifier{Metric: models.MetricWeight, Value: 10}))
	assert.False(t, AddModifier(p, 1, 3, models.Modifier{Metric: "tempo", Value: 1}))

	d := LookupDay(p, 1, 3)
	require.Len(t, d.Modifiers, 1)
	assert.Equal(t, 5.0, d.Modifiers[0].Value)

	assert.True(t, RemoveModifier(p, 1, 3, models.MetricWeight))
	assert.False(t, RemoveModifier(p, 1, 3, models.MetricWeight))
	assert.False(t, HasModifier(d, models.MetricWeight))

	assert.True(t, AddModifier(p, 1, 3, models.Modifier{Metric: models.MetricWeight, Value: 10}))
}

func TestRemoveModifierKeepsOthers(t *testing.T) {
	p := &models.Plan{}
	AddModifier(p, 2, 1, models.Modifier{Metric: models.MetricReps, Value: 5})
	AddModifier(p, 2, 1, models.Modifier{Metric: models.MetricRPE, Value: 1})
	AddModifier(p, 2, 1, models.Modifier{Metric: models.MetricSets, Value: 1})

	require.True(t, RemoveModifier(p, 2, 1, models.MetricRPE))
	d := LookupDay(p, 2, 1)
	assert.Equal(t, []models.Modifier{
		{Metric: models.MetricReps, Value: 5},
		{Metric: models.MetricSets, Value: 1},
	}, d.Modifiers)
}

func TestOverrides(t *testing.T) {
	p := &models.Plan{}
	sets := []models.SetValues{{Reps: numeric.Ptr(5), Weight: numeric.Ptr(100)}}

	SetOverride(p, 1, 1, "squat", sets)
	*sets[0].Reps = 8 // caller mutation must not leak in

	o := Override(p, 1, 1, "squat")
	require.NotNil(t, o)
	assert.Equal(t, 5.0, *o.Sets[0].Reps)

	SetOverride(p, 1, 1, "squat", nil)
	assert.Nil(t, Override(p, 1, 1, "squat"))
	assert.False(t, ClearOverride(p, 1, 1, "squat"))
}

func TestCycleSettersClamp(t *testing.T) {
	p := &models.Plan{}

	assert.Equal(t, MaxCycles, SetCycleCount(p, 40))
	assert.Equal(t, 1, SetCycleCount(p, -3))

	SetCycleCount(p, 6)
	assert.Equal(t, 5, SelectCycle(p, 5))
	assert.Equal(t, 6, SelectCycle(p, 99))
	assert.Equal(t, 1, SelectCycle(p, 0))

	SelectCycle(p, 6)
	SetCycleCount(p, 4)
	assert.Equal(t, 4, p.Mesocycle.SelectedCycle)
}

func TestCopyDay(t *testing.T) {
	p := &models.Plan{}
	AddModifier(p, 1, 1, models.Modifier{Metric: models.MetricReps, Value: 10})
	SetOverride(p, 1, 1, "bench", []models.SetValues{{Reps: numeric.Ptr(3)}})
	AddModifier(p, 2, 5, models.Modifier{Metric: models.MetricRPE, Value: 1})

	CopyDay(p, 1, 1, 2, 5)

	dst := LookupDay(p, 2, 5)
	require.NotNil(t, dst)
	assert.Equal(t, []models.Modifier{{Metric: models.MetricReps, Value: 10}}, dst.Modifiers)
	require.Contains(t, dst.ExerciseOverrides, "bench")

	*dst.ExerciseOverrides["bench"].Sets[0].Reps = 4
	assert.Equal(t, 3.0, *Override(p, 1, 1, "bench").Sets[0].Reps)

	// copying a day onto itself keeps it intact
	CopyDay(p, 1, 1, 1, 1)
	assert.Len(t, LookupDay(p, 1, 1).Modifiers, 1)
}
