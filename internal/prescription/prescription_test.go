package prescription

import (
	"testing"

	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
	"github.com/claude/cyclelift/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(reps, weight, rpe float64) models.SetValues {
	return models.SetValues{Reps: numeric.Ptr(reps), Weight: numeric.Ptr(weight), RPE: numeric.Ptr(rpe)}
}

func baseSets() []models.SetValues {
	return []models.SetValues{set(10, 100, 7), set(8, 105, 8), {Reps: numeric.Ptr(6)}}
}

func TestEffectiveSetsIdentity(t *testing.T) {
	base := baseSets()
	got := EffectiveSets(base, nil, nil)

	assert.Equal(t, base, got)
	require.NotEmpty(t, got)
	assert.NotSame(t, base[0].Reps, got[0].Reps)
}

func TestEffectiveSetsSetsModifier(t *testing.T) {
	base := baseSets()

	got := EffectiveSets(base, []models.Modifier{{Metric: models.MetricSets, Value: 2}}, nil)
	require.Len(t, got, 5)
	assert.Equal(t, base[2], got[3])
	assert.Equal(t, base[2], got[4])
	assert.NotSame(t, got[3].Reps, got[4].Reps)

	got = EffectiveSets(base, []models.Modifier{{Metric: models.MetricSets, Value: -2}}, nil)
	assert.Equal(t, base[:1], got)

	got = EffectiveSets(base, []models.Modifier{{Metric: models.MetricSets, Value: -7}}, nil)
	assert.Empty(t, got)

	got = EffectiveSets(nil, []models.Modifier{{Metric: models.MetricSets, Value: 1}}, nil)
	assert.Equal(t, []models.SetValues{{}}, got)
}

func TestEffectiveSetsPercentModifiersCommute(t *testing.T) {
	base := baseSets()
	reps := models.Modifier{Metric: models.MetricReps, Value: 10}
	weight := models.Modifier{Metric: models.MetricWeight, Value: -10}

	a := EffectiveSets(base, []models.Modifier{reps, weight}, nil)
	b := EffectiveSets(base, []models.Modifier{weight, reps}, nil)
	assert.Equal(t, a, b)

	assert.Equal(t, 11.0, *a[0].Reps)
	assert.Equal(t, 90.0, *a[0].Weight)
	assert.Equal(t, 94.5, *a[1].Weight)
	assert.Nil(t, a[2].Weight)
	assert.Equal(t, 7.0, *a[0].RPE)
}

func TestEffectiveSetsRPEShiftIsReversible(t *testing.T) {
	base := baseSets()
	up := EffectiveSets(base, []models.Modifier{{Metric: models.MetricRPE, Value: 1.5}}, nil)
	assert.Equal(t, 8.5, *up[0].RPE)

	// not clamped to the rpe scale
	assert.Equal(t, 9.5, *up[1].RPE)
	assert.Nil(t, up[2].RPE)

	down := EffectiveSets(up, []models.Modifier{{Metric: models.MetricRPE, Value: -1.5}}, nil)
	for i := range base {
		if base[i].RPE == nil {
			continue
		}
		assert.InDelta(t, *base[i].RPE, *down[i].RPE, 0.05)
	}
}

func TestEffectiveSetsOverrideWins(t *testing.T) {
	override := &models.ExerciseOverride{Sets: []models.SetValues{set(3, 140, 9)}}
	mods := []models.Modifier{
		{Metric: models.MetricSets, Value: 3},
		{Metric: models.MetricWeight, Value: 10},
	}

	got := EffectiveSets(baseSets(), mods, override)
	assert.Equal(t, override.Sets, got)
	assert.NotSame(t, override.Sets[0].Weight, got[0].Weight)

	// an empty override falls through to the modifiers
	got = EffectiveSets(baseSets(), mods, &models.ExerciseOverride{})
	assert.Len(t, got, 6)
}

func TestEffectiveSetsDoesNotMutateInputs(t *testing.T) {
	base := baseSets()
	before := models.CloneSets(base)
	mods := []models.Modifier{
		{Metric: models.MetricSets, Value: 1},
		{Metric: models.MetricReps, Value: 20},
		{Metric: models.MetricRPE, Value: 1},
	}
	modsBefore := append([]models.Modifier(nil), mods...)

	EffectiveSets(base, mods, nil)

	assert.Equal(t, before, base)
	assert.Equal(t, modsBefore, mods)
}

func TestForDay(t *testing.T) {
	p := &models.Plan{Days: map[int]string{1: "r1"}}
	plan.AddModifier(p, 2, 1, models.Modifier{Metric: models.MetricWeight, Value: 10})
	plan.SetOverride(p, 2, 1, "row", []models.SetValues{set(12, 50, 8)})

	routine := &models.Routine{ID: "r1", Name: "Pull", Moves: []models.RoutineMove{
		{ExerciseID: "deadlift", Sets: []models.SetValues{set(5, 100, 8)}},
		{ExerciseID: "row", Sets: []models.SetValues{set(10, 40, 7)}},
		{ExerciseID: "gone", Sets: []models.SetValues{set(10, 10, 7)}},
	}}
	names := map[string]string{"deadlift": "Deadlift", "row": "Row"}

	got := ForDay(p, routine, 2, 1, names)

	assert.Equal(t, "Pull", got.RoutineName)
	require.Len(t, got.Moves, 3)
	assert.Equal(t, 110.0, *got.Moves[0].Sets[0].Weight)
	assert.Equal(t, 100.0, *got.Moves[0].BaseSets[0].Weight)
	assert.False(t, got.Moves[0].Overridden)

	assert.True(t, got.Moves[1].Overridden)
	assert.Equal(t, 50.0, *got.Moves[1].Sets[0].Weight)

	assert.Equal(t, UnknownExerciseName, got.Moves[2].ExerciseName)

	// other cycles are unaffected
	plain := ForDay(p, routine, 1, 1, names)
	assert.Equal(t, 100.0, *plain.Moves[0].Sets[0].Weight)
	assert.Empty(t, plain.Modifiers)
}

func TestForDayRestDay(t *testing.T) {
	got := ForDay(&models.Plan{}, nil, 40, 0, nil)
	assert.Equal(t, RestDayName, got.RoutineName)
	assert.Equal(t, plan.MaxCycles, got.Cycle)
	assert.Equal(t, 1, got.Day)
	assert.Empty(t, got.Moves)
}
