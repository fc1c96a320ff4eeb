package plan

import (
	"encoding/json"
	"testing"

	"github.com/claude/cyclelift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyPlan = `{
  "id": 7,
  "name": "Winter block",
  "days": ["upper", null, "lower"],
  "mesocycle": {
    "cycleCount": "30",
    "selectedCycle": "2",
    "cycles": [
      {"days": {
        "1": {"modifiers": {"reps": "10.04", "tempo": 2, "sets": 1.4}},
        "2": {"modifiers": [{"metric": "rpe", "value": "0.55"}, {"metric": "rpe", "value": 2}, "junk"],
              "exerciseOverrides": {
                "bench": [{"reps": "5", "weight": 100}],
                "squat": {"sets": [{"reps": 3}, 42]},
                "row": "not an object",
                "curl": {"sets": []}
              }},
        "40": {"modifiers": []}
      }},
      null
    ]
  }
}`

func TestDecodeLegacyPlan(t *testing.T) {
	assert.Equal(t, 0, Version([]byte(legacyPlan)))

	p, err := Decode([]byte(legacyPlan))
	require.NoError(t, err)

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "Winter block", p.Name)
	assert.Equal(t, CurrentSchemaVersion, p.SchemaVersion)
	assert.Equal(t, map[int]string{1: "upper", 3: "lower"}, p.Days)
	assert.Equal(t, MaxCycles, p.Mesocycle.CycleCount)
	assert.Equal(t, 2, p.Mesocycle.SelectedCycle)

	require.Contains(t, p.Mesocycle.Cycles, 1)
	assert.NotContains(t, p.Mesocycle.Cycles, 2)

	day1 := LookupDay(p, 1, 1)
	require.NotNil(t, day1)
	assert.Equal(t, []models.Modifier{
		{Metric: models.MetricReps, Value: 10},
		{Metric: models.MetricSets, Value: 1},
	}, day1.Modifiers)

	day2 := LookupDay(p, 1, 2)
	require.NotNil(t, day2)
	assert.Equal(t, []models.Modifier{{Metric: models.MetricRPE, Value: 0.6}}, day2.Modifiers)
	assert.Len(t, day2.ExerciseOverrides, 2)
	assert.Equal(t, 5.0, *day2.ExerciseOverrides["bench"].Sets[0].Reps)
	assert.Len(t, day2.ExerciseOverrides["squat"].Sets, 1)

	assert.NotContains(t, p.Mesocycle.Cycles[1].Days, 40)
}

func TestDecodeCurrentRoundTrip(t *testing.T) {
	p := &models.Plan{ID: "p1", Name: "Base", Days: map[int]string{1: "r1"}}
	SetCycleCount(p, 3)
	AddModifier(p, 2, 4, models.Modifier{Metric: models.MetricWeight, Value: 2.5})
	Migrate(p)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, Version(data))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, p.Days, got.Days)
	assert.Equal(t, 3, got.Mesocycle.CycleCount)
	assert.Equal(t, []models.Modifier{{Metric: models.MetricWeight, Value: 2.5}}, LookupDay(got, 2, 4).Modifiers)
}

func TestDecodeToleratesMissingAndMalformedMesocycle(t *testing.T) {
	for _, doc := range []string{`{"id":"a"}`, `{"id":"a","mesocycle":"broken"}`, `{"id":"a","mesocycle":null}`} {
		p, err := Decode([]byte(doc))
		require.NoError(t, err, doc)
		assert.Equal(t, 1, p.Mesocycle.CycleCount)
		assert.Equal(t, 1, p.Mesocycle.SelectedCycle)
		assert.Empty(t, p.Mesocycle.Cycles)
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	_, err := Decode([]byte(`[1,2]`))
	assert.Error(t, err)
}
