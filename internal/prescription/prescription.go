// Package prescription merges a routine's base sets with the mesocycle
// modifiers and overrides of one day into the sets actually prescribed.
package prescription

import (
	"github.com/claude/cyclelift/internal/analytics"
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
	"github.com/claude/cyclelift/internal/plan"
)

// Placeholder names for references that no longer resolve.
const (
	RestDayName         = "Rest day"
	UnknownExerciseName = "Unknown exercise"
)

// EffectiveSets returns the sets prescribed for one exercise on one day.
//
// A non-empty override is returned as-is and modifiers are ignored. Otherwise
// the sets modifier changes the set count first, then reps and weight are
// scaled by their percentage and rpe is shifted by its absolute delta. The
// result never aliases the inputs.
func EffectiveSets(base []models.SetValues, modifiers []models.Modifier, override *models.ExerciseOverride) []models.SetValues {
	if override != nil && len(override.Sets) > 0 {
		return models.CloneSets(override.Sets)
	}

	sets := models.CloneSets(base)

	if m, ok := plan.FindModifier(modifiers, models.MetricSets); ok {
		sets = resize(sets, numeric.RoundSetsDelta(m.Value))
	}
	if m, ok := plan.FindModifier(modifiers, models.MetricReps); ok {
		for i := range sets {
			sets[i].Reps = scale(sets[i].Reps, m.Value)
		}
	}
	if m, ok := plan.FindModifier(modifiers, models.MetricWeight); ok {
		for i := range sets {
			sets[i].Weight = scale(sets[i].Weight, m.Value)
		}
	}
	if m, ok := plan.FindModifier(modifiers, models.MetricRPE); ok {
		for i := range sets {
			if sets[i].RPE != nil {
				sets[i].RPE = numeric.Ptr(numeric.RoundRPE(*sets[i].RPE + m.Value))
			}
		}
	}
	return sets
}

// resize appends clones of the last set for a positive delta and trims from
// the end for a negative one.
func resize(sets []models.SetValues, delta int) []models.SetValues {
	switch {
	case delta > 0:
		last := models.SetValues{}
		if len(sets) > 0 {
			last = sets[len(sets)-1]
		}
		for range delta {
			sets = append(sets, last.Clone())
		}
	case delta < 0:
		sets = sets[:max(0, len(sets)+delta)]
	}
	return sets
}

func scale(v *float64, percent float64) *float64 {
	if v == nil {
		return nil
	}
	return numeric.Ptr(numeric.RoundPercent(*v * (1 + percent/100)))
}

// MovePrescription is one exercise of a day with its base and effective sets.
type MovePrescription struct {
	ExerciseID   string             `json:"exerciseId"`
	ExerciseName string             `json:"exerciseName"`
	BaseSets     []models.SetValues `json:"baseSets"`
	Sets         []models.SetValues `json:"sets"`
	Overridden   bool               `json:"overridden"`
	// Previous is the last session with data for the exercise before the
	// day is looked up. ForDay leaves it nil.
	Previous *analytics.Entry `json:"previous,omitempty"`
}

// DayPrescription is everything prescribed for one (cycle, day).
type DayPrescription struct {
	Cycle       int                `json:"cycle"`
	Day         int                `json:"day"`
	RoutineID   string             `json:"routineId,omitempty"`
	RoutineName string             `json:"routineName"`
	Modifiers   []models.Modifier  `json:"modifiers"`
	Moves       []MovePrescription `json:"moves"`
}

// ForDay applies EffectiveSets to every move of routine for (cycle, day).
// A nil routine yields a rest day. names maps exercise IDs to display names;
// IDs missing from it get a placeholder.
func ForDay(p *models.Plan, routine *models.Routine, cycle, day int, names map[string]string) DayPrescription {
	cycle, day = plan.ClampCycle(cycle), plan.ClampDay(day)
	out := DayPrescription{
		Cycle:       cycle,
		Day:         day,
		RoutineName: RestDayName,
		Modifiers:   []models.Modifier{},
		Moves:       []MovePrescription{},
	}
	if routine == nil {
		return out
	}
	out.RoutineID = routine.ID
	out.RoutineName = routine.Name

	var mods []models.Modifier
	d := plan.LookupDay(p, cycle, day)
	if d != nil {
		mods = d.Modifiers
		out.Modifiers = append(out.Modifiers, mods...)
	}

	for _, mv := range routine.Moves {
		name, ok := names[mv.ExerciseID]
		if !ok || name == "" {
			name = UnknownExerciseName
		}
		var override *models.ExerciseOverride
		if d != nil {
			if o, ok := d.ExerciseOverrides[mv.ExerciseID]; ok && len(o.Sets) > 0 {
				override = &o
			}
		}
		out.Moves = append(out.Moves, MovePrescription{
			ExerciseID:   mv.ExerciseID,
			ExerciseName: name,
			BaseSets:     models.CloneSets(mv.Sets),
			Sets:         EffectiveSets(mv.Sets, mods, override),
			Overridden:   override != nil,
		})
	}
	return out
}
