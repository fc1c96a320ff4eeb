// Package plan manages the mesocycle structure of a training plan: per-day
// modifiers and per-exercise overrides, cycle bookkeeping and the migration of
// stored plan documents into the current schema.
package plan

import (
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
)

const (
	// MaxCycles bounds the number of cycles in a mesocycle.
	MaxCycles = 12
	// DaysPerCycle bounds the day index within a cycle.
	DaysPerCycle = 28
)

// ClampCycle limits a cycle index to [1, MaxCycles].
func ClampCycle(cycle int) int {
	return numeric.ClampInt(cycle, 1, MaxCycles)
}

// ClampDay limits a day index to [1, DaysPerCycle].
func ClampDay(day int) int {
	return numeric.ClampInt(day, 1, DaysPerCycle)
}

func newDay() *models.DayData {
	return &models.DayData{
		Modifiers:         []models.Modifier{},
		ExerciseOverrides: map[string]models.ExerciseOverride{},
	}
}

// EnsureDayData returns the day entry for (cycle, day), creating any missing
// level on the way. Indices are clamped into range first.
func EnsureDayData(p *models.Plan, cycle, day int) *models.DayData {
	cycle, day = ClampCycle(cycle), ClampDay(day)

	if p.Mesocycle.Cycles == nil {
		p.Mesocycle.Cycles = make(map[int]*models.CycleData)
	}
	c := p.Mesocycle.Cycles[cycle]
	if c == nil {
		c = &models.CycleData{}
		p.Mesocycle.Cycles[cycle] = c
	}
	if c.Days == nil {
		c.Days = make(map[int]*models.DayData)
	}
	d := c.Days[day]
	if d == nil {
		d = newDay()
		c.Days[day] = d
	}
	if d.Modifiers == nil {
		d.Modifiers = []models.Modifier{}
	}
	if d.ExerciseOverrides == nil {
		d.ExerciseOverrides = map[string]models.ExerciseOverride{}
	}
	return d
}

// LookupDay returns the day entry for (cycle, day) without creating it.
func LookupDay(p *models.Plan, cycle, day int) *models.DayData {
	if p == nil || p.Mesocycle.Cycles == nil {
		return nil
	}
	c := p.Mesocycle.Cycles[ClampCycle(cycle)]
	if c == nil || c.Days == nil {
		return nil
	}
	return c.Days[ClampDay(day)]
}

// NormalizeModifier re-derives the value with the metric's rounding rule.
// Unknown metrics report false.
func NormalizeModifier(m models.Modifier) (models.Modifier, bool) {
	switch m.Metric {
	case models.MetricReps, models.MetricWeight:
		m.Value = numeric.RoundPercent(m.Value)
	case models.MetricRPE:
		m.Value = numeric.RoundRPE(m.Value)
	case models.MetricSets:
		m.Value = float64(numeric.RoundSetsDelta(m.Value))
	default:
		return m, false
	}
	return m, true
}

// NormalizeModifiers drops unknown metrics, re-rounds values and keeps only
// the first modifier per metric.
func NormalizeModifiers(list []models.Modifier) []models.Modifier {
	out := make([]models.Modifier, 0, len(list))
	seen := make(map[models.Metric]bool, len(list))
	for _, m := range list {
		m, ok := NormalizeModifier(m)
		if !ok || seen[m.Metric] {
			continue
		}
		seen[m.Metric] = true
		out = append(out, m)
	}
	return out
}

// HasModifier reports whether the day already carries a modifier for metric.
func HasModifier(d *models.DayData, metric models.Metric) bool {
	if d == nil {
		return false
	}
	for _, m := range d.Modifiers {
		if m.Metric == metric {
			return true
		}
	}
	return false
}

// FindModifier returns the day's modifier for metric.
func FindModifier(mods []models.Modifier, metric models.Metric) (models.Modifier, bool) {
	for _, m := range mods {
		if m.Metric == metric {
			return m, true
		}
	}
	return models.Modifier{}, false
}

// AddModifier inserts m into the day. It is a no-op returning false when the
// metric is unknown or already present.
func AddModifier(p *models.Plan, cycle, day int, m models.Modifier) bool {
	m, ok := NormalizeModifier(m)
	if !ok {
		return false
	}
	d := EnsureDayData(p, cycle, day)
	if HasModifier(d, m.Metric) {
		return false
	}
	d.Modifiers = append(d.Modifiers, m)
	return true
}

// RemoveModifier deletes the day's modifier for metric and reports whether
// one was present.
func RemoveModifier(p *models.Plan, cycle, day int, metric models.Metric) bool {
	d := LookupDay(p, cycle, day)
	if d == nil {
		return false
	}
	for i, m := range d.Modifiers {
		if m.Metric == metric {
			d.Modifiers = append(d.Modifiers[:i:i], d.Modifiers[i+1:]...)
			return true
		}
	}
	return false
}

// SetOverride stores an explicit set list for exerciseID on the day. An empty
// list removes the override.
func SetOverride(p *models.Plan, cycle, day int, exerciseID string, sets []models.SetValues) {
	if len(sets) == 0 {
		ClearOverride(p, cycle, day, exerciseID)
		return
	}
	d := EnsureDayData(p, cycle, day)
	d.ExerciseOverrides[exerciseID] = models.ExerciseOverride{Sets: models.CloneSets(sets)}
}

// ClearOverride removes the override for exerciseID and reports whether one existed.
func ClearOverride(p *models.Plan, cycle, day int, exerciseID string) bool {
	d := LookupDay(p, cycle, day)
	if d == nil {
		return false
	}
	if _, ok := d.ExerciseOverrides[exerciseID]; !ok {
		return false
	}
	delete(d.ExerciseOverrides, exerciseID)
	return true
}

// Override returns the override for exerciseID on the day, if any.
func Override(p *models.Plan, cycle, day int, exerciseID string) *models.ExerciseOverride {
	d := LookupDay(p, cycle, day)
	if d == nil {
		return nil
	}
	o, ok := d.ExerciseOverrides[exerciseID]
	if !ok {
		return nil
	}
	return &o
}

// SetCycleCount sets the number of cycles, clamped into [1, MaxCycles]. The
// selected cycle is pulled back into range when the count shrinks. Cycle data
// beyond the new count is kept.
func SetCycleCount(p *models.Plan, n int) int {
	p.Mesocycle.CycleCount = ClampCycle(n)
	p.Mesocycle.SelectedCycle = numeric.ClampInt(p.Mesocycle.SelectedCycle, 1, p.Mesocycle.CycleCount)
	return p.Mesocycle.CycleCount
}

// SelectCycle sets the selected cycle, clamped into [1, MaxCycles] and the
// current cycle count.
func SelectCycle(p *models.Plan, n int) int {
	limit := ClampCycle(p.Mesocycle.CycleCount)
	p.Mesocycle.SelectedCycle = numeric.ClampInt(ClampCycle(n), 1, limit)
	return p.Mesocycle.SelectedCycle
}

// CopyDay replaces the target day's modifiers and overrides with a deep copy
// of the source day's.
func CopyDay(p *models.Plan, fromCycle, fromDay, toCycle, toDay int) {
	mods := []models.Modifier{}
	overrides := map[string]models.ExerciseOverride{}
	if src := LookupDay(p, fromCycle, fromDay); src != nil {
		mods = append(mods, src.Modifiers...)
		for id, o := range src.ExerciseOverrides {
			overrides[id] = models.ExerciseOverride{Sets: models.CloneSets(o.Sets)}
		}
	}
	dst := EnsureDayData(p, toCycle, toDay)
	dst.Modifiers = mods
	dst.ExerciseOverrides = overrides
}
