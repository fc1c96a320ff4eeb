package models

import "time"

// Metric names the prescription field a Modifier adjusts.
type Metric string

const (
	MetricReps   Metric = "reps"   // percentage delta
	MetricWeight Metric = "weight" // percentage delta
	MetricRPE    Metric = "rpe"    // absolute delta
	MetricSets   Metric = "sets"   // absolute integer delta on set count
)

// Metrics lists the known modifier metrics in display order.
var Metrics = []Metric{MetricReps, MetricWeight, MetricRPE, MetricSets}

// Valid reports whether m is a known modifier metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricReps, MetricWeight, MetricRPE, MetricSets:
		return true
	}
	return false
}

// Modifier is a day-scoped adjustment applied to one metric across all sets of a move.
type Modifier struct {
	Metric Metric  `json:"metric"`
	Value  float64 `json:"value"`
}

// ExerciseOverride replaces the prescription for one exercise on one day.
type ExerciseOverride struct {
	Sets []SetValues `json:"sets"`
}

// DayData holds the modifiers and overrides of one mesocycle day.
type DayData struct {
	Modifiers         []Modifier                  `json:"modifiers"`
	ExerciseOverrides map[string]ExerciseOverride `json:"exerciseOverrides"`
}

// CycleData holds the days of one cycle, keyed 1..28.
type CycleData struct {
	Days map[int]*DayData `json:"days"`
}

// Mesocycle is the repeating block of cycles attached to a plan.
type Mesocycle struct {
	CycleCount    int                `json:"cycleCount"`
	SelectedCycle int                `json:"selectedCycle"`
	Cycles        map[int]*CycleData `json:"cycles"`
}

// Plan is the active training plan: which routine runs on which day and the
// mesocycle adjustments layered on top.
type Plan struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	SchemaVersion int            `json:"schemaVersion"`
	Days          map[int]string `json:"days"`
	Mesocycle     Mesocycle      `json:"mesocycle"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
