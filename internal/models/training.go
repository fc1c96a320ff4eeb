package models

// RoutineMove is the base prescription for one exercise within a routine.
type RoutineMove struct {
	ExerciseID string      `json:"exerciseId"`
	Sets       []SetValues `json:"sets"`
}

// Routine is an ordered list of moves assigned to plan days.
type Routine struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Moves []RoutineMove `json:"moves"`
}

// Range is an inclusive goal range; either bound may be open.
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// IsSet reports whether at least one bound is present.
func (r Range) IsSet() bool {
	return r.Min != nil || r.Max != nil
}

// OneRMGoal describes a target estimated 1RM by a date.
// Dates are YYYY-MM-DD strings. StartValue overrides the value taken from history.
type OneRMGoal struct {
	StartDate   string   `json:"startDate"`
	TargetDate  string   `json:"targetDate"`
	StartValue  *float64 `json:"startValue,omitempty"`
	TargetValue float64  `json:"targetValue"`
}

// Goal groups the per-exercise goals.
type Goal struct {
	SetsWeek Range      `json:"setsWeek"`
	Volume   Range      `json:"volume"`
	Reps     Range      `json:"reps"`
	OneRM    *OneRMGoal `json:"orm,omitempty"`
}

// Exercise is an exercise definition. Unit is informational only.
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
	Goal *Goal  `json:"goal,omitempty"`
}

// RangeStatus is the position of a value relative to a Range.
type RangeStatus string

const (
	RangeUnset  RangeStatus = "unset"
	RangeBelow  RangeStatus = "below"
	RangeWithin RangeStatus = "within"
	RangeAbove  RangeStatus = "above"
)

// Evaluate places v relative to the range. Bounds are inclusive.
func (r Range) Evaluate(v float64) RangeStatus {
	switch {
	case !r.IsSet():
		return RangeUnset
	case r.Min != nil && v < *r.Min:
		return RangeBelow
	case r.Max != nil && v > *r.Max:
		return RangeAbove
	}
	return RangeWithin
}
