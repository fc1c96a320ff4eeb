package models

import (
	"encoding/json"

	"github.com/claude/cyclelift/internal/numeric"
)

// SetValues is one prescribed set. Any field may be absent.
type SetValues struct {
	Reps   *float64 `json:"reps"`
	Weight *float64 `json:"weight"`
	RPE    *float64 `json:"rpe"`
}

// Clone returns a copy that shares no pointers with s.
func (s SetValues) Clone() SetValues {
	return SetValues{
		Reps:   numeric.Copy(s.Reps),
		Weight: numeric.Copy(s.Weight),
		RPE:    numeric.Copy(s.RPE),
	}
}

// IsEmpty reports whether no field is set.
func (s SetValues) IsEmpty() bool {
	return s.Reps == nil && s.Weight == nil && s.RPE == nil
}

// UnmarshalJSON reads numeric fields tolerantly: strings that parse become
// numbers and anything else becomes nil.
func (s *SetValues) UnmarshalJSON(data []byte) error {
	var raw struct {
		Reps   any `json:"reps"`
		Weight any `json:"weight"`
		RPE    any `json:"rpe"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SetValues{
		Reps:   numeric.NullableFloat(raw.Reps),
		Weight: numeric.NullableFloat(raw.Weight),
		RPE:    numeric.NullableFloat(raw.RPE),
	}
	return nil
}

// CloneSets deep-copies a set list. A nil input yields an empty slice.
func CloneSets(sets []SetValues) []SetValues {
	out := make([]SetValues, len(sets))
	for i, s := range sets {
		out[i] = s.Clone()
	}
	return out
}

// LoggedSet is a set as actually performed within a session.
// Pos is 1-based. Rest is in seconds.
type LoggedSet struct {
	Pos    int      `json:"pos"`
	Reps   *float64 `json:"reps"`
	Weight *float64 `json:"weight"`
	RPE    *float64 `json:"rpe"`
	Rest   *float64 `json:"rest,omitempty"`
	Done   bool     `json:"done"`
}

// Values returns the reps/weight/rpe triple of the set.
func (s LoggedSet) Values() SetValues {
	return SetValues{Reps: s.Reps, Weight: s.Weight, RPE: s.RPE}
}

// UnmarshalJSON reads numeric fields tolerantly; done defaults to false.
func (s *LoggedSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pos    any `json:"pos"`
		Reps   any `json:"reps"`
		Weight any `json:"weight"`
		RPE    any `json:"rpe"`
		Rest   any `json:"rest"`
		Done   any `json:"done"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = LoggedSet{
		Pos:    numeric.IntOr(raw.Pos, 0),
		Reps:   numeric.NullableFloat(raw.Reps),
		Weight: numeric.NullableFloat(raw.Weight),
		RPE:    numeric.NullableFloat(raw.RPE),
		Rest:   numeric.NullableFloat(raw.Rest),
		Done:   numeric.Bool(raw.Done),
	}
	return nil
}
