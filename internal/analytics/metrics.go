// Package analytics derives performance metrics, personal-record medals, goal
// trends and rollups from logged session history. Everything here is a pure
// function of its inputs and is recomputed on demand.
package analytics

import (
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
)

// Valid RPE scale. Values outside it are ignored for averaging.
const (
	MinRPE = 5.0
	MaxRPE = 10.0
)

// EstimateORM is the Epley estimate of a one-rep max.
func EstimateORM(weight, reps float64) float64 {
	return weight * (1 + reps/30)
}

// EstimateTenRM converts an estimated one-rep max into a ten-rep max.
func EstimateTenRM(orm float64) float64 {
	return orm / (1 + 10.0/30)
}

// Metrics is the aggregate of one exercise in one session, or of a rollup
// bucket.
type Metrics struct {
	Reps      float64  `json:"reps"`
	Weight    float64  `json:"weight"`
	ORM       float64  `json:"orm"`
	TenRM     float64  `json:"tenrm"`
	TenRMReal *float64 `json:"tenrmReal"`
	Volume    float64  `json:"volume"`
	SetCount  int      `json:"setCount"`
	RPESum    float64  `json:"rpeSum"`
	RPECount  int      `json:"rpeCount"`
	AvgRPE    *float64 `json:"avgRpe"`
	HasData   bool     `json:"hasData"`
}

// ComputeMetrics aggregates a list of sets. Callers filter out sets that were
// not completed.
func ComputeMetrics(sets []models.SetValues) Metrics {
	var m Metrics
	for _, s := range sets {
		if s.IsEmpty() {
			continue
		}
		m.SetCount++

		var reps, weight float64
		if s.Reps != nil {
			reps = *s.Reps
		}
		if s.Weight != nil {
			weight = *s.Weight
			m.Weight = max(m.Weight, weight)
		}
		if reps > 0 {
			m.Reps += reps
			m.HasData = true
		}
		if weight > 0 {
			m.HasData = true
		}
		if s.RPE != nil && *s.RPE >= MinRPE && *s.RPE <= MaxRPE {
			m.RPESum += *s.RPE
			m.RPECount++
			m.HasData = true
		}
		if weight > 0 && reps > 0 {
			m.Volume += reps * weight
			orm := EstimateORM(weight, reps)
			m.ORM = max(m.ORM, orm)
			m.TenRM = max(m.TenRM, EstimateTenRM(orm))
		}
		if reps == 10 && weight > 0 {
			if m.TenRMReal == nil || weight > *m.TenRMReal {
				w := weight
				m.TenRMReal = &w
			}
			m.HasData = true
		}
	}
	m.AvgRPE = avgRPE(m.RPESum, m.RPECount)
	return m
}

func avgRPE(sum float64, count int) *float64 {
	if count == 0 {
		return nil
	}
	v := sum / float64(count)
	return &v
}

// DoneValues returns the reps/weight/rpe of the completed sets.
func DoneValues(sets []models.LoggedSet) []models.SetValues {
	out := make([]models.SetValues, 0, len(sets))
	for _, s := range sets {
		if s.Done {
			out = append(out, s.Values())
		}
	}
	return out
}

// merge combines two aggregates: maxima for weight and the rep-max
// estimates, sums for everything else.
func merge(a, b Metrics) Metrics {
	out := Metrics{
		Reps:     a.Reps + b.Reps,
		Weight:   max(a.Weight, b.Weight),
		ORM:      max(a.ORM, b.ORM),
		TenRM:    max(a.TenRM, b.TenRM),
		Volume:   a.Volume + b.Volume,
		SetCount: a.SetCount + b.SetCount,
		RPESum:   a.RPESum + b.RPESum,
		RPECount: a.RPECount + b.RPECount,
		HasData:  a.HasData || b.HasData,
	}
	switch {
	case a.TenRMReal == nil:
		out.TenRMReal = numeric.Copy(b.TenRMReal)
	case b.TenRMReal == nil || *a.TenRMReal >= *b.TenRMReal:
		out.TenRMReal = numeric.Copy(a.TenRMReal)
	default:
		out.TenRMReal = numeric.Copy(b.TenRMReal)
	}
	out.AvgRPE = avgRPE(out.RPESum, out.RPECount)
	return out
}
