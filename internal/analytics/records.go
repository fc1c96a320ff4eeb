package analytics

import (
	"sort"

	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/numeric"
)

// Medal tags a logged set that beat a personal best.
type Medal string

const (
	MedalWeight   Medal = "weight"
	MedalORM      Medal = "orm"
	MedalReps     Medal = "reps"
	MedalProgress Medal = "progress"
	MedalNew      Medal = "new"
)

// MaxMedalsPerSet is the display limit applied after evaluation.
const MaxMedalsPerSet = 3

// Pair is a weight/reps combination recorded at one set position.
type Pair struct {
	Weight float64 `json:"weight"`
	Reps   float64 `json:"reps"`
}

// Beats reports whether p is strictly better than q: heavier, or as heavy
// with more reps.
func (p Pair) Beats(q Pair) bool {
	return p.Weight > q.Weight || (p.Weight == q.Weight && p.Reps > q.Reps)
}

// Baseline holds the personal bests derived from prior completed sets.
type Baseline struct {
	// Empty is true when there is no prior completed set at all.
	Empty        bool
	MaxWeight    float64
	MaxORM       float64
	RepsAtWeight map[string]float64
	BestAtPos    map[int]Pair
}

// NewBaseline computes the personal bests of the completed sets in prior.
func NewBaseline(prior []models.LoggedSet) Baseline {
	b := Baseline{
		Empty:        true,
		RepsAtWeight: make(map[string]float64),
		BestAtPos:    make(map[int]Pair),
	}
	for _, s := range prior {
		if !s.Done {
			continue
		}
		b.Empty = false
		w := setWeight(s)
		b.MaxWeight = max(b.MaxWeight, w)
		if s.Reps == nil {
			continue
		}
		r := *s.Reps
		if w > 0 && r > 0 {
			b.MaxORM = max(b.MaxORM, EstimateORM(w, r))
		}
		key := numeric.WeightKey(w)
		if best, ok := b.RepsAtWeight[key]; !ok || r > best {
			b.RepsAtWeight[key] = r
		}
		pair := Pair{Weight: w, Reps: r}
		if best, ok := b.BestAtPos[s.Pos]; !ok || pair.Beats(best) {
			b.BestAtPos[s.Pos] = pair
		}
	}
	return b
}

// setWeight reads a missing weight as 0, so unloaded sets such as pull-ups
// still compare by reps.
func setWeight(s models.LoggedSet) float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// DetectMedals assigns medals to the sets of one session for one exercise,
// judged against every set logged for it before the session.
//
// weight, orm and reps go to at most one set each, the first completed set
// in position order that beats the baseline. progress may go to any number
// of sets. new goes to position 1 only, and only without prior history.
// Incomplete sets get nothing. Each list is capped at MaxMedalsPerSet.
func DetectMedals(prior, current []models.LoggedSet) map[int][]Medal {
	return NewBaseline(prior).Detect(current)
}

// Detect assigns medals to current against b.
func (b Baseline) Detect(current []models.LoggedSet) map[int][]Medal {
	sets := append([]models.LoggedSet(nil), current...)
	sort.SliceStable(sets, func(i, j int) bool { return sets[i].Pos < sets[j].Pos })

	out := make(map[int][]Medal, len(sets))
	var gotWeight, gotORM, gotReps bool

	for _, s := range sets {
		medals := []Medal{}
		if !s.Done {
			if _, seen := out[s.Pos]; !seen {
				out[s.Pos] = medals
			}
			continue
		}
		if b.Empty {
			if s.Pos == 1 {
				medals = append(medals, MedalNew)
			}
			out[s.Pos] = medals
			continue
		}

		hasPair := s.Reps != nil
		w := setWeight(s)
		var r float64
		if hasPair {
			r = *s.Reps
		}

		if !gotWeight && w > 0 && w > b.MaxWeight {
			medals = append(medals, MedalWeight)
			gotWeight = true
		}
		if !gotORM && w > 0 && r > 0 && EstimateORM(w, r) > b.MaxORM {
			medals = append(medals, MedalORM)
			gotORM = true
		}
		if !gotReps && hasPair {
			if best, ok := b.RepsAtWeight[numeric.WeightKey(w)]; ok && r > best {
				medals = append(medals, MedalReps)
				gotReps = true
			}
		}
		if hasPair {
			if best, ok := b.BestAtPos[s.Pos]; ok && (Pair{Weight: w, Reps: r}).Beats(best) {
				medals = append(medals, MedalProgress)
			}
		}

		if len(medals) > MaxMedalsPerSet {
			medals = medals[:MaxMedalsPerSet]
		}
		out[s.Pos] = medals
	}
	return out
}
