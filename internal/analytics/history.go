package analytics

import (
	"sort"
	"time"

	"github.com/claude/cyclelift/internal/models"
)

// Entry is one session's metrics for one exercise.
type Entry struct {
	Date    string    `json:"date"`
	Time    time.Time `json:"-"`
	Metrics Metrics   `json:"metrics"`
}

type loggedDay struct {
	date string
	sets []models.LoggedSet
}

// Index is the per-exercise timeline built from every stored session.
type Index struct {
	timelines map[string][]Entry
	logged    map[string][]loggedDay
}

// BuildIndex builds the history index. Only completed sets feed the metrics
// and entries without data are left out. Sessions whose date key does not
// parse are skipped. Date keys without a zone are read in loc.
func BuildIndex(sessions []models.Session, loc *time.Location) *Index {
	idx := &Index{
		timelines: make(map[string][]Entry),
		logged:    make(map[string][]loggedDay),
	}
	for _, s := range sessions {
		t, err := models.ParseDate(s.Date, loc)
		if err != nil {
			continue
		}
		for _, ex := range s.Exercises {
			if ex.ExerciseID == "" {
				continue
			}
			idx.logged[ex.ExerciseID] = append(idx.logged[ex.ExerciseID], loggedDay{date: s.Date, sets: ex.Sets})

			m := ComputeMetrics(DoneValues(ex.Sets))
			if !m.HasData {
				continue
			}
			idx.timelines[ex.ExerciseID] = append(idx.timelines[ex.ExerciseID], Entry{Date: s.Date, Time: t, Metrics: m})
		}
	}
	for _, tl := range idx.timelines {
		sort.SliceStable(tl, func(i, j int) bool { return tl[i].Date < tl[j].Date })
	}
	for _, days := range idx.logged {
		sort.SliceStable(days, func(i, j int) bool { return days[i].date < days[j].date })
	}
	return idx
}

// ExerciseIDs lists the exercises with at least one timeline entry, sorted.
func (idx *Index) ExerciseIDs() []string {
	ids := make([]string, 0, len(idx.timelines))
	for id := range idx.timelines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Timeline returns the entries of an exercise in ascending date order.
func (idx *Index) Timeline(exerciseID string) []Entry {
	return append([]Entry(nil), idx.timelines[exerciseID]...)
}

// Latest returns the most recent entry of an exercise, today's included.
// Use Before to look past a session that is still being logged.
func (idx *Index) Latest(exerciseID string) (Entry, bool) {
	tl := idx.timelines[exerciseID]
	if len(tl) == 0 {
		return Entry{}, false
	}
	return tl[len(tl)-1], true
}

// Before returns the entries strictly before date, nearest first.
func (idx *Index) Before(exerciseID, date string) []Entry {
	tl := idx.timelines[exerciseID]
	n := sort.Search(len(tl), func(i int) bool { return tl[i].Date >= date })
	out := make([]Entry, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, tl[i])
	}
	return out
}

// Within returns the entries whose time falls in [cutoff, now].
func (idx *Index) Within(exerciseID string, cutoff, now time.Time) []Entry {
	var out []Entry
	for _, e := range idx.timelines[exerciseID] {
		if e.Time.Before(cutoff) || e.Time.After(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// PriorSets returns every set logged for the exercise in sessions strictly
// before date, in session order. Incomplete sets are included; medal
// detection filters them.
func (idx *Index) PriorSets(exerciseID, date string) []models.LoggedSet {
	var out []models.LoggedSet
	for _, d := range idx.logged[exerciseID] {
		if d.date >= date {
			break
		}
		out = append(out, d.sets...)
	}
	return out
}
