package analytics

import (
	"sort"
	"time"

	"github.com/claude/cyclelift/internal/models"
)

// Bucket is the merged metrics of every entry sharing one calendar date (or
// one week, keyed by its first day).
type Bucket struct {
	Date    string  `json:"date"`
	Entries int     `json:"entries"`
	Metrics Metrics `json:"metrics"`
}

// StartOfWeek returns midnight of the first day of t's week.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	back := (int(t.Weekday()) - int(weekStart) + 7) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
}

// DailyRollup merges entries by calendar date, ascending.
func DailyRollup(entries []Entry) []Bucket {
	return rollup(entries, func(e Entry) string { return models.CalendarDate(e.Date) })
}

// WeeklyRollup merges entries by the week they fall in, ascending.
func WeeklyRollup(entries []Entry, weekStart time.Weekday) []Bucket {
	return rollup(entries, func(e Entry) string { return models.FormatDate(StartOfWeek(e.Time, weekStart)) })
}

func rollup(entries []Entry, key func(Entry) string) []Bucket {
	byKey := make(map[string]*Bucket)
	for _, e := range entries {
		k := key(e)
		b, ok := byKey[k]
		if !ok {
			byKey[k] = &Bucket{Date: k, Entries: 1, Metrics: merge(Metrics{}, e.Metrics)}
			continue
		}
		b.Entries++
		b.Metrics = merge(b.Metrics, e.Metrics)
	}
	out := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WeekSets is one point of the sets-per-week series.
type WeekSets struct {
	Week   string             `json:"week"`
	Sets   int                `json:"sets"`
	Status models.RangeStatus `json:"status"`
}

// SetsPerWeek returns the completed-set count of every week from the first
// to the last entry, including empty weeks, judged against goal.
func SetsPerWeek(entries []Entry, weekStart time.Weekday, goal models.Range) []WeekSets {
	weeks := WeeklyRollup(entries, weekStart)
	if len(weeks) == 0 {
		return []WeekSets{}
	}
	counts := make(map[string]int, len(weeks))
	for _, w := range weeks {
		counts[w.Date] = w.Metrics.SetCount
	}

	first, err := time.Parse(time.DateOnly, weeks[0].Date)
	if err != nil {
		return []WeekSets{}
	}
	last := weeks[len(weeks)-1].Date

	var out []WeekSets
	for d := first; ; d = d.AddDate(0, 0, 7) {
		key := models.FormatDate(d)
		if key > last {
			break
		}
		n := counts[key]
		out = append(out, WeekSets{Week: key, Sets: n, Status: goal.Evaluate(float64(n))})
	}
	return out
}

// GoalStatus is the latest value measured against one goal range.
type GoalStatus struct {
	Value  *float64           `json:"value"`
	Range  models.Range       `json:"range"`
	Status models.RangeStatus `json:"status"`
}

// GoalReport is the status of every range goal of an exercise.
type GoalReport struct {
	SetsWeek GoalStatus `json:"setsWeek"`
	Volume   GoalStatus `json:"volume"`
	Reps     GoalStatus `json:"reps"`
}

// EvaluateGoals measures the latest week's set count and the latest day's
// volume and reps against the exercise's goal ranges.
func EvaluateGoals(goal models.Goal, daily, weekly []Bucket) GoalReport {
	status := func(r models.Range, v *float64) GoalStatus {
		s := GoalStatus{Value: v, Range: r, Status: models.RangeUnset}
		if v != nil {
			s.Status = r.Evaluate(*v)
		}
		return s
	}

	var sets, volume, reps *float64
	if n := len(weekly); n > 0 {
		v := float64(weekly[n-1].Metrics.SetCount)
		sets = &v
	}
	if n := len(daily); n > 0 {
		vol, r := daily[n-1].Metrics.Volume, daily[n-1].Metrics.Reps
		volume, reps = &vol, &r
	}
	return GoalReport{
		SetsWeek: status(goal.SetsWeek, sets),
		Volume:   status(goal.Volume, volume),
		Reps:     status(goal.Reps, reps),
	}
}
