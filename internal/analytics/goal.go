package analytics

import (
	"time"

	"github.com/claude/cyclelift/internal/models"
)

// Band is the relative tolerance around the straight path to a 1RM goal.
const Band = 0.02

// TrendPoint is one end of a trend segment.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TrendSegment is a straight line between two points.
type TrendSegment struct {
	Start TrendPoint `json:"start"`
	End   TrendPoint `json:"end"`
}

// At interpolates the segment's value at t.
func (s TrendSegment) At(t time.Time) float64 {
	span := s.End.Date.Sub(s.Start.Date)
	if span <= 0 {
		return s.Start.Value
	}
	frac := float64(t.Sub(s.Start.Date)) / float64(span)
	return s.Start.Value + (s.End.Value-s.Start.Value)*frac
}

// clip restricts the segment to [from, to]. It reports false when the two
// do not overlap.
func (s TrendSegment) clip(from, to time.Time) (TrendSegment, bool) {
	start, end := s.Start.Date, s.End.Date
	if from.After(start) {
		start = from
	}
	if to.Before(end) {
		end = to
	}
	if start.After(end) {
		return TrendSegment{}, false
	}
	return TrendSegment{
		Start: TrendPoint{Date: start, Value: s.At(start)},
		End:   TrendPoint{Date: end, Value: s.At(end)},
	}, true
}

// GoalTrend is the tolerance band drawn towards a 1RM goal.
type GoalTrend struct {
	Start       TrendPoint   `json:"start"`
	TargetDate  time.Time    `json:"targetDate"`
	TargetValue float64      `json:"targetValue"`
	Lower       TrendSegment `json:"lower"`
	Upper       TrendSegment `json:"upper"`
}

// Clip returns the lower and upper segments restricted to the visible window
// [rangeStart, rangeEnd]. Nothing is returned when the window misses the goal
// interval.
func (g *GoalTrend) Clip(rangeStart, rangeEnd time.Time) []TrendSegment {
	var out []TrendSegment
	for _, s := range []TrendSegment{g.Lower, g.Upper} {
		if c, ok := s.clip(rangeStart, rangeEnd); ok {
			out = append(out, c)
		}
	}
	return out
}

// ProjectGoal builds the trend band for a 1RM goal from an exercise timeline
// in ascending order.
//
// The start point is the first entry on or after the goal's start date,
// valued at the explicit start value when given and at the entry's estimated
// 1RM otherwise. Without such an entry an explicit start value is anchored at
// the start date. The projection is undefined (false) without a start value,
// when the start value is not positive, or when the target date is not after
// the start point.
func ProjectGoal(goal models.OneRMGoal, timeline []Entry, loc *time.Location) (*GoalTrend, bool) {
	goalStart, err := models.ParseDate(goal.StartDate, loc)
	if err != nil {
		return nil, false
	}
	target, err := models.ParseDate(goal.TargetDate, loc)
	if err != nil {
		return nil, false
	}

	var start TrendPoint
	var found bool
	for _, e := range timeline {
		if models.CalendarDate(e.Date) >= models.CalendarDate(goal.StartDate) {
			start = TrendPoint{Date: e.Time, Value: e.Metrics.ORM}
			found = true
			break
		}
	}
	switch {
	case goal.StartValue != nil && found:
		start.Value = *goal.StartValue
	case goal.StartValue != nil:
		start = TrendPoint{Date: goalStart, Value: *goal.StartValue}
	case !found:
		return nil, false
	}
	if start.Value <= 0 || !target.After(start.Date) {
		return nil, false
	}

	delta := goal.TargetValue - start.Value
	return &GoalTrend{
		Start:       start,
		TargetDate:  target,
		TargetValue: goal.TargetValue,
		Lower:       TrendSegment{Start: start, End: TrendPoint{Date: target, Value: start.Value + delta*(1-Band)}},
		Upper:       TrendSegment{Start: start, End: TrendPoint{Date: target, Value: start.Value + delta*(1+Band)}},
	}, true
}
