package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/cyclelift/internal/analytics"
	"github.com/claude/cyclelift/internal/models"
)

// Aggregation selects the rollup granularity.
type Aggregation string

const (
	AggregateNone Aggregation = ""
	AggregateDay  Aggregation = "day"
	AggregateWeek Aggregation = "week"
)

// SessionMedals returns, per exercise, the medals earned by each set of the
// session stored under date.
func (t *Tracker) SessionMedals(ctx context.Context, date string) (map[string]map[int][]analytics.Medal, error) {
	s, err := t.GetSession(ctx, date)
	if err != nil {
		return nil, err
	}
	ws, err := t.Workspace(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[int][]analytics.Medal, len(s.Exercises))
	for _, ex := range s.Exercises {
		out[ex.ExerciseID] = analytics.DetectMedals(ws.Index.PriorSets(ex.ExerciseID, date), ex.Sets)
	}
	return out, nil
}

// countMedals records the medals a saved session earned. It runs before the
// workspace is reset, so the index still holds only the other sessions.
func (t *Tracker) countMedals(ctx context.Context, s *models.Session) {
	ws, err := t.Workspace(ctx)
	if err != nil {
		t.log.Warn("medals not counted", "date", s.Date, "error", err)
		return
	}
	for _, ex := range s.Exercises {
		for _, list := range analytics.DetectMedals(ws.Index.PriorSets(ex.ExerciseID, s.Date), ex.Sets) {
			for _, m := range list {
				t.metrics.CounterMedals.WithLabelValues(string(m)).Inc()
			}
		}
	}
}

// History returns the exercise timeline, limited to [start, end] when both
// are set.
func (t *Tracker) History(ctx context.Context, exerciseID string, start, end time.Time) ([]analytics.Entry, error) {
	ws, err := t.Workspace(ctx)
	if err != nil {
		return nil, err
	}
	if start.IsZero() && end.IsZero() {
		return ws.Index.Timeline(exerciseID), nil
	}
	if end.IsZero() {
		end = t.opts.Now()
	}
	return ws.Index.Within(exerciseID, start, end), nil
}

// Rollup merges the exercise history per day or per week.
func (t *Tracker) Rollup(ctx context.Context, exerciseID string, agg Aggregation, start, end time.Time) ([]analytics.Bucket, error) {
	entries, err := t.History(ctx, exerciseID, start, end)
	if err != nil {
		return nil, err
	}
	switch agg {
	case AggregateDay, AggregateNone:
		return analytics.DailyRollup(entries), nil
	case AggregateWeek:
		return analytics.WeeklyRollup(entries, t.opts.WeekStart), nil
	default:
		return nil, invalid("unknown aggregation %q", agg)
	}
}

// WeeklySets returns the sets-per-week series of an exercise judged against
// its weekly-sets goal.
func (t *Tracker) WeeklySets(ctx context.Context, exerciseID string) ([]analytics.WeekSets, error) {
	ws, err := t.Workspace(ctx)
	if err != nil {
		return nil, err
	}
	var goal models.Range
	if ex, ok := ws.Exercises[exerciseID]; ok && ex.Goal != nil {
		goal = ex.Goal.SetsWeek
	}
	return analytics.SetsPerWeek(ws.Index.Timeline(exerciseID), t.opts.WeekStart, goal), nil
}

// GoalTrendView is the 1RM goal band of an exercise clipped to a window.
type GoalTrendView struct {
	Defined  bool                     `json:"defined"`
	Goal     *models.OneRMGoal        `json:"goal,omitempty"`
	Trend    *analytics.GoalTrend     `json:"trend,omitempty"`
	Segments []analytics.TrendSegment `json:"segments"`
}

// GoalTrend projects the exercise's 1RM goal. Zero window bounds default to
// the goal's own interval.
func (t *Tracker) GoalTrend(ctx context.Context, exerciseID string, start, end time.Time) (*GoalTrendView, error) {
	ws, err := t.Workspace(ctx)
	if err != nil {
		return nil, err
	}
	ex, ok := ws.Exercises[exerciseID]
	if !ok {
		return nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrNotFound)
	}

	view := &GoalTrendView{Segments: []analytics.TrendSegment{}}
	if ex.Goal == nil || ex.Goal.OneRM == nil {
		return view, nil
	}
	view.Goal = ex.Goal.OneRM

	trend, ok := analytics.ProjectGoal(*ex.Goal.OneRM, ws.Index.Timeline(exerciseID), t.opts.Location)
	if !ok {
		return view, nil
	}
	view.Defined = true
	view.Trend = trend

	if start.IsZero() {
		start = trend.Start.Date
	}
	if end.IsZero() {
		end = trend.TargetDate
	}
	if segs := trend.Clip(start, end); segs != nil {
		view.Segments = segs
	}
	return view, nil
}

// GoalReport evaluates the exercise's range goals against its latest
// daily and weekly rollups.
func (t *Tracker) GoalReport(ctx context.Context, exerciseID string) (*analytics.GoalReport, error) {
	ws, err := t.Workspace(ctx)
	if err != nil {
		return nil, err
	}
	ex, ok := ws.Exercises[exerciseID]
	if !ok {
		return nil, fmt.Errorf("exercise %q: %w", exerciseID, ErrNotFound)
	}
	var goal models.Goal
	if ex.Goal != nil {
		goal = *ex.Goal
	}
	timeline := ws.Index.Timeline(exerciseID)
	report := analytics.EvaluateGoals(goal,
		analytics.DailyRollup(timeline),
		analytics.WeeklyRollup(timeline, t.opts.WeekStart))
	return &report, nil
}
