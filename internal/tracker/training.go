package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/plan"
	"github.com/claude/cyclelift/internal/prescription"
)

// Day returns the prescription for (cycle, day) of a plan. A cycle of 0
// means the plan's selected cycle. Each move carries the exercise's most
// recent session before today.
func (t *Tracker) Day(ctx context.Context, planID string, cycle, day int) (*prescription.DayPrescription, error) {
	p, err := t.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if cycle == 0 {
		cycle = p.Mesocycle.SelectedCycle
	}
	day = plan.ClampDay(day)

	routine, err := t.routineFor(ctx, p, day)
	if err != nil {
		return nil, err
	}
	ws, err := t.Workspace(ctx)
	if err != nil {
		return nil, err
	}
	out := prescription.ForDay(p, routine, cycle, day, ws.Names())
	today := models.FormatDate(t.opts.Now().In(t.opts.Location))
	for i, mv := range out.Moves {
		if prev := ws.Index.Before(mv.ExerciseID, today); len(prev) > 0 {
			out.Moves[i].Previous = &prev[0]
		}
	}
	return &out, nil
}

// routineFor returns the routine assigned to day, nil for a rest day or a
// dangling assignment.
func (t *Tracker) routineFor(ctx context.Context, p *models.Plan, day int) (*models.Routine, error) {
	id, ok := p.Days[day]
	if !ok {
		return nil, nil
	}
	r, err := t.GetRoutine(ctx, id)
	if errors.Is(err, ErrNotFound) {
		t.log.Warn("plan references missing routine", "plan", p.ID, "day", day, "routine", id)
		return nil, nil
	}
	return r, err
}

// EffectiveSets returns the prescribed sets of one exercise on (cycle, day).
func (t *Tracker) EffectiveSets(ctx context.Context, planID string, cycle, day int, exerciseID string) ([]models.SetValues, error) {
	d, err := t.Day(ctx, planID, cycle, day)
	if err != nil {
		return nil, err
	}
	for _, mv := range d.Moves {
		if mv.ExerciseID == exerciseID {
			return mv.Sets, nil
		}
	}
	return nil, fmt.Errorf("exercise %q on day %d: %w", exerciseID, d.Day, ErrNotFound)
}

// AddModifier adds a modifier to a plan day. It reports false when the day
// already has one for the metric.
func (t *Tracker) AddModifier(ctx context.Context, planID string, cycle, day int, m models.Modifier) (bool, error) {
	if !m.Metric.Valid() {
		return false, invalid("unknown metric %q", m.Metric)
	}
	var added bool
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		added = plan.AddModifier(p, cycle, day, m)
		return nil
	})
	return added, err
}

// RemoveModifier removes the day's modifier for metric and reports whether
// one was present.
func (t *Tracker) RemoveModifier(ctx context.Context, planID string, cycle, day int, metric models.Metric) (bool, error) {
	var removed bool
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		removed = plan.RemoveModifier(p, cycle, day, metric)
		return nil
	})
	return removed, err
}

// SetOverride replaces the prescription of one exercise on one day.
func (t *Tracker) SetOverride(ctx context.Context, planID string, cycle, day int, exerciseID string, sets []models.SetValues) error {
	if exerciseID == "" {
		return invalid("exercise id is required")
	}
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		plan.SetOverride(p, cycle, day, exerciseID, sets)
		return nil
	})
	return err
}

// ClearOverride removes an override and reports whether one existed.
func (t *Tracker) ClearOverride(ctx context.Context, planID string, cycle, day int, exerciseID string) (bool, error) {
	var cleared bool
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		cleared = plan.ClearOverride(p, cycle, day, exerciseID)
		return nil
	})
	return cleared, err
}

// CopyDay copies one day's modifiers and overrides onto another.
func (t *Tracker) CopyDay(ctx context.Context, planID string, fromCycle, fromDay, toCycle, toDay int) error {
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		plan.CopyDay(p, fromCycle, fromDay, toCycle, toDay)
		return nil
	})
	return err
}

// SetCycleCount sets the plan's cycle count and returns the clamped value.
func (t *Tracker) SetCycleCount(ctx context.Context, planID string, n int) (int, error) {
	var got int
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		got = plan.SetCycleCount(p, n)
		return nil
	})
	return got, err
}

// SelectCycle sets the plan's selected cycle and returns the clamped value.
func (t *Tracker) SelectCycle(ctx context.Context, planID string, n int) (int, error) {
	var got int
	_, err := t.mutatePlan(ctx, planID, func(p *models.Plan) error {
		got = plan.SelectCycle(p, n)
		return nil
	})
	return got, err
}
