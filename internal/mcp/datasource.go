package mcp

import (
	"context"
	"time"

	"github.com/claude/cyclelift/internal/analytics"
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/prescription"
	"github.com/claude/cyclelift/internal/tracker"
)

// DataSource abstracts the training engine for MCP tools. Both
// *tracker.Tracker (local) and HTTPClient (remote via REST API) satisfy
// this interface.
type DataSource interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	Day(ctx context.Context, planID string, cycle, day int) (*prescription.DayPrescription, error)
	History(ctx context.Context, exerciseID string, start, end time.Time) ([]analytics.Entry, error)
	Rollup(ctx context.Context, exerciseID string, agg tracker.Aggregation, start, end time.Time) ([]analytics.Bucket, error)
	SessionMedals(ctx context.Context, date string) (map[string]map[int][]analytics.Medal, error)
	GoalTrend(ctx context.Context, exerciseID string, start, end time.Time) (*tracker.GoalTrendView, error)
	WeeklySets(ctx context.Context, exerciseID string) ([]analytics.WeekSets, error)
}

// Compile-time check: *tracker.Tracker satisfies DataSource.
var _ DataSource = (*tracker.Tracker)(nil)
