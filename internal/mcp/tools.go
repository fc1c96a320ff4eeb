package mcp

import (
	"context"
	"time"

	"github.com/claude/cyclelift/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// optionalTimeRange parses optional start/end bounds. Empty values stay zero,
// which the engine reads as "whole history". A date-only end covers that day.
func optionalTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List training plans with their day-to-routine assignments and mesocycle (cycle count, selected cycle)."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List all exercises with their IDs, names and goals (weekly sets, volume, reps, 1RM target)."),
)

var toolGetDayPrescription = mcp.NewTool("get_day_prescription",
	mcp.WithDescription("Get the effective prescription of one plan day: the routine's base sets with the cycle's modifiers (sets, reps %, weight %, rpe) or per-exercise overrides applied."),
	mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan ID (see list_plans)")),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Day of the microcycle, 1 to 7")),
	mcp.WithNumber("cycle", mcp.Description("Cycle of the mesocycle, 1 to 12. Defaults to the plan's selected cycle.")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Per-session metrics of an exercise: best weight, reps, estimated 1RM and 10RM, volume, set count and average RPE. Optionally rolled up per day or per week."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID (see list_exercises)")),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the first session.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("agg", mcp.Description("Aggregation. Defaults to per session."), mcp.Enum("day", "week")),
)

var toolGetSessionMedals = mcp.NewTool("get_session_medals",
	mcp.WithDescription("Personal-record medals earned by each set of a logged session, per exercise and set position (weight, orm, reps, progress, new)."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Session date (YYYY-MM-DD)")),
)

var toolGetGoalTrend = mcp.NewTool("get_goal_trend",
	mcp.WithDescription("The ±2% band from the starting estimated 1RM to the exercise's 1RM goal, clipped to a window."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
	mcp.WithString("start", mcp.Description("Window start. Defaults to the goal start.")),
	mcp.WithString("end", mcp.Description("Window end. Defaults to the goal target date.")),
)

var toolGetWeeklySets = mcp.NewTool("get_weekly_sets",
	mcp.WithDescription("Completed sets per week for an exercise, judged against its weekly-sets goal (below, within, above)."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise ID")),
)

// --- Tool handlers ---

// jsonResult serializes v as the tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.ListPlans(ctx)
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plans)
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(exercises)
}

func (h *handlers) getDayPrescription(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	planID, err := req.RequireString("plan_id")
	if err != nil {
		return mcp.NewToolResultError("plan_id parameter is required"), nil
	}
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}
	cycle := req.GetInt("cycle", 0)

	d, err := h.ds.Day(ctx, planID, cycle, day)
	if err != nil {
		h.log.Error("mcp get_day_prescription", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(d)
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	start, end, err := optionalTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	agg := tracker.Aggregation(req.GetString("agg", ""))
	if agg == tracker.AggregateNone {
		entries, err := h.ds.History(ctx, id, start, end)
		if err != nil {
			h.log.Error("mcp get_exercise_history", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		return jsonResult(entries)
	}

	buckets, err := h.ds.Rollup(ctx, id, agg, start, end)
	if err != nil {
		h.log.Error("mcp get_exercise_history", "agg", agg, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(buckets)
}

func (h *handlers) getSessionMedals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}

	medals, err := h.ds.SessionMedals(ctx, date)
	if err != nil {
		h.log.Error("mcp get_session_medals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(medals)
}

func (h *handlers) getGoalTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	start, end, err := optionalTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	view, err := h.ds.GoalTrend(ctx, id, start, end)
	if err != nil {
		h.log.Error("mcp get_goal_trend", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(view)
}

func (h *handlers) getWeeklySets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	series, err := h.ds.WeeklySets(ctx, id)
	if err != nil {
		h.log.Error("mcp get_weekly_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(series)
}
