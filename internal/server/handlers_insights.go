package server

import (
	"net/http"

	"github.com/claude/cyclelift/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// handleHistory serves an exercise timeline. ?agg=day|week rolls it up.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	agg := tracker.Aggregation(r.URL.Query().Get("agg"))
	if agg == tracker.AggregateNone {
		entries, err := s.tracker.History(r.Context(), id, start, end)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	buckets, err := s.tracker.Rollup(r.Context(), id, agg, start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleWeeklySets(w http.ResponseWriter, r *http.Request) {
	series, err := s.tracker.WeeklySets(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleGoalTrend(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := s.tracker.GoalTrend(r.Context(), chi.URLParam(r, "id"), start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGoalReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.tracker.GoalReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
