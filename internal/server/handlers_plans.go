package server

import (
	"net/http"

	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/tracker"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.tracker.ListPlans(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.GetPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var p models.Plan
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = ""
	saved, err := s.tracker.SavePlan(r.Context(), &p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handlePutPlan(w http.ResponseWriter, r *http.Request) {
	var p models.Plan
	if !decodeBody(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "id")
	saved, err := s.tracker.SavePlan(r.Context(), &p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeletePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMigratePlans(w http.ResponseWriter, r *http.Request) {
	n, err := s.tracker.MigrateDocuments(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"migrated": n})
}

// handleDay serves the prescription of one plan day. ?cycle= defaults to
// the plan's selected cycle.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := intParam(r, "day")
	if err != nil {
		s.writeError(w, err)
		return
	}
	cycle, err := intQuery(r, "cycle", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.tracker.Day(r.Context(), chi.URLParam(r, "id"), cycle, day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleEffectiveSets(w http.ResponseWriter, r *http.Request) {
	day, err := intParam(r, "day")
	if err != nil {
		s.writeError(w, err)
		return
	}
	cycle, err := intQuery(r, "cycle", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sets, err := s.tracker.EffectiveSets(r.Context(), chi.URLParam(r, "id"), cycle, day, chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// cycleDay reads the {cycle} and {day} URL parameters.
func cycleDay(r *http.Request) (int, int, error) {
	cycle, err := intParam(r, "cycle")
	if err != nil {
		return 0, 0, err
	}
	day, err := intParam(r, "day")
	if err != nil {
		return 0, 0, err
	}
	return cycle, day, nil
}

func (s *Server) handleAddModifier(w http.ResponseWriter, r *http.Request) {
	cycle, day, err := cycleDay(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var m models.Modifier
	if !decodeBody(w, r, &m) {
		return
	}
	added, err := s.tracker.AddModifier(r.Context(), chi.URLParam(r, "id"), cycle, day, m)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (s *Server) handleRemoveModifier(w http.ResponseWriter, r *http.Request) {
	cycle, day, err := cycleDay(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	metric := models.Metric(chi.URLParam(r, "metric"))
	removed, err := s.tracker.RemoveModifier(r.Context(), chi.URLParam(r, "id"), cycle, day, metric)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	cycle, day, err := cycleDay(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var body models.ExerciseOverride
	if !decodeBody(w, r, &body) {
		return
	}
	err = s.tracker.SetOverride(r.Context(), chi.URLParam(r, "id"), cycle, day, chi.URLParam(r, "exerciseID"), body.Sets)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearOverride(w http.ResponseWriter, r *http.Request) {
	cycle, day, err := cycleDay(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cleared, err := s.tracker.ClearOverride(r.Context(), chi.URLParam(r, "id"), cycle, day, chi.URLParam(r, "exerciseID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": cleared})
}

type dayRef struct {
	Cycle int `json:"cycle"`
	Day   int `json:"day"`
}

func (s *Server) handleCopyDay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From dayRef `json:"from"`
		To   dayRef `json:"to"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	err := s.tracker.CopyDay(r.Context(), chi.URLParam(r, "id"), body.From.Cycle, body.From.Day, body.To.Cycle, body.To.Day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMesocycle updates the cycle count and/or the selected cycle. The
// count is applied first so a selection inside a grown range sticks.
func (s *Server) handleMesocycle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CycleCount    *int `json:"cycleCount"`
		SelectedCycle *int `json:"selectedCycle"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.CycleCount == nil && body.SelectedCycle == nil {
		s.writeError(w, tracker.ErrInvalidInput)
		return
	}

	id := chi.URLParam(r, "id")
	if body.CycleCount != nil {
		if _, err := s.tracker.SetCycleCount(r.Context(), id, *body.CycleCount); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if body.SelectedCycle != nil {
		if _, err := s.tracker.SelectCycle(r.Context(), id, *body.SelectedCycle); err != nil {
			s.writeError(w, err)
			return
		}
	}
	p, err := s.tracker.GetPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Mesocycle)
}
