package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/cyclelift/internal/metrics"
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/prescription"
	"github.com/claude/cyclelift/internal/storage"
	"github.com/claude/cyclelift/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewTestManager()
	now := func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) }
	tr := tracker.New(store, log, m, tracker.Options{WeekStart: time.Monday, Now: now})
	return New(tr, m, testKey, log)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			r = bytes.NewBufferString(raw)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", testKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// seedServer stores one exercise, one routine and a plan using it on day 1.
func seedServer(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s, http.MethodPut, "/api/v1/exercises/bench", `{"name":"Bench press","goal":{"setsWeek":{"min":2,"max":4}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPut, "/api/v1/routines/push", `{"name":"Push","moves":[{"exerciseId":"bench","sets":[{"reps":8,"weight":60,"rpe":7}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/v1/plans", `{"name":"Spring","days":{"1":"push"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[models.Plan](t, rec)
	require.NotEmpty(t, p.ID)
	return p.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestWritesRequireAPIKey(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/plans", bytes.NewBufferString(`{}`))
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// reads stay open
	rec = do(t, s, http.MethodGet, "/api/v1/plans", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDayPrescriptionEndpoints(t *testing.T) {
	s := newTestServer(t)
	planID := seedServer(t, s)
	base := "/api/v1/plans/" + planID

	rec := do(t, s, http.MethodPost, base+"/cycles/1/days/1/modifiers", models.Modifier{Metric: models.MetricReps, Value: 25})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[map[string]bool](t, rec)["added"])

	rec = do(t, s, http.MethodPost, base+"/cycles/1/days/1/modifiers", `{"metric":"tempo","value":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, base+"/days/1?cycle=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	day := decode[prescription.DayPrescription](t, rec)
	assert.Equal(t, "Push", day.RoutineName)
	require.Len(t, day.Moves, 1)
	assert.Equal(t, "Bench press", day.Moves[0].ExerciseName)
	assert.Equal(t, 10.0, *day.Moves[0].Sets[0].Reps)

	rec = do(t, s, http.MethodGet, base+"/days/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prescription.RestDayName, decode[prescription.DayPrescription](t, rec).RoutineName)

	rec = do(t, s, http.MethodPut, base+"/cycles/1/days/1/overrides/bench", `{"sets":[{"reps":3,"weight":80}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, base+"/days/1/exercises/bench?cycle=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sets := decode[[]models.SetValues](t, rec)
	require.Len(t, sets, 1)
	assert.Equal(t, 80.0, *sets[0].Weight)

	rec = do(t, s, http.MethodDelete, base+"/cycles/1/days/1/overrides/bench", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[map[string]bool](t, rec)["cleared"])

	rec = do(t, s, http.MethodDelete, base+"/cycles/1/days/1/modifiers/reps", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[map[string]bool](t, rec)["removed"])

	rec = do(t, s, http.MethodGet, base+"/days/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/plans/missing/days/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMesocycleAndCopyDay(t *testing.T) {
	s := newTestServer(t)
	planID := seedServer(t, s)
	base := "/api/v1/plans/" + planID

	rec := do(t, s, http.MethodPut, base+"/mesocycle", `{"cycleCount":6,"selectedCycle":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	meso := decode[models.Mesocycle](t, rec)
	assert.Equal(t, 6, meso.CycleCount)
	assert.Equal(t, 5, meso.SelectedCycle)

	rec = do(t, s, http.MethodPut, base+"/mesocycle", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, base+"/cycles/2/days/1/modifiers", `{"metric":"weight","value":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, base+"/copy-day", `{"from":{"cycle":2,"day":1},"to":{"cycle":3,"day":1}}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, base+"/days/1/exercises/bench?cycle=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sets := decode[[]models.SetValues](t, rec)
	assert.Equal(t, 66.0, *sets[0].Weight)
}

func TestSessionsAndInsights(t *testing.T) {
	s := newTestServer(t)
	seedServer(t, s)

	rec := do(t, s, http.MethodPut, "/api/v1/sessions/2024-03-11", `{"exercises":[{"exerciseId":"bench","sets":[{"pos":1,"reps":8,"weight":60,"done":true}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, s, http.MethodPut, "/api/v1/sessions/2024-03-13", `{"exercises":[{"exerciseId":"bench","sets":[{"pos":1,"reps":"8","weight":"62.5","done":"true"},{"pos":2,"reps":8,"weight":60,"done":true}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/api/v1/sessions/2024-03-13/medals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	medals := decode[map[string]map[string][]string](t, rec)
	assert.Contains(t, medals["bench"]["1"], "weight")

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/history?start=2024-03-12&end=2024-03-13", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]map[string]any](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-03-13", entries[0]["date"])

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/history?agg=week", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/history?agg=month", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/history?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/weekly-sets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	weeks := decode[[]map[string]any](t, rec)
	require.Len(t, weeks, 1)
	assert.EqualValues(t, 3, weeks[0]["sets"])

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/bench/goal-trend", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["defined"])

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/squat/goal-trend", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPut, "/api/v1/sessions/someday", `{"exercises":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/sessions/2024-03-11", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodDelete, "/api/v1/sessions/2024-03-11", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":"Row"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	ex := decode[models.Exercise](t, rec)
	require.NotEmpty(t, ex.ID)

	rec = do(t, s, http.MethodPost, "/api/v1/exercises", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/exercises", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/exercises/"+ex.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Row", decode[models.Exercise](t, rec).Name)

	rec = do(t, s, http.MethodPost, "/api/v1/routines", `{"name":"Pull","moves":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	routine := decode[models.Routine](t, rec)

	rec = do(t, s, http.MethodGet, "/api/v1/routines", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Routine](t, rec), 1)

	rec = do(t, s, http.MethodDelete, "/api/v1/routines/"+routine.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodGet, "/api/v1/routines/"+routine.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodDelete, "/api/v1/exercises/"+ex.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, s, http.MethodDelete, "/api/v1/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMigratePlans(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/plans/migrate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, decode[map[string]int](t, rec)["migrated"])
}
