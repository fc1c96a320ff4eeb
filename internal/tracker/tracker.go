// Package tracker owns the document store and the derived workspace, and
// exposes every training operation the HTTP and MCP layers serve.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/claude/cyclelift/internal/metrics"
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/plan"
	"github.com/claude/cyclelift/internal/storage"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidInput is returned for requests that cannot be applied.
	ErrInvalidInput = errors.New("invalid input")
)

// Options tunes how dates are read and grouped.
type Options struct {
	WeekStart time.Weekday
	Location  *time.Location
	Now       func() time.Time
}

// Tracker is the single owner of the workspace. Computations never reach for
// package-level state; they get the workspace from here.
type Tracker struct {
	store   storage.Store
	log     *slog.Logger
	metrics *metrics.Manager
	opts    Options

	// planMu serializes read-modify-write cycles on plans.
	planMu sync.Mutex

	wsMu sync.Mutex
	ws   *Workspace
}

// New creates a Tracker.
func New(store storage.Store, log *slog.Logger, m *metrics.Manager, opts Options) *Tracker {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{store: store, log: log, metrics: m, opts: opts}
}

// Ping checks the store.
func (t *Tracker) Ping(ctx context.Context) error {
	return t.store.Ping(ctx)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// --- plans ---

// ListPlans returns every stored plan, migrated to the current schema.
func (t *Tracker) ListPlans(ctx context.Context) ([]models.Plan, error) {
	docs, err := t.store.GetAll(ctx, storage.Plans)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	plans := make([]models.Plan, 0, len(docs))
	for _, d := range docs {
		p, err := plan.Decode(d.Data)
		if err != nil {
			t.log.Warn("skipping unreadable document", "collection", storage.Plans, "key", d.Key, "error", err)
			continue
		}
		if p.ID == "" {
			p.ID = d.Key
		}
		plans = append(plans, *p)
	}
	return plans, nil
}

// GetPlan loads one plan, migrated to the current schema.
func (t *Tracker) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	data, err := t.store.Get(ctx, storage.Plans, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("plan %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	p, err := plan.Decode(data)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// SavePlan stores p, assigning an ID when it has none.
func (t *Tracker) SavePlan(ctx context.Context, p *models.Plan) (*models.Plan, error) {
	t.planMu.Lock()
	defer t.planMu.Unlock()
	return t.savePlanLocked(ctx, p)
}

func (t *Tracker) savePlanLocked(ctx context.Context, p *models.Plan) (*models.Plan, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	plan.Migrate(p)
	p.UpdatedAt = t.opts.Now().UTC()
	if err := putDoc(ctx, t.store, storage.Plans, p.ID, p); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	return p, nil
}

// DeletePlan removes a plan.
func (t *Tracker) DeletePlan(ctx context.Context, id string) error {
	t.planMu.Lock()
	defer t.planMu.Unlock()
	return deleteDoc(ctx, t.store, storage.Plans, id)
}

// MigrateDocuments rewrites every stored plan older than the current schema
// and reports how many were rewritten.
func (t *Tracker) MigrateDocuments(ctx context.Context) (int, error) {
	t.planMu.Lock()
	defer t.planMu.Unlock()

	docs, err := t.store.GetAll(ctx, storage.Plans)
	if err != nil {
		return 0, fmt.Errorf("listing plans: %w", err)
	}
	var n int
	for _, d := range docs {
		if plan.Version(d.Data) >= plan.CurrentSchemaVersion {
			continue
		}
		p, err := plan.Decode(d.Data)
		if err != nil {
			t.log.Warn("plan not migrated", "key", d.Key, "error", err)
			continue
		}
		if p.ID == "" {
			p.ID = d.Key
		}
		if err := putDoc(ctx, t.store, storage.Plans, d.Key, p); err != nil {
			return n, fmt.Errorf("migrating plan %q: %w", d.Key, err)
		}
		n++
	}
	if n > 0 {
		t.log.Info("plans migrated", "count", n, "schema_version", plan.CurrentSchemaVersion)
	}
	return n, nil
}

// mutatePlan re-reads the plan under the plan lock, applies fn and stores the
// result.
func (t *Tracker) mutatePlan(ctx context.Context, planID string, fn func(p *models.Plan) error) (*models.Plan, error) {
	t.planMu.Lock()
	defer t.planMu.Unlock()

	p, err := t.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return t.savePlanLocked(ctx, p)
}

// --- routines ---

func (t *Tracker) ListRoutines(ctx context.Context) ([]models.Routine, error) {
	routines, err := listDocs[models.Routine](ctx, t.store, storage.Routines, t.skipDoc(storage.Routines))
	if err != nil {
		return nil, fmt.Errorf("listing routines: %w", err)
	}
	return routines, nil
}

func (t *Tracker) GetRoutine(ctx context.Context, id string) (*models.Routine, error) {
	return getDoc[models.Routine](ctx, t.store, storage.Routines, id)
}

func (t *Tracker) SaveRoutine(ctx context.Context, r *models.Routine) (*models.Routine, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Moves == nil {
		r.Moves = []models.RoutineMove{}
	}
	if err := putDoc(ctx, t.store, storage.Routines, r.ID, r); err != nil {
		return nil, fmt.Errorf("saving routine: %w", err)
	}
	return r, nil
}

func (t *Tracker) DeleteRoutine(ctx context.Context, id string) error {
	return deleteDoc(ctx, t.store, storage.Routines, id)
}

// --- exercises ---

func (t *Tracker) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	exercises, err := listDocs[models.Exercise](ctx, t.store, storage.Exercises, t.skipDoc(storage.Exercises))
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	return exercises, nil
}

func (t *Tracker) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	return getDoc[models.Exercise](ctx, t.store, storage.Exercises, id)
}

func (t *Tracker) SaveExercise(ctx context.Context, ex *models.Exercise) (*models.Exercise, error) {
	if strings.TrimSpace(ex.Name) == "" {
		return nil, invalid("exercise name is required")
	}
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if err := putDoc(ctx, t.store, storage.Exercises, ex.ID, ex); err != nil {
		return nil, fmt.Errorf("saving exercise: %w", err)
	}
	t.Reset()
	return ex, nil
}

func (t *Tracker) DeleteExercise(ctx context.Context, id string) error {
	if err := deleteDoc(ctx, t.store, storage.Exercises, id); err != nil {
		return err
	}
	t.Reset()
	return nil
}

// --- sessions ---

func (t *Tracker) ListSessions(ctx context.Context) ([]models.Session, error) {
	sessions, err := listDocs[models.Session](ctx, t.store, storage.Sessions, t.skipDoc(storage.Sessions))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

func (t *Tracker) GetSession(ctx context.Context, date string) (*models.Session, error) {
	return getDoc[models.Session](ctx, t.store, storage.Sessions, date)
}

// SaveSession stores a session under its date key.
func (t *Tracker) SaveSession(ctx context.Context, s *models.Session) (*models.Session, error) {
	if _, err := models.ParseDate(s.Date, t.opts.Location); err != nil {
		return nil, invalid("session date: %v", err)
	}
	if s.Exercises == nil {
		s.Exercises = []models.SessionExercise{}
	}
	for i := range s.Exercises {
		for j := range s.Exercises[i].Sets {
			if s.Exercises[i].Sets[j].Pos == 0 {
				s.Exercises[i].Sets[j].Pos = j + 1
			}
		}
	}
	if err := putDoc(ctx, t.store, storage.Sessions, s.Date, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	t.countMedals(ctx, s)
	t.Reset()
	return s, nil
}

func (t *Tracker) DeleteSession(ctx context.Context, date string) error {
	if err := deleteDoc(ctx, t.store, storage.Sessions, date); err != nil {
		return err
	}
	t.Reset()
	return nil
}
