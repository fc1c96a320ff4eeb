package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/cyclelift/internal/analytics"
	"github.com/claude/cyclelift/internal/models"
	"github.com/claude/cyclelift/internal/storage"
)

// Workspace is the derived state every read computes from: the history index
// over all sessions and the exercise catalogue. It is immutable once built;
// the tracker drops it whenever a session or exercise changes.
type Workspace struct {
	Index     *analytics.Index
	Exercises map[string]models.Exercise
	BuiltAt   time.Time
}

// Names maps exercise IDs to display names.
func (w *Workspace) Names() map[string]string {
	names := make(map[string]string, len(w.Exercises))
	for id, ex := range w.Exercises {
		names[id] = ex.Name
	}
	return names
}

// Workspace returns the current workspace, building it if needed.
func (t *Tracker) Workspace(ctx context.Context) (*Workspace, error) {
	t.wsMu.Lock()
	defer t.wsMu.Unlock()

	if t.ws != nil {
		return t.ws, nil
	}
	ws, err := t.buildWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	t.ws = ws
	return ws, nil
}

// Reset drops the workspace; the next read rebuilds it.
func (t *Tracker) Reset() {
	t.wsMu.Lock()
	t.ws = nil
	t.wsMu.Unlock()
}

func (t *Tracker) buildWorkspace(ctx context.Context) (*Workspace, error) {
	start := time.Now()

	sessions, err := listDocs[models.Session](ctx, t.store, storage.Sessions, t.skipDoc(storage.Sessions))
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	exercises, err := listDocs[models.Exercise](ctx, t.store, storage.Exercises, t.skipDoc(storage.Exercises))
	if err != nil {
		return nil, fmt.Errorf("loading exercises: %w", err)
	}

	byID := make(map[string]models.Exercise, len(exercises))
	for _, ex := range exercises {
		byID[ex.ID] = ex
	}
	ws := &Workspace{
		Index:     analytics.BuildIndex(sessions, t.opts.Location),
		Exercises: byID,
		BuiltAt:   t.opts.Now(),
	}

	elapsed := time.Since(start)
	t.metrics.CounterWorkspaceRebuilds.Inc()
	t.metrics.HistWorkspaceDuration.Observe(elapsed.Seconds())
	t.log.Debug("workspace built", "sessions", len(sessions), "exercises", len(exercises), "duration", elapsed)
	return ws, nil
}

func (t *Tracker) skipDoc(c storage.Collection) func(string, error) {
	return func(key string, err error) {
		t.log.Warn("skipping unreadable document", "collection", c, "key", key, "error", err)
	}
}
