// Package upload pushes a directory of exported CycleLift documents to a
// server through its write API.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	PerCollection map[string]int
}

// collections are sent in dependency order: plans reference routines,
// routines and sessions reference exercises.
var collections = []struct {
	dir  string
	path string
}{
	{"exercises", "/api/v1/exercises/"},
	{"routines", "/api/v1/routines/"},
	{"plans", "/api/v1/plans/"},
	{"sessions", "/api/v1/sessions/"},
}

// Uploader walks an export directory laid out as <collection>/<key>.json
// and PUTs every new or changed file.
type Uploader struct {
	client *Client
	state  *StateDB
	root   string
	server string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. server identifies the target in the state DB.
func New(client *Client, state *StateDB, root, server string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		root:   root,
		server: server,
		dryRun: dryRun,
		log:    log,
		stats:  Stats{PerCollection: map[string]int{}},
	}
}

// Run uploads every collection found under the root directory.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	for _, c := range collections {
		dir := filepath.Join(u.root, c.dir)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := u.processCollection(ctx, dir, c.dir, c.path); err != nil {
			return &u.stats, fmt.Errorf("processing %s: %w", c.dir, err)
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processCollection(ctx context.Context, dir, name, apiPath string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}

	for _, f := range files {
		u.stats.FilesTotal++
		relPath, _ := filepath.Rel(u.root, f)

		data, err := os.ReadFile(f)
		if err != nil {
			u.log.Warn("read failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if !json.Valid(data) {
			u.log.Warn("not valid JSON, skipping", "file", relPath)
			u.stats.FilesErrored++
			continue
		}

		hash := HashBytes(data)
		synced, err := u.state.IsSynced(u.server, relPath, hash)
		if err != nil {
			u.log.Warn("state check failed", "file", relPath, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if synced {
			u.stats.FilesSkipped++
			continue
		}

		key := strings.TrimSuffix(filepath.Base(f), ".json")
		if u.dryRun {
			u.log.Info("dry-run: would send", "collection", name, "key", key, "bytes", len(data))
			u.stats.FilesUploaded++
			u.stats.PerCollection[name]++
			continue
		}

		if err := u.client.Put(ctx, apiPath+url.PathEscape(key), data); err != nil {
			var perm *PermanentError
			if errors.As(err, &perm) {
				u.log.Warn("server rejected document", "file", relPath, "status", perm.Status, "error", perm.Body)
				u.stats.FilesErrored++
				continue
			}
			return fmt.Errorf("sending %s: %w", relPath, err)
		}

		if err := u.state.MarkSynced(u.server, relPath, hash); err != nil {
			u.log.Warn("failed to mark synced", "file", relPath, "error", err)
		}
		u.stats.FilesUploaded++
		u.stats.PerCollection[name]++
	}

	u.log.Info("uploaded collection", "collection", name, "files", u.stats.PerCollection[name])
	return nil
}
