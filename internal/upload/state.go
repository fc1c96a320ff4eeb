package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// StateDB remembers which document files were accepted by the server so
// unchanged files are not sent again.
type StateDB struct {
	db *sql.DB
}

// OpenStateDB opens (or creates) the SQLite state database at dir/state.db.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS synced_documents (
		server     TEXT NOT NULL,
		path       TEXT NOT NULL,
		hash       TEXT NOT NULL,
		synced_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (server, path)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}

	return &StateDB{db: db}, nil
}

// IsSynced reports whether the file at relPath was sent to server with the
// same content hash.
func (s *StateDB) IsSynced(server, relPath, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRow(
		`SELECT hash FROM synced_documents WHERE server = ? AND path = ?`,
		server, relPath,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == hash, nil
}

// MarkSynced records that a file was accepted by server.
func (s *StateDB) MarkSynced(server, relPath, hash string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO synced_documents (server, path, hash) VALUES (?, ?, ?)`,
		server, relPath, hash,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
