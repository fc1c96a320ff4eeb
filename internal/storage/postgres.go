package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps documents in a PostgreSQL table with a JSONB payload.
type PGStore struct {
	Pool *pgxpool.Pool
}

// NewPG creates a PGStore with a connection pool.
func NewPG(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PGStore{Pool: pool}, nil
}

// Close closes the connection pool.
func (s *PGStore) Close() error {
	s.Pool.Close()
	return nil
}

// Ping checks the database connection.
func (s *PGStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *PGStore) Get(ctx context.Context, c Collection, key string) ([]byte, error) {
	var data []byte
	err := s.Pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND key = $2`,
		string(c), key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", c, key, err)
	}
	return data, nil
}

func (s *PGStore) GetAll(ctx context.Context, c Collection) ([]Document, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT key, data, updated_at FROM documents WHERE collection = $1 ORDER BY key`,
		string(c))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Key, &d.Data, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", c, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *PGStore) Put(ctx context.Context, c Collection, key string, data []byte) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO documents (collection, key, data, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (collection, key) DO UPDATE
			SET data = EXCLUDED.data, updated_at = NOW()`,
		string(c), key, data)
	if err != nil {
		return fmt.Errorf("putting %s/%s: %w", c, key, err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, c Collection, key string) error {
	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND key = $2`,
		string(c), key)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c, key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
