// Package storage is the document store behind the tracker. Documents are
// opaque JSON blobs addressed by (collection, key).
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// Collection names a group of documents.
type Collection string

const (
	Plans     Collection = "plans"
	Routines  Collection = "routines"
	Exercises Collection = "exercises"
	Sessions  Collection = "sessions"
)

// Collections lists every known collection.
var Collections = []Collection{Plans, Routines, Exercises, Sessions}

// Document is one stored value.
type Document struct {
	Key       string
	Data      []byte
	UpdatedAt time.Time
}

// Store is a key-value document store.
type Store interface {
	Get(ctx context.Context, c Collection, key string) ([]byte, error)
	// GetAll returns every document of the collection ordered by key.
	GetAll(ctx context.Context, c Collection) ([]Document, error)
	Put(ctx context.Context, c Collection, key string, data []byte) error
	Delete(ctx context.Context, c Collection, key string) error
	Ping(ctx context.Context) error
	Close() error
}
