package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/cyclelift/internal/storage"
)

// getDoc loads and decodes one document.
func getDoc[T any](ctx context.Context, s storage.Store, c storage.Collection, key string) (*T, error) {
	data, err := s.Get(ctx, c, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s %q: %w", c, key, ErrNotFound)
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding %s %q: %w", c, key, err)
	}
	return &v, nil
}

// listDocs loads every document of a collection. Documents that fail to
// decode are passed to skip and left out.
func listDocs[T any](ctx context.Context, s storage.Store, c storage.Collection, skip func(key string, err error)) ([]T, error) {
	docs, err := s.GetAll(ctx, c)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			if skip != nil {
				skip(d.Key, err)
			}
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func putDoc(ctx context.Context, s storage.Store, c storage.Collection, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s %q: %w", c, key, err)
	}
	return s.Put(ctx, c, key, data)
}

func deleteDoc(ctx context.Context, s storage.Store, c storage.Collection, key string) error {
	if err := s.Delete(ctx, c, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s %q: %w", c, key, ErrNotFound)
		}
		return err
	}
	return nil
}
