package docstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Store abstracts the external per-key document database. Collections are
// flat namespaces; documents are schemaless JSON objects.
type Store interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Set(ctx context.Context, collection, id string, doc any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}
