package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/lib/pq"

	"chat-api/internal/observability"
)

// Connect opens the backing database and ensures the documents table exists.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func migrate(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            collection TEXT NOT NULL,
            doc_id TEXT NOT NULL,
            data JSONB NOT NULL DEFAULT '{}'::jsonb,
            updated_at TIMESTAMPTZ DEFAULT NOW(),
            PRIMARY KEY (collection, doc_id)
        );`,
		`CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection);`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// PostgresStore implements Store on a JSONB documents table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches a document by collection and id.
func (s *PostgresStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	observability.IncDocstoreOp("get")

	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT data FROM documents WHERE collection=$1 AND doc_id=$2`, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Set writes a document, replacing any existing content. Last writer wins.
func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc any) error {
	observability.IncDocstoreOp("set")

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO documents (collection, doc_id, data, updated_at) VALUES ($1, $2, $3, NOW())
        ON CONFLICT (collection, doc_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`, collection, id, raw)
	return err
}

// Update merges the given fields into an existing document. Keys may use
// dotted paths ("metadata.lastLoginAt", "members.<uid>") to address nested
// values; intermediate objects must already exist.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	observability.IncDocstoreOp("update")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw, err := json.Marshal(fields[key])
		if err != nil {
			return fmt.Errorf("encode field %q: %w", key, err)
		}

		res, err := s.db.ExecContext(ctx,
			`UPDATE documents SET data = jsonb_set(data, $3, $4::jsonb, true), updated_at = NOW()
             WHERE collection=$1 AND doc_id=$2`,
			collection, id, pq.Array(SplitPath(key)), raw)
		if err != nil {
			return err
		}
		count, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	observability.IncDocstoreOp("delete")

	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection=$1 AND doc_id=$2`, collection, id)
	return err
}

// SplitPath turns a dotted field key into a jsonb path.
func SplitPath(key string) []string {
	return strings.Split(key, ".")
}

var _ Store = (*PostgresStore)(nil)
