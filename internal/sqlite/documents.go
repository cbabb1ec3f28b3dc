package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/backoffice/internal/docstore"
)

// DocumentStore implements docstore.Store on a documents table. Live
// queries are served by a docstore.Feed that is poked after every commit.
type DocumentStore struct {
	db     *DB
	feed   *docstore.Feed
	logger *slog.Logger
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB, logger *slog.Logger) *DocumentStore {
	s := &DocumentStore{db: db, logger: logger}
	s.feed = docstore.NewFeed(s.fetch, logger)
	return s
}

// Create inserts a new document and returns its generated id
func (s *DocumentStore) Create(ctx context.Context, ns docstore.Namespace, collection string, fields docstore.Fields) (string, error) {
	path, err := collectionPath(ns, collection)
	if err != nil {
		return "", err
	}

	data, err := encodeFields(fields)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (path, id, data, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?)
	`, path, id, data, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}

	s.feed.Publish(path)
	return id, nil
}

// Update merges fields into an existing document
func (s *DocumentStore) Update(ctx context.Context, ns docstore.Namespace, collection, id string, fields docstore.Fields) error {
	path, err := collectionPath(ns, collection)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ? AND id = ?`, path, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return docstore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	current, err := decodeFields(raw)
	if err != nil {
		return err
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		current[k] = v
	}

	data, err := encodeFields(current)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE documents SET data = ?, modified_at = ?
		WHERE path = ? AND id = ?
	`, data, time.Now(), path, id); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.feed.Publish(path)
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *DocumentStore) Delete(ctx context.Context, ns docstore.Namespace, collection, id string) error {
	path, err := collectionPath(ns, collection)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ? AND id = ?`, path, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.feed.Publish(path)
	return nil
}

// Get retrieves one document
func (s *DocumentStore) Get(ctx context.Context, ns docstore.Namespace, collection, id string) (*docstore.Document, error) {
	path, err := collectionPath(ns, collection)
	if err != nil {
		return nil, err
	}

	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = ? AND id = ?`, path, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return nil, err
	}
	return &docstore.Document{ID: id, Fields: fields}, nil
}

// Subscribe opens a live query over the namespace
func (s *DocumentStore) Subscribe(_ context.Context, ns docstore.Namespace, q docstore.Query) (*docstore.Subscription, error) {
	return s.feed.Subscribe(ns, q)
}

// Close closes every open live query
func (s *DocumentStore) Close() {
	s.feed.Close()
}

func (s *DocumentStore) fetch(ctx context.Context, path string, filters []docstore.Filter) ([]docstore.Document, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, data FROM documents WHERE path = ?`)
	args := []any{path}
	for _, f := range filters {
		b.WriteString(` AND json_extract(data, ?) = ?`)
		args = append(args, "$."+f.Field, f.Value)
	}
	b.WriteString(` ORDER BY seq ASC`)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	docs := []docstore.Document{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, docstore.Document{ID: id, Fields: fields})
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	return docs, nil
}

func collectionPath(ns docstore.Namespace, collection string) (string, error) {
	if !ns.Valid() {
		return "", docstore.ErrInvalidNamespace
	}
	if err := (docstore.Query{Collection: collection}).Validate(); err != nil {
		return "", err
	}
	return ns.Path(collection), nil
}

func encodeFields(fields docstore.Fields) (string, error) {
	if fields == nil {
		fields = docstore.Fields{}
	}
	clean := make(docstore.Fields, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		clean[k] = v
	}
	data, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(data), nil
}

func decodeFields(raw string) (docstore.Fields, error) {
	fields := docstore.Fields{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return fields, nil
}
