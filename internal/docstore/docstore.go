// Package docstore defines the document store contract the dashboard is
// built on: per-collection writes plus live queries that push the full
// result set on every change.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a document doesn't exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidNamespace is returned when a tenant or user is missing.
	ErrInvalidNamespace = errors.New("invalid namespace")
	// ErrInvalidQuery is returned for an empty collection or a malformed filter.
	ErrInvalidQuery = errors.New("invalid query")
)

// Namespace scopes documents to one user of one deployment.
type Namespace struct {
	TenantID string
	UserID   string
}

// Valid reports whether both parts of the namespace are set.
func (n Namespace) Valid() bool {
	return strings.TrimSpace(n.TenantID) != "" && strings.TrimSpace(n.UserID) != ""
}

// Path returns the collection path inside the namespace.
func (n Namespace) Path(collection string) string {
	return fmt.Sprintf("artifacts/%s/users/%s/%s", n.TenantID, n.UserID, collection)
}

// Fields is the schemaless body of a document.
type Fields map[string]any

// Document is one stored record. ID is assigned by the store.
type Document struct {
	ID     string
	Fields Fields
}

// Decode merges the document id into its fields under "id" and decodes the
// result into out using JSON field names. A field stored with the wrong
// type is converted or zeroed rather than failing the whole document.
func (d Document) Decode(out any) error {
	merged := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		merged[k] = v
	}
	merged["id"] = d.ID

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return fmt.Errorf("decode document %s: %w", d.ID, err)
		}
		var generic map[string]any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("decode document %s: %w", d.ID, err)
		}
		if err := decodeLenient(generic, out); err != nil {
			return fmt.Errorf("decode document %s: %w", d.ID, err)
		}
	}
	return nil
}

// FieldsOf converts a tagged struct into Fields, dropping "id".
func FieldsOf(v any) (Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// Filter is an equality condition on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Query selects documents of one collection.
type Query struct {
	Collection string
	Filters    []Filter
}

// Validate checks the collection name and filter fields.
func (q Query) Validate() error {
	if !validName(q.Collection) {
		return fmt.Errorf("%w: collection %q", ErrInvalidQuery, q.Collection)
	}
	for _, f := range q.Filters {
		if !validName(f.Field) {
			return fmt.Errorf("%w: field %q", ErrInvalidQuery, f.Field)
		}
	}
	return nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// Snapshot is one push of a live query: either the full result set or the
// error that prevented computing it.
type Snapshot struct {
	Docs []Document
	Err  error
}

// Writer issues document mutations.
type Writer interface {
	Create(ctx context.Context, ns Namespace, collection string, fields Fields) (string, error)
	Update(ctx context.Context, ns Namespace, collection, id string, fields Fields) error
	Delete(ctx context.Context, ns Namespace, collection, id string) error
}

// Subscriber opens live queries.
type Subscriber interface {
	Subscribe(ctx context.Context, ns Namespace, q Query) (*Subscription, error)
}

// Store is the full document store contract.
type Store interface {
	Writer
	Subscriber
}
