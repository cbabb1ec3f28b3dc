// Package form holds the edit-session state shared by the mutation
// services: a draft with an optionally bound entity id, and the
// confirmation step that guards deletes.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/backoffice/internal/docstore"
)

// ErrFormClosed is returned when submitting a form that isn't open.
var ErrFormClosed = errors.New("form is not open")

// Form is one edit session. A bound id makes a submit an update of that
// entity; an unbound form creates a new one. A Form is used by a single
// caller at a time.
type Form[T any] struct {
	id    string
	draft T
	open  bool
}

// New opens a form for creating an entity from draft.
func New[T any](draft T) *Form[T] {
	return &Form[T]{draft: draft, open: true}
}

// Edit opens a form bound to an existing entity.
func Edit[T any](id string, draft T) *Form[T] {
	return &Form[T]{id: id, draft: draft, open: true}
}

// BoundID returns the id of the entity being edited, or "".
func (f *Form[T]) BoundID() string {
	return f.id
}

// Draft returns the current draft.
func (f *Form[T]) Draft() T {
	return f.draft
}

// SetDraft replaces the draft, for example after the user corrects a field.
func (f *Form[T]) SetDraft(draft T) {
	f.draft = draft
}

// IsOpen reports whether the form is still open.
func (f *Form[T]) IsOpen() bool {
	return f.open
}

// Close ends the session.
func (f *Form[T]) Close() {
	f.open = false
}

// Submit issues the single write for an already validated form: an update
// of the bound id, or a create. It returns the entity id and closes the
// form on success; on failure the form stays open for a retry.
func Submit[T any](ctx context.Context, w docstore.Writer, ns docstore.Namespace, collection string, f *Form[T], fields docstore.Fields) (string, error) {
	if !f.IsOpen() {
		return "", ErrFormClosed
	}

	id := f.BoundID()
	if id != "" {
		if err := w.Update(ctx, ns, collection, id, fields); err != nil {
			return "", fmt.Errorf("updating %s %s: %w", collection, id, err)
		}
	} else {
		created, err := w.Create(ctx, ns, collection, fields)
		if err != nil {
			return "", fmt.Errorf("creating in %s: %w", collection, err)
		}
		id = created
	}

	f.Close()
	return id, nil
}
