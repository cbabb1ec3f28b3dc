package form

import (
	"context"
	"fmt"

	"github.com/rpggio/backoffice/internal/docstore"
)

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Answer is a Confirmer with a fixed reply, used when the caller already
// collected the answer (a tool argument, a CLI flag).
type Answer bool

// Confirm returns the fixed reply.
func (a Answer) Confirm(context.Context, string) bool {
	return bool(a)
}

// Remove deletes one document after confirmation. Declining, or a nil
// confirmer, is a no-op reported as false.
func Remove(ctx context.Context, w docstore.Writer, ns docstore.Namespace, collection, id, prompt string, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(ctx, prompt) {
		return false, nil
	}
	if err := w.Delete(ctx, ns, collection, id); err != nil {
		return false, fmt.Errorf("deleting %s %s: %w", collection, id, err)
	}
	return true, nil
}
