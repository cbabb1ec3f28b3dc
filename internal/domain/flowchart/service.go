package flowchart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/form"
)

// Service handles flowchart writes.
type Service struct {
	store  docstore.Writer
	logger *slog.Logger
}

// NewService creates a new flowchart service.
func NewService(store docstore.Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// PruneSteps drops steps whose description is blank, keeping order.
func PruneSteps(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for _, step := range steps {
		if strings.TrimSpace(step.Description) == "" {
			continue
		}
		out = append(out, step)
	}
	return out
}

// Save creates or updates the flowchart bound to f, pruning blank steps.
func (s *Service) Save(ctx context.Context, ns docstore.Namespace, f *form.Form[Draft]) (string, error) {
	d := f.Draft()
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	steps := PruneSteps(d.Steps)
	stored := make([]any, 0, len(steps))
	for _, step := range steps {
		stored = append(stored, map[string]any{"description": step.Description})
	}

	id, err := form.Submit(ctx, s.store, ns, Collection, f, docstore.Fields{
		"name":  name,
		"steps": stored,
	})
	if err != nil {
		s.logger.Error("saving flowchart failed", "id", f.BoundID(), "error", err)
		return "", fmt.Errorf("saving flowchart: %w", err)
	}
	return id, nil
}

// Delete removes a flowchart once c confirms.
func (s *Service) Delete(ctx context.Context, ns docstore.Namespace, id string, c form.Confirmer) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	deleted, err := form.Remove(ctx, s.store, ns, Collection, id, "Are you sure you want to delete this flowchart?", c)
	if err != nil {
		s.logger.Error("deleting flowchart failed", "id", id, "error", err)
		return false, fmt.Errorf("deleting flowchart: %w", err)
	}
	return deleted, nil
}
