package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/form"
)

// Service handles project writes. It never touches in-memory snapshots;
// results are observed through the projects subscription.
type Service struct {
	store  docstore.Writer
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(store docstore.Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// Validate checks a draft before it is written.
func Validate(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}

// Save creates or updates the project bound to f.
func (s *Service) Save(ctx context.Context, ns docstore.Namespace, f *form.Form[Draft]) (string, error) {
	d := f.Draft()
	if err := Validate(d); err != nil {
		return "", err
	}

	id, err := form.Submit(ctx, s.store, ns, Collection, f, docstore.Fields{
		"name": strings.TrimSpace(d.Name),
	})
	if err != nil {
		s.logger.Error("saving project failed", "id", f.BoundID(), "error", err)
		return "", fmt.Errorf("saving project: %w", err)
	}
	return id, nil
}

// Delete removes a project once c confirms. Its tasks are left in place.
func (s *Service) Delete(ctx context.Context, ns docstore.Namespace, id string, c form.Confirmer) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	deleted, err := form.Remove(ctx, s.store, ns, Collection, id, "Are you sure you want to delete this project?", c)
	if err != nil {
		s.logger.Error("deleting project failed", "id", id, "error", err)
		return false, fmt.Errorf("deleting project: %w", err)
	}
	return deleted, nil
}
