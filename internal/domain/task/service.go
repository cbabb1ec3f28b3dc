package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/form"
)

// Service handles task writes.
type Service struct {
	store  docstore.Writer
	logger *slog.Logger
}

// NewService creates a new task service.
func NewService(store docstore.Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// Save creates or updates the task bound to f. Updates write every field.
func (s *Service) Save(ctx context.Context, ns docstore.Namespace, f *form.Form[Draft]) (string, error) {
	d := Normalize(f.Draft())
	if err := Validate(d); err != nil {
		return "", err
	}

	id, err := form.Submit(ctx, s.store, ns, Collection, f, docstore.Fields{
		"title":           d.Title,
		"description":     d.Description,
		"status":          string(d.Status),
		"dueDate":         d.DueDate,
		"estimatedTime":   d.EstimatedTime,
		"deliverableLink": d.DeliverableLink,
		ProjectField:      d.ProjectID,
	})
	if err != nil {
		s.logger.Error("saving task failed", "id", f.BoundID(), "error", err)
		return "", fmt.Errorf("saving task: %w", err)
	}
	return id, nil
}

// SetStatus moves a task to another board column.
func (s *Service) SetStatus(ctx context.Context, ns docstore.Namespace, id string, status Status) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	if err := s.store.Update(ctx, ns, Collection, id, docstore.Fields{"status": string(status)}); err != nil {
		s.logger.Error("updating task status failed", "id", id, "status", status, "error", err)
		return fmt.Errorf("updating task status: %w", err)
	}
	return nil
}

// Delete removes a task once c confirms.
func (s *Service) Delete(ctx context.Context, ns docstore.Namespace, id string, c form.Confirmer) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	deleted, err := form.Remove(ctx, s.store, ns, Collection, id, "Are you sure you want to delete this task?", c)
	if err != nil {
		s.logger.Error("deleting task failed", "id", id, "error", err)
		return false, fmt.Errorf("deleting task: %w", err)
	}
	return deleted, nil
}
