package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/form"
)

// Service handles contact writes.
type Service struct {
	store  docstore.Writer
	logger *slog.Logger
}

// NewService creates a new contact service.
func NewService(store docstore.Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger}
}

// Validate trims a draft, fills the default source and checks it.
func Validate(d Draft) (Draft, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	if d.Source == "" {
		d.Source = SourceYouTube
	}

	if d.Name == "" {
		return d, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if d.Email == "" {
		return d, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !d.Source.Valid() {
		return d, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, d.Source)
	}
	return d, nil
}

// Save creates or updates the contact bound to f.
func (s *Service) Save(ctx context.Context, ns docstore.Namespace, f *form.Form[Draft]) (string, error) {
	d, err := Validate(f.Draft())
	if err != nil {
		return "", err
	}

	id, err := form.Submit(ctx, s.store, ns, Collection, f, docstore.Fields{
		"name":   d.Name,
		"email":  d.Email,
		"source": string(d.Source),
		"notes":  d.Notes,
	})
	if err != nil {
		s.logger.Error("saving contact failed", "id", f.BoundID(), "error", err)
		return "", fmt.Errorf("saving contact: %w", err)
	}
	return id, nil
}

// Delete removes a contact once c confirms.
func (s *Service) Delete(ctx context.Context, ns docstore.Namespace, id string, c form.Confirmer) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	deleted, err := form.Remove(ctx, s.store, ns, Collection, id, "Are you sure you want to delete this contact?", c)
	if err != nil {
		s.logger.Error("deleting contact failed", "id", id, "error", err)
		return false, fmt.Errorf("deleting contact: %w", err)
	}
	return deleted, nil
}
