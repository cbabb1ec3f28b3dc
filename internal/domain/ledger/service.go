package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/form"
)

// Service handles transaction writes.
type Service struct {
	store  docstore.Writer
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new ledger service.
func NewService(store docstore.Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the clock used for default dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NewDraft returns the empty draft for a new transaction of type t.
func (s *Service) NewDraft(t Type) Draft {
	return Draft{
		Date:     s.now().Format(DateLayout),
		Type:     t,
		Category: DefaultCategory(t),
	}
}

// Validate fills defaults into a draft and checks it. The amount is
// returned parsed.
func (s *Service) Validate(d Draft) (Draft, float64, error) {
	d.Description = strings.TrimSpace(d.Description)
	d.Date = strings.TrimSpace(d.Date)
	if d.Type == "" {
		d.Type = TypeIncome
	}
	if d.Date == "" {
		d.Date = s.now().Format(DateLayout)
	}
	if strings.TrimSpace(d.Category) == "" {
		d.Category = DefaultCategory(d.Type)
	}

	if d.Description == "" {
		return d, 0, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	amount, ok := parseLeadingFloat(d.Amount)
	if !ok {
		return d, 0, fmt.Errorf("%w: amount must be a number", ErrInvalidInput)
	}
	if !d.Type.Valid() {
		return d, 0, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, d.Type)
	}
	if _, err := time.Parse(DateLayout, d.Date); err != nil {
		return d, 0, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return d, amount, nil
}

// Save creates or updates the transaction bound to f. The amount is
// stored as a number.
func (s *Service) Save(ctx context.Context, ns docstore.Namespace, f *form.Form[Draft]) (string, error) {
	d, amount, err := s.Validate(f.Draft())
	if err != nil {
		return "", err
	}

	id, err := form.Submit(ctx, s.store, ns, Collection, f, docstore.Fields{
		"description": d.Description,
		"amount":      amount,
		"date":        d.Date,
		"type":        string(d.Type),
		"category":    d.Category,
	})
	if err != nil {
		s.logger.Error("saving transaction failed", "id", f.BoundID(), "error", err)
		return "", fmt.Errorf("saving transaction: %w", err)
	}
	return id, nil
}

// Delete removes a transaction once c confirms.
func (s *Service) Delete(ctx context.Context, ns docstore.Namespace, id string, c form.Confirmer) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	deleted, err := form.Remove(ctx, s.store, ns, Collection, id, "Are you sure you want to delete this transaction?", c)
	if err != nil {
		s.logger.Error("deleting transaction failed", "id", id, "error", err)
		return false, fmt.Errorf("deleting transaction: %w", err)
	}
	return deleted, nil
}
