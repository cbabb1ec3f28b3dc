package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/flowchart"
	"github.com/rpggio/backoffice/internal/domain/form"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/session"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

var (
	errNotReady = &APIError{Code: "NOT_READY", Message: "not ready", RecoveryHint: "Identity is still resolving; retry shortly"}
	errDemoMode = &APIError{Code: "DEMO_MODE", Message: "demo mode", RecoveryHint: "Configure the app id and token secret, then restart"}
)

// MapError maps domain errors to MCP error codes. Validation errors keep
// their message so the caller sees which field was rejected.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, session.ErrNotReady):
		return errNotReady
	case errors.Is(err, session.ErrDemoMode):
		return errDemoMode
	case errors.Is(err, task.ErrNoProject):
		return &APIError{Code: "NO_PROJECT", Message: err.Error(), RecoveryHint: "Select a project or pass project_id"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, contact.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, flowchart.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Fix the field and resubmit"}
	case errors.Is(err, docstore.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "document not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, form.ErrFormClosed):
		return &APIError{Code: "FORM_CLOSED", Message: "form already submitted"}
	default:
		return nil
	}
}

// toolError converts err into the error a tool handler returns; unmapped
// errors pass through unchanged.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
