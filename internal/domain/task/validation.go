package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format of DueDate.
const DateLayout = "2006-01-02"

// Normalize fills defaults and trims a draft.
func Normalize(d Draft) Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.ProjectID = strings.TrimSpace(d.ProjectID)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.EstimatedTime = strings.TrimSpace(d.EstimatedTime)
	if d.Status == "" {
		d.Status = StatusToDo
	}
	return d
}

// Validate checks a normalized draft.
func Validate(d Draft) error {
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if d.ProjectID == "" {
		return ErrNoProject
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, d.Status)
	}
	if d.DueDate != "" {
		if _, err := time.Parse(DateLayout, d.DueDate); err != nil {
			return fmt.Errorf("%w: due date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if d.EstimatedTime != "" {
		if _, err := strconv.ParseFloat(d.EstimatedTime, 64); err != nil {
			return fmt.Errorf("%w: estimated time must be a number of hours", ErrInvalidInput)
		}
	}
	return nil
}
