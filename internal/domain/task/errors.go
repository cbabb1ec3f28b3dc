package task

import "errors"

var (
	// ErrInvalidInput indicates invalid task input.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrNoProject indicates a task that isn't bound to a project.
	ErrNoProject = errors.New("task has no project")
)
