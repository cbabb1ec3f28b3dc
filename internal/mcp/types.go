package mcp

import (
	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
)

type EmptyParams struct{}

type SelectParams struct {
	ID string `json:"id,omitempty" jsonschema:"id to select; omit to clear the selection"`
}

type SelectResult struct {
	SelectedID string `json:"selected_id,omitempty"`
}

type DeleteParams struct {
	ID      string `json:"id" jsonschema:"id of the entity to delete"`
	Confirm bool   `json:"confirm,omitempty" jsonschema:"must be true to delete; anything else cancels"`
}

type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

type SaveResult struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type ListProjectsResult struct {
	Projects   []project.Project `json:"projects"`
	SelectedID string            `json:"selected_id,omitempty"`
}

type SaveProjectParams struct {
	ID   string `json:"id,omitempty" jsonschema:"project to rename; omit to create"`
	Name string `json:"name" jsonschema:"project name"`
}

type SaveTaskParams struct {
	ID              string  `json:"id,omitempty" jsonschema:"task to edit; omit to create"`
	Title           *string `json:"title,omitempty" jsonschema:"task title, required when creating"`
	Description     *string `json:"description,omitempty"`
	Status          *string `json:"status,omitempty" jsonschema:"To Do, In Progress or Done; new tasks default to To Do"`
	DueDate         *string `json:"due_date,omitempty" jsonschema:"YYYY-MM-DD, empty for none"`
	EstimatedTime   *string `json:"estimated_time,omitempty" jsonschema:"estimate in hours"`
	DeliverableLink *string `json:"deliverable_link,omitempty"`
	ProjectID       *string `json:"project_id,omitempty" jsonschema:"owning project; defaults to the selected project"`
}

type SetTaskStatusParams struct {
	ID     string `json:"id"`
	Status string `json:"status" jsonschema:"To Do, In Progress or Done"`
}

type SetTaskStatusResult struct {
	ID     string      `json:"id"`
	Status task.Status `json:"status"`
}

type CalendarParams struct {
	Year  int `json:"year,omitempty" jsonschema:"defaults to the current year"`
	Month int `json:"month,omitempty" jsonschema:"1-12, defaults to the current month"`
}

type ListContactsParams struct {
	Search string `json:"search,omitempty" jsonschema:"case-insensitive match on name or email"`
}

type ListContactsResult struct {
	Contacts []contact.Contact `json:"contacts"`
}

type SaveContactParams struct {
	ID     string  `json:"id,omitempty" jsonschema:"contact to edit; omit to create"`
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Source *string `json:"source,omitempty" jsonschema:"YouTube, Instagram, Website, Referral or Other; defaults to YouTube"`
	Notes  *string `json:"notes,omitempty"`
}

type SaveTransactionParams struct {
	ID          string  `json:"id,omitempty" jsonschema:"transaction to edit; omit to create"`
	Description *string `json:"description,omitempty"`
	Amount      *string `json:"amount,omitempty" jsonschema:"amount as a number, e.g. 500 or 19.99"`
	Date        *string `json:"date,omitempty" jsonschema:"YYYY-MM-DD, defaults to today"`
	Type        *string `json:"type,omitempty" jsonschema:"income or expense, defaults to income"`
	Category    *string `json:"category,omitempty" jsonschema:"defaults to Product Sale for income and Software for expense"`
}

type SaveFlowchartParams struct {
	ID    string   `json:"id,omitempty" jsonschema:"flowchart to edit; omit to create"`
	Name  *string  `json:"name,omitempty"`
	Steps []string `json:"steps,omitempty" jsonschema:"step descriptions in order; blank steps are dropped"`
}
