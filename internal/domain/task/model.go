package task

// Collection is the store collection holding tasks.
const Collection = "tasks"

// ProjectField is the field tasks are scoped by.
const ProjectField = "projectId"

// Status is a task's board column.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work in one project. Status is kept verbatim as
// stored, even when it is not one of Statuses.
type Task struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          Status `json:"status"`
	DueDate         string `json:"dueDate"`
	EstimatedTime   string `json:"estimatedTime"`
	DeliverableLink string `json:"deliverableLink"`
	ProjectID       string `json:"projectId"`
}

// Draft is the editable part of a task.
type Draft struct {
	Title           string
	Description     string
	Status          Status
	DueDate         string
	EstimatedTime   string
	DeliverableLink string
	ProjectID       string
}

// NewDraft returns the empty draft for a new task in projectID.
func NewDraft(projectID string) Draft {
	return Draft{Status: StatusToDo, ProjectID: projectID}
}

// DraftOf returns the draft for editing t.
func DraftOf(t Task) Draft {
	return Draft{
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status,
		DueDate:         t.DueDate,
		EstimatedTime:   t.EstimatedTime,
		DeliverableLink: t.DeliverableLink,
		ProjectID:       t.ProjectID,
	}
}
