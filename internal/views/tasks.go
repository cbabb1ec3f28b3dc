package views

import "github.com/rpggio/backoffice/internal/domain/task"

// UpcomingLimit is how many upcoming tasks and recent contacts are shown.
const UpcomingLimit = 5

// Board is a project's tasks split into status columns. Tasks whose status
// is not one of the columns are kept out of all three and listed in
// Unsorted instead.
type Board struct {
	ToDo       []task.Task `json:"to_do"`
	InProgress []task.Task `json:"in_progress"`
	Done       []task.Task `json:"done"`
	Unsorted   []task.Task `json:"unsorted,omitempty"`
}

// Column returns the tasks in the column for s.
func (b Board) Column(s task.Status) []task.Task {
	switch s {
	case task.StatusToDo:
		return b.ToDo
	case task.StatusInProgress:
		return b.InProgress
	case task.StatusDone:
		return b.Done
	}
	return nil
}

// GroupByStatus partitions tasks into board columns, keeping snapshot
// order inside each column.
func GroupByStatus(tasks []task.Task) Board {
	b := Board{
		ToDo:       []task.Task{},
		InProgress: []task.Task{},
		Done:       []task.Task{},
	}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusToDo:
			b.ToDo = append(b.ToDo, t)
		case task.StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case task.StatusDone:
			b.Done = append(b.Done, t)
		default:
			b.Unsorted = append(b.Unsorted, t)
		}
	}
	return b
}

// GroupByDueDate maps each due date to its tasks in snapshot order. Tasks
// without a due date are left out.
func GroupByDueDate(tasks []task.Task) map[string][]task.Task {
	out := make(map[string][]task.Task)
	for _, t := range tasks {
		if t.DueDate == "" {
			continue
		}
		out[t.DueDate] = append(out[t.DueDate], t)
	}
	return out
}

// UpcomingTasks returns the first tasks that aren't done, in snapshot
// order rather than by date.
func UpcomingTasks(tasks []task.Task) []task.Task {
	out := make([]task.Task, 0, UpcomingLimit)
	for _, t := range tasks {
		if t.Status == task.StatusDone {
			continue
		}
		out = append(out, t)
		if len(out) == UpcomingLimit {
			break
		}
	}
	return out
}
