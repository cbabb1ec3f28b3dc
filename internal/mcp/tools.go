package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/backoffice/internal/dashboard"
	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/flowchart"
	"github.com/rpggio/backoffice/internal/domain/form"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/views"
)

// dashboardTool adapts fn into a typed tool handler bound to the current
// dashboard. Domain errors become tool errors with recovery hints.
func dashboardTool[In, Out any](source DashboardSource, fn func(context.Context, *dashboard.Dashboard, In) (Out, error)) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		var zero Out
		d, err := source.Dashboard()
		if err != nil {
			return nil, zero, toolError(err)
		}
		out, err := fn(ctx, d, in)
		if err != nil {
			return nil, zero, toolError(err)
		}
		return nil, out, nil
	}
}

func notFound(kind, id string) error {
	return &APIError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %q not found", kind, id), RecoveryHint: "Check ID spelling"}
}

func invalidInput(format string, args ...any) error {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...), RecoveryHint: "Fix the field and resubmit"}
}

func deleteResult(id string, deleted bool) DeleteResult {
	if !deleted {
		return DeleteResult{ID: id, Message: "not deleted: pass confirm=true to delete"}
	}
	return DeleteResult{ID: id, Deleted: true, Message: "deleted"}
}

func set[T ~string](dst *T, v *string) {
	if v != nil {
		*dst = T(*v)
	}
}

func registerTools(server *sdkmcp.Server, source DashboardSource) {
	registerOverviewTools(server, source)
	registerProjectTools(server, source)
	registerTaskTools(server, source)
	registerContactTools(server, source)
	registerLedgerTools(server, source)
	registerFlowchartTools(server, source)
}

func registerOverviewTools(server *sdkmcp.Server, source DashboardSource) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "dashboard_overview",
		Description: "Landing page cards: task and contact totals, income/expenses/net, up to five upcoming tasks and five recent contacts.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, _ EmptyParams) (views.Overview, error) {
		return d.Overview(), nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "calendar_month",
		Description: "Sunday-aligned month grid with the tasks due on each day, across all projects.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, in CalendarParams) (views.Calendar, error) {
		now := time.Now()
		year, month := in.Year, time.Month(in.Month)
		if year == 0 {
			year = now.Year()
		}
		if month == 0 {
			month = now.Month()
		}
		if month < time.January || month > time.December {
			return views.Calendar{}, invalidInput("month must be 1-12, got %d", in.Month)
		}
		return d.Calendar(year, month), nil
	}))
}

func registerProjectTools(server *sdkmcp.Server, source DashboardSource) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects in creation order with the selected project id.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, _ EmptyParams) (ListProjectsResult, error) {
		out := ListProjectsResult{Projects: d.Projects()}
		out.SelectedID, _ = d.SelectedProjectID()
		return out, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_project",
		Description: "Select the project shown by project_board and used for new tasks. Omit id to deselect.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, in SelectParams) (SelectResult, error) {
		if in.ID != "" {
			if _, ok := d.Project(in.ID); !ok {
				return SelectResult{}, notFound("project", in.ID)
			}
		}
		d.SelectProject(in.ID)
		return SelectResult{SelectedID: in.ID}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_project",
		Description: "Create a project (it becomes selected) or rename one by id.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in SaveProjectParams) (SaveResult, error) {
		draft := project.Draft{Name: in.Name}
		f := form.New(draft)
		if in.ID != "" {
			f = form.Edit(in.ID, draft)
		}
		id, err := d.SaveProject(ctx, f)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{ID: id, Created: in.ID == ""}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project. Its tasks are kept. Requires confirm=true.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in DeleteParams) (DeleteResult, error) {
		deleted, err := d.DeleteProject(ctx, in.ID, form.Answer(in.Confirm))
		return deleteResult(in.ID, deleted), err
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_board",
		Description: "Tasks of the selected project grouped into To Do, In Progress and Done.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, _ EmptyParams) (dashboard.ProjectBoard, error) {
		return d.ProjectBoard(), nil
	}))
}

func registerTaskTools(server *sdkmcp.Server, source DashboardSource) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_task",
		Description: "Create a task (in the selected project unless project_id is given) or edit the given fields of a task by id.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in SaveTaskParams) (SaveResult, error) {
		draft := task.NewDraft("")
		if in.ID != "" {
			existing, ok := d.Task(in.ID)
			if !ok {
				return SaveResult{}, notFound("task", in.ID)
			}
			draft = task.DraftOf(existing)
		}
		set(&draft.Title, in.Title)
		set(&draft.Description, in.Description)
		set(&draft.Status, in.Status)
		set(&draft.DueDate, in.DueDate)
		set(&draft.EstimatedTime, in.EstimatedTime)
		set(&draft.DeliverableLink, in.DeliverableLink)
		set(&draft.ProjectID, in.ProjectID)

		f := form.New(draft)
		if in.ID != "" {
			f = form.Edit(in.ID, draft)
		}
		id, err := d.SaveTask(ctx, f)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{ID: id, Created: in.ID == ""}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_task_status",
		Description: "Move a task to To Do, In Progress or Done.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in SetTaskStatusParams) (SetTaskStatusResult, error) {
		status := task.Status(in.Status)
		if err := d.SetTaskStatus(ctx, in.ID, status); err != nil {
			return SetTaskStatusResult{}, err
		}
		return SetTaskStatusResult{ID: in.ID, Status: status}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task. Requires confirm=true.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in DeleteParams) (DeleteResult, error) {
		deleted, err := d.DeleteTask(ctx, in.ID, form.Answer(in.Confirm))
		return deleteResult(in.ID, deleted), err
	}))
}

func registerContactTools(server *sdkmcp.Server, source DashboardSource) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_contacts",
		Description: "List contacts, optionally filtered by a case-insensitive search on name or email.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, in ListContactsParams) (ListContactsResult, error) {
		contacts := d.Contacts(in.Search)
		if contacts == nil {
			contacts = []contact.Contact{}
		}
		return ListContactsResult{Contacts: contacts}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_contact",
		Description: "Create a contact or edit the given fields of a contact by id.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in SaveContactParams) (SaveResult, error) {
		var draft contact.Draft
		if in.ID != "" {
			existing, ok := d.Contact(in.ID)
			if !ok {
				return SaveResult{}, notFound("contact", in.ID)
			}
			draft = contact.DraftOf(existing)
		}
		set(&draft.Name, in.Name)
		set(&draft.Email, in.Email)
		set(&draft.Source, in.Source)
		set(&draft.Notes, in.Notes)

		f := form.New(draft)
		if in.ID != "" {
			f = form.Edit(in.ID, draft)
		}
		id, err := d.SaveContact(ctx, f)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{ID: id, Created: in.ID == ""}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact. Requires confirm=true.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in DeleteParams) (DeleteResult, error) {
		deleted, err := d.DeleteContact(ctx, in.ID, form.Answer(in.Confirm))
		return deleteResult(in.ID, deleted), err
	}))
}

func registerLedgerTools(server *sdkmcp.Server, source DashboardSource) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "finances",
		Description: "Income, expenses and net with the income and expense entries.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, _ EmptyParams) (dashboard.Finances, error) {
		return d.Finances(), nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_transaction",
		Description: "Record an income or expense, or edit the given fields of a transaction by id.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in SaveTransactionParams) (SaveResult, error) {
		var draft ledger.Draft
		if in.ID != "" {
			existing, ok := d.Transaction(in.ID)
			if !ok {
				return SaveResult{}, notFound("transaction", in.ID)
			}
			draft = ledger.DraftOf(existing)
			set(&draft.Type, in.Type)
		} else {
			t := ledger.TypeIncome
			set(&t, in.Type)
			draft = d.NewTransactionDraft(t)
		}
		set(&draft.Description, in.Description)
		set(&draft.Amount, in.Amount)
		set(&draft.Date, in.Date)
		set(&draft.Category, in.Category)

		f := form.New(draft)
		if in.ID != "" {
			f = form.Edit(in.ID, draft)
		}
		id, err := d.SaveTransaction(ctx, f)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{ID: id, Created: in.ID == ""}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_transaction",
		Description: "Delete a transaction. Requires confirm=true.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in DeleteParams) (DeleteResult, error) {
		deleted, err := d.DeleteTransaction(ctx, in.ID, form.Answer(in.Confirm))
		return deleteResult(in.ID, deleted), err
	}))
}

func registerFlowchartTools(server *sdkmcp.Server, source DashboardSource) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_flowcharts",
		Description: "List flowcharts with the one currently being viewed.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, _ EmptyParams) (dashboard.Flowcharts, error) {
		return d.Flowcharts(), nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_flowchart",
		Description: "View a flowchart by id. Omit id to close the viewer.",
	}, dashboardTool(source, func(_ context.Context, d *dashboard.Dashboard, in SelectParams) (SelectResult, error) {
		if in.ID != "" {
			if _, ok := d.Flowchart(in.ID); !ok {
				return SelectResult{}, notFound("flowchart", in.ID)
			}
		}
		d.SelectFlowchart(in.ID)
		return SelectResult{SelectedID: in.ID}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_flowchart",
		Description: "Create a flowchart or edit one by id. Passing steps replaces every step.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in SaveFlowchartParams) (SaveResult, error) {
		draft := flowchart.NewDraft()
		if in.ID != "" {
			existing, ok := d.Flowchart(in.ID)
			if !ok {
				return SaveResult{}, notFound("flowchart", in.ID)
			}
			draft = flowchart.DraftOf(existing)
		}
		set(&draft.Name, in.Name)
		if in.Steps != nil {
			draft.Steps = make([]flowchart.Step, len(in.Steps))
			for i, s := range in.Steps {
				draft.Steps[i] = flowchart.Step{Description: s}
			}
		}

		f := form.New(draft)
		if in.ID != "" {
			f = form.Edit(in.ID, draft)
		}
		id, err := d.SaveFlowchart(ctx, f)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{ID: id, Created: in.ID == ""}, nil
	}))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_flowchart",
		Description: "Delete a flowchart. Requires confirm=true.",
	}, dashboardTool(source, func(ctx context.Context, d *dashboard.Dashboard, in DeleteParams) (DeleteResult, error) {
		deleted, err := d.DeleteFlowchart(ctx, in.ID, form.Answer(in.Confirm))
		return deleteResult(in.ID, deleted), err
	}))
}

