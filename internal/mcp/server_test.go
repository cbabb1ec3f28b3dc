package mcp_test

import (
	"context"
	"slices"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/backoffice/internal/dashboard"
	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/mcp"
	"github.com/rpggio/backoffice/internal/session"
	"github.com/rpggio/backoffice/internal/testserver"
	"github.com/rpggio/backoffice/internal/views"
)

type staticSource struct {
	err error
}

func (s staticSource) Dashboard() (*dashboard.Dashboard, error) {
	return nil, s.err
}

type saveResult struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type deleteResult struct {
	Deleted bool `json:"deleted"`
}

func TestServer_ListsEveryTool(t *testing.T) {
	cs := testserver.Connect(t, mcp.NewServer(mcp.Config{Source: staticSource{err: session.ErrNotReady}}))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"dashboard_overview", "calendar_month",
		"list_projects", "select_project", "save_project", "delete_project", "project_board",
		"save_task", "set_task_status", "delete_task",
		"list_contacts", "save_contact", "delete_contact",
		"finances", "save_transaction", "delete_transaction",
		"list_flowcharts", "select_flowchart", "save_flowchart", "delete_flowchart",
	}, names)
}

func TestServer_ToolsReportReadiness(t *testing.T) {
	cases := map[string]error{
		"not ready": session.ErrNotReady,
		"demo mode": session.ErrDemoMode,
	}
	for want, err := range cases {
		t.Run(want, func(t *testing.T) {
			cs := testserver.Connect(t, mcp.NewServer(mcp.Config{Source: staticSource{err: err}}))
			text := testserver.CallToolError(t, cs, "dashboard_overview", nil)
			require.Contains(t, text, want)
		})
	}
}

func TestServer_DocResources(t *testing.T) {
	cs := testserver.Connect(t, mcp.NewServer(mcp.Config{Source: staticSource{err: session.ErrNotReady}}))

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "backoffice://docs/index"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "dashboard_overview")
}

func TestTools_ProjectTaskFlow(t *testing.T) {
	ts := testserver.New(t, "user-1")
	cs := testserver.Connect(t, ts.MCP)

	var proj saveResult
	testserver.CallTool(t, cs, "save_project", map[string]any{"name": "Launch"}, &proj)
	require.True(t, proj.Created)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		_, ok := d.Project(proj.ID)
		return ok
	})

	var projects mcp.ListProjectsResult
	testserver.CallTool(t, cs, "list_projects", nil, &projects)
	require.Equal(t, proj.ID, projects.SelectedID)
	require.Len(t, projects.Projects, 1)

	var created saveResult
	testserver.CallTool(t, cs, "save_task", map[string]any{
		"title":    "Edit video",
		"due_date": "2026-10-20",
	}, &created)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		return slices.ContainsFunc(d.ProjectBoard().Board.ToDo, func(tk task.Task) bool { return tk.ID == created.ID })
	})

	var board dashboard.ProjectBoard
	testserver.CallTool(t, cs, "project_board", nil, &board)
	require.NotNil(t, board.Project)
	require.Equal(t, "Launch", board.Project.Name)
	require.Len(t, board.Board.ToDo, 1)
	require.Equal(t, proj.ID, board.Board.ToDo[0].ProjectID)

	testserver.CallTool(t, cs, "set_task_status", map[string]any{"id": created.ID, "status": "Done"}, nil)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		tk, ok := d.Task(created.ID)
		return ok && tk.Status == task.StatusDone && len(d.ProjectBoard().Board.Done) == 1
	})

	var overview views.Overview
	testserver.CallTool(t, cs, "dashboard_overview", nil, &overview)
	require.Equal(t, 1, overview.TotalTasks)
	require.Empty(t, overview.UpcomingTasks)

	// Editing one field keeps the rest.
	testserver.CallTool(t, cs, "save_task", map[string]any{"id": created.ID, "title": "Edit final cut"}, nil)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		tk, ok := d.Task(created.ID)
		return ok && tk.Title == "Edit final cut"
	})
	tk, _ := ts.Dashboard(t).Task(created.ID)
	require.Equal(t, task.StatusDone, tk.Status)
	require.Equal(t, "2026-10-20", tk.DueDate)

	var cal views.Calendar
	testserver.CallTool(t, cs, "calendar_month", map[string]any{"year": 2026, "month": 10}, &cal)
	var due []string
	for _, week := range cal.Weeks {
		for _, day := range week {
			for _, tk := range day.Tasks {
				due = append(due, day.Date+":"+tk.ID)
			}
		}
	}
	require.Equal(t, []string{"2026-10-20:" + created.ID}, due)
}

func TestTools_InvalidInputWritesNothing(t *testing.T) {
	ts := testserver.New(t, "user-1")
	cs := testserver.Connect(t, ts.MCP)

	text := testserver.CallToolError(t, cs, "save_task", map[string]any{"title": "Orphan"})
	require.Contains(t, text, "NO_PROJECT")

	text = testserver.CallToolError(t, cs, "save_contact", map[string]any{"name": "Ada"})
	require.Contains(t, text, "INVALID_INPUT")
	require.Contains(t, text, "email is required")

	text = testserver.CallToolError(t, cs, "save_transaction", map[string]any{"description": "Course", "amount": "lots"})
	require.Contains(t, text, "amount must be a number")

	text = testserver.CallToolError(t, cs, "calendar_month", map[string]any{"month": 13})
	require.Contains(t, text, "INVALID_INPUT")

	var count int
	require.NoError(t, ts.DB.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count))
	require.Zero(t, count)
}

func TestTools_DeleteRequiresConfirm(t *testing.T) {
	ts := testserver.New(t, "user-1")
	cs := testserver.Connect(t, ts.MCP)

	var created saveResult
	testserver.CallTool(t, cs, "save_contact", map[string]any{"name": "Ada", "email": "ada@example.com"}, &created)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		_, ok := d.Contact(created.ID)
		return ok
	})

	var declined deleteResult
	testserver.CallTool(t, cs, "delete_contact", map[string]any{"id": created.ID}, &declined)
	require.False(t, declined.Deleted)

	var listed mcp.ListContactsResult
	testserver.CallTool(t, cs, "list_contacts", map[string]any{"search": "EXAMPLE"}, &listed)
	require.Len(t, listed.Contacts, 1)
	require.Equal(t, contact.SourceYouTube, listed.Contacts[0].Source)

	var confirmed deleteResult
	testserver.CallTool(t, cs, "delete_contact", map[string]any{"id": created.ID, "confirm": true}, &confirmed)
	require.True(t, confirmed.Deleted)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		_, ok := d.Contact(created.ID)
		return !ok
	})
}

func TestTools_Finances(t *testing.T) {
	ts := testserver.New(t, "user-1")
	cs := testserver.Connect(t, ts.MCP)

	testserver.CallTool(t, cs, "save_transaction", map[string]any{"description": "Course", "amount": "500"}, nil)
	testserver.CallTool(t, cs, "save_transaction", map[string]any{"description": "Hosting", "amount": "20", "type": "expense"}, nil)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		f := d.Finances()
		return len(f.Income) == 1 && len(f.Expenses) == 1
	})

	var finances dashboard.Finances
	testserver.CallTool(t, cs, "finances", nil, &finances)
	require.InDelta(t, 500, finances.Summary.Income, 1e-9)
	require.InDelta(t, 20, finances.Summary.Expenses, 1e-9)
	require.InDelta(t, 480, finances.Summary.Net, 1e-9)
	require.Equal(t, "Product Sale", finances.Income[0].Category)
	require.Equal(t, "Software", finances.Expenses[0].Category)
	require.Equal(t, time.Now().Format("2006-01-02"), finances.Income[0].Date)
}

func TestTools_Flowcharts(t *testing.T) {
	ts := testserver.New(t, "user-1")
	cs := testserver.Connect(t, ts.MCP)

	var created saveResult
	testserver.CallTool(t, cs, "save_flowchart", map[string]any{
		"name":  "Onboarding",
		"steps": []string{"Call", " ", "Send contract"},
	}, &created)
	ts.Await(t, func(d *dashboard.Dashboard) bool {
		_, ok := d.Flowchart(created.ID)
		return ok
	})

	text := testserver.CallToolError(t, cs, "select_flowchart", map[string]any{"id": "missing"})
	require.Contains(t, text, "NOT_FOUND")

	testserver.CallTool(t, cs, "select_flowchart", map[string]any{"id": created.ID}, nil)

	var listed dashboard.Flowcharts
	testserver.CallTool(t, cs, "list_flowcharts", nil, &listed)
	require.NotNil(t, listed.Selected)
	require.Equal(t, created.ID, listed.Selected.ID)
	require.Len(t, listed.Selected.Steps, 2)
	require.Equal(t, "Send contract", listed.Selected.Steps[1].Description)
}
