package dashboard_test

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/rpggio/backoffice/internal/dashboard"
	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/flowchart"
	"github.com/rpggio/backoffice/internal/domain/form"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/identity"
	"github.com/rpggio/backoffice/internal/session"
	"github.com/rpggio/backoffice/internal/sqlite"
	"github.com/rpggio/backoffice/internal/views"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.DocumentStore {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	store := sqlite.NewDocumentStore(db, nil)
	t.Cleanup(func() {
		store.Close()
		_ = db.Close()
	})
	return store
}

func newDashboard(t *testing.T, store docstore.Store) *dashboard.Dashboard {
	t.Helper()

	sess, err := session.New(store, "app", identity.Result{UserID: "u1", Method: identity.MethodAnonymous}, nil)
	require.NoError(t, err)

	d := dashboard.New(sess, dashboard.Options{
		Now: func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.WaitLoaded(ctx))
	return d
}

func await(t *testing.T, d *dashboard.Dashboard, cond func() bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.AwaitChange(ctx, cond))
}

func containsTask(tasks []task.Task, id string) bool {
	return slices.ContainsFunc(tasks, func(t task.Task) bool { return t.ID == id })
}

func TestDashboard_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t, newStore(t))

	projectID, err := d.SaveProject(ctx, form.New(project.Draft{Name: "Channel"}))
	require.NoError(t, err)
	selected, ok := d.SelectedProjectID()
	require.True(t, ok)
	require.Equal(t, projectID, selected)

	taskID, err := d.SaveTask(ctx, form.New(task.Draft{Title: "Draft script"}))
	require.NoError(t, err)

	await(t, d, func() bool {
		return containsTask(d.ProjectBoard().Board.ToDo, taskID) && containsTask(d.Overview().UpcomingTasks, taskID)
	})
	stored, ok := d.Task(taskID)
	require.True(t, ok)
	require.Equal(t, task.StatusToDo, stored.Status)
	require.Equal(t, projectID, stored.ProjectID)

	require.NoError(t, d.SetTaskStatus(ctx, taskID, task.StatusDone))
	await(t, d, func() bool {
		board := d.ProjectBoard().Board
		return containsTask(board.Done, taskID) && !containsTask(board.ToDo, taskID) && !containsTask(d.Overview().UpcomingTasks, taskID)
	})
}

func TestDashboard_FinancialSummary(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t, newStore(t))

	_, err := d.SaveTransaction(ctx, form.New(ledger.Draft{Description: "Sponsorship", Amount: "500", Type: ledger.TypeIncome}))
	require.NoError(t, err)
	_, err = d.SaveTransaction(ctx, form.New(ledger.Draft{Description: "Software", Amount: "20", Type: ledger.TypeExpense}))
	require.NoError(t, err)

	want := views.Financials{Income: 500, Expenses: 20, Net: 480}
	await(t, d, func() bool { return d.Finances().Summary == want })
	require.Equal(t, want, d.Overview().Financials)

	fin := d.Finances()
	require.Len(t, fin.Income, 1)
	require.Equal(t, "2026-10-18", fin.Income[0].Date)
	require.Equal(t, "Product Sale", fin.Income[0].Category)
	require.Equal(t, "Software", fin.Expenses[0].Category)
}

func TestDashboard_NonNumericStoredAmountCountsAsZero(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	d := newDashboard(t, store)

	ns := d.Session().Namespace
	_, err := store.Create(ctx, ns, ledger.Collection, docstore.Fields{"description": "legacy", "amount": "n/a", "type": "income"})
	require.NoError(t, err)
	_, err = store.Create(ctx, ns, ledger.Collection, docstore.Fields{"description": "ok", "amount": 7, "type": "income"})
	require.NoError(t, err)

	await(t, d, func() bool { return len(d.Finances().Income) == 2 })
	require.Equal(t, views.Financials{Income: 7, Net: 7}, d.Finances().Summary)
}

func TestDashboard_MistypedTaskFieldsStayInSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	d := newDashboard(t, store)

	projectID, err := d.SaveProject(ctx, form.New(project.Draft{Name: "Channel"}))
	require.NoError(t, err)

	ns := d.Session().Namespace
	for _, fields := range []docstore.Fields{
		{"title": "Outline", "status": "To Do", "projectId": projectID},
		{"title": "Legacy", "status": 2, "estimatedTime": 3, "dueDate": true, "projectId": projectID},
		{"title": "Edit", "status": "Done", "projectId": projectID},
	} {
		_, err := store.Create(ctx, ns, task.Collection, fields)
		require.NoError(t, err)
	}

	await(t, d, func() bool { return len(d.Tasks()) == 3 && len(d.ProjectBoard().Board.Unsorted) == 1 })
	require.Equal(t, 3, d.Overview().TotalTasks)

	legacy := d.ProjectBoard().Board.Unsorted[0]
	require.Equal(t, "Legacy", legacy.Title)
	require.Equal(t, task.Status("2"), legacy.Status)
	require.Equal(t, "3", legacy.EstimatedTime)
	require.Equal(t, "true", legacy.DueDate)
	require.Equal(t, projectID, legacy.ProjectID)
}

func TestDashboard_DeclinedDeleteChangesNothing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	d := newDashboard(t, store)

	id, err := d.SaveContact(ctx, form.New(contact.Draft{Name: "Ada", Email: "ada@example.com"}))
	require.NoError(t, err)
	await(t, d, func() bool { return len(d.Contacts("")) == 1 })

	deleted, err := d.DeleteContact(ctx, id, form.Answer(false))
	require.NoError(t, err)
	require.False(t, deleted)

	doc, err := store.Get(ctx, d.Session().Namespace, contact.Collection, id)
	require.NoError(t, err)
	require.Equal(t, "Ada", doc.Fields["name"])
	require.Len(t, d.Contacts(""), 1)

	deleted, err = d.DeleteContact(ctx, id, form.Answer(true))
	require.NoError(t, err)
	require.True(t, deleted)
	await(t, d, func() bool { return len(d.Contacts("")) == 0 })
}

func TestDashboard_SwitchingProjectsShowsOnlyNewScope(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t, newStore(t))

	projectA, err := d.SaveProject(ctx, form.New(project.Draft{Name: "A"}))
	require.NoError(t, err)
	taskA, err := d.SaveTask(ctx, form.New(task.Draft{Title: "in A", ProjectID: projectA}))
	require.NoError(t, err)

	projectB, err := d.SaveProject(ctx, form.New(project.Draft{Name: "B"}))
	require.NoError(t, err)
	taskB, err := d.SaveTask(ctx, form.New(task.Draft{Title: "in B", ProjectID: projectB}))
	require.NoError(t, err)

	await(t, d, func() bool {
		board := d.ProjectBoard()
		return board.Loaded && containsTask(board.Board.ToDo, taskB)
	})
	require.False(t, containsTask(d.ProjectBoard().Board.ToDo, taskA))

	d.SelectProject(projectA)
	await(t, d, func() bool {
		board := d.ProjectBoard()
		return board.Loaded && board.Project.ID == projectA && containsTask(board.Board.ToDo, taskA)
	})
	require.False(t, containsTask(d.ProjectBoard().Board.ToDo, taskB))
	require.Equal(t, "A", d.ProjectBoard().Project.Name)

	// Both tasks stay visible on the calendar and overview.
	require.Len(t, d.Tasks(), 2)
}

func TestDashboard_FirstProjectBecomesDefaultUnlessDeselected(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	d := newDashboard(t, store)

	_, ok := d.SelectedProjectID()
	require.False(t, ok)

	ns := d.Session().Namespace
	first, err := store.Create(ctx, ns, project.Collection, docstore.Fields{"name": "first"})
	require.NoError(t, err)
	await(t, d, func() bool {
		id, ok := d.SelectedProjectID()
		return ok && id == first
	})

	d.SelectProject("")
	board := d.ProjectBoard()
	require.Nil(t, board.Project)
	require.Empty(t, board.Board.ToDo)

	_, err = store.Create(ctx, ns, project.Collection, docstore.Fields{"name": "second"})
	require.NoError(t, err)
	await(t, d, func() bool { return len(d.Projects()) == 2 })
	_, ok = d.SelectedProjectID()
	require.False(t, ok)
}

func TestDashboard_DeletingSelectedFlowchartMovesSelection(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t, newStore(t))

	first, err := d.SaveFlowchart(ctx, form.New(flowchart.Draft{Name: "Publish", Steps: []flowchart.Step{{Description: "Record"}, {}}}))
	require.NoError(t, err)
	await(t, d, func() bool { return d.Flowcharts().Selected != nil })
	require.Equal(t, first, d.Flowcharts().Selected.ID)
	require.Len(t, d.Flowcharts().Selected.Steps, 1)

	second, err := d.SaveFlowchart(ctx, form.New(flowchart.Draft{Name: "Launch"}))
	require.NoError(t, err)
	await(t, d, func() bool { return len(d.Flowcharts().Items) == 2 })

	deleted, err := d.DeleteFlowchart(ctx, first, form.Answer(true))
	require.NoError(t, err)
	require.True(t, deleted)
	await(t, d, func() bool {
		fcs := d.Flowcharts()
		return len(fcs.Items) == 1 && fcs.Selected != nil && fcs.Selected.ID == second
	})
}

func TestDashboard_CalendarAndContactSearch(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t, newStore(t))

	projectID, err := d.SaveProject(ctx, form.New(project.Draft{Name: "P"}))
	require.NoError(t, err)
	taskID, err := d.SaveTask(ctx, form.New(task.Draft{Title: "Publish", DueDate: "2026-10-22", ProjectID: projectID}))
	require.NoError(t, err)
	_, err = d.SaveContact(ctx, form.New(contact.Draft{Name: "Grace", Email: "grace@navy.mil", Source: contact.SourceReferral}))
	require.NoError(t, err)

	await(t, d, func() bool { return len(d.Tasks()) == 1 && len(d.Contacts("")) == 1 })

	cal := d.Calendar(2026, time.October)
	var found bool
	for _, week := range cal.Weeks {
		for _, day := range week {
			if day.Date == "2026-10-22" {
				found = containsTask(day.Tasks, taskID)
			}
		}
	}
	require.True(t, found)

	require.Len(t, d.Contacts("NAVY"), 1)
	require.Empty(t, d.Contacts("army"))
}

func TestDashboard_InvalidInputWritesNothing(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t, newStore(t))

	f := form.New(task.Draft{Title: "orphan"})
	_, err := d.SaveTask(ctx, f)
	require.ErrorIs(t, err, task.ErrNoProject)
	require.True(t, f.IsOpen())
	require.Empty(t, d.Tasks())
}
