package dashboard

import (
	"time"

	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/flowchart"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/views"
)

// ProjectBoard is the selected project with its tasks by status.
type ProjectBoard struct {
	Project *project.Project `json:"project,omitempty"`
	Loaded  bool             `json:"loaded"`
	Board   views.Board      `json:"board"`
}

// Finances is the ledger page.
type Finances struct {
	Summary  views.Financials     `json:"summary"`
	Income   []ledger.Transaction `json:"income"`
	Expenses []ledger.Transaction `json:"expenses"`
}

// Flowcharts is the flowchart list with the one being viewed.
type Flowcharts struct {
	Items    []flowchart.Flowchart `json:"items"`
	Selected *flowchart.Flowchart  `json:"selected,omitempty"`
}

// Overview returns the landing page cards.
func (d *Dashboard) Overview() views.Overview {
	tasks := d.tasks.Snapshot()
	contacts := d.contacts.Snapshot()
	txs := d.transactions.Snapshot()

	key := [3]uint64{tasks.Version, contacts.Version, txs.Version}
	return d.overview.Get(key, func() views.Overview {
		return views.BuildOverview(tasks.Items, contacts.Items, txs.Items)
	})
}

// Projects returns the project list.
func (d *Dashboard) Projects() []project.Project {
	return d.projects.Snapshot().Items
}

// Project looks a project up in the snapshot.
func (d *Dashboard) Project(id string) (project.Project, bool) {
	return find(d.Projects(), id, func(p project.Project) string { return p.ID })
}

// SelectedProjectID returns the selected project id.
func (d *Dashboard) SelectedProjectID() (string, bool) {
	return d.selectedProject.Current()
}

// SelectProject chooses the project whose tasks are synced. An empty id
// deselects.
func (d *Dashboard) SelectProject(id string) {
	d.selectedProject.Select(id)
}

// ProjectBoard returns the selected project's tasks by status. A project
// that was just created may not be in the snapshot yet; it is reported by
// id alone.
func (d *Dashboard) ProjectBoard() ProjectBoard {
	id, ok := d.selectedProject.Current()
	if !ok {
		return ProjectBoard{Loaded: true, Board: views.GroupByStatus(nil)}
	}

	proj, found := d.Project(id)
	if !found {
		proj = project.Project{ID: id}
	}

	snap := d.projectTasks.Snapshot()
	if snap.Scope.Value != id {
		return ProjectBoard{Project: &proj, Board: views.GroupByStatus(nil)}
	}
	board := d.board.Get(snap.Version, func() views.Board {
		return views.GroupByStatus(snap.Items)
	})
	return ProjectBoard{Project: &proj, Loaded: snap.Loaded, Board: board}
}

// Task looks a task up across all projects.
func (d *Dashboard) Task(id string) (task.Task, bool) {
	return find(d.tasks.Snapshot().Items, id, func(t task.Task) string { return t.ID })
}

// Tasks returns every task of every project.
func (d *Dashboard) Tasks() []task.Task {
	return d.tasks.Snapshot().Items
}

// Calendar returns the month grid of due tasks across all projects.
func (d *Dashboard) Calendar(year int, month time.Month) views.Calendar {
	return views.CalendarMonth(year, month, d.tasks.Snapshot().Items)
}

// Contacts returns the contacts matching term.
func (d *Dashboard) Contacts(term string) []contact.Contact {
	return views.FilterContacts(d.contacts.Snapshot().Items, term)
}

// Contact looks a contact up in the snapshot.
func (d *Dashboard) Contact(id string) (contact.Contact, bool) {
	return find(d.contacts.Snapshot().Items, id, func(c contact.Contact) string { return c.ID })
}

// Finances returns the ledger totals and entries.
func (d *Dashboard) Finances() Finances {
	txs := d.transactions.Snapshot().Items
	income, expenses := views.SplitByType(txs)
	return Finances{Summary: views.FinancialSummary(txs), Income: income, Expenses: expenses}
}

// Transaction looks a transaction up in the snapshot.
func (d *Dashboard) Transaction(id string) (ledger.Transaction, bool) {
	return find(d.transactions.Snapshot().Items, id, func(tx ledger.Transaction) string { return tx.ID })
}

// Flowcharts returns the flowchart list and the selected flowchart.
func (d *Dashboard) Flowcharts() Flowcharts {
	items := d.flowcharts.Snapshot().Items
	out := Flowcharts{Items: items}
	if id, ok := d.selectedFlowchart.Current(); ok {
		if fc, found := find(items, id, func(fc flowchart.Flowchart) string { return fc.ID }); found {
			out.Selected = &fc
		}
	}
	return out
}

// Flowchart looks a flowchart up in the snapshot.
func (d *Dashboard) Flowchart(id string) (flowchart.Flowchart, bool) {
	return find(d.flowcharts.Snapshot().Items, id, func(fc flowchart.Flowchart) string { return fc.ID })
}

// SelectFlowchart chooses the flowchart being viewed.
func (d *Dashboard) SelectFlowchart(id string) {
	d.selectedFlowchart.Select(id)
}
