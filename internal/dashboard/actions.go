package dashboard

import (
	"context"

	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/flowchart"
	"github.com/rpggio/backoffice/internal/domain/form"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/project"
	"github.com/rpggio/backoffice/internal/domain/task"
	"github.com/rpggio/backoffice/internal/livesync"
)

// Each mutation issues one store write. Snapshots change only when the
// corresponding subscription pushes.

// SaveProject saves a project. A newly created project becomes selected.
func (d *Dashboard) SaveProject(ctx context.Context, f *form.Form[project.Draft]) (string, error) {
	creating := f.BoundID() == ""
	id, err := d.projectSvc.Save(ctx, d.sess.Namespace, f)
	if err != nil {
		return "", err
	}
	if creating {
		d.selectedProject.Select(id)
	}
	return id, nil
}

// DeleteProject deletes a project after confirmation. When it was selected,
// the first remaining project becomes the default.
func (d *Dashboard) DeleteProject(ctx context.Context, id string, c form.Confirmer) (bool, error) {
	deleted, err := d.projectSvc.Delete(ctx, d.sess.Namespace, id, c)
	if err != nil || !deleted {
		return deleted, err
	}
	if current, ok := d.selectedProject.Current(); ok && current == id {
		reselect(d.selectedProject, d.Projects(), id, func(p project.Project) string { return p.ID })
	}
	return true, nil
}

// SaveTask saves a task. A new task without a project goes into the
// selected project.
func (d *Dashboard) SaveTask(ctx context.Context, f *form.Form[task.Draft]) (string, error) {
	if f.BoundID() == "" && f.Draft().ProjectID == "" {
		if id, ok := d.selectedProject.Current(); ok {
			draft := f.Draft()
			draft.ProjectID = id
			f.SetDraft(draft)
		}
	}
	return d.taskSvc.Save(ctx, d.sess.Namespace, f)
}

// SetTaskStatus moves a task to another column.
func (d *Dashboard) SetTaskStatus(ctx context.Context, id string, status task.Status) error {
	return d.taskSvc.SetStatus(ctx, d.sess.Namespace, id, status)
}

// DeleteTask deletes a task after confirmation.
func (d *Dashboard) DeleteTask(ctx context.Context, id string, c form.Confirmer) (bool, error) {
	return d.taskSvc.Delete(ctx, d.sess.Namespace, id, c)
}

// SaveContact saves a contact.
func (d *Dashboard) SaveContact(ctx context.Context, f *form.Form[contact.Draft]) (string, error) {
	return d.contactSvc.Save(ctx, d.sess.Namespace, f)
}

// DeleteContact deletes a contact after confirmation.
func (d *Dashboard) DeleteContact(ctx context.Context, id string, c form.Confirmer) (bool, error) {
	return d.contactSvc.Delete(ctx, d.sess.Namespace, id, c)
}

// NewTransactionDraft returns the defaults for a new transaction of type t.
func (d *Dashboard) NewTransactionDraft(t ledger.Type) ledger.Draft {
	return d.ledgerSvc.NewDraft(t)
}

// SaveTransaction saves a transaction.
func (d *Dashboard) SaveTransaction(ctx context.Context, f *form.Form[ledger.Draft]) (string, error) {
	return d.ledgerSvc.Save(ctx, d.sess.Namespace, f)
}

// DeleteTransaction deletes a transaction after confirmation.
func (d *Dashboard) DeleteTransaction(ctx context.Context, id string, c form.Confirmer) (bool, error) {
	return d.ledgerSvc.Delete(ctx, d.sess.Namespace, id, c)
}

// SaveFlowchart saves a flowchart.
func (d *Dashboard) SaveFlowchart(ctx context.Context, f *form.Form[flowchart.Draft]) (string, error) {
	return d.flowchartSvc.Save(ctx, d.sess.Namespace, f)
}

// DeleteFlowchart deletes a flowchart after confirmation. When it was being
// viewed, the selection moves to the first remaining flowchart.
func (d *Dashboard) DeleteFlowchart(ctx context.Context, id string, c form.Confirmer) (bool, error) {
	deleted, err := d.flowchartSvc.Delete(ctx, d.sess.Namespace, id, c)
	if err != nil || !deleted {
		return deleted, err
	}
	if current, ok := d.selectedFlowchart.Current(); ok && current == id {
		reselect(d.selectedFlowchart, d.flowcharts.Snapshot().Items, id, func(fc flowchart.Flowchart) string { return fc.ID })
	}
	return true, nil
}

// reselect clears a selection whose entity was deleted and defaults it to
// the first other item. The snapshot may still hold the deleted entity.
func reselect[T any](sel *livesync.Selection, items []T, deleted string, idOf func(T) string) {
	sel.Reset()
	for _, item := range items {
		if id := idOf(item); id != deleted {
			sel.Offer(id)
			return
		}
	}
}
