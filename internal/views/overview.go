package views

import (
	"github.com/rpggio/backoffice/internal/domain/contact"
	"github.com/rpggio/backoffice/internal/domain/ledger"
	"github.com/rpggio/backoffice/internal/domain/task"
)

// Overview is the landing page card set.
type Overview struct {
	TotalTasks     int               `json:"total_tasks"`
	TotalContacts  int               `json:"total_contacts"`
	Financials     Financials        `json:"financials"`
	UpcomingTasks  []task.Task       `json:"upcoming_tasks"`
	RecentContacts []contact.Contact `json:"recent_contacts"`
}

// BuildOverview combines the task, contact and transaction snapshots.
func BuildOverview(tasks []task.Task, contacts []contact.Contact, txs []ledger.Transaction) Overview {
	return Overview{
		TotalTasks:     len(tasks),
		TotalContacts:  len(contacts),
		Financials:     FinancialSummary(txs),
		UpcomingTasks:  UpcomingTasks(tasks),
		RecentContacts: RecentContacts(contacts),
	}
}
