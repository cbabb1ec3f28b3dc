// Package views builds the read-only structures the dashboard shows from
// collection snapshots. Builders are pure: they never modify their inputs
// and return equal output for equal input.
package views

import (
	"math"

	"github.com/rpggio/backoffice/internal/domain/ledger"
)

// Financials totals the ledger.
type Financials struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// FinancialSummary sums income and expense amounts. Amounts that aren't
// finite numbers count as 0, and transactions of any other type are
// ignored.
func FinancialSummary(txs []ledger.Transaction) Financials {
	var f Financials
	for _, tx := range txs {
		amount := float64(tx.Amount)
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			amount = 0
		}
		switch tx.Type {
		case ledger.TypeIncome:
			f.Income += amount
		case ledger.TypeExpense:
			f.Expenses += amount
		}
	}
	f.Net = f.Income - f.Expenses
	return f
}

// SplitByType returns the income and expense transactions, each in
// snapshot order.
func SplitByType(txs []ledger.Transaction) (income, expenses []ledger.Transaction) {
	income = []ledger.Transaction{}
	expenses = []ledger.Transaction{}
	for _, tx := range txs {
		switch tx.Type {
		case ledger.TypeIncome:
			income = append(income, tx)
		case ledger.TypeExpense:
			expenses = append(expenses, tx)
		}
	}
	return income, expenses
}
