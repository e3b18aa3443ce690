// backend/src/processors/budget.go
package processors

import (
	"github.com/username/financeflow/backend/src/models"
)

// BudgetStatus is one budget with its computed period actuals. Percentage is
// clamped for display; Actual and Amount carry the raw figures so over-budget
// detection never depends on the clamp.
type BudgetStatus struct {
	Budget     models.Budget `json:"budget"`
	Actual     float64       `json:"actual"`
	Percentage float64       `json:"percentage"` // clamped to [0,100]
	Remaining  float64       `json:"remaining"`
	IsOver     bool          `json:"isOver"`      // expense budget exceeded
	IsComplete bool          `json:"isCompleted"` // income target reached
}

// BudgetProgress computes the actual spent (or earned) against one budget for
// the period. Only transactions whose account currency equals the budget's
// currency count. Expense budgets flip to IsOver past the limit; income
// targets flip to IsComplete at 100% — opposite polarity, neither is an error
// state.
func BudgetProgress(
	budget models.Budget,
	txns []models.Transaction,
	accounts []models.Account,
	categories []models.Category,
	period Period,
) BudgetStatus {
	currencyByAccount := make(map[string]string, len(accounts))
	for i := range accounts {
		currencyByAccount[accounts[i].ID] = accounts[i].Currency
	}

	var actual float64
	for i := range txns {
		t := &txns[i]
		if !InPeriod(t.Date, period) {
			continue
		}
		if currencyByAccount[t.AccountID] != budget.Currency {
			continue
		}
		switch budget.EntityType {
		case "category":
			if t.CategoryID == budget.EntityID {
				actual += t.Amount
			}
		case "source":
			if t.SourceID == budget.EntityID {
				actual += t.Amount
			}
		}
	}

	status := BudgetStatus{
		Budget:    budget,
		Actual:    actual,
		Remaining: budget.Amount - actual,
	}

	if budget.Amount > 0 {
		pct := actual / budget.Amount * 100
		if pct > 100 {
			pct = 100
		}
		status.Percentage = pct
	}
	// Amount == 0 keeps Percentage at 0 by convention.

	if isIncomeTarget(budget, categories) {
		status.IsComplete = budget.Amount > 0 && actual >= budget.Amount
	} else {
		status.IsOver = actual > budget.Amount
	}
	return status
}

// BuildBudgetStatuses computes every budget's status for one period, in the
// budgets' stored order.
func BuildBudgetStatuses(snap *models.Snapshot, period Period) []BudgetStatus {
	statuses := make([]BudgetStatus, 0, len(snap.Budgets))
	for _, b := range snap.Budgets {
		statuses = append(statuses, BudgetProgress(b, snap.Transactions, snap.Accounts, snap.Categories, period))
	}
	return statuses
}

// isIncomeTarget reports whether a budget tracks income rather than spending:
// source budgets always do, category budgets only when the category is an
// income category.
func isIncomeTarget(budget models.Budget, categories []models.Category) bool {
	if budget.EntityType == "source" {
		return true
	}
	for i := range categories {
		if categories[i].ID == budget.EntityID {
			return categories[i].Type == "income"
		}
	}
	return false
}
