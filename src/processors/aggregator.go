// backend/src/processors/aggregator.go
package processors

import (
	"github.com/username/financeflow/backend/src/models"
)

// AccountPredicate selects the accounts belonging to one dashboard bucket.
type AccountPredicate func(a *models.Account) bool

// AccountTotals is the per-bucket rollup the dashboard cards render.
type AccountTotals struct {
	TotalBalance   float64 `json:"totalBalance"`
	MonthlyIncome  float64 `json:"monthlyIncome"`
	MonthlyExpense float64 `json:"monthlyExpense"`
}

// AggregateAccounts rolls up the accounts matched by pred: the point-in-time
// balance sum plus the period's income and expense flow.
//
// Exchange operations touching a matched account fold into the flow figures:
// the source side counts as expense, the destination side as income. A
// transfer between two accounts of the same bucket therefore shows up on both
// sides (gross cash movement, not netted).
func AggregateAccounts(
	accounts []models.Account,
	txns []models.Transaction,
	exchanges []models.ExchangeOperation,
	pred AccountPredicate,
	period Period,
) AccountTotals {
	matched := make(map[string]bool, len(accounts))
	var totals AccountTotals

	for i := range accounts {
		if pred == nil || pred(&accounts[i]) {
			matched[accounts[i].ID] = true
			totals.TotalBalance += accounts[i].Balance
		}
	}

	for i := range txns {
		t := &txns[i]
		if !matched[t.AccountID] || !InPeriod(t.Date, period) {
			continue
		}
		switch t.Type {
		case "income":
			totals.MonthlyIncome += t.Amount
		case "expense":
			totals.MonthlyExpense += t.Amount
		}
	}

	for i := range exchanges {
		e := &exchanges[i]
		if !InPeriod(e.Date, period) {
			continue
		}
		if matched[e.SourceAccountID] {
			totals.MonthlyExpense += e.SourceAmount
		}
		if matched[e.DestinationAccountID] {
			totals.MonthlyIncome += e.DestinationAmount
		}
	}

	return totals
}

// DashboardStats is the three-bucket summary of the main dashboard: ordinary
// BRL accounts, ordinary EUR accounts, and investment accounts rolled up
// separately.
type DashboardStats struct {
	BRL        AccountTotals `json:"brl"`
	EUR        AccountTotals `json:"eur"`
	Investment AccountTotals `json:"investment"`
}

// BuildDashboardStats computes the three standard buckets for one period.
func BuildDashboardStats(snap *models.Snapshot, period Period) DashboardStats {
	isBRL := func(a *models.Account) bool { return a.Currency == "BRL" && !a.IsInvestment() }
	isEUR := func(a *models.Account) bool { return a.Currency == "EUR" && !a.IsInvestment() }
	isInvestment := func(a *models.Account) bool { return a.IsInvestment() }

	return DashboardStats{
		BRL:        AggregateAccounts(snap.Accounts, snap.Transactions, snap.ExchangeOperations, isBRL, period),
		EUR:        AggregateAccounts(snap.Accounts, snap.Transactions, snap.ExchangeOperations, isEUR, period),
		Investment: AggregateAccounts(snap.Accounts, snap.Transactions, snap.ExchangeOperations, isInvestment, period),
	}
}
