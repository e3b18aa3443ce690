// backend/src/processors/breakdown.go
package processors

import (
	"sort"

	"github.com/username/financeflow/backend/src/models"
)

// BreakdownEntry is one category's or source's share of a period, kept per
// currency so mixed-currency users see both columns.
type BreakdownEntry struct {
	EntityID string  `json:"entityId"`
	Name     string  `json:"name"`
	TotalBRL float64 `json:"totalBRL"`
	TotalEUR float64 `json:"totalEUR"`
	Count    int     `json:"count"`
}

// ExpenseByCategory groups the period's expense transactions by category,
// sorted by consolidated size descending. Transactions without a category
// land under the empty-ID entry labelled "Uncategorized".
func ExpenseByCategory(snap *models.Snapshot, conv Converter, period Period) []BreakdownEntry {
	names := make(map[string]string, len(snap.Categories))
	for i := range snap.Categories {
		names[snap.Categories[i].ID] = snap.Categories[i].Name
	}
	return buildBreakdown(snap, conv, period, "expense", func(t *models.Transaction) (string, string) {
		name, ok := names[t.CategoryID]
		if !ok || t.CategoryID == "" {
			return "", "Uncategorized"
		}
		return t.CategoryID, name
	})
}

// IncomeBySource groups the period's income transactions by income source,
// sorted by consolidated size descending.
func IncomeBySource(snap *models.Snapshot, conv Converter, period Period) []BreakdownEntry {
	names := make(map[string]string, len(snap.IncomeSources))
	for i := range snap.IncomeSources {
		names[snap.IncomeSources[i].ID] = snap.IncomeSources[i].Name
	}
	return buildBreakdown(snap, conv, period, "income", func(t *models.Transaction) (string, string) {
		name, ok := names[t.SourceID]
		if !ok || t.SourceID == "" {
			return "", "Other"
		}
		return t.SourceID, name
	})
}

func buildBreakdown(
	snap *models.Snapshot,
	conv Converter,
	period Period,
	txnType string,
	keyFn func(*models.Transaction) (id, name string),
) []BreakdownEntry {
	currencyByAccount := make(map[string]string, len(snap.Accounts))
	for i := range snap.Accounts {
		currencyByAccount[snap.Accounts[i].ID] = snap.Accounts[i].Currency
	}

	byKey := make(map[string]*BreakdownEntry)
	order := []string{}
	for i := range snap.Transactions {
		t := &snap.Transactions[i]
		if t.Type != txnType || !InPeriod(t.Date, period) {
			continue
		}
		id, name := keyFn(t)
		entry, ok := byKey[id]
		if !ok {
			entry = &BreakdownEntry{EntityID: id, Name: name}
			byKey[id] = entry
			order = append(order, id)
		}
		switch currencyByAccount[t.AccountID] {
		case "EUR":
			entry.TotalEUR += t.Amount
		default:
			entry.TotalBRL += t.Amount
		}
		entry.Count++
	}

	entries := make([]BreakdownEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *byKey[id])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return conv.Consolidate(entries[i].TotalBRL, entries[i].TotalEUR).BRL >
			conv.Consolidate(entries[j].TotalBRL, entries[j].TotalEUR).BRL
	})
	return entries
}

// FinancialMetrics is the metrics view payload: balance-sheet figures plus
// this period's cash flow health.
type FinancialMetrics struct {
	NetWorth NetWorthSummary `json:"netWorth"`

	MonthlyIncomeBRL  float64 `json:"monthlyIncomeBRL"`
	MonthlyIncomeEUR  float64 `json:"monthlyIncomeEUR"`
	MonthlyExpenseBRL float64 `json:"monthlyExpenseBRL"`
	MonthlyExpenseEUR float64 `json:"monthlyExpenseEUR"`

	// SavingsRate is (income − expense) / income in percent over the
	// consolidated period flow; zero income reports 0.
	SavingsRate float64 `json:"savingsRate"`

	// EmergencyFundMonths divides the emergency-reserve balances by the
	// average consolidated monthly expense of the trailing six months.
	EmergencyFundMonths float64 `json:"emergencyFundMonths"`
}

// BuildFinancialMetrics computes the metrics payload for one period.
func BuildFinancialMetrics(snap *models.Snapshot, conv Converter, period Period) FinancialMetrics {
	m := FinancialMetrics{
		NetWorth: NetWorth(snap.Accounts, snap.Assets, snap.Liabilities, conv),
	}

	currencyByAccount := make(map[string]string, len(snap.Accounts))
	for i := range snap.Accounts {
		currencyByAccount[snap.Accounts[i].ID] = snap.Accounts[i].Currency
	}
	for i := range snap.Transactions {
		t := &snap.Transactions[i]
		if !InPeriod(t.Date, period) {
			continue
		}
		isEUR := currencyByAccount[t.AccountID] == "EUR"
		switch t.Type {
		case "income":
			if isEUR {
				m.MonthlyIncomeEUR += t.Amount
			} else {
				m.MonthlyIncomeBRL += t.Amount
			}
		case "expense":
			if isEUR {
				m.MonthlyExpenseEUR += t.Amount
			} else {
				m.MonthlyExpenseBRL += t.Amount
			}
		}
	}

	income := conv.Consolidate(m.MonthlyIncomeBRL, m.MonthlyIncomeEUR).BRL
	expense := conv.Consolidate(m.MonthlyExpenseBRL, m.MonthlyExpenseEUR).BRL
	if income > 0 {
		m.SavingsRate = (income - expense) / income * 100
	}

	m.EmergencyFundMonths = emergencyFundMonths(snap, conv, period, currencyByAccount)
	return m
}

func emergencyFundMonths(snap *models.Snapshot, conv Converter, period Period, currencyByAccount map[string]string) float64 {
	var reserveBRL, reserveEUR float64
	for i := range snap.Accounts {
		if snap.Accounts[i].Purpose != "emergency" {
			continue
		}
		if snap.Accounts[i].Currency == "EUR" {
			reserveEUR += snap.Accounts[i].Balance
		} else {
			reserveBRL += snap.Accounts[i].Balance
		}
	}
	reserve := conv.Consolidate(reserveBRL, reserveEUR).BRL
	if reserve <= 0 {
		return 0
	}

	const trailingMonths = 6
	var totalExpense float64
	for i := 0; i < trailingMonths; i++ {
		p := period.Previous(i)
		var brl, eur float64
		for t := range snap.Transactions {
			txn := &snap.Transactions[t]
			if txn.Type != "expense" || !InPeriod(txn.Date, p) {
				continue
			}
			if currencyByAccount[txn.AccountID] == "EUR" {
				eur += txn.Amount
			} else {
				brl += txn.Amount
			}
		}
		totalExpense += conv.Consolidate(brl, eur).BRL
	}

	avgExpense := totalExpense / trailingMonths
	if avgExpense <= 0 {
		return 0
	}
	return reserve / avgExpense
}
