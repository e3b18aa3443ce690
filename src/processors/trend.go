// backend/src/processors/trend.go
package processors

import (
	"time"

	"github.com/username/financeflow/backend/src/models"
)

// TrendPoint is one month of the historical patrimony series.
type TrendPoint struct {
	Label           string  `json:"label"` // "Mar 2024"
	Period          string  `json:"period"`
	ConsolidatedBRL float64 `json:"consolidatedBRL"`
	ConsolidatedEUR float64 `json:"consolidatedEUR"`
}

// HistoricalTrend reconstructs the per-currency account patrimony at the end
// of each of the trailing months and consolidates it. The balance as of the
// end of month M is the current balance with every transaction strictly after
// M reversed:
//
//	historical(account, M) = balance − Σ signed(txns on account with date > end of M)
//
// This assumes no retroactive edits of past transactions; the series is
// recomputed in full on every call. Leading months with zero patrimony are
// trimmed so charts do not render a flat pre-data prefix.
func HistoricalTrend(snap *models.Snapshot, conv Converter, now time.Time, months int) []TrendPoint {
	if months <= 0 {
		return []TrendPoint{}
	}

	current := CurrentPeriod(now)
	points := make([]TrendPoint, 0, months)

	for i := months - 1; i >= 0; i-- {
		p := current.Previous(i)

		var netBRL, netEUR float64
		for a := range snap.Accounts {
			account := &snap.Accounts[a]
			balance := account.Balance
			for t := range snap.Transactions {
				txn := &snap.Transactions[t]
				if txn.AccountID != account.ID || !AfterPeriodEnd(txn.Date, p) {
					continue
				}
				balance -= txn.Signed()
			}
			switch account.Currency {
			case "BRL":
				netBRL += balance
			case "EUR":
				netEUR += balance
			}
		}

		consolidated := conv.Consolidate(netBRL, netEUR)
		points = append(points, TrendPoint{
			Label:           p.Label(),
			Period:          p.String(),
			ConsolidatedBRL: consolidated.BRL,
			ConsolidatedEUR: consolidated.EUR,
		})
	}

	// Trim the zero-patrimony prefix.
	start := 0
	for start < len(points) && points[start].ConsolidatedBRL == 0 && points[start].ConsolidatedEUR == 0 {
		start++
	}
	return points[start:]
}
