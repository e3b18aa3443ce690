// backend/src/processors/networth.go
package processors

import (
	"github.com/username/financeflow/backend/src/models"
)

// NetWorthSummary is the balance-sheet rollup per currency plus consolidated
// grand totals.
type NetWorthSummary struct {
	NetBRL          float64 `json:"netBRL"`
	NetEUR          float64 `json:"netEUR"`
	ConsolidatedEUR float64 `json:"consolidatedEUR"`
	ConsolidatedBRL float64 `json:"consolidatedBRL"`

	TotalAssetsBRL      float64 `json:"totalAssetsBRL"`
	TotalAssetsEUR      float64 `json:"totalAssetsEUR"`
	TotalLiabilitiesBRL float64 `json:"totalLiabilitiesBRL"`
	TotalLiabilitiesEUR float64 `json:"totalLiabilitiesEUR"`

	// DebtRatio is consolidated liabilities over consolidated assets, in
	// percent. Zero assets report 0, never a division blow-up.
	DebtRatio float64 `json:"debtRatio"`

	// Approximate is set when the conversion rate is a stale or fallback
	// value.
	Approximate bool `json:"approximate"`
}

// NetWorth computes per-currency net worth (account balances plus asset
// values minus liability amounts) and consolidates it with the given
// converter.
func NetWorth(accounts []models.Account, assets []models.Asset, liabilities []models.Liability, conv Converter) NetWorthSummary {
	var s NetWorthSummary

	for i := range accounts {
		switch accounts[i].Currency {
		case "BRL":
			s.NetBRL += accounts[i].Balance
			s.TotalAssetsBRL += accounts[i].Balance
		case "EUR":
			s.NetEUR += accounts[i].Balance
			s.TotalAssetsEUR += accounts[i].Balance
		}
	}
	for i := range assets {
		switch assets[i].Currency {
		case "BRL":
			s.NetBRL += assets[i].Value
			s.TotalAssetsBRL += assets[i].Value
		case "EUR":
			s.NetEUR += assets[i].Value
			s.TotalAssetsEUR += assets[i].Value
		}
	}
	for i := range liabilities {
		switch liabilities[i].Currency {
		case "BRL":
			s.NetBRL -= liabilities[i].Amount
			s.TotalLiabilitiesBRL += liabilities[i].Amount
		case "EUR":
			s.NetEUR -= liabilities[i].Amount
			s.TotalLiabilitiesEUR += liabilities[i].Amount
		}
	}

	consolidated := conv.Consolidate(s.NetBRL, s.NetEUR)
	s.ConsolidatedEUR = consolidated.EUR
	s.ConsolidatedBRL = consolidated.BRL

	totalAssets := conv.Consolidate(s.TotalAssetsBRL, s.TotalAssetsEUR).BRL
	totalLiabilities := conv.Consolidate(s.TotalLiabilitiesBRL, s.TotalLiabilitiesEUR).BRL
	if totalAssets != 0 {
		s.DebtRatio = totalLiabilities / totalAssets * 100
	}

	s.Approximate = conv.Stale
	return s
}
