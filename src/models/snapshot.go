package models

// Snapshot is every collection a user owns, loaded in one shot. All derived
// figures (dashboard, net worth, trend, budgets, goals) are computed from a
// snapshot plus an exchange rate; nothing derived is ever persisted.
type Snapshot struct {
	Accounts           []Account           `json:"accounts"`
	Transactions       []Transaction       `json:"transactions"`
	Categories         []Category          `json:"categories"`
	IncomeSources      []IncomeSource      `json:"incomeSources"`
	Budgets            []Budget            `json:"budgets"`
	Goals              []Goal              `json:"goals"`
	Assets             []Asset             `json:"assets"`
	Liabilities        []Liability         `json:"liabilities"`
	ExchangeOperations []ExchangeOperation `json:"exchangeOperations"`

	// Degraded is set when one or more collections failed to load and were
	// replaced with empty slices.
	Degraded bool `json:"degraded"`
}
