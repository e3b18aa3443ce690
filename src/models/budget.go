package models

import (
	"database/sql"
)

// Budget is a monthly spending limit (for expense categories) or income target
// (for income sources or income categories). Only transactions on accounts in
// the budget's currency count against it.
type Budget struct {
	ID         string  `json:"id"`
	UserID     int64   `json:"-"`
	EntityID   string  `json:"entityId"`
	EntityType string  `json:"entityType"` // category | source
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Period     string  `json:"period"` // only "monthly" today
}

func ListBudgets(db *sql.DB, userID int64) ([]Budget, error) {
	rows, err := db.Query("SELECT id, user_id, entity_id, entity_type, amount, currency, period FROM budgets WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []Budget{}
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.EntityID, &b.EntityType, &b.Amount, &b.Currency, &b.Period); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (b *Budget) Create(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO budgets (id, user_id, entity_id, entity_type, amount, currency, period)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.EntityID, b.EntityType, b.Amount, b.Currency, b.Period,
	)
	return err
}

func (b *Budget) Update(db *sql.DB) error {
	res, err := db.Exec(`
		UPDATE budgets
		SET entity_id = ?, entity_type = ?, amount = ?, currency = ?, period = ?
		WHERE id = ? AND user_id = ?`,
		b.EntityID, b.EntityType, b.Amount, b.Currency, b.Period, b.ID, b.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteBudget(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
