package models

import (
	"database/sql"
)

// Goal is a savings objective funded by one linked account. Progress is read
// off the linked account's balance, never stored.
type Goal struct {
	ID           string  `json:"id"`
	UserID       int64   `json:"-"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	Deadline     string  `json:"deadline,omitempty"` // "YYYY-MM-DD", optional
	AccountID    string  `json:"accountId"`
	Category     string  `json:"category"` // travel | house | emergency | car | education | other
	Status       string  `json:"status"`   // in_progress | completed | cancelled (stored, display only)
}

func ListGoals(db *sql.DB, userID int64) ([]Goal, error) {
	rows, err := db.Query("SELECT id, user_id, name, target_amount, deadline, account_id, category, status FROM goals WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		var g Goal
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &deadline, &g.AccountID, &g.Category, &g.Status); err != nil {
			return nil, err
		}
		g.Deadline = deadline.String
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (g *Goal) Create(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO goals (id, user_id, name, target_amount, deadline, account_id, category, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.TargetAmount, nullIfEmpty(g.Deadline), g.AccountID, g.Category, g.Status,
	)
	return err
}

func (g *Goal) Update(db *sql.DB) error {
	res, err := db.Exec(`
		UPDATE goals
		SET name = ?, target_amount = ?, deadline = ?, account_id = ?, category = ?, status = ?
		WHERE id = ? AND user_id = ?`,
		g.Name, g.TargetAmount, nullIfEmpty(g.Deadline), g.AccountID, g.Category, g.Status, g.ID, g.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteGoal(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM goals WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
