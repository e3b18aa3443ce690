package models

import (
	"database/sql"
)

// Category labels expense or income transactions and is the usual target of a
// budget.
type Category struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
	Type   string `json:"type"` // income | expense
}

// IncomeSource is where income comes from (employer, freelance client, rent).
type IncomeSource struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}

func ListCategories(db *sql.DB, userID int64) ([]Category, error) {
	rows, err := db.Query("SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (c *Category) Create(db *sql.DB) error {
	_, err := db.Exec("INSERT INTO categories (id, user_id, name, type) VALUES (?, ?, ?, ?)",
		c.ID, c.UserID, c.Name, c.Type)
	return err
}

func (c *Category) Update(db *sql.DB) error {
	res, err := db.Exec("UPDATE categories SET name = ?, type = ? WHERE id = ? AND user_id = ?",
		c.Name, c.Type, c.ID, c.UserID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteCategory(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM categories WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func ListIncomeSources(db *sql.DB, userID int64) ([]IncomeSource, error) {
	rows, err := db.Query("SELECT id, user_id, name FROM income_sources WHERE user_id = ? ORDER BY name", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := []IncomeSource{}
	for rows.Next() {
		var s IncomeSource
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (s *IncomeSource) Create(db *sql.DB) error {
	_, err := db.Exec("INSERT INTO income_sources (id, user_id, name) VALUES (?, ?, ?)",
		s.ID, s.UserID, s.Name)
	return err
}

func (s *IncomeSource) Update(db *sql.DB) error {
	res, err := db.Exec("UPDATE income_sources SET name = ? WHERE id = ? AND user_id = ?",
		s.Name, s.ID, s.UserID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteIncomeSource(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM income_sources WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
