package models

import (
	"database/sql"
)

// Asset is a non-account holding (property, vehicle, valuables) that counts
// toward net worth.
type Asset struct {
	ID       string  `json:"id"`
	UserID   int64   `json:"-"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Liability is an outstanding debt (loan, financing, credit card balance).
type Liability struct {
	ID           string   `json:"id"`
	UserID       int64    `json:"-"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency"`
	InterestRate *float64 `json:"interestRate,omitempty"` // annual %, informational
}

func ListAssets(db *sql.DB, userID int64) ([]Asset, error) {
	rows, err := db.Query("SELECT id, user_id, name, type, value, currency FROM assets WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []Asset{}
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Value, &a.Currency); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (a *Asset) Create(db *sql.DB) error {
	_, err := db.Exec("INSERT INTO assets (id, user_id, name, type, value, currency) VALUES (?, ?, ?, ?, ?, ?)",
		a.ID, a.UserID, a.Name, a.Type, a.Value, a.Currency)
	return err
}

func (a *Asset) Update(db *sql.DB) error {
	res, err := db.Exec("UPDATE assets SET name = ?, type = ?, value = ?, currency = ? WHERE id = ? AND user_id = ?",
		a.Name, a.Type, a.Value, a.Currency, a.ID, a.UserID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteAsset(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM assets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func ListLiabilities(db *sql.DB, userID int64) ([]Liability, error) {
	rows, err := db.Query("SELECT id, user_id, name, type, amount, currency, interest_rate FROM liabilities WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liabilities := []Liability{}
	for rows.Next() {
		var l Liability
		var rate sql.NullFloat64
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Type, &l.Amount, &l.Currency, &rate); err != nil {
			return nil, err
		}
		if rate.Valid {
			l.InterestRate = &rate.Float64
		}
		liabilities = append(liabilities, l)
	}
	return liabilities, rows.Err()
}

func (l *Liability) Create(db *sql.DB) error {
	_, err := db.Exec("INSERT INTO liabilities (id, user_id, name, type, amount, currency, interest_rate) VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.UserID, l.Name, l.Type, l.Amount, l.Currency, nullFloat(l.InterestRate))
	return err
}

func (l *Liability) Update(db *sql.DB) error {
	res, err := db.Exec("UPDATE liabilities SET name = ?, type = ?, amount = ?, currency = ?, interest_rate = ? WHERE id = ? AND user_id = ?",
		l.Name, l.Type, l.Amount, l.Currency, nullFloat(l.InterestRate), l.ID, l.UserID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteLiability(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM liabilities WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
