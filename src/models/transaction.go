package models

import (
	"database/sql"
)

// Transaction is a single income or expense movement on an account.
// Date is stored as the ISO string the client sent ("YYYY-MM-DD"); period
// grouping works on the string itself so entries never drift across months
// because of timezones.
type Transaction struct {
	ID          string  `json:"id"`
	UserID      int64   `json:"-"`
	AccountID   string  `json:"accountId"`
	Type        string  `json:"type"` // income | expense
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CategoryID  string  `json:"categoryId,omitempty"` // set for expenses
	SourceID    string  `json:"sourceId,omitempty"`   // set for income
	IsFixed     bool    `json:"isFixed"`              // recurring marker, informational only
}

// Signed returns the amount with its cash-flow sign: positive for income,
// negative for expense.
func (t *Transaction) Signed() float64 {
	if t.Type == "expense" {
		return -t.Amount
	}
	return t.Amount
}

const transactionColumns = "id, user_id, account_id, type, amount, description, date, category_id, source_id, is_fixed"

func scanTransaction(row interface{ Scan(...any) error }) (*Transaction, error) {
	var t Transaction
	var description, categoryID, sourceID sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Type, &t.Amount, &description, &t.Date, &categoryID, &sourceID, &t.IsFixed); err != nil {
		return nil, err
	}
	t.Description = description.String
	t.CategoryID = categoryID.String
	t.SourceID = sourceID.String
	return &t, nil
}

func ListTransactions(db *sql.DB, userID int64) ([]Transaction, error) {
	rows, err := db.Query("SELECT "+transactionColumns+" FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := []Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *t)
	}
	return txns, rows.Err()
}

func GetTransactionByID(db *sql.DB, userID int64, id string) (*Transaction, error) {
	row := db.QueryRow("SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	return scanTransaction(row)
}

func (t *Transaction) Insert(tx *sql.Tx) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (id, user_id, account_id, type, amount, description, date, category_id, source_id, is_fixed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.AccountID, t.Type, t.Amount, t.Description, t.Date,
		nullIfEmpty(t.CategoryID), nullIfEmpty(t.SourceID), t.IsFixed,
	)
	return err
}

func (t *Transaction) Update(tx *sql.Tx) error {
	res, err := tx.Exec(`
		UPDATE transactions
		SET account_id = ?, type = ?, amount = ?, description = ?, date = ?, category_id = ?, source_id = ?, is_fixed = ?
		WHERE id = ? AND user_id = ?`,
		t.AccountID, t.Type, t.Amount, t.Description, t.Date,
		nullIfEmpty(t.CategoryID), nullIfEmpty(t.SourceID), t.IsFixed, t.ID, t.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteTransaction(tx *sql.Tx, userID int64, id string) error {
	res, err := tx.Exec("DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
