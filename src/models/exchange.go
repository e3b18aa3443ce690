package models

import (
	"database/sql"
)

// ExchangeOperation moves money between two accounts, usually across
// currencies. Both amounts are stored as entered; the realized rate is
// derived, never persisted.
type ExchangeOperation struct {
	ID                   string  `json:"id"`
	UserID               int64   `json:"-"`
	Date                 string  `json:"date"`
	SourceAccountID      string  `json:"sourceAccountId"`
	DestinationAccountID string  `json:"destinationAccountId"`
	SourceAmount         float64 `json:"sourceAmount"`
	DestinationAmount    float64 `json:"destinationAmount"`
	Fee                  float64 `json:"fee"`
}

// RealizedRate is destination per unit of source, 0 when the source amount is
// zero. Display only.
func (e *ExchangeOperation) RealizedRate() float64 {
	if e.SourceAmount == 0 {
		return 0
	}
	return e.DestinationAmount / e.SourceAmount
}

const exchangeColumns = "id, user_id, date, source_account_id, destination_account_id, source_amount, destination_amount, fee"

func ListExchangeOperations(db *sql.DB, userID int64) ([]ExchangeOperation, error) {
	rows, err := db.Query("SELECT "+exchangeColumns+" FROM exchange_operations WHERE user_id = ? ORDER BY date DESC, created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ops := []ExchangeOperation{}
	for rows.Next() {
		var e ExchangeOperation
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.SourceAccountID, &e.DestinationAccountID, &e.SourceAmount, &e.DestinationAmount, &e.Fee); err != nil {
			return nil, err
		}
		ops = append(ops, e)
	}
	return ops, rows.Err()
}

func GetExchangeOperationByID(db *sql.DB, userID int64, id string) (*ExchangeOperation, error) {
	var e ExchangeOperation
	err := db.QueryRow("SELECT "+exchangeColumns+" FROM exchange_operations WHERE id = ? AND user_id = ?", id, userID).
		Scan(&e.ID, &e.UserID, &e.Date, &e.SourceAccountID, &e.DestinationAccountID, &e.SourceAmount, &e.DestinationAmount, &e.Fee)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *ExchangeOperation) Insert(tx *sql.Tx) error {
	_, err := tx.Exec(`
		INSERT INTO exchange_operations (id, user_id, date, source_account_id, destination_account_id, source_amount, destination_amount, fee)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, e.SourceAccountID, e.DestinationAccountID, e.SourceAmount, e.DestinationAmount, e.Fee,
	)
	return err
}

func DeleteExchangeOperation(tx *sql.Tx, userID int64, id string) error {
	res, err := tx.Exec("DELETE FROM exchange_operations WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
