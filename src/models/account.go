package models

import (
	"database/sql"
)

// Account is a money-holding account in one of the two supported currencies.
// Balance is the current authoritative balance; transactions adjust it on write.
type Account struct {
	ID          string  `json:"id"`
	UserID      int64   `json:"-"`
	Name        string  `json:"name"`
	Type        string  `json:"type"` // checking | savings | investment | cash
	Currency    string  `json:"currency"`
	Balance     float64 `json:"balance"`
	Institution string  `json:"institution,omitempty"`
	Purpose     string  `json:"purpose,omitempty"` // e.g. "emergency" marks the emergency reserve
}

// IsInvestment reports whether the account belongs to the separate investment
// bucket instead of its ordinary currency bucket.
func (a *Account) IsInvestment() bool {
	return a.Type == "investment"
}

const accountColumns = "id, user_id, name, type, currency, balance, institution, purpose"

func scanAccount(row interface{ Scan(...any) error }) (*Account, error) {
	var a Account
	var institution, purpose sql.NullString
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency, &a.Balance, &institution, &purpose); err != nil {
		return nil, err
	}
	a.Institution = institution.String
	a.Purpose = purpose.String
	return &a, nil
}

func ListAccounts(db *sql.DB, userID int64) ([]Account, error) {
	rows, err := db.Query("SELECT "+accountColumns+" FROM accounts WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func GetAccountByID(db *sql.DB, userID int64, id string) (*Account, error) {
	row := db.QueryRow("SELECT "+accountColumns+" FROM accounts WHERE id = ? AND user_id = ?", id, userID)
	return scanAccount(row)
}

func (a *Account) Create(db *sql.DB) error {
	_, err := db.Exec(`
		INSERT INTO accounts (id, user_id, name, type, currency, balance, institution, purpose)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, a.Type, a.Currency, a.Balance, a.Institution, a.Purpose,
	)
	return err
}

func (a *Account) Update(db *sql.DB) error {
	res, err := db.Exec(`
		UPDATE accounts
		SET name = ?, type = ?, currency = ?, balance = ?, institution = ?, purpose = ?
		WHERE id = ? AND user_id = ?`,
		a.Name, a.Type, a.Currency, a.Balance, a.Institution, a.Purpose, a.ID, a.UserID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func DeleteAccount(db *sql.DB, userID int64, id string) error {
	res, err := db.Exec("DELETE FROM accounts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

// AdjustAccountBalance applies a signed delta to an account balance inside an
// existing transaction, so transaction writes and their balance effect commit
// together.
func AdjustAccountBalance(tx *sql.Tx, userID int64, accountID string, delta float64) error {
	res, err := tx.Exec("UPDATE accounts SET balance = balance + ? WHERE id = ? AND user_id = ?",
		delta, accountID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
