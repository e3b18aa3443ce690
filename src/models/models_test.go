package models

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE accounts (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	currency TEXT NOT NULL,
	balance REAL NOT NULL DEFAULT 0,
	institution TEXT,
	purpose TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE transactions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	account_id TEXT NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL,
	description TEXT,
	date TEXT NOT NULL,
	category_id TEXT,
	source_id TEXT,
	is_fixed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE categories (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE income_sources (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE budgets (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	entity_id TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	amount REAL NOT NULL,
	currency TEXT NOT NULL,
	period TEXT NOT NULL DEFAULT 'monthly',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE goals (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	target_amount REAL NOT NULL,
	deadline TEXT,
	account_id TEXT NOT NULL,
	category TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'in_progress',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE assets (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	value REAL NOT NULL,
	currency TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE liabilities (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL,
	currency TEXT NOT NULL,
	interest_rate REAL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE exchange_operations (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	source_account_id TEXT NOT NULL,
	destination_account_id TEXT NOT NULL,
	source_amount REAL NOT NULL,
	destination_amount REAL NOT NULL,
	fee REAL NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func TestAccountCRUD(t *testing.T) {
	db := newTestDB(t)

	account := &Account{
		ID:       "acc-1",
		UserID:   1,
		Name:     "Conta Corrente",
		Type:     "checking",
		Currency: "BRL",
		Balance:  1500.50,
	}
	require.NoError(t, account.Create(db))

	accounts, err := ListAccounts(db, 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Conta Corrente", accounts[0].Name)
	assert.InDelta(t, 1500.50, accounts[0].Balance, 0.001)

	account.Name = "Conta Principal"
	account.Balance = 2000
	require.NoError(t, account.Update(db))

	got, err := GetAccountByID(db, 1, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Conta Principal", got.Name)
	assert.InDelta(t, 2000.0, got.Balance, 0.001)

	// Outro utilizador nunca vê a conta.
	_, err = GetAccountByID(db, 2, "acc-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, DeleteAccount(db, 1, "acc-1"))
	accounts, err = ListAccounts(db, 1)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	assert.ErrorIs(t, DeleteAccount(db, 1, "acc-1"), sql.ErrNoRows)
}

func TestAdjustAccountBalance(t *testing.T) {
	db := newTestDB(t)

	account := &Account{ID: "acc-1", UserID: 1, Name: "Conta", Type: "checking", Currency: "BRL", Balance: 100}
	require.NoError(t, account.Create(db))

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, AdjustAccountBalance(tx, 1, "acc-1", 250))
	require.NoError(t, AdjustAccountBalance(tx, 1, "acc-1", -50))
	require.NoError(t, tx.Commit())

	got, err := GetAccountByID(db, 1, "acc-1")
	require.NoError(t, err)
	assert.InDelta(t, 300.0, got.Balance, 0.001)

	tx, err = db.Begin()
	require.NoError(t, err)
	assert.ErrorIs(t, AdjustAccountBalance(tx, 1, "missing", 10), sql.ErrNoRows)
	assert.ErrorIs(t, AdjustAccountBalance(tx, 2, "acc-1", 10), sql.ErrNoRows)
	tx.Rollback()
}

func TestTransactionInsertAndNullables(t *testing.T) {
	db := newTestDB(t)

	txn := &Transaction{
		ID:        "t1",
		UserID:    1,
		AccountID: "acc-1",
		Type:      "expense",
		Amount:    80,
		Date:      "2024-03-05",
		// CategoryID e SourceID vazios persistem como NULL.
	}
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.Insert(tx))
	require.NoError(t, tx.Commit())

	got, err := GetTransactionByID(db, 1, "t1")
	require.NoError(t, err)
	assert.Equal(t, "", got.CategoryID)
	assert.Equal(t, "", got.SourceID)
	assert.Equal(t, "", got.Description)
	assert.InDelta(t, -80.0, got.Signed(), 0.001)
}

func TestTransactionSigned(t *testing.T) {
	income := Transaction{Type: "income", Amount: 100}
	expense := Transaction{Type: "expense", Amount: 40}

	assert.InDelta(t, 100.0, income.Signed(), 0.001)
	assert.InDelta(t, -40.0, expense.Signed(), 0.001)
}

func TestGoalCRUDWithOptionalDeadline(t *testing.T) {
	db := newTestDB(t)

	goal := &Goal{
		ID:           "g1",
		UserID:       1,
		Name:         "Viagem",
		TargetAmount: 5000,
		AccountID:    "acc-1",
		Category:     "travel",
		Status:       "in_progress",
	}
	require.NoError(t, goal.Create(db))

	goals, err := ListGoals(db, 1)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "", goals[0].Deadline)

	goal.Deadline = "2025-06-30"
	require.NoError(t, goal.Update(db))

	goals, err = ListGoals(db, 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30", goals[0].Deadline)
}

func TestLiabilityInterestRateRoundTrip(t *testing.T) {
	db := newTestDB(t)

	rate := 11.5
	withRate := &Liability{ID: "l1", UserID: 1, Name: "Financiamento", Type: "loan", Amount: 90000, Currency: "BRL", InterestRate: &rate}
	withoutRate := &Liability{ID: "l2", UserID: 1, Name: "Cartão", Type: "credit_card", Amount: 1200, Currency: "BRL"}
	require.NoError(t, withRate.Create(db))
	require.NoError(t, withoutRate.Create(db))

	liabilities, err := ListLiabilities(db, 1)
	require.NoError(t, err)
	require.Len(t, liabilities, 2)

	byID := map[string]Liability{}
	for _, l := range liabilities {
		byID[l.ID] = l
	}
	require.NotNil(t, byID["l1"].InterestRate)
	assert.InDelta(t, 11.5, *byID["l1"].InterestRate, 0.001)
	assert.Nil(t, byID["l2"].InterestRate)
}

func TestExchangeOperationRealizedRate(t *testing.T) {
	op := ExchangeOperation{SourceAmount: 100, DestinationAmount: 580}
	assert.InDelta(t, 5.8, op.RealizedRate(), 0.001)

	zero := ExchangeOperation{SourceAmount: 0, DestinationAmount: 100}
	assert.Zero(t, zero.RealizedRate())
}

func TestExchangeOperationInsertAndDelete(t *testing.T) {
	db := newTestDB(t)

	op := &ExchangeOperation{
		ID:                   "ex1",
		UserID:               1,
		Date:                 "2024-03-12",
		SourceAccountID:      "acc-eur",
		DestinationAccountID: "acc-brl",
		SourceAmount:         100,
		DestinationAmount:    600,
		Fee:                  2.5,
	}
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, op.Insert(tx))
	require.NoError(t, tx.Commit())

	ops, err := ListExchangeOperations(db, 1)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.InDelta(t, 2.5, ops[0].Fee, 0.001)

	tx, err = db.Begin()
	require.NoError(t, err)
	require.NoError(t, DeleteExchangeOperation(tx, 1, "ex1"))
	assert.ErrorIs(t, DeleteExchangeOperation(tx, 1, "ex1"), sql.ErrNoRows)
	require.NoError(t, tx.Commit())
}

func TestCategoryAndSourceScoping(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, (&Category{ID: "c1", UserID: 1, Name: "Mercado", Type: "expense"}).Create(db))
	require.NoError(t, (&Category{ID: "c2", UserID: 2, Name: "Outro", Type: "expense"}).Create(db))
	require.NoError(t, (&IncomeSource{ID: "s1", UserID: 1, Name: "Salário"}).Create(db))

	categories, err := ListCategories(db, 1)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Mercado", categories[0].Name)

	sources, err := ListIncomeSources(db, 2)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestBudgetCRUD(t *testing.T) {
	db := newTestDB(t)

	budget := &Budget{ID: "b1", UserID: 1, EntityID: "c1", EntityType: "category", Amount: 500, Currency: "BRL", Period: "monthly"}
	require.NoError(t, budget.Create(db))

	budget.Amount = 650
	require.NoError(t, budget.Update(db))

	budgets, err := ListBudgets(db, 1)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.InDelta(t, 650.0, budgets[0].Amount, 0.001)

	require.NoError(t, DeleteBudget(db, 1, "b1"))
	assert.ErrorIs(t, DeleteBudget(db, 1, "b1"), sql.ErrNoRows)
}
