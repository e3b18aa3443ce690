package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/processors"
	_ "modernc.org/sqlite"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const snapshotSchema = `
CREATE TABLE accounts (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, name TEXT NOT NULL, type TEXT NOT NULL, currency TEXT NOT NULL, balance REAL NOT NULL DEFAULT 0, institution TEXT, purpose TEXT, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE transactions (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, account_id TEXT NOT NULL, type TEXT NOT NULL, amount REAL NOT NULL, description TEXT, date TEXT NOT NULL, category_id TEXT, source_id TEXT, is_fixed BOOLEAN NOT NULL DEFAULT FALSE, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE categories (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, name TEXT NOT NULL, type TEXT NOT NULL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE income_sources (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, name TEXT NOT NULL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE budgets (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, entity_id TEXT NOT NULL, entity_type TEXT NOT NULL, amount REAL NOT NULL, currency TEXT NOT NULL, period TEXT NOT NULL DEFAULT 'monthly', created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE goals (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, name TEXT NOT NULL, target_amount REAL NOT NULL, deadline TEXT, account_id TEXT NOT NULL, category TEXT NOT NULL, status TEXT NOT NULL DEFAULT 'in_progress', created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE assets (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, name TEXT NOT NULL, type TEXT NOT NULL, value REAL NOT NULL, currency TEXT NOT NULL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE liabilities (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, name TEXT NOT NULL, type TEXT NOT NULL, amount REAL NOT NULL, currency TEXT NOT NULL, interest_rate REAL, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
CREATE TABLE exchange_operations (id TEXT PRIMARY KEY, user_id INTEGER NOT NULL, date TEXT NOT NULL, source_account_id TEXT NOT NULL, destination_account_id TEXT NOT NULL, source_amount REAL NOT NULL, destination_amount REAL NOT NULL, fee REAL NOT NULL DEFAULT 0, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP);
`

func newSnapshotDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(snapshotSchema)
	require.NoError(t, err)
	return db
}

// newRateServer serves a fixed EUR→BRL rate in the open.er-api.com shape.
func newRateServer(t *testing.T, rate float64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"result":"success","rates":{"BRL":%g,"USD":1.08}}`, rate)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestFinanceService(t *testing.T, db *sql.DB, rateURL string) FinanceService {
	t.Helper()
	rateService := NewRateService(rateURL, 6.0, 2*time.Second, time.Minute)
	return NewFinanceService(db, rateService, time.Minute)
}

func TestLoadSnapshotEmptyCollectionsAreNeverNil(t *testing.T) {
	db := newSnapshotDB(t)
	svc := newTestFinanceService(t, db, newRateServer(t, 6.1).URL)

	snap, err := svc.LoadSnapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, snap.Degraded)
	assert.NotNil(t, snap.Accounts)
	assert.NotNil(t, snap.Transactions)
	assert.NotNil(t, snap.Categories)
	assert.NotNil(t, snap.IncomeSources)
	assert.NotNil(t, snap.Budgets)
	assert.NotNil(t, snap.Goals)
	assert.NotNil(t, snap.Assets)
	assert.NotNil(t, snap.Liabilities)
	assert.NotNil(t, snap.ExchangeOperations)
}

func TestLoadSnapshotDegradesOnFailedCollection(t *testing.T) {
	db := newSnapshotDB(t)
	_, err := db.Exec("INSERT INTO accounts (id, user_id, name, type, currency, balance) VALUES ('acc', 1, 'Conta', 'checking', 'BRL', 100)")
	require.NoError(t, err)
	_, err = db.Exec("DROP TABLE goals")
	require.NoError(t, err)

	svc := newTestFinanceService(t, db, newRateServer(t, 6.1).URL)

	snap, err := svc.LoadSnapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, snap.Degraded)
	assert.Empty(t, snap.Goals)
	// As restantes coleções continuam a carregar normalmente.
	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, "acc", snap.Accounts[0].ID)
}

func TestDashboardStatsCachesAndInvalidates(t *testing.T) {
	db := newSnapshotDB(t)
	_, err := db.Exec("INSERT INTO accounts (id, user_id, name, type, currency, balance) VALUES ('acc', 1, 'Conta', 'checking', 'BRL', 1000)")
	require.NoError(t, err)

	svc := newTestFinanceService(t, db, newRateServer(t, 6.0).URL)
	period := processors.Period{Year: 2024, Month: 3}

	first, err := svc.DashboardStats(context.Background(), 1, period)
	require.NoError(t, err)
	assert.False(t, first.Approximate)
	assert.InDelta(t, 1000.0, first.Stats.BRL.TotalBalance, 0.001)

	// Escrita por baixo do cache: a leitura seguinte ainda vê o relatório antigo.
	_, err = db.Exec("UPDATE accounts SET balance = 2000 WHERE id = 'acc'")
	require.NoError(t, err)

	cached, err := svc.DashboardStats(context.Background(), 1, period)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, cached.Stats.BRL.TotalBalance, 0.001)

	svc.InvalidateUserCache(1)

	fresh, err := svc.DashboardStats(context.Background(), 1, period)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, fresh.Stats.BRL.TotalBalance, 0.001)
}

func TestDashboardStatsDoesNotCacheApproximateReports(t *testing.T) {
	db := newSnapshotDB(t)
	_, err := db.Exec("INSERT INTO accounts (id, user_id, name, type, currency, balance) VALUES ('acc', 1, 'Conta', 'checking', 'BRL', 1000)")
	require.NoError(t, err)

	// URL inválido: a taxa cai no default e o relatório fica aproximado.
	svc := newTestFinanceService(t, db, "http://127.0.0.1:1")
	period := processors.Period{Year: 2024, Month: 3}

	first, err := svc.DashboardStats(context.Background(), 1, period)
	require.NoError(t, err)
	assert.True(t, first.Approximate)
	assert.InDelta(t, 6.0, first.Rate, 0.001)

	_, err = db.Exec("UPDATE accounts SET balance = 2000 WHERE id = 'acc'")
	require.NoError(t, err)

	second, err := svc.DashboardStats(context.Background(), 1, period)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, second.Stats.BRL.TotalBalance, 0.001)
}

func TestRateServiceFetchAndFallback(t *testing.T) {
	srv := newRateServer(t, 6.25)
	rateService := NewRateService(srv.URL, 6.0, 2*time.Second, time.Minute)

	conv := rateService.Converter(context.Background())
	assert.InDelta(t, 6.25, conv.Rate, 0.001)
	assert.False(t, conv.Stale)

	// Sem servidor e sem cache, cai no default marcado como stale.
	broken := NewRateService("http://127.0.0.1:1", 6.0, 500*time.Millisecond, time.Minute)
	conv = broken.Converter(context.Background())
	assert.InDelta(t, 6.0, conv.Rate, 0.001)
	assert.True(t, conv.Stale)
}

func TestCategoryBreakdownEndToEnd(t *testing.T) {
	db := newSnapshotDB(t)
	stmts := []string{
		"INSERT INTO accounts (id, user_id, name, type, currency, balance) VALUES ('acc', 1, 'Conta', 'checking', 'BRL', 500)",
		"INSERT INTO categories (id, user_id, name, type) VALUES ('cat', 1, 'Mercado', 'expense')",
		"INSERT INTO transactions (id, user_id, account_id, type, amount, date, category_id) VALUES ('t1', 1, 'acc', 'expense', 120, '2024-03-05', 'cat')",
		"INSERT INTO transactions (id, user_id, account_id, type, amount, date, category_id) VALUES ('t2', 1, 'acc', 'expense', 80, '2024-03-10', 'cat')",
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	svc := newTestFinanceService(t, db, newRateServer(t, 6.0).URL)

	entries, err := svc.CategoryBreakdown(context.Background(), 1, processors.Period{Year: 2024, Month: 3}, "expense")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mercado", entries[0].Name)
	assert.InDelta(t, 200.0, entries[0].TotalBRL, 0.001)
	assert.Equal(t, 2, entries[0].Count)
}
