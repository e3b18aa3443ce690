package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/financeflow/backend/src/models"
)

var budgetAccounts = []models.Account{
	{ID: "acc-brl", Currency: "BRL"},
	{ID: "acc-eur", Currency: "EUR"},
}

func TestBudgetProgressExpenseOverrun(t *testing.T) {
	budget := models.Budget{ID: "b1", EntityID: "cat-food", EntityType: "category", Amount: 500, Currency: "BRL"}
	txns := []models.Transaction{
		{ID: "t1", AccountID: "acc-brl", Type: "expense", Amount: 300, Date: "2024-03-05", CategoryID: "cat-food"},
		{ID: "t2", AccountID: "acc-brl", Type: "expense", Amount: 250, Date: "2024-03-20", CategoryID: "cat-food"},
		// Moeda diferente, não conta.
		{ID: "t3", AccountID: "acc-eur", Type: "expense", Amount: 100, Date: "2024-03-10", CategoryID: "cat-food"},
		// Categoria diferente, não conta.
		{ID: "t4", AccountID: "acc-brl", Type: "expense", Amount: 80, Date: "2024-03-11", CategoryID: "cat-other"},
		// Fora do período, não conta.
		{ID: "t5", AccountID: "acc-brl", Type: "expense", Amount: 900, Date: "2024-02-15", CategoryID: "cat-food"},
	}
	march := Period{Year: 2024, Month: 3}

	status := BudgetProgress(budget, txns, budgetAccounts, nil, march)

	assert.InDelta(t, 550.0, status.Actual, 0.001)
	assert.InDelta(t, 100.0, status.Percentage, 0.001) // clampado
	assert.InDelta(t, -50.0, status.Remaining, 0.001)
	assert.True(t, status.IsOver)
	assert.False(t, status.IsComplete)
}

func TestBudgetProgressZeroAmount(t *testing.T) {
	budget := models.Budget{ID: "b1", EntityID: "cat-food", EntityType: "category", Amount: 0, Currency: "BRL"}
	txns := []models.Transaction{
		{ID: "t1", AccountID: "acc-brl", Type: "expense", Amount: 10, Date: "2024-03-05", CategoryID: "cat-food"},
	}
	march := Period{Year: 2024, Month: 3}

	status := BudgetProgress(budget, txns, budgetAccounts, nil, march)

	assert.Zero(t, status.Percentage)
	assert.True(t, status.IsOver) // 10 > 0
}

func TestBudgetProgressIncomeSourceTarget(t *testing.T) {
	budget := models.Budget{ID: "b1", EntityID: "src-salary", EntityType: "source", Amount: 3000, Currency: "BRL"}
	txns := []models.Transaction{
		{ID: "t1", AccountID: "acc-brl", Type: "income", Amount: 3200, Date: "2024-03-01", SourceID: "src-salary"},
	}
	march := Period{Year: 2024, Month: 3}

	status := BudgetProgress(budget, txns, budgetAccounts, nil, march)

	assert.InDelta(t, 3200.0, status.Actual, 0.001)
	assert.InDelta(t, 100.0, status.Percentage, 0.001)
	assert.True(t, status.IsComplete)
	assert.False(t, status.IsOver) // atingir uma meta de receita nunca é excesso
}

func TestBudgetProgressIncomeCategoryTarget(t *testing.T) {
	categories := []models.Category{
		{ID: "cat-rent", Name: "Rendas", Type: "income"},
	}
	budget := models.Budget{ID: "b1", EntityID: "cat-rent", EntityType: "category", Amount: 1000, Currency: "EUR"}
	txns := []models.Transaction{
		{ID: "t1", AccountID: "acc-eur", Type: "income", Amount: 600, Date: "2024-03-01", CategoryID: "cat-rent"},
	}
	march := Period{Year: 2024, Month: 3}

	status := BudgetProgress(budget, txns, budgetAccounts, categories, march)

	assert.InDelta(t, 60.0, status.Percentage, 0.001)
	assert.False(t, status.IsComplete)
	assert.False(t, status.IsOver)
}

func TestBuildBudgetStatusesKeepsOrder(t *testing.T) {
	snap := &models.Snapshot{
		Accounts: budgetAccounts,
		Budgets: []models.Budget{
			{ID: "b1", EntityID: "cat-a", EntityType: "category", Amount: 100, Currency: "BRL"},
			{ID: "b2", EntityID: "src-a", EntityType: "source", Amount: 200, Currency: "EUR"},
		},
	}
	march := Period{Year: 2024, Month: 3}

	statuses := BuildBudgetStatuses(snap, march)

	assert.Len(t, statuses, 2)
	assert.Equal(t, "b1", statuses[0].Budget.ID)
	assert.Equal(t, "b2", statuses[1].Budget.ID)
}
