// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/financeflow/backend/src/models"
	"github.com/username/financeflow/backend/src/processors"
)

// Define common service errors
var (
	ErrSnapshotFailed = errors.New("snapshot load failed")
)

// FinanceService is the aggregation facade the handlers consume: it loads a
// user's snapshot and derives every dashboard figure from it.
type FinanceService interface {
	LoadSnapshot(ctx context.Context, userID int64) (*models.Snapshot, error)
	DashboardStats(ctx context.Context, userID int64, period processors.Period) (*DashboardReport, error)
	NetWorth(ctx context.Context, userID int64) (*processors.NetWorthSummary, error)
	HistoricalTrend(ctx context.Context, userID int64, months int) ([]processors.TrendPoint, error)
	BudgetStatuses(ctx context.Context, userID int64, period processors.Period) ([]processors.BudgetStatus, error)
	GoalStatuses(ctx context.Context, userID int64) ([]processors.GoalStatus, error)
	FinancialMetrics(ctx context.Context, userID int64, period processors.Period) (*processors.FinancialMetrics, error)
	CategoryBreakdown(ctx context.Context, userID int64, period processors.Period, txnType string) ([]processors.BreakdownEntry, error)
	InvalidateUserCache(userID int64)
}

// DashboardReport is the main dashboard payload: the three currency buckets
// plus the converter state that produced any consolidated figures.
type DashboardReport struct {
	Stats       processors.DashboardStats `json:"stats"`
	Rate        float64                   `json:"rate"`
	Approximate bool                      `json:"approximate"`
	Degraded    bool                      `json:"degraded"`
	Period      string                    `json:"period"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}
