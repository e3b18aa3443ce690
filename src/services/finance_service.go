// backend/src/services/finance_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/models"
	"github.com/username/financeflow/backend/src/processors"
)

// financeServiceImpl derives every dashboard figure from a freshly loaded
// snapshot. Derived reports are cached per user for a short TTL and dropped
// on any write.
type financeServiceImpl struct {
	db          *sql.DB
	rateService *RateService
	reportCache *cache.Cache
}

func NewFinanceService(db *sql.DB, rateService *RateService, reportTTL time.Duration) FinanceService {
	return &financeServiceImpl{
		db:          db,
		rateService: rateService,
		reportCache: cache.New(reportTTL, 2*reportTTL),
	}
}

// LoadSnapshot fans out one query per collection. A failed collection does
// not abort the load: it degrades to an empty slice, gets logged, and flips
// the snapshot's Degraded flag.
func (s *financeServiceImpl) LoadSnapshot(ctx context.Context, userID int64) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	var degraded atomic.Bool

	tolerate := func(name string, load func() error) func() error {
		return func() error {
			if err := load(); err != nil {
				logger.WarnFromContext(ctx, "Snapshot collection failed to load, degrading to empty",
					"collection", name, "userID", userID, "error", err)
				degraded.Store(true)
			}
			return nil
		}
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(tolerate("accounts", func() (err error) {
		snap.Accounts, err = models.ListAccounts(s.db, userID)
		return err
	}))
	g.Go(tolerate("transactions", func() (err error) {
		snap.Transactions, err = models.ListTransactions(s.db, userID)
		return err
	}))
	g.Go(tolerate("categories", func() (err error) {
		snap.Categories, err = models.ListCategories(s.db, userID)
		return err
	}))
	g.Go(tolerate("income_sources", func() (err error) {
		snap.IncomeSources, err = models.ListIncomeSources(s.db, userID)
		return err
	}))
	g.Go(tolerate("budgets", func() (err error) {
		snap.Budgets, err = models.ListBudgets(s.db, userID)
		return err
	}))
	g.Go(tolerate("goals", func() (err error) {
		snap.Goals, err = models.ListGoals(s.db, userID)
		return err
	}))
	g.Go(tolerate("assets", func() (err error) {
		snap.Assets, err = models.ListAssets(s.db, userID)
		return err
	}))
	g.Go(tolerate("liabilities", func() (err error) {
		snap.Liabilities, err = models.ListLiabilities(s.db, userID)
		return err
	}))
	g.Go(tolerate("exchange_operations", func() (err error) {
		snap.ExchangeOperations, err = models.ListExchangeOperations(s.db, userID)
		return err
	}))

	if err := g.Wait(); err != nil {
		// tolerate never returns an error; keep the check for future loaders
		return nil, fmt.Errorf("%w: %v", ErrSnapshotFailed, err)
	}

	ensureSlices(snap)
	snap.Degraded = degraded.Load()
	return snap, nil
}

// ensureSlices replaces nil collections with empty ones so consumers and the
// JSON encoder never see null arrays.
func ensureSlices(snap *models.Snapshot) {
	if snap.Accounts == nil {
		snap.Accounts = []models.Account{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []models.Transaction{}
	}
	if snap.Categories == nil {
		snap.Categories = []models.Category{}
	}
	if snap.IncomeSources == nil {
		snap.IncomeSources = []models.IncomeSource{}
	}
	if snap.Budgets == nil {
		snap.Budgets = []models.Budget{}
	}
	if snap.Goals == nil {
		snap.Goals = []models.Goal{}
	}
	if snap.Assets == nil {
		snap.Assets = []models.Asset{}
	}
	if snap.Liabilities == nil {
		snap.Liabilities = []models.Liability{}
	}
	if snap.ExchangeOperations == nil {
		snap.ExchangeOperations = []models.ExchangeOperation{}
	}
}

func (s *financeServiceImpl) DashboardStats(ctx context.Context, userID int64, period processors.Period) (*DashboardReport, error) {
	cacheKey := fmt.Sprintf("dashboard-%d-%s", userID, period)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*DashboardReport), nil
	}

	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	conv := s.rateService.Converter(ctx)

	report := &DashboardReport{
		Stats:       processors.BuildDashboardStats(snap, period),
		Rate:        conv.Rate,
		Approximate: conv.Stale,
		Degraded:    snap.Degraded,
		Period:      period.String(),
		GeneratedAt: time.Now(),
	}

	// Degraded or approximate reports are not worth caching; a retry may
	// already see healthy data.
	if !report.Degraded && !report.Approximate {
		s.reportCache.Set(cacheKey, report, cache.DefaultExpiration)
	}
	return report, nil
}

func (s *financeServiceImpl) NetWorth(ctx context.Context, userID int64) (*processors.NetWorthSummary, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	conv := s.rateService.Converter(ctx)
	summary := processors.NetWorth(snap.Accounts, snap.Assets, snap.Liabilities, conv)
	return &summary, nil
}

func (s *financeServiceImpl) HistoricalTrend(ctx context.Context, userID int64, months int) ([]processors.TrendPoint, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	conv := s.rateService.Converter(ctx)
	return processors.HistoricalTrend(snap, conv, time.Now(), months), nil
}

func (s *financeServiceImpl) BudgetStatuses(ctx context.Context, userID int64, period processors.Period) ([]processors.BudgetStatus, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return processors.BuildBudgetStatuses(snap, period), nil
}

func (s *financeServiceImpl) GoalStatuses(ctx context.Context, userID int64) ([]processors.GoalStatus, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return processors.BuildGoalStatuses(snap, time.Now()), nil
}

func (s *financeServiceImpl) FinancialMetrics(ctx context.Context, userID int64, period processors.Period) (*processors.FinancialMetrics, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	conv := s.rateService.Converter(ctx)
	metrics := processors.BuildFinancialMetrics(snap, conv, period)
	return &metrics, nil
}

func (s *financeServiceImpl) CategoryBreakdown(ctx context.Context, userID int64, period processors.Period, txnType string) ([]processors.BreakdownEntry, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	conv := s.rateService.Converter(ctx)
	if txnType == "income" {
		return processors.IncomeBySource(snap, conv, period), nil
	}
	return processors.ExpenseByCategory(snap, conv, period), nil
}

// InvalidateUserCache drops every cached report for the user. Called after
// any write so the next read recomputes from a fresh snapshot.
func (s *financeServiceImpl) InvalidateUserCache(userID int64) {
	prefix := fmt.Sprintf("dashboard-%d-", userID)
	for key := range s.reportCache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.reportCache.Delete(key)
		}
	}
}
