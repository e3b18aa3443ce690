package main

import (
	"crypto/tls"
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/financeflow/backend/src/config"
	"github.com/username/financeflow/backend/src/database"
	"github.com/username/financeflow/backend/src/handlers"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/security"
	"github.com/username/financeflow/backend/src/services"
	"golang.org/x/time/rate"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000":    true,
			config.Cfg.FrontendBaseURL: true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Requested-With, Cookie, If-None-Match")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("FinanceFlow backend server starting...")

	if config.Cfg.JWTSecret == "" || len(config.Cfg.JWTSecret) < 32 {
		logger.L.Error("JWT_SECRET configuration invalid.")
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	if err := database.InitDB(config.Cfg.DatabasePath); err != nil {
		logger.L.Error("Database initialization failed", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(config.Cfg.MigrationsDir); err != nil {
		logger.L.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	authService := security.NewAuthService(config.Cfg.JWTSecret)
	rateService := services.NewRateService(
		config.Cfg.ExchangeRateAPIBaseURL,
		config.Cfg.DefaultBRLPerEUR,
		config.Cfg.ExchangeRateTimeout,
		config.Cfg.ExchangeRateTTL,
	)
	financeService := services.NewFinanceService(database.DB, rateService, config.Cfg.ReportCacheTTL)

	userHandler := handlers.NewUserHandler(authService, financeService)
	accountHandler := handlers.NewAccountHandler(financeService)
	txHandler := handlers.NewTransactionHandler(financeService)
	catalogHandler := handlers.NewCatalogHandler(financeService)
	budgetHandler := handlers.NewBudgetHandler(financeService)
	goalHandler := handlers.NewGoalHandler(financeService)
	balanceSheetHandler := handlers.NewBalanceSheetHandler(financeService)
	exchangeHandler := handlers.NewExchangeHandler(financeService)
	dashboardHandler := handlers.NewDashboardHandler(financeService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "FinanceFlow Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Rotas Públicas
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", userHandler.RegisterUserHandler)
			r.Post("/auth/login", userHandler.LoginUserHandler)
			r.Post("/auth/refresh", userHandler.RefreshTokenHandler)
		})

		// Rotas Protegidas
		r.Group(func(r chi.Router) {
			r.Use(userHandler.AuthMiddleware)

			r.Post("/auth/logout", userHandler.LogoutUserHandler)
			r.Get("/auth/me", userHandler.MeHandler)

			r.Get("/accounts", accountHandler.ListAccountsHandler)
			r.Post("/accounts", accountHandler.CreateAccountHandler)
			r.Put("/accounts/{accountID}", accountHandler.UpdateAccountHandler)
			r.Delete("/accounts/{accountID}", accountHandler.DeleteAccountHandler)

			r.Get("/transactions", txHandler.ListTransactionsHandler)
			r.Post("/transactions", txHandler.CreateTransactionHandler)
			r.Put("/transactions/{transactionID}", txHandler.UpdateTransactionHandler)
			r.Delete("/transactions/{transactionID}", txHandler.DeleteTransactionHandler)

			r.Get("/exchanges", exchangeHandler.ListExchangesHandler)
			r.Post("/exchanges", exchangeHandler.CreateExchangeHandler)
			r.Delete("/exchanges/{exchangeID}", exchangeHandler.DeleteExchangeHandler)

			r.Get("/categories", catalogHandler.ListCategoriesHandler)
			r.Post("/categories", catalogHandler.CreateCategoryHandler)
			r.Put("/categories/{categoryID}", catalogHandler.UpdateCategoryHandler)
			r.Delete("/categories/{categoryID}", catalogHandler.DeleteCategoryHandler)

			r.Get("/income-sources", catalogHandler.ListIncomeSourcesHandler)
			r.Post("/income-sources", catalogHandler.CreateIncomeSourceHandler)
			r.Put("/income-sources/{sourceID}", catalogHandler.UpdateIncomeSourceHandler)
			r.Delete("/income-sources/{sourceID}", catalogHandler.DeleteIncomeSourceHandler)

			r.Get("/budgets", budgetHandler.ListBudgetsHandler)
			r.Post("/budgets", budgetHandler.CreateBudgetHandler)
			r.Put("/budgets/{budgetID}", budgetHandler.UpdateBudgetHandler)
			r.Delete("/budgets/{budgetID}", budgetHandler.DeleteBudgetHandler)
			r.Get("/budgets/status", budgetHandler.BudgetStatusHandler)

			r.Get("/goals", goalHandler.ListGoalsHandler)
			r.Post("/goals", goalHandler.CreateGoalHandler)
			r.Put("/goals/{goalID}", goalHandler.UpdateGoalHandler)
			r.Delete("/goals/{goalID}", goalHandler.DeleteGoalHandler)
			r.Get("/goals/status", goalHandler.GoalStatusHandler)

			r.Get("/assets", balanceSheetHandler.ListAssetsHandler)
			r.Post("/assets", balanceSheetHandler.CreateAssetHandler)
			r.Put("/assets/{assetID}", balanceSheetHandler.UpdateAssetHandler)
			r.Delete("/assets/{assetID}", balanceSheetHandler.DeleteAssetHandler)

			r.Get("/liabilities", balanceSheetHandler.ListLiabilitiesHandler)
			r.Post("/liabilities", balanceSheetHandler.CreateLiabilityHandler)
			r.Put("/liabilities/{liabilityID}", balanceSheetHandler.UpdateLiabilityHandler)
			r.Delete("/liabilities/{liabilityID}", balanceSheetHandler.DeleteLiabilityHandler)

			r.Get("/snapshot", dashboardHandler.SnapshotHandler)
			r.Get("/dashboard/summary", dashboardHandler.SummaryHandler)
			r.Get("/networth", dashboardHandler.NetWorthHandler)
			r.Get("/networth/trend", dashboardHandler.TrendHandler)
			r.Get("/metrics/dashboard", dashboardHandler.MetricsHandler)
			r.Get("/reports/category-breakdown", dashboardHandler.CategoryBreakdownHandler)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
		}
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
