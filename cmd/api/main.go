package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smb-finance-backend/config"
	httpHandler "smb-finance-backend/internal/adapter/http/handler"
	pgStorage "smb-finance-backend/internal/adapter/storage/postgres"
	redisStorage "smb-finance-backend/internal/adapter/storage/redis"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/internal/service"
	"smb-finance-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting SMB Finance Backend")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	employeeRepo := pgStorage.NewEmployeeRepo(pool)
	payrollRepo := pgStorage.NewPayrollRepo(pool)
	creditRepo := pgStorage.NewCreditRepo(pool)
	invoiceRepo := pgStorage.NewInvoiceRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	assessmentCache := redisStorage.NewAssessmentCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, walletRepo, hashSvc, tokenSvc, log)
	ledgerSvc := service.NewLedgerService(walletRepo, txRepo, transactor, log)
	payrollSvc := service.NewPayrollService(employeeRepo, payrollRepo, log)
	creditSvc := service.NewCreditService(creditRepo, assessmentCache, transactor, log)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		LedgerSvc:      ledgerSvc,
		PayrollSvc:     payrollSvc,
		CreditSvc:      creditSvc,
		InvoiceSvc:     invoiceSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
