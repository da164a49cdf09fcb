package handler

import (
	"smb-finance-backend/internal/adapter/http/middleware"
	redisStore "smb-finance-backend/internal/adapter/storage/redis"
	"smb-finance-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	LedgerSvc      ports.LedgerService
	PayrollSvc     ports.PayrollService
	CreditSvc      ports.CreditService
	InvoiceSvc     ports.InvoiceService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	walletHandler := NewWalletHandler(deps.LedgerSvc)
	wallets := v1.Group("/wallets", jwtAuth)
	{
		wallets.POST("", rl("ledger"), walletHandler.Create)
		wallets.GET("", rl("read"), walletHandler.List)
		wallets.GET("/:id", rl("read"), walletHandler.Get)
		wallets.DELETE("/:id", rl("ledger"), walletHandler.Deactivate)
		wallets.POST("/:id/credit", rl("ledger"), walletHandler.Credit)
		wallets.POST("/:id/debit", rl("ledger"), walletHandler.Debit)
		wallets.GET("/:id/transactions", rl("read"), walletHandler.ListTransactions)
	}

	transfers := v1.Group("/transfers", jwtAuth)
	{
		transfers.POST("", rl("transfers"), walletHandler.Transfer)
	}

	payrollHandler := NewPayrollHandler(deps.PayrollSvc)
	employees := v1.Group("/employees", jwtAuth)
	{
		employees.POST("", rl("payroll"), payrollHandler.CreateEmployee)
		employees.GET("", rl("read"), payrollHandler.ListEmployees)
		employees.GET("/:id", rl("read"), payrollHandler.GetEmployee)
	}

	payrolls := v1.Group("/payrolls", jwtAuth)
	{
		payrolls.POST("", rl("payroll"), payrollHandler.CreateRun)
		payrolls.GET("", rl("read"), payrollHandler.ListRuns)
		payrolls.GET("/:id", rl("read"), payrollHandler.GetRun)
		payrolls.POST("/:id/process", rl("payroll"), payrollHandler.Process)
		payrolls.POST("/:id/pay", rl("payroll"), payrollHandler.MarkPaid)
	}

	creditHandler := NewCreditHandler(deps.CreditSvc)
	credit := v1.Group("/credit", jwtAuth)
	{
		credit.POST("/profile", rl("credit_assess"), creditHandler.CreateProfile)
		credit.GET("/profile", rl("read"), creditHandler.GetProfile)
		credit.POST("/profile/assess", rl("credit_assess"), creditHandler.Assess)
		credit.GET("/scores", rl("read"), creditHandler.ListHistory)
		credit.GET("/lending-readiness", rl("read"), creditHandler.LendingReadiness)
	}

	invoiceHandler := NewInvoiceHandler(deps.InvoiceSvc)
	invoices := v1.Group("/invoices", jwtAuth)
	{
		invoices.POST("", rl("invoices"), invoiceHandler.Create)
		invoices.GET("", rl("read"), invoiceHandler.List)
		invoices.GET("/:id", rl("read"), invoiceHandler.Get)
		invoices.POST("/:id/recalculate", rl("invoices"), invoiceHandler.Recalculate)
		invoices.POST("/:id/pay", rl("invoices"), invoiceHandler.MarkPaid)
		invoices.POST("/:id/items", rl("invoices"), invoiceHandler.AddItem)
		invoices.DELETE("/:id/items/:itemID", rl("invoices"), invoiceHandler.RemoveItem)
	}

	return r
}
