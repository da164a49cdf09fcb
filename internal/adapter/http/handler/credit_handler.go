package handler

import (
	"strconv"

	"smb-finance-backend/internal/adapter/http/dto"
	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"
	"smb-finance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreditHandler handles credit profile and assessment endpoints.
type CreditHandler struct {
	creditSvc ports.CreditService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(creditSvc ports.CreditService) *CreditHandler {
	return &CreditHandler{creditSvc: creditSvc}
}

// CreateProfile handles POST /api/v1/credit/profile.
func (h *CreditHandler) CreateProfile(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.CreditMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	profile, err := h.creditSvc.CreateProfile(c.Request.Context(), businessID, toCreditMetrics(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, profile)
}

// GetProfile handles GET /api/v1/credit/profile.
func (h *CreditHandler) GetProfile(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	profile, err := h.creditSvc.GetProfile(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, profile)
}

// Assess handles POST /api/v1/credit/profile/assess.
func (h *CreditHandler) Assess(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	var req dto.AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.creditSvc.Assess(c.Request.Context(), businessID, toCreditMetrics(req.Metrics), req.Factors)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"profile": result.Profile,
		"history": result.History,
	})
}

// ListHistory handles GET /api/v1/credit/scores.
func (h *CreditHandler) ListHistory(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if limit < 1 || limit > 100 {
		limit = 12
	}

	history, err := h.creditSvc.ListHistory(c.Request.Context(), businessID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, history)
}

// LendingReadiness handles GET /api/v1/credit/lending-readiness.
func (h *CreditHandler) LendingReadiness(c *gin.Context) {
	businessID, ok := contextBusinessID(c)
	if !ok {
		return
	}

	summary, err := h.creditSvc.LendingReadiness(c.Request.Context(), businessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, summary)
}

func toCreditMetrics(req dto.CreditMetricsRequest) domain.CreditMetrics {
	return domain.CreditMetrics{
		AnnualRevenue:       req.AnnualRevenue,
		MonthlyCashFlow:     req.MonthlyCashFlow,
		DebtToIncomeRatio:   req.DebtToIncomeRatio,
		PaymentHistoryScore: req.PaymentHistoryScore,
		BusinessAgeMonths:   req.BusinessAgeMonths,
		IndustryRiskScore:   req.IndustryRiskScore,
		MarketPositionScore: req.MarketPositionScore,
	}
}
