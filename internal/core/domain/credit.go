package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"smb-finance-backend/pkg/money"
)

// Scoring weights and thresholds. Derivations use exact decimal arithmetic
// and truncate (never round) to integers.
var (
	paymentHistoryWeight = decimal.RequireFromString("0.3")
	industryRiskWeight   = decimal.RequireFromString("0.1")
	dtiHealthy           = decimal.RequireFromString("0.5")
	dtiAcceptable        = decimal.RequireFromString("0.7")
	revenueStrong        = decimal.NewFromInt(100000)
	revenueViable        = decimal.NewFromInt(50000)
	scoreCeiling         = decimal.NewFromInt(850)
	readinessScoreWeight = decimal.NewFromInt(40)
)

// CreditProfile holds a business's raw credit metrics and the fields
// derived from them. Derived fields (score, rating, readiness) are always
// a pure function of the raw metrics at the time of the last assessment
// and are never set directly.
type CreditProfile struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id"`

	// Derived
	CreditScore           int    `json:"credit_score"`
	CreditRating          string `json:"credit_rating"`
	LendingReadinessScore int    `json:"lending_readiness_score"`

	// Financial metrics
	AnnualRevenue       money.Money         `json:"annual_revenue"`
	MonthlyCashFlow     money.Money         `json:"monthly_cash_flow"`
	DebtToIncomeRatio   decimal.NullDecimal `json:"debt_to_income_ratio"`
	PaymentHistoryScore int                 `json:"payment_history_score"` // 0-100

	// Business metrics
	BusinessAgeMonths   int `json:"business_age_months"`
	IndustryRiskScore   int `json:"industry_risk_score"`   // 0-100
	MarketPositionScore int `json:"market_position_score"` // 0-100

	AssessmentDate *time.Time `json:"assessment_date,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ComputeScore derives the credit score on the 300-850 scale:
// base 300, payment history weighted 30%, a debt-to-income band bonus
// (first matching band wins), a business age bonus, a revenue bonus, and
// industry risk weighted 10%.
func (p *CreditProfile) ComputeScore() int {
	score := decimal.NewFromInt(300)

	score = score.Add(decimal.NewFromInt(int64(p.PaymentHistoryScore)).Mul(paymentHistoryWeight))

	if p.DebtToIncomeRatio.Valid {
		switch {
		case p.DebtToIncomeRatio.Decimal.LessThan(dtiHealthy):
			score = score.Add(decimal.NewFromInt(150))
		case p.DebtToIncomeRatio.Decimal.LessThan(dtiAcceptable):
			score = score.Add(decimal.NewFromInt(100))
		}
	}

	switch {
	case p.BusinessAgeMonths > 24:
		score = score.Add(decimal.NewFromInt(100))
	case p.BusinessAgeMonths > 12:
		score = score.Add(decimal.NewFromInt(50))
	}

	if p.AnnualRevenue.Decimal().GreaterThan(revenueStrong) {
		score = score.Add(decimal.NewFromInt(75))
	}

	score = score.Add(decimal.NewFromInt(int64(p.IndustryRiskScore)).Mul(industryRiskWeight))

	return clampInt(int(score.IntPart()), 300, 850)
}

// ComputeRating maps a score to its letter rating, highest band first.
func ComputeRating(score int) string {
	switch {
	case score >= 800:
		return "A+"
	case score >= 750:
		return "A"
	case score >= 700:
		return "B+"
	case score >= 650:
		return "B"
	case score >= 600:
		return "C"
	default:
		return "D"
	}
}

// ComputeLendingReadiness derives the 0-100 readiness score from the given
// credit score plus stability and financial-health bonuses. The revenue
// clause is only consulted when the cash-flow clause fails.
func (p *CreditProfile) ComputeLendingReadiness(score int) int {
	readiness := decimal.NewFromInt(int64(score)).
		Div(scoreCeiling).
		Mul(readinessScoreWeight)

	switch {
	case p.BusinessAgeMonths > 12:
		readiness = readiness.Add(decimal.NewFromInt(30))
	case p.BusinessAgeMonths > 6:
		readiness = readiness.Add(decimal.NewFromInt(20))
	}

	if p.MonthlyCashFlow.IsPositive() {
		readiness = readiness.Add(decimal.NewFromInt(30))
	} else if p.AnnualRevenue.Decimal().GreaterThan(revenueViable) {
		readiness = readiness.Add(decimal.NewFromInt(20))
	}

	return clampInt(int(readiness.IntPart()), 0, 100)
}

// Recalculate recomputes the full derived triple from the current raw
// metrics and stamps the assessment date. This is the only place derived
// fields are written.
func (p *CreditProfile) Recalculate() {
	p.CreditScore = p.ComputeScore()
	p.CreditRating = ComputeRating(p.CreditScore)
	p.LendingReadinessScore = p.ComputeLendingReadiness(p.CreditScore)

	now := time.Now().UTC()
	p.AssessmentDate = &now
	p.UpdatedAt = now
}

// Snapshot captures the profile's current derived fields as an immutable
// history entry. Call before Recalculate to preserve the prior assessment.
func (p *CreditProfile) Snapshot(factors map[string]any) *CreditScore {
	return &CreditScore{
		ID:              uuid.New(),
		CreditProfileID: p.ID,
		Score:           p.CreditScore,
		Rating:          p.CreditRating,
		Factors:         factors,
		AssessmentDate:  time.Now().UTC(),
	}
}

// CreditMetrics is a partial metric update applied during an assessment.
// Nil fields leave the profile's current value unchanged.
type CreditMetrics struct {
	AnnualRevenue       *money.Money
	MonthlyCashFlow     *money.Money
	DebtToIncomeRatio   *decimal.Decimal
	PaymentHistoryScore *int
	BusinessAgeMonths   *int
	IndustryRiskScore   *int
	MarketPositionScore *int
}

// Validate rejects metric values outside their documented ranges.
func (m CreditMetrics) Validate() error {
	for name, v := range map[string]*int{
		"payment_history_score": m.PaymentHistoryScore,
		"industry_risk_score":   m.IndustryRiskScore,
		"market_position_score": m.MarketPositionScore,
	} {
		if v != nil && (*v < 0 || *v > 100) {
			return fmt.Errorf("%s out of range: %d", name, *v)
		}
	}
	if m.DebtToIncomeRatio != nil && m.DebtToIncomeRatio.IsNegative() {
		return fmt.Errorf("debt_to_income_ratio cannot be negative")
	}
	if m.BusinessAgeMonths != nil && *m.BusinessAgeMonths < 0 {
		return fmt.Errorf("business_age_months cannot be negative")
	}
	return nil
}

// ApplyMetrics overwrites the profile's raw metrics with the non-nil
// fields of the update.
func (p *CreditProfile) ApplyMetrics(m CreditMetrics) {
	if m.AnnualRevenue != nil {
		p.AnnualRevenue = *m.AnnualRevenue
	}
	if m.MonthlyCashFlow != nil {
		p.MonthlyCashFlow = *m.MonthlyCashFlow
	}
	if m.DebtToIncomeRatio != nil {
		p.DebtToIncomeRatio = decimal.NullDecimal{Decimal: *m.DebtToIncomeRatio, Valid: true}
	}
	if m.PaymentHistoryScore != nil {
		p.PaymentHistoryScore = *m.PaymentHistoryScore
	}
	if m.BusinessAgeMonths != nil {
		p.BusinessAgeMonths = *m.BusinessAgeMonths
	}
	if m.IndustryRiskScore != nil {
		p.IndustryRiskScore = *m.IndustryRiskScore
	}
	if m.MarketPositionScore != nil {
		p.MarketPositionScore = *m.MarketPositionScore
	}
}

// CreditScore is an immutable, append-only history entry recording a
// profile's derived fields at one point in time.
type CreditScore struct {
	ID              uuid.UUID      `json:"id"`
	CreditProfileID uuid.UUID      `json:"credit_profile_id"`
	Score           int            `json:"score"`
	Rating          string         `json:"rating"`
	Factors         map[string]any `json:"factors,omitempty"`
	AssessmentDate  time.Time      `json:"assessment_date"`
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
