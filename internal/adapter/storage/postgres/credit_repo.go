package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"smb-finance-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreditRepo implements ports.CreditRepository. Score history rows are
// append-only; the profile row is the only mutable state.
type CreditRepo struct {
	pool Pool
}

// NewCreditRepo creates a new CreditRepo.
func NewCreditRepo(pool Pool) *CreditRepo {
	return &CreditRepo{pool: pool}
}

const profileColumns = `id, business_id, credit_score, credit_rating, lending_readiness_score,
		annual_revenue, monthly_cash_flow, debt_to_income_ratio, payment_history_score,
		business_age_months, industry_risk_score, market_position_score,
		assessment_date, is_active, created_at, updated_at`

// CreateProfile inserts a new credit profile.
func (r *CreditRepo) CreateProfile(ctx context.Context, p *domain.CreditProfile) error {
	query := `INSERT INTO credit_profiles (id, business_id, credit_score, credit_rating, lending_readiness_score,
		annual_revenue, monthly_cash_flow, debt_to_income_ratio, payment_history_score,
		business_age_months, industry_risk_score, market_position_score,
		assessment_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.BusinessID, p.CreditScore, p.CreditRating, p.LendingReadinessScore,
		p.AnnualRevenue, p.MonthlyCashFlow, p.DebtToIncomeRatio, p.PaymentHistoryScore,
		p.BusinessAgeMonths, p.IndustryRiskScore, p.MarketPositionScore,
		p.AssessmentDate, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert credit profile: %w", err)
	}
	return nil
}

// GetProfileByBusiness fetches a business's credit profile.
func (r *CreditRepo) GetProfileByBusiness(ctx context.Context, businessID uuid.UUID) (*domain.CreditProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM credit_profiles WHERE business_id = $1`

	p := &domain.CreditProfile{}
	err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&p.ID, &p.BusinessID, &p.CreditScore, &p.CreditRating, &p.LendingReadinessScore,
		&p.AnnualRevenue, &p.MonthlyCashFlow, &p.DebtToIncomeRatio, &p.PaymentHistoryScore,
		&p.BusinessAgeMonths, &p.IndustryRiskScore, &p.MarketPositionScore,
		&p.AssessmentDate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit profile: %w", err)
	}
	return p, nil
}

// UpdateProfile persists raw metrics and the recomputed derived fields
// within a database transaction.
func (r *CreditRepo) UpdateProfile(ctx context.Context, tx pgx.Tx, p *domain.CreditProfile) error {
	query := `UPDATE credit_profiles SET credit_score = $1, credit_rating = $2, lending_readiness_score = $3,
		annual_revenue = $4, monthly_cash_flow = $5, debt_to_income_ratio = $6, payment_history_score = $7,
		business_age_months = $8, industry_risk_score = $9, market_position_score = $10,
		assessment_date = $11, updated_at = $12 WHERE id = $13`

	tag, err := tx.Exec(ctx, query,
		p.CreditScore, p.CreditRating, p.LendingReadinessScore,
		p.AnnualRevenue, p.MonthlyCashFlow, p.DebtToIncomeRatio, p.PaymentHistoryScore,
		p.BusinessAgeMonths, p.IndustryRiskScore, p.MarketPositionScore,
		p.AssessmentDate, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update credit profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("credit profile not found: %s", p.ID)
	}
	return nil
}

// AppendScore inserts a score history entry within a database transaction.
func (r *CreditRepo) AppendScore(ctx context.Context, tx pgx.Tx, s *domain.CreditScore) error {
	var factors []byte
	if s.Factors != nil {
		var err error
		factors, err = json.Marshal(s.Factors)
		if err != nil {
			return fmt.Errorf("marshal score factors: %w", err)
		}
	}

	query := `INSERT INTO credit_scores (id, credit_profile_id, score, rating, factors, assessment_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query, s.ID, s.CreditProfileID, s.Score, s.Rating, factors, s.AssessmentDate)
	if err != nil {
		return fmt.Errorf("insert credit score: %w", err)
	}
	return nil
}

// ListScores fetches a profile's score history, newest first.
func (r *CreditRepo) ListScores(ctx context.Context, profileID uuid.UUID, limit int) ([]domain.CreditScore, error) {
	query := `SELECT id, credit_profile_id, score, rating, factors, assessment_date
		FROM credit_scores WHERE credit_profile_id = $1 ORDER BY assessment_date DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.CreditScore
	for rows.Next() {
		var s domain.CreditScore
		var factors []byte
		if err := rows.Scan(&s.ID, &s.CreditProfileID, &s.Score, &s.Rating, &factors, &s.AssessmentDate); err != nil {
			return nil, fmt.Errorf("scan credit score row: %w", err)
		}
		if len(factors) > 0 {
			if err := json.Unmarshal(factors, &s.Factors); err != nil {
				return nil, fmt.Errorf("unmarshal score factors: %w", err)
			}
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credit score rows: %w", err)
	}
	return scores, nil
}
