package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const assessmentCacheTTL = 15 * time.Minute

// CreditServiceImpl implements ports.CreditService.
type CreditServiceImpl struct {
	creditRepo ports.CreditRepository
	cache      ports.AssessmentCache
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewCreditService creates a new CreditServiceImpl.
func NewCreditService(
	creditRepo ports.CreditRepository,
	cache ports.AssessmentCache,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *CreditServiceImpl {
	return &CreditServiceImpl{
		creditRepo: creditRepo,
		cache:      cache,
		transactor: transactor,
		log:        log,
	}
}

// CreateProfile opens a credit profile with initial metrics and derives
// its first score.
func (s *CreditServiceImpl) CreateProfile(ctx context.Context, businessID uuid.UUID, metrics domain.CreditMetrics) (*domain.CreditProfile, error) {
	if err := metrics.Validate(); err != nil {
		return nil, apperror.ErrMetricOutOfRange(err.Error())
	}

	existing, err := s.creditRepo.GetProfileByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrValidation("credit profile already exists")
	}

	now := time.Now().UTC()
	profile := &domain.CreditProfile{
		ID:         uuid.New(),
		BusinessID: businessID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	profile.ApplyMetrics(metrics)
	profile.Recalculate()

	if err := s.creditRepo.CreateProfile(ctx, profile); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create profile: %w", err))
	}

	s.cacheProfile(ctx, profile)

	s.log.Info().
		Str("profile_id", profile.ID.String()).
		Str("business_id", businessID.String()).
		Int("credit_score", profile.CreditScore).
		Msg("credit profile created")

	return profile, nil
}

// GetProfile fetches a business's credit profile, trying the cache first.
func (s *CreditServiceImpl) GetProfile(ctx context.Context, businessID uuid.UUID) (*domain.CreditProfile, error) {
	cached, err := s.cache.Get(ctx, businessID)
	if err != nil {
		s.log.Warn().Err(err).Str("business_id", businessID.String()).Msg("assessment cache read failed")
	}
	if cached != nil {
		profile := &domain.CreditProfile{}
		if err := json.Unmarshal(cached, profile); err == nil {
			return profile, nil
		}
		s.log.Warn().Str("business_id", businessID.String()).Msg("discarding undecodable cached profile")
	}

	profile, err := s.creditRepo.GetProfileByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("credit profile")
	}

	s.cacheProfile(ctx, profile)
	return profile, nil
}

// Assess applies a metric update and re-derives the profile's score,
// rating and lending readiness. The derived values from before the
// update are appended to the score history; the profile update and the
// history append commit in one database transaction.
func (s *CreditServiceImpl) Assess(ctx context.Context, businessID uuid.UUID, metrics domain.CreditMetrics, factors map[string]any) (*ports.AssessmentResult, error) {
	if err := metrics.Validate(); err != nil {
		return nil, apperror.ErrMetricOutOfRange(err.Error())
	}

	profile, err := s.creditRepo.GetProfileByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("credit profile")
	}

	// History records the assessment being superseded, not the new one.
	history := profile.Snapshot(factors)

	profile.ApplyMetrics(metrics)
	profile.Recalculate()

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.creditRepo.UpdateProfile(ctx, dbTx, profile); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update profile: %w", err))
	}
	if err := s.creditRepo.AppendScore(ctx, dbTx, history); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append score history: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	// Drop the superseded snapshot before writing the new one: if the
	// re-cache fails, readers fall back to the database instead of
	// serving the old score for the rest of the TTL.
	if err := s.cache.Invalidate(ctx, businessID); err != nil {
		s.log.Warn().Err(err).Str("business_id", businessID.String()).Msg("assessment cache invalidate failed")
	}
	s.cacheProfile(ctx, profile)

	s.log.Info().
		Str("profile_id", profile.ID.String()).
		Int("credit_score", profile.CreditScore).
		Str("credit_rating", profile.CreditRating).
		Int("lending_readiness", profile.LendingReadinessScore).
		Msg("credit assessment completed")

	return &ports.AssessmentResult{Profile: profile, History: history}, nil
}

// LendingReadiness condenses the profile's derived fields into the
// lending view. The profile read goes through GetProfile so the cached
// snapshot serves repeat calls.
func (s *CreditServiceImpl) LendingReadiness(ctx context.Context, businessID uuid.UUID) (*ports.ReadinessSummary, error) {
	profile, err := s.GetProfile(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &ports.ReadinessSummary{
		LendingReadinessScore: profile.LendingReadinessScore,
		CreditScore:           profile.CreditScore,
		CreditRating:          profile.CreditRating,
		AssessmentDate:        profile.AssessmentDate,
	}, nil
}

// ListHistory returns a profile's score history, newest first.
func (s *CreditServiceImpl) ListHistory(ctx context.Context, businessID uuid.UUID, limit int) ([]domain.CreditScore, error) {
	profile, err := s.creditRepo.GetProfileByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("credit profile")
	}

	scores, err := s.creditRepo.ListScores(ctx, profile.ID, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list scores: %w", err))
	}
	return scores, nil
}

// cacheProfile writes the profile snapshot to the cache, best-effort.
func (s *CreditServiceImpl) cacheProfile(ctx context.Context, profile *domain.CreditProfile) {
	snapshot, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profile.BusinessID, snapshot, assessmentCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("business_id", profile.BusinessID.String()).Msg("assessment cache write failed")
	}
}
