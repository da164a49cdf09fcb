package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports/mocks"
	"smb-finance-backend/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type creditTestDeps struct {
	svc        *CreditServiceImpl
	creditRepo *mocks.MockCreditRepository
	cache      *mocks.MockAssessmentCache
	transactor *mocks.MockDBTransactor
	ctrl       *gomock.Controller
}

func setupCreditService(t *testing.T) *creditTestDeps {
	ctrl := gomock.NewController(t)
	d := &creditTestDeps{
		creditRepo: mocks.NewMockCreditRepository(ctrl),
		cache:      mocks.NewMockAssessmentCache(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewCreditService(d.creditRepo, d.cache, d.transactor, zerolog.Nop())
	return d
}

func intPtr(v int) *int                         { return &v }
func moneyPtr(m money.Money) *money.Money       { return &m }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func strongMetrics(t *testing.T) domain.CreditMetrics {
	t.Helper()
	return domain.CreditMetrics{
		AnnualRevenue:       moneyPtr(mustMoney(t, "150000.00")),
		MonthlyCashFlow:     moneyPtr(mustMoney(t, "5000.00")),
		DebtToIncomeRatio:   decPtr(decimal.RequireFromString("0.3")),
		PaymentHistoryScore: intPtr(90),
		BusinessAgeMonths:   intPtr(36),
		IndustryRiskScore:   intPtr(70),
	}
}

func TestCreditService_CreateProfile_DerivesInitialScore(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).Return(nil, nil)
	d.creditRepo.EXPECT().CreateProfile(ctx, gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(ctx, businessID, gomock.Any(), assessmentCacheTTL).Return(nil)

	profile, err := d.svc.CreateProfile(ctx, businessID, strongMetrics(t))
	require.NoError(t, err)

	// 300 + 27 + 150 + 100 + 75 + 7 = 659
	assert.Equal(t, 659, profile.CreditScore)
	assert.Equal(t, "B", profile.CreditRating)
	// (659/850)*40 = 31 truncated, + 30 age + 30 cash flow = 91
	assert.Equal(t, 91, profile.LendingReadinessScore)
	require.NotNil(t, profile.AssessmentDate)
}

func TestCreditService_CreateProfile_AlreadyExists(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).
		Return(&domain.CreditProfile{ID: uuid.New(), BusinessID: businessID}, nil)

	_, err := d.svc.CreateProfile(ctx, businessID, strongMetrics(t))
	assertAppError(t, err, "VAL_001")
}

func TestCreditService_CreateProfile_MetricOutOfRange(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.CreateProfile(context.Background(), uuid.New(), domain.CreditMetrics{
		PaymentHistoryScore: intPtr(101),
	})
	assertAppError(t, err, "VAL_002")
}

func TestCreditService_Assess_SnapshotsPriorScore(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	tx := &mockTx{}

	profile := &domain.CreditProfile{
		ID:           uuid.New(),
		BusinessID:   businessID,
		CreditScore:  612,
		CreditRating: "C",
		IsActive:     true,
	}

	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).Return(profile, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.creditRepo.EXPECT().UpdateProfile(ctx, tx, profile).Return(nil)
	d.creditRepo.EXPECT().AppendScore(ctx, tx, gomock.Any()).Return(nil)
	gomock.InOrder(
		d.cache.EXPECT().Invalidate(ctx, businessID).Return(nil),
		d.cache.EXPECT().Set(ctx, businessID, gomock.Any(), assessmentCacheTTL).Return(nil),
	)

	result, err := d.svc.Assess(ctx, businessID, strongMetrics(t), map[string]any{"trigger": "quarterly"})
	require.NoError(t, err)

	// The history entry preserves the superseded assessment.
	assert.Equal(t, 612, result.History.Score)
	assert.Equal(t, "C", result.History.Rating)
	assert.Equal(t, profile.ID, result.History.CreditProfileID)

	// The profile carries the fresh derivation.
	assert.Equal(t, 659, result.Profile.CreditScore)
	assert.Equal(t, "B", result.Profile.CreditRating)
}

func TestCreditService_Assess_PartialUpdateKeepsOtherMetrics(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	tx := &mockTx{}

	profile := &domain.CreditProfile{
		ID:                  uuid.New(),
		BusinessID:          businessID,
		PaymentHistoryScore: 80,
		BusinessAgeMonths:   30,
		IsActive:            true,
	}

	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).Return(profile, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.creditRepo.EXPECT().UpdateProfile(ctx, tx, profile).Return(nil)
	d.creditRepo.EXPECT().AppendScore(ctx, tx, gomock.Any()).Return(nil)
	d.cache.EXPECT().Invalidate(ctx, businessID).Return(nil)
	d.cache.EXPECT().Set(ctx, businessID, gomock.Any(), assessmentCacheTTL).Return(nil)

	result, err := d.svc.Assess(ctx, businessID, domain.CreditMetrics{
		IndustryRiskScore: intPtr(50),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 80, result.Profile.PaymentHistoryScore)
	assert.Equal(t, 30, result.Profile.BusinessAgeMonths)
	assert.Equal(t, 50, result.Profile.IndustryRiskScore)
	// 300 + 24 + 0 (no DTI recorded) + 100 + 0 + 5 = 429
	assert.Equal(t, 429, result.Profile.CreditScore)
	assert.Equal(t, "D", result.Profile.CreditRating)
}

func TestCreditService_Assess_ProfileNotFound(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).Return(nil, nil)

	_, err := d.svc.Assess(ctx, businessID, strongMetrics(t), nil)
	assertAppError(t, err, "LED_005")
}

func TestCreditService_GetProfile_CacheHit(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	cached := &domain.CreditProfile{
		ID:           uuid.New(),
		BusinessID:   businessID,
		CreditScore:  700,
		CreditRating: "B+",
	}
	snapshot, _ := json.Marshal(cached)

	d.cache.EXPECT().Get(ctx, businessID).Return(snapshot, nil)

	profile, err := d.svc.GetProfile(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, cached.ID, profile.ID)
	assert.Equal(t, 700, profile.CreditScore)
}

func TestCreditService_GetProfile_CacheErrorFallsThrough(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	profile := &domain.CreditProfile{ID: uuid.New(), BusinessID: businessID, CreditScore: 650}

	d.cache.EXPECT().Get(ctx, businessID).Return(nil, errors.New("redis down"))
	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).Return(profile, nil)
	d.cache.EXPECT().Set(ctx, businessID, gomock.Any(), assessmentCacheTTL).Return(nil)

	result, err := d.svc.GetProfile(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, result.ID)
}

func TestCreditService_LendingReadiness(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()

	cached := &domain.CreditProfile{
		ID:                    uuid.New(),
		BusinessID:            businessID,
		CreditScore:           659,
		CreditRating:          "B",
		LendingReadinessScore: 91,
	}
	snapshot, _ := json.Marshal(cached)
	d.cache.EXPECT().Get(ctx, businessID).Return(snapshot, nil)

	summary, err := d.svc.LendingReadiness(ctx, businessID)
	require.NoError(t, err)
	assert.Equal(t, 91, summary.LendingReadinessScore)
	assert.Equal(t, 659, summary.CreditScore)
	assert.Equal(t, "B", summary.CreditRating)
}

func TestCreditService_ListHistory(t *testing.T) {
	d := setupCreditService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	businessID := uuid.New()
	profileID := uuid.New()

	d.creditRepo.EXPECT().GetProfileByBusiness(ctx, businessID).
		Return(&domain.CreditProfile{ID: profileID, BusinessID: businessID}, nil)
	d.creditRepo.EXPECT().ListScores(ctx, profileID, 10).Return([]domain.CreditScore{
		{ID: uuid.New(), Score: 659, Rating: "B"},
		{ID: uuid.New(), Score: 612, Rating: "C"},
	}, nil)

	scores, err := d.svc.ListHistory(ctx, businessID, 10)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 659, scores[0].Score)
}
