package service

import (
	"context"
	"testing"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc        *AuthServiceImpl
	userRepo   *mocks.MockUserRepository
	walletRepo *mocks.MockWalletRepository
	hashSvc    *mocks.MockHashService
	tokenSvc   *mocks.MockTokenService
	ctrl       *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		userRepo:   mocks.NewMockUserRepository(ctrl),
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		hashSvc:    mocks.NewMockHashService(ctrl),
		tokenSvc:   mocks.NewMockTokenService(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewAuthService(d.userRepo, d.walletRepo, d.hashSvc, d.tokenSvc, zerolog.Nop())
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)

	d.userRepo.EXPECT().GetUserByEmail(ctx, "owner@example.com").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("s3cret-pass").Return("$argon2id$hash", nil)
	d.userRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) error {
			assert.False(t, u.CreatedAt.IsZero())
			assert.Equal(t, u.CreatedAt, u.UpdatedAt)
			return nil
		})
	d.userRepo.EXPECT().CreateBusiness(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, b *domain.Business) error {
			assert.False(t, b.CreatedAt.IsZero())
			assert.Equal(t, b.CreatedAt, b.UpdatedAt)
			return nil
		})
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, domain.WalletTypeOperating, w.Type)
			assert.Equal(t, "USD", w.Currency)
			assert.True(t, w.Balance.IsZero())
			return nil
		})
	d.tokenSvc.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("jwt-token", expiry, nil)

	result, err := d.svc.Register(ctx, ports.RegisterRequest{
		Email:        "Owner@Example.com ",
		Password:     "s3cret-pass",
		FirstName:    "Ana",
		LastName:     "Silva",
		BusinessName: "Silva Bakery",
		Industry:     "food",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", result.User.Email)
	assert.Equal(t, "Silva Bakery", result.Business.Name)
	assert.Equal(t, result.User.ID, result.Business.OwnerID)
	assert.Equal(t, "jwt-token", result.Token)
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetUserByEmail(ctx, "owner@example.com").
		Return(&domain.User{ID: uuid.New(), Email: "owner@example.com"}, nil)

	result, err := d.svc.Register(ctx, ports.RegisterRequest{
		Email:    "owner@example.com",
		Password: "pass",
	})
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: "$hash"}
	business := &domain.Business{ID: uuid.New(), OwnerID: user.ID}
	expiry := time.Now().Add(time.Hour)

	d.userRepo.EXPECT().GetUserByEmail(ctx, "owner@example.com").Return(user, nil)
	d.hashSvc.EXPECT().Verify("s3cret-pass", "$hash").Return(true, nil)
	d.userRepo.EXPECT().GetBusinessByOwner(ctx, user.ID).Return(business, nil)
	d.tokenSvc.EXPECT().Generate(user.ID, business.ID).Return("jwt-token", expiry, nil)

	result, err := d.svc.Login(ctx, "owner@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
	assert.Equal(t, business.ID, result.Business.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "owner@example.com", PasswordHash: "$hash"}

	d.userRepo.EXPECT().GetUserByEmail(ctx, "owner@example.com").Return(user, nil)
	d.hashSvc.EXPECT().Verify("wrong", "$hash").Return(false, nil)

	result, err := d.svc.Login(ctx, "owner@example.com", "wrong")
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.userRepo.EXPECT().GetUserByEmail(ctx, "nobody@example.com").Return(nil, nil)

	result, err := d.svc.Login(ctx, "nobody@example.com", "pass")
	assert.Nil(t, result)
	assertAppError(t, err, "AUTH_001")
}
