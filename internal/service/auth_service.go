package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smb-finance-backend/internal/core/domain"
	"smb-finance-backend/internal/core/ports"
	"smb-finance-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo   ports.UserRepository
	walletRepo ports.WalletRepository
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
	log        zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	walletRepo ports.WalletRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		walletRepo: walletRepo,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
		log:        log,
	}
}

// Register creates an owner account, their business, and a default
// operating wallet, then issues a session token.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*ports.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	business := &domain.Business{
		ID:        uuid.New(),
		OwnerID:   user.ID,
		Name:      req.BusinessName,
		Industry:  req.Industry,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.CreateBusiness(ctx, business); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create business: %w", err))
	}

	wallet := &domain.Wallet{
		ID:         uuid.New(),
		BusinessID: business.ID,
		Name:       "Operating",
		Type:       domain.WalletTypeOperating,
		Currency:   currency,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create default wallet: %w", err))
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID, business.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("business_id", business.ID.String()).
		Msg("owner registered")

	return &ports.AuthResult{
		User:     user,
		Business: business,
		Token:    token,
		Expiry:   expiry,
	}, nil
}

// Login validates credentials and returns a fresh session token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	business, err := s.userRepo.GetBusinessByOwner(ctx, user.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find business: %w", err))
	}
	if business == nil {
		return nil, apperror.ErrNotFound("business")
	}

	token, expiry, err := s.tokenSvc.Generate(user.ID, business.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.AuthResult{
		User:     user,
		Business: business,
		Token:    token,
		Expiry:   expiry,
	}, nil
}
