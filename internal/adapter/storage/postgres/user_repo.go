package postgres

import (
	"context"
	"errors"
	"fmt"

	"smb-finance-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, created_at, updated_at`

// CreateUser inserts a new owner account.
func (r *UserRepo) CreateUser(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail fetches a user by email.
func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetUserByID fetches a user by UUID.
func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// CreateBusiness inserts a new business.
func (r *UserRepo) CreateBusiness(ctx context.Context, b *domain.Business) error {
	query := `INSERT INTO businesses (id, owner_id, name, industry, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		b.ID, b.OwnerID, b.Name, b.Industry, b.Currency, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetBusinessByOwner fetches the business owned by a user.
func (r *UserRepo) GetBusinessByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	query := `SELECT id, owner_id, name, industry, currency, created_at, updated_at
		FROM businesses WHERE owner_id = $1`

	b := &domain.Business{}
	err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Industry, &b.Currency, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business by owner: %w", err)
	}
	return b, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
