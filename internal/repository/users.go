package repository

import (
	"context"
	"database/sql"

	"epark/internal/database"
	"epark/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, user_type, vehicle_plate,
	       wallet_balance, is_verified, discount_percentage, bonus_percentage,
	       is_active, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Phone,
		&user.UserType,
		&user.VehiclePlate,
		&user.WalletBalance,
		&user.IsVerified,
		&user.DiscountPercentage,
		&user.BonusPercentage,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, user_type, vehicle_plate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.UserType,
		user.VehiclePlate,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) SetUserType(ctx context.Context, id string, userType string) error {
	query := `UPDATE users SET user_type = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, userType, id)
	return err
}

func (r *UserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	query := `UPDATE users SET is_verified = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, verified, id)
	return err
}

func (r *UserRepository) SetDiscount(ctx context.Context, id string, percentage float64) error {
	query := `UPDATE users SET discount_percentage = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, percentage, id)
	return err
}

func (r *UserRepository) SetBonus(ctx context.Context, id string, percentage float64) error {
	query := `UPDATE users SET bonus_percentage = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, percentage, id)
	return err
}
