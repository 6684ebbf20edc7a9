package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hajuenter/usaha-backend/internal/core/domain"
	"github.com/hajuenter/usaha-backend/internal/core/port"
	"github.com/hajuenter/usaha-backend/internal/repository"
)

var userColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"otp",
	"otp_expires_at",
	"otp_requested_at",
	"otp_attempts",
	"reset_token",
	"reset_token_expires_at",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query := r.builder.Insert("shop.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.OTP,
			user.OTPExpiresAt,
			user.OTPRequestedAt,
			user.OTPAttempts,
			user.ResetToken,
			user.ResetTokenExpiresAt,
			user.CreatedAt,
			user.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("shop.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves a user by normalized email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("shop.users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// Save persists the full mutable state of an existing user, recovery fields included.
func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("shop.users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("otp", user.OTP).
		Set("otp_expires_at", user.OTPExpiresAt).
		Set("otp_requested_at", user.OTPRequestedAt).
		Set("otp_attempts", user.OTPAttempts).
		Set("reset_token", user.ResetToken).
		Set("reset_token_expires_at", user.ResetTokenExpiresAt).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var (
		user       domain.User
		otp        sql.NullString
		resetToken sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&otp,
		&user.OTPExpiresAt,
		&user.OTPRequestedAt,
		&user.OTPAttempts,
		&resetToken,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if otp.Valid {
		val := otp.String
		user.OTP = &val
	}
	if resetToken.Valid {
		val := resetToken.String
		user.ResetToken = &val
	}

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
