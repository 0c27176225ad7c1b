package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/momentum-app/momentum-api/internal/api"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the contract for account persistence.
type AuthRepo interface {
	// CreateUser inserts a new account. The email/username uniqueness race
	// is settled by the database constraints, not an application check;
	// violations surface as ErrEmailTaken / ErrUsernameTaken.
	CreateUser(ctx context.Context, params CreateUserParams) (*UserAuth, error)

	GetUserByUsername(ctx context.Context, username string) (*UserAuth, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*UserAuth, error)

	// MarkFirstLogin stamps first_login_at exactly once and returns the
	// stored value, whether this call set it or a previous login did.
	MarkFirstLogin(ctx context.Context, userID uuid.UUID) (time.Time, error)

	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, newHashedPassword string) error
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool api.PgxPool
}

func NewPostgresAuthRepo(pgpool api.PgxPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const userAuthColumns = "id, username, email, password_hash, first_login_at, created_at"

func scanUserAuth(row pgx.Row) (*UserAuth, error) {
	var u UserAuth
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstLoginAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts the account row and returns the stored identity.
func (r *PostgresAuthRepo) CreateUser(ctx context.Context, params CreateUserParams) (*UserAuth, error) {
	l := r.logger.With(slog.String("method", "CreateUser"), slog.String("username", params.Username))

	query := `
        INSERT INTO users (
            username, email, password_hash, first_name, last_name,
            date_of_birth, weight, height, age, gender, activity_level
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + userAuthColumns

	row := r.pgpool.QueryRow(ctx, query,
		params.Username, params.Email, params.PasswordHash,
		params.FirstName, params.LastName, params.DateOfBirth,
		params.Weight, params.Height, params.Age, params.Gender, params.ActivityLevel,
	)

	var u UserAuth
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstLoginAt, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_username_key" {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		l.ErrorContext(ctx, "Failed to insert user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	l.InfoContext(ctx, "User created", slog.String("userID", u.ID.String()))
	return &u, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*UserAuth, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userAuthColumns+" FROM users WHERE username = $1", username)
	return scanUserAuth(row)
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*UserAuth, error) {
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+userAuthColumns+" FROM users WHERE id = $1", userID)
	return scanUserAuth(row)
}

// MarkFirstLogin stamps first_login_at with a single conditional UPDATE so
// concurrent first logins cannot double-write. When the stamp already
// exists the stored value is read back instead.
func (r *PostgresAuthRepo) MarkFirstLogin(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	var firstLogin time.Time
	err := r.pgpool.QueryRow(ctx,
		`UPDATE users SET first_login_at = now(), updated_at = now()
         WHERE id = $1 AND first_login_at IS NULL
         RETURNING first_login_at`, userID).Scan(&firstLogin)
	if err == nil {
		return firstLogin, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("failed to stamp first login: %w", err)
	}

	// Already stamped (or the user is gone).
	err = r.pgpool.QueryRow(ctx,
		"SELECT first_login_at FROM users WHERE id = $1", userID).Scan(&firstLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("failed to read first login: %w", err)
	}
	return firstLogin, nil
}

func (r *PostgresAuthRepo) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE users SET email = $1, updated_at = now() WHERE id = $2",
		email, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		r.logger.ErrorContext(ctx, "Failed to update email", slog.Any("error", err))
		return fmt.Errorf("failed to update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, newHashedPassword string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2",
		newHashedPassword, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update password", slog.Any("error", err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", api.ErrNotFound)
	}
	return nil
}
