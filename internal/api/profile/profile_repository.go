package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/momentum-app/momentum-api/internal/api"
)

var _ ProfileRepo = (*PostgresProfileRepo)(nil)

// ProfileRepo defines the contract for profile persistence and the
// aggregate counts shown alongside it.
type ProfileRepo interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// UpdateProfile applies a partial update; only non-nil params touch
	// their column. No rows updated means the user does not exist.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) error

	CountWorkoutLogs(ctx context.Context, userID uuid.UUID) (int64, error)
	CountNutritionLogs(ctx context.Context, userID uuid.UUID) (int64, error)
}

type PostgresProfileRepo struct {
	logger *slog.Logger
	pgpool api.PgxPool
}

func NewPostgresProfileRepo(pgpool api.PgxPool, logger *slog.Logger) *PostgresProfileRepo {
	return &PostgresProfileRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	row := r.pgpool.QueryRow(ctx, `
        SELECT id, username, email, first_name, last_name, date_of_birth,
               weight, height, age, gender, activity_level, first_login_at, created_at
        FROM users
        WHERE id = $1`, userID)

	var p Profile
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.FirstName, &p.LastName,
		&p.DateOfBirth, &p.Weight, &p.Height, &p.Age, &p.Gender,
		&p.ActivityLevel, &p.FirstLoginAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
		span.SetAttributes(attribute.Bool("update."+column, true))
	}

	if params.FirstName != nil {
		addClause("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		addClause("last_name", *params.LastName)
	}
	if params.DateOfBirth != nil {
		addClause("date_of_birth", *params.DateOfBirth)
	}
	if params.Weight != nil {
		addClause("weight", *params.Weight)
	}
	if params.Height != nil {
		addClause("height", *params.Height)
	}
	if params.Age != nil {
		addClause("age", *params.Age)
	}
	if params.Gender != nil {
		addClause("gender", *params.Gender)
	}
	if params.ActivityLevel != nil {
		addClause("activity_level", *params.ActivityLevel)
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "UpdateProfile called with no fields to update")
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to execute profile update", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user not found for update: %w", api.ErrNotFound)
	}

	l.InfoContext(ctx, "Profile updated", slog.Int("fields", len(setClauses)-1))
	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}

func (r *PostgresProfileRepo) CountWorkoutLogs(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.countLogs(ctx, "workout_logs", userID)
}

func (r *PostgresProfileRepo) CountNutritionLogs(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.countLogs(ctx, "nutrition_logs", userID)
}

func (r *PostgresProfileRepo) countLogs(ctx context.Context, table string, userID uuid.UUID) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", table)
	if err := r.pgpool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}
