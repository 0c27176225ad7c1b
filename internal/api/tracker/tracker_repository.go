package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/momentum-app/momentum-api/app/observability/metrics"
	"github.com/momentum-app/momentum-api/internal/api"
)

var _ TrackerRepo = (*PostgresTrackerRepo)(nil)

// TrackerRepo defines the contract for owned wellness records. Every read
// and mutation filters by (id, user_id); a record owned by someone else is
// indistinguishable from one that does not exist.
type TrackerRepo interface {
	CreateWorkout(ctx context.Context, userID uuid.UUID, req CreateWorkoutRequest) (*WorkoutLog, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]WorkoutLog, error)

	CreateNutrition(ctx context.Context, userID uuid.UUID, req CreateNutritionRequest) (*NutritionLog, error)
	ListNutrition(ctx context.Context, userID uuid.UUID) ([]NutritionLog, error)

	CreateGoal(ctx context.Context, userID uuid.UUID, req CreateGoalRequest) (*Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	GetGoal(ctx context.Context, goalID, userID uuid.UUID) (*Goal, error)

	// UpdateGoal applies a partial update. The completion stamp is derived
	// inside the UPDATE: set on the incomplete-to-complete transition,
	// never overwritten, never cleared by re-opening.
	UpdateGoal(ctx context.Context, goalID, userID uuid.UUID, req UpdateGoalRequest) (*Goal, error)

	CreateMindfulness(ctx context.Context, userID uuid.UUID, req CreateMindfulnessRequest) (*MindfulnessLog, error)
	ListMindfulness(ctx context.Context, userID uuid.UUID) ([]MindfulnessLog, error)

	// DeleteOwned removes one record of the given kind. Zero rows deleted
	// means not found, whoever actually owns the row.
	DeleteOwned(ctx context.Context, kind RecordKind, recordID, userID uuid.UUID) error
}

type PostgresTrackerRepo struct {
	logger *slog.Logger
	pgpool api.PgxPool
}

func NewPostgresTrackerRepo(pgpool api.PgxPool, logger *slog.Logger) *PostgresTrackerRepo {
	return &PostgresTrackerRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// observe records query duration and error counts per table/operation.
func observe(ctx context.Context, table, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("operation", op),
	)
	metrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

const workoutColumns = "id, user_id, exercise, sets, reps, weights, workout_type, notes, created_at"

func (r *PostgresTrackerRepo) CreateWorkout(ctx context.Context, userID uuid.UUID, req CreateWorkoutRequest) (*WorkoutLog, error) {
	start := time.Now()

	workoutType := "strength"
	if req.WorkoutType != nil {
		workoutType = *req.WorkoutType
	}

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO workout_logs (user_id, exercise, sets, reps, weights, workout_type, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+workoutColumns,
		userID, req.Exercise, req.Sets, req.Reps, req.Weights, workoutType, req.Notes)

	var w WorkoutLog
	err := row.Scan(&w.ID, &w.UserID, &w.Exercise, &w.Sets, &w.Reps, &w.Weights,
		&w.WorkoutType, &w.Notes, &w.CreatedAt)
	observe(ctx, "workout_logs", "INSERT", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert workout log", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert workout log: %w", err)
	}
	return &w, nil
}

func (r *PostgresTrackerRepo) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]WorkoutLog, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+workoutColumns+" FROM workout_logs WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	observe(ctx, "workout_logs", "SELECT", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}
	defer rows.Close()

	logs := []WorkoutLog{}
	for rows.Next() {
		var w WorkoutLog
		if err := rows.Scan(&w.ID, &w.UserID, &w.Exercise, &w.Sets, &w.Reps,
			&w.Weights, &w.WorkoutType, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workout log: %w", err)
		}
		logs = append(logs, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workout logs: %w", err)
	}
	return logs, nil
}

const nutritionColumns = "id, user_id, food_name, serving_size, serving_unit, calories, protein, carbohydrates, fat, created_at"

func (r *PostgresTrackerRepo) CreateNutrition(ctx context.Context, userID uuid.UUID, req CreateNutritionRequest) (*NutritionLog, error) {
	start := time.Now()

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO nutrition_logs (user_id, food_name, serving_size, serving_unit, calories, protein, carbohydrates, fat)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+nutritionColumns,
		userID, req.FoodName, req.ServingSize, req.ServingUnit,
		req.Calories, req.Protein, req.Carbohydrates, req.Fat)

	var n NutritionLog
	err := row.Scan(&n.ID, &n.UserID, &n.FoodName, &n.ServingSize, &n.ServingUnit,
		&n.Calories, &n.Protein, &n.Carbohydrates, &n.Fat, &n.CreatedAt)
	observe(ctx, "nutrition_logs", "INSERT", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert nutrition log", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert nutrition log: %w", err)
	}
	return &n, nil
}

func (r *PostgresTrackerRepo) ListNutrition(ctx context.Context, userID uuid.UUID) ([]NutritionLog, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+nutritionColumns+" FROM nutrition_logs WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	observe(ctx, "nutrition_logs", "SELECT", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list nutrition logs: %w", err)
	}
	defer rows.Close()

	logs := []NutritionLog{}
	for rows.Next() {
		var n NutritionLog
		if err := rows.Scan(&n.ID, &n.UserID, &n.FoodName, &n.ServingSize, &n.ServingUnit,
			&n.Calories, &n.Protein, &n.Carbohydrates, &n.Fat, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan nutrition log: %w", err)
		}
		logs = append(logs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate nutrition logs: %w", err)
	}
	return logs, nil
}

const goalColumns = "id, user_id, title, description, goal_type, is_completed, completion_date, created_at"

func scanGoal(row pgx.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.GoalType,
		&g.IsCompleted, &g.CompletionDate, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("goal not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}
	return &g, nil
}

func (r *PostgresTrackerRepo) CreateGoal(ctx context.Context, userID uuid.UUID, req CreateGoalRequest) (*Goal, error) {
	start := time.Now()

	goalType := "physical"
	if req.GoalType != nil {
		goalType = *req.GoalType
	}

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO goals (user_id, title, description, goal_type)
        VALUES ($1, $2, $3, $4)
        RETURNING `+goalColumns,
		userID, req.Title, req.Description, goalType)

	g, err := scanGoal(row)
	observe(ctx, "goals", "INSERT", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert goal", slog.Any("error", err))
		return nil, err
	}
	return g, nil
}

func (r *PostgresTrackerRepo) ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	observe(ctx, "goals", "SELECT", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []Goal{}
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.GoalType,
			&g.IsCompleted, &g.CompletionDate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

func (r *PostgresTrackerRepo) GetGoal(ctx context.Context, goalID, userID uuid.UUID) (*Goal, error) {
	start := time.Now()
	row := r.pgpool.QueryRow(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE id = $1 AND user_id = $2",
		goalID, userID)
	g, err := scanGoal(row)
	observe(ctx, "goals", "SELECT", start, err)
	return g, err
}

// UpdateGoal builds a SET clause from the provided fields only. When
// is_completed is among them, completion_date is computed in the same
// statement so the stamp and the flag cannot diverge under concurrency.
func (r *PostgresTrackerRepo) UpdateGoal(ctx context.Context, goalID, userID uuid.UUID, req UpdateGoalRequest) (*Goal, error) {
	ctx, span := otel.Tracer("TrackerRepo").Start(ctx, "UpdateGoal", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "goals"),
	))
	defer span.End()

	start := time.Now()
	l := r.logger.With(slog.String("method", "UpdateGoal"), slog.String("goalID", goalID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	if req.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argID))
		args = append(args, *req.Title)
		argID++
	}
	if req.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argID))
		args = append(args, *req.Description)
		argID++
	}
	if req.GoalType != nil {
		setClauses = append(setClauses, fmt.Sprintf("goal_type = $%d", argID))
		args = append(args, *req.GoalType)
		argID++
	}
	if req.IsCompleted != nil {
		setClauses = append(setClauses,
			fmt.Sprintf("completion_date = CASE WHEN $%d AND NOT is_completed THEN now() ELSE completion_date END", argID),
			fmt.Sprintf("is_completed = $%d", argID))
		args = append(args, *req.IsCompleted)
		argID++
	}

	if len(setClauses) == 0 {
		span.SetStatus(codes.Ok, "No update fields provided")
		return r.GetGoal(ctx, goalID, userID)
	}

	args = append(args, goalID, userID)
	query := fmt.Sprintf("UPDATE goals SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argID, argID+1, goalColumns)

	g, err := scanGoal(r.pgpool.QueryRow(ctx, query, args...))
	observe(ctx, "goals", "UPDATE", start, err)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			span.SetStatus(codes.Error, "Goal not found")
			return nil, err
		}
		l.ErrorContext(ctx, "Failed to update goal", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Goal updated")
	return g, nil
}

const mindfulnessColumns = "id, user_id, mood, sleep_hours, stress_level, meditation_minutes, notes, created_at"

func (r *PostgresTrackerRepo) CreateMindfulness(ctx context.Context, userID uuid.UUID, req CreateMindfulnessRequest) (*MindfulnessLog, error) {
	start := time.Now()

	row := r.pgpool.QueryRow(ctx, `
        INSERT INTO mindfulness_logs (user_id, mood, sleep_hours, stress_level, meditation_minutes, notes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+mindfulnessColumns,
		userID, req.Mood, req.SleepHours, req.StressLevel, req.MeditationMinutes, req.Notes)

	var m MindfulnessLog
	err := row.Scan(&m.ID, &m.UserID, &m.Mood, &m.SleepHours, &m.StressLevel,
		&m.MeditationMinutes, &m.Notes, &m.CreatedAt)
	observe(ctx, "mindfulness_logs", "INSERT", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert mindfulness log", slog.Any("error", err))
		return nil, fmt.Errorf("failed to insert mindfulness log: %w", err)
	}
	return &m, nil
}

func (r *PostgresTrackerRepo) ListMindfulness(ctx context.Context, userID uuid.UUID) ([]MindfulnessLog, error) {
	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		"SELECT "+mindfulnessColumns+" FROM mindfulness_logs WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	observe(ctx, "mindfulness_logs", "SELECT", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list mindfulness logs: %w", err)
	}
	defer rows.Close()

	logs := []MindfulnessLog{}
	for rows.Next() {
		var m MindfulnessLog
		if err := rows.Scan(&m.ID, &m.UserID, &m.Mood, &m.SleepHours, &m.StressLevel,
			&m.MeditationMinutes, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mindfulness log: %w", err)
		}
		logs = append(logs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mindfulness logs: %w", err)
	}
	return logs, nil
}

// DeleteOwned deletes one record scoped to its owner. The (id, user_id)
// filter is the entire authorization check.
func (r *PostgresTrackerRepo) DeleteOwned(ctx context.Context, kind RecordKind, recordID, userID uuid.UUID) error {
	table := kind.table()
	if table == "" {
		return fmt.Errorf("unknown record kind %q", kind)
	}

	ctx, span := otel.Tracer("TrackerRepo").Start(ctx, "DeleteOwned", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", table),
	))
	defer span.End()

	start := time.Now()
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", table)
	tag, err := r.pgpool.Exec(ctx, query, recordID, userID)
	observe(ctx, table, "DELETE", start, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete record",
			slog.String("table", table), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Record not found")
		return fmt.Errorf("record not found: %w", api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Record deleted")
	return nil
}
