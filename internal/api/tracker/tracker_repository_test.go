package tracker

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentum-app/momentum-api/internal/api"
)

func newMockRepo(t *testing.T) (*PostgresTrackerRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresTrackerRepo(mockPool, slog.Default()), mockPool
}

func goalRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "title", "description", "goal_type",
		"is_completed", "completion_date", "created_at",
	})
}

func TestDeleteOwned(t *testing.T) {
	t.Run("ScopesDeleteToOwner", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		recordID, userID := uuid.New(), uuid.New()

		mockPool.ExpectExec(regexp.QuoteMeta(
			"DELETE FROM workout_logs WHERE id = $1 AND user_id = $2")).
			WithArgs(recordID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.DeleteOwned(context.Background(), KindWorkout, recordID, userID)
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("ZeroRowsIsNotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		recordID, userID := uuid.New(), uuid.New()

		// A row owned by someone else and a missing row look the same.
		mockPool.ExpectExec(regexp.QuoteMeta(
			"DELETE FROM goals WHERE id = $1 AND user_id = $2")).
			WithArgs(recordID, userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteOwned(context.Background(), KindGoal, recordID, userID)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		repo, _ := newMockRepo(t)

		err := repo.DeleteOwned(context.Background(), RecordKind("bogus"), uuid.New(), uuid.New())
		assert.Error(t, err)
		assert.NotErrorIs(t, err, api.ErrNotFound)
	})
}

func TestGetGoal(t *testing.T) {
	t.Run("FiltersByOwner", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		goalID, userID := uuid.New(), uuid.New()

		mockPool.ExpectQuery(regexp.QuoteMeta(
			"SELECT "+goalColumns+" FROM goals WHERE id = $1 AND user_id = $2")).
			WithArgs(goalID, userID).
			WillReturnRows(goalRows().AddRow(
				goalID, userID, "Run 5k", nil, "physical", false, nil, time.Now()))

		goal, err := repo.GetGoal(context.Background(), goalID, userID)
		require.NoError(t, err)
		assert.Equal(t, "Run 5k", goal.Title)
		assert.False(t, goal.IsCompleted)
		assert.Nil(t, goal.CompletionDate)
	})

	t.Run("NotOwnedIsNotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		goalID, userID := uuid.New(), uuid.New()

		mockPool.ExpectQuery(regexp.QuoteMeta(
			"SELECT "+goalColumns+" FROM goals WHERE id = $1 AND user_id = $2")).
			WithArgs(goalID, userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetGoal(context.Background(), goalID, userID)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}

func TestUpdateGoal(t *testing.T) {
	t.Run("CompletionStampDerivedInUpdate", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		goalID, userID := uuid.New(), uuid.New()
		completed := true
		now := time.Now()

		// The stamp is computed inside the UPDATE so the transition check
		// and the write cannot race.
		mockPool.ExpectQuery(regexp.QuoteMeta(
			"UPDATE goals SET completion_date = CASE WHEN $1 AND NOT is_completed THEN now() ELSE completion_date END, is_completed = $1 WHERE id = $2 AND user_id = $3 RETURNING "+goalColumns)).
			WithArgs(completed, goalID, userID).
			WillReturnRows(goalRows().AddRow(
				goalID, userID, "Run 5k", nil, "physical", true, &now, now))

		goal, err := repo.UpdateGoal(context.Background(), goalID, userID,
			UpdateGoalRequest{IsCompleted: &completed})
		require.NoError(t, err)
		assert.True(t, goal.IsCompleted)
		assert.NotNil(t, goal.CompletionDate)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("OnlyProvidedFieldsInSetClause", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		goalID, userID := uuid.New(), uuid.New()
		title := "Run 10k"
		now := time.Now()

		mockPool.ExpectQuery(regexp.QuoteMeta(
			"UPDATE goals SET title = $1 WHERE id = $2 AND user_id = $3 RETURNING "+goalColumns)).
			WithArgs(title, goalID, userID).
			WillReturnRows(goalRows().AddRow(
				goalID, userID, title, nil, "physical", false, nil, now))

		goal, err := repo.UpdateGoal(context.Background(), goalID, userID,
			UpdateGoalRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, goal.Title)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("EmptyUpdateReadsBack", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		goalID, userID := uuid.New(), uuid.New()

		mockPool.ExpectQuery(regexp.QuoteMeta(
			"SELECT "+goalColumns+" FROM goals WHERE id = $1 AND user_id = $2")).
			WithArgs(goalID, userID).
			WillReturnRows(goalRows().AddRow(
				goalID, userID, "Run 5k", nil, "physical", false, nil, time.Now()))

		goal, err := repo.UpdateGoal(context.Background(), goalID, userID, UpdateGoalRequest{})
		require.NoError(t, err)
		assert.Equal(t, "Run 5k", goal.Title)
	})

	t.Run("NotOwnedIsNotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		goalID, userID := uuid.New(), uuid.New()
		title := "Run 10k"

		mockPool.ExpectQuery("UPDATE goals SET").
			WithArgs(title, goalID, userID).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.UpdateGoal(context.Background(), goalID, userID,
			UpdateGoalRequest{Title: &title})
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}

func TestCreateWorkout(t *testing.T) {
	t.Run("DefaultsToStrength", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		userID := uuid.New()
		now := time.Now()
		reps := []int32{10, 8, 6}
		weights := []float64{60, 65, 70}

		mockPool.ExpectQuery("INSERT INTO workout_logs").
			WithArgs(userID, "Bench Press", 3, reps, weights, "strength", (*string)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "user_id", "exercise", "sets", "reps", "weights",
				"workout_type", "notes", "created_at",
			}).AddRow(uuid.New(), userID, "Bench Press", 3, reps, weights, "strength", nil, now))

		log, err := repo.CreateWorkout(context.Background(), userID, CreateWorkoutRequest{
			Exercise: "Bench Press", Sets: 3, Reps: reps, Weights: weights,
		})
		require.NoError(t, err)
		assert.Equal(t, "strength", log.WorkoutType)
		assert.Equal(t, reps, log.Reps)
	})
}

func TestListWorkouts(t *testing.T) {
	t.Run("NewestFirstAndOwnerScoped", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		userID := uuid.New()
		newer := time.Now()
		older := newer.Add(-time.Hour)

		mockPool.ExpectQuery(regexp.QuoteMeta(
			"SELECT "+workoutColumns+" FROM workout_logs WHERE user_id = $1 ORDER BY created_at DESC")).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "user_id", "exercise", "sets", "reps", "weights",
				"workout_type", "notes", "created_at",
			}).
				AddRow(uuid.New(), userID, "Squat", 3, []int32{5}, []float64{100}, "strength", nil, newer).
				AddRow(uuid.New(), userID, "Deadlift", 1, []int32{5}, []float64{140}, "strength", nil, older))

		logs, err := repo.ListWorkouts(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "Squat", logs[0].Exercise)
	})

	t.Run("EmptyListNotNil", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)
		userID := uuid.New()

		mockPool.ExpectQuery("SELECT .+ FROM workout_logs").
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "user_id", "exercise", "sets", "reps", "weights",
				"workout_type", "notes", "created_at",
			}))

		logs, err := repo.ListWorkouts(context.Background(), userID)
		require.NoError(t, err)
		assert.NotNil(t, logs)
		assert.Empty(t, logs)
	})
}
