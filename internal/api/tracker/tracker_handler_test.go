package tracker

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/momentum-app/momentum-api/internal/api"
	"github.com/momentum-app/momentum-api/internal/api/auth"
)

func deleteRequest(userID uuid.UUID, path, id string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, auth.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestDeleteWorkoutHandler(t *testing.T) {
	t.Run("NoContentOnSuccess", func(t *testing.T) {
		mockRepo := new(MockTrackerRepo)
		handler := NewTrackerHandler(NewTrackerService(mockRepo, slog.Default()), slog.Default())
		recordID, userID := uuid.New(), uuid.New()

		mockRepo.On("DeleteOwned", mock.Anything, KindWorkout, recordID, userID).
			Return(nil).Once()

		rr := httptest.NewRecorder()
		handler.DeleteWorkout(rr, deleteRequest(userID, "/api/v1/workouts/"+recordID.String(), recordID.String()))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("NotOwnedIs404", func(t *testing.T) {
		mockRepo := new(MockTrackerRepo)
		handler := NewTrackerHandler(NewTrackerService(mockRepo, slog.Default()), slog.Default())
		recordID, userID := uuid.New(), uuid.New()

		mockRepo.On("DeleteOwned", mock.Anything, KindWorkout, recordID, userID).
			Return(api.ErrNotFound).Once()

		rr := httptest.NewRecorder()
		handler.DeleteWorkout(rr, deleteRequest(userID, "/api/v1/workouts/"+recordID.String(), recordID.String()))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("MalformedIdIs404", func(t *testing.T) {
		mockRepo := new(MockTrackerRepo)
		handler := NewTrackerHandler(NewTrackerService(mockRepo, slog.Default()), slog.Default())
		userID := uuid.New()

		rr := httptest.NewRecorder()
		handler.DeleteWorkout(rr, deleteRequest(userID, "/api/v1/workouts/not-a-uuid", "not-a-uuid"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockRepo.AssertNotCalled(t, "DeleteOwned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetGoalHandler(t *testing.T) {
	t.Run("MissingUserIs401", func(t *testing.T) {
		mockRepo := new(MockTrackerRepo)
		handler := NewTrackerHandler(NewTrackerService(mockRepo, slog.Default()), slog.Default())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/goals/"+uuid.NewString(), nil)
		rr := httptest.NewRecorder()
		handler.GetGoal(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
