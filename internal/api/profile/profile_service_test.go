package profile

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momentum-app/momentum-api/internal/api"
)

// MockProfileRepo is a mock implementation of the ProfileRepo interface
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) error {
	args := m.Called(ctx, userID, params)
	return args.Error(0)
}

func (m *MockProfileRepo) CountWorkoutLogs(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProfileRepo) CountNutritionLogs(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func TestGetProfile(t *testing.T) {
	t.Run("AssemblesCounts", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())
		ctx := context.Background()
		userID := uuid.New()
		dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

		mockRepo.On("GetProfile", mock.Anything, userID).
			Return(&Profile{ID: userID, Username: "alice", Email: "alice@example.com", DateOfBirth: &dob}, nil).Once()
		mockRepo.On("CountWorkoutLogs", mock.Anything, userID).Return(int64(12), nil).Once()
		mockRepo.On("CountNutritionLogs", mock.Anything, userID).Return(int64(34), nil).Once()

		resp, err := service.GetProfile(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, int64(12), resp.WorkoutLogsCount)
		assert.Equal(t, int64(34), resp.NutritionLogsCount)
		require.NotNil(t, resp.DateOfBirth)
		assert.Equal(t, "1990-06-15", *resp.DateOfBirth)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingUser", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())
		userID := uuid.New()

		mockRepo.On("GetProfile", mock.Anything, userID).Return(nil, api.ErrNotFound).Once()
		mockRepo.On("CountWorkoutLogs", mock.Anything, userID).Return(int64(0), nil).Maybe()
		mockRepo.On("CountNutritionLogs", mock.Anything, userID).Return(int64(0), nil).Maybe()

		resp, err := service.GetProfile(context.Background(), userID)

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, api.ErrNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("OnlyProvidedFieldsForwarded", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())
		userID := uuid.New()
		weight := 80.5

		mockRepo.On("UpdateProfile", mock.Anything, userID, mock.MatchedBy(func(p UpdateProfileParams) bool {
			return p.Weight != nil && *p.Weight == weight &&
				p.Height == nil && p.Age == nil && p.Gender == nil &&
				p.FirstName == nil && p.LastName == nil &&
				p.DateOfBirth == nil && p.ActivityLevel == nil
		})).Return(nil).Once()
		mockRepo.On("GetProfile", mock.Anything, userID).
			Return(&Profile{ID: userID, Username: "alice", Weight: &weight}, nil).Once()
		mockRepo.On("CountWorkoutLogs", mock.Anything, userID).Return(int64(0), nil).Once()
		mockRepo.On("CountNutritionLogs", mock.Anything, userID).Return(int64(0), nil).Once()

		resp, err := service.UpdateProfile(context.Background(), userID, UpdateProfileRequest{Weight: &weight})

		require.NoError(t, err)
		assert.Equal(t, weight, *resp.Weight)
		mockRepo.AssertExpectations(t)
	})

	t.Run("BadGenderRejected", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())
		bad := "other"

		resp, err := service.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{Gender: &bad})

		assert.Nil(t, resp)
		var verr *api.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "gender")
		mockRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BadDateRejected", func(t *testing.T) {
		mockRepo := new(MockProfileRepo)
		service := NewProfileService(mockRepo, slog.Default())
		bad := "15/06/1990"

		resp, err := service.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{DateOfBirth: &bad})

		assert.Nil(t, resp)
		var verr *api.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
