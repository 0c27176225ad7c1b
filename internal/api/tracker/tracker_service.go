package tracker

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/momentum-app/momentum-api/internal/api"
)

var _ TrackerService = (*TrackerServiceImpl)(nil)

// TrackerService validates record input and delegates to the store. All
// operations act on the calling user's records only.
type TrackerService interface {
	CreateWorkout(ctx context.Context, userID uuid.UUID, req CreateWorkoutRequest) (*WorkoutLog, error)
	ListWorkouts(ctx context.Context, userID uuid.UUID) ([]WorkoutLog, error)

	CreateNutrition(ctx context.Context, userID uuid.UUID, req CreateNutritionRequest) (*NutritionLog, error)
	ListNutrition(ctx context.Context, userID uuid.UUID) ([]NutritionLog, error)

	CreateGoal(ctx context.Context, userID uuid.UUID, req CreateGoalRequest) (*Goal, error)
	ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	GetGoal(ctx context.Context, goalID, userID uuid.UUID) (*Goal, error)
	UpdateGoal(ctx context.Context, goalID, userID uuid.UUID, req UpdateGoalRequest) (*Goal, error)

	CreateMindfulness(ctx context.Context, userID uuid.UUID, req CreateMindfulnessRequest) (*MindfulnessLog, error)
	ListMindfulness(ctx context.Context, userID uuid.UUID) ([]MindfulnessLog, error)

	DeleteRecord(ctx context.Context, kind RecordKind, recordID, userID uuid.UUID) error
}

type TrackerServiceImpl struct {
	logger *slog.Logger
	repo   TrackerRepo
}

func NewTrackerService(repo TrackerRepo, logger *slog.Logger) *TrackerServiceImpl {
	return &TrackerServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *TrackerServiceImpl) CreateWorkout(ctx context.Context, userID uuid.UUID, req CreateWorkoutRequest) (*WorkoutLog, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.repo.CreateWorkout(ctx, userID, req)
}

func (s *TrackerServiceImpl) ListWorkouts(ctx context.Context, userID uuid.UUID) ([]WorkoutLog, error) {
	return s.repo.ListWorkouts(ctx, userID)
}

func (s *TrackerServiceImpl) CreateNutrition(ctx context.Context, userID uuid.UUID, req CreateNutritionRequest) (*NutritionLog, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.repo.CreateNutrition(ctx, userID, req)
}

func (s *TrackerServiceImpl) ListNutrition(ctx context.Context, userID uuid.UUID) ([]NutritionLog, error) {
	return s.repo.ListNutrition(ctx, userID)
}

func (s *TrackerServiceImpl) CreateGoal(ctx context.Context, userID uuid.UUID, req CreateGoalRequest) (*Goal, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.repo.CreateGoal(ctx, userID, req)
}

func (s *TrackerServiceImpl) ListGoals(ctx context.Context, userID uuid.UUID) ([]Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

func (s *TrackerServiceImpl) GetGoal(ctx context.Context, goalID, userID uuid.UUID) (*Goal, error) {
	return s.repo.GetGoal(ctx, goalID, userID)
}

func (s *TrackerServiceImpl) UpdateGoal(ctx context.Context, goalID, userID uuid.UUID, req UpdateGoalRequest) (*Goal, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.repo.UpdateGoal(ctx, goalID, userID, req)
}

func (s *TrackerServiceImpl) CreateMindfulness(ctx context.Context, userID uuid.UUID, req CreateMindfulnessRequest) (*MindfulnessLog, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.repo.CreateMindfulness(ctx, userID, req)
}

func (s *TrackerServiceImpl) ListMindfulness(ctx context.Context, userID uuid.UUID) ([]MindfulnessLog, error) {
	return s.repo.ListMindfulness(ctx, userID)
}

func (s *TrackerServiceImpl) DeleteRecord(ctx context.Context, kind RecordKind, recordID, userID uuid.UUID) error {
	return s.repo.DeleteOwned(ctx, kind, recordID, userID)
}
