package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/momentum-app/momentum-api/internal/api"
)

var _ ProfileService = (*ProfileServiceImpl)(nil)

// ProfileService exposes the caller's profile with aggregate log counts
// and applies partial profile updates.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)
}

type ProfileServiceImpl struct {
	logger *slog.Logger
	repo   ProfileRepo
}

func NewProfileService(repo ProfileRepo, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// GetProfile fetches the profile row and both log counts concurrently.
func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	var (
		prof      *Profile
		workouts  int64
		nutrition int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prof, err = s.repo.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		workouts, err = s.repo.CountWorkoutLogs(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		nutrition, err = s.repo.CountNutritionLogs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return toResponse(prof, workouts, nutrition), nil
}

// UpdateProfile validates and applies a partial update, then returns the
// refreshed profile.
func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}

	params := UpdateProfileParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Weight:        req.Weight,
		Height:        req.Height,
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
	}
	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, api.NewValidationError("date_of_birth", "must be a valid date (YYYY-MM-DD)")
		}
		params.DateOfBirth = &parsed
	}

	if err := s.repo.UpdateProfile(ctx, userID, params); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, userID)
}
