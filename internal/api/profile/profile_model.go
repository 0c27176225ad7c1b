package profile

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the users row as the profile layer sees it. Credential
// columns stay in the auth package.
type Profile struct {
	ID            uuid.UUID
	Username      string
	Email         string
	FirstName     *string
	LastName      *string
	DateOfBirth   *time.Time
	Weight        *float64
	Height        *float64
	Age           *int
	Gender        *string
	ActivityLevel *string
	FirstLoginAt  *time.Time
	CreatedAt     time.Time
}

// ProfileResponse is the profile plus the aggregate log counts the
// dashboard renders.
type ProfileResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FirstName          *string    `json:"first_name,omitempty"`
	LastName           *string    `json:"last_name,omitempty"`
	DateOfBirth        *string    `json:"date_of_birth,omitempty"`
	Weight             *float64   `json:"weight,omitempty"`
	Height             *float64   `json:"height,omitempty"`
	Age                *int       `json:"age,omitempty"`
	Gender             *string    `json:"gender,omitempty"`
	ActivityLevel      *string    `json:"activity_level,omitempty"`
	FirstLoginAt       *time.Time `json:"first_login_at"`
	CreatedAt          time.Time  `json:"created_at"`
	WorkoutLogsCount   int64      `json:"workout_logs_count"`
	NutritionLogsCount int64      `json:"nutrition_logs_count"`
}

// UpdateProfileRequest allows a partial update; absent fields are left
// untouched.
type UpdateProfileRequest struct {
	FirstName     *string  `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName      *string  `json:"last_name,omitempty" validate:"omitempty,max=150"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weight        *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Height        *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Age           *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender        *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	ActivityLevel *string  `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary light moderate active extra"`
}

// UpdateProfileParams is the repository-level shape; only non-nil fields
// make it into the generated SET clause.
type UpdateProfileParams struct {
	FirstName     *string
	LastName      *string
	DateOfBirth   *time.Time
	Weight        *float64
	Height        *float64
	Age           *int
	Gender        *string
	ActivityLevel *string
}

func toResponse(p *Profile, workouts, nutrition int64) *ProfileResponse {
	resp := &ProfileResponse{
		ID:                 p.ID,
		Username:           p.Username,
		Email:              p.Email,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Weight:             p.Weight,
		Height:             p.Height,
		Age:                p.Age,
		Gender:             p.Gender,
		ActivityLevel:      p.ActivityLevel,
		FirstLoginAt:       p.FirstLoginAt,
		CreatedAt:          p.CreatedAt,
		WorkoutLogsCount:   workouts,
		NutritionLogsCount: nutrition,
	}
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}
