package tracker

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind names one of the owned record tables. The shared repository
// primitives key off it instead of duplicating per-table SQL.
type RecordKind string

const (
	KindWorkout     RecordKind = "workout"
	KindNutrition   RecordKind = "nutrition"
	KindGoal        RecordKind = "goal"
	KindMindfulness RecordKind = "mindfulness"
)

func (k RecordKind) table() string {
	switch k {
	case KindWorkout:
		return "workout_logs"
	case KindNutrition:
		return "nutrition_logs"
	case KindGoal:
		return "goals"
	case KindMindfulness:
		return "mindfulness_logs"
	}
	return ""
}

// WorkoutLog is a single logged workout. Reps and weights are parallel
// per-set arrays.
type WorkoutLog struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Exercise    string    `json:"exercise"`
	Sets        int       `json:"sets"`
	Reps        []int32   `json:"reps"`
	Weights     []float64 `json:"weights"`
	WorkoutType string    `json:"workout_type"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateWorkoutRequest struct {
	Exercise    string    `json:"exercise" validate:"required,max=200"`
	Sets        int       `json:"sets" validate:"gte=0"`
	Reps        []int32   `json:"reps" validate:"omitempty,dive,gte=0"`
	Weights     []float64 `json:"weights" validate:"omitempty,dive,gte=0"`
	WorkoutType *string   `json:"workout_type,omitempty" validate:"omitempty,oneof=strength cardio"`
	Notes       *string   `json:"notes,omitempty"`
}

// NutritionLog is a single logged food entry with its macros.
type NutritionLog struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"-"`
	FoodName      string    `json:"food_name"`
	ServingSize   float64   `json:"serving_size"`
	ServingUnit   string    `json:"serving_unit"`
	Calories      float64   `json:"calories"`
	Protein       float64   `json:"protein"`
	Carbohydrates float64   `json:"carbohydrates"`
	Fat           float64   `json:"fat"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateNutritionRequest struct {
	FoodName      string  `json:"food_name" validate:"required,max=200"`
	ServingSize   float64 `json:"serving_size" validate:"required,gt=0"`
	ServingUnit   string  `json:"serving_unit" validate:"required,max=50"`
	Calories      float64 `json:"calories" validate:"gte=0"`
	Protein       float64 `json:"protein" validate:"gte=0"`
	Carbohydrates float64 `json:"carbohydrates" validate:"gte=0"`
	Fat           float64 `json:"fat" validate:"gte=0"`
}

// Goal is a physical or mental goal. CompletionDate is stamped by the
// store on the incomplete-to-complete transition and never cleared.
type Goal struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"-"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	GoalType       string     `json:"goal_type"`
	IsCompleted    bool       `json:"is_completed"`
	CompletionDate *time.Time `json:"completion_date"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CreateGoalRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
	GoalType    *string `json:"goal_type,omitempty" validate:"omitempty,oneof=physical mental"`
}

// UpdateGoalRequest is a partial update; completion_date is not
// caller-suppliable, it is derived from the is_completed transition.
type UpdateGoalRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	GoalType    *string `json:"goal_type,omitempty" validate:"omitempty,oneof=physical mental"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// MindfulnessLog is a daily wellbeing check-in.
type MindfulnessLog struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"-"`
	Mood              int       `json:"mood"`
	SleepHours        float64   `json:"sleep_hours"`
	StressLevel       int       `json:"stress_level"`
	MeditationMinutes *int      `json:"meditation_minutes,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreateMindfulnessRequest struct {
	Mood              int     `json:"mood" validate:"required,gte=1,lte=10"`
	SleepHours        float64 `json:"sleep_hours" validate:"gte=0"`
	StressLevel       int     `json:"stress_level" validate:"required,gte=1,lte=10"`
	MeditationMinutes *int    `json:"meditation_minutes,omitempty" validate:"omitempty,gte=0"`
	Notes             *string `json:"notes,omitempty"`
}
