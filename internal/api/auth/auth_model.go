package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/momentum-app/momentum-api/internal/api"
)

// Repository-level sentinels for unique-constraint violations. Both wrap
// api.ErrConflict so callers can match the class or the specific field.
var (
	ErrEmailTaken    = fmt.Errorf("email already in use: %w", api.ErrConflict)
	ErrUsernameTaken = fmt.Errorf("username already in use: %w", api.ErrConflict)
)

// Account-update failures surfaced to the client as 400 {"error": ...}.
var (
	ErrEmailInvalid            = fmt.Errorf("please provide a valid email address: %w", api.ErrInvalidCredentials)
	ErrEmailInUse              = fmt.Errorf("this email is already in use: %w", api.ErrInvalidCredentials)
	ErrCurrentPasswordRequired = fmt.Errorf("current password is required to set a new password: %w", api.ErrInvalidCredentials)
	ErrCurrentPasswordWrong    = fmt.Errorf("current password is incorrect: %w", api.ErrInvalidCredentials)
)

// UserAuth is the account row as the auth layer sees it. The password hash
// never leaves this package.
type UserAuth struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstLoginAt *time.Time
	CreatedAt    time.Time
}

// SignupRequest represents the expected JSON body for account creation.
// Profile attributes are optional at signup and can be filled in later.
type SignupRequest struct {
	Username      string   `json:"username" validate:"required,min=3,max=150"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=8"`
	FirstName     string   `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName      string   `json:"last_name,omitempty" validate:"omitempty,max=150"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weight        *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Height        *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Age           *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender        *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	ActivityLevel *string  `json:"activity_level,omitempty" validate:"omitempty,oneof=sedentary light moderate active extra"`
}

// SignupResponse returns the freshly issued credential pair.
type SignupResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Message string `json:"message"`
}

// LoginRequest carries username/password credentials. Missing fields are an
// invalid-credentials failure, not a field-level validation error.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse includes the first-login timestamp so clients can detect a
// brand-new account's first session.
type LoginResponse struct {
	Access       string     `json:"access"`
	Refresh      string     `json:"refresh"`
	Message      string     `json:"message"`
	FirstLoginAt *time.Time `json:"first_login_at"`
}

// RefreshRequest carries the refresh token used to mint a new pair.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenResponse is a bare credential pair.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UpdateAccountRequest allows email change and/or password rotation in one
// call. Fields absent from the request are left untouched.
type UpdateAccountRequest struct {
	Email           *string `json:"email,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

// UpdateAccountResponse echoes what changed; a rotated password comes with a
// fresh credential pair inline.
type UpdateAccountResponse struct {
	Email           *string `json:"email,omitempty"`
	PasswordUpdated bool    `json:"password_updated,omitempty"`
	Refresh         string  `json:"refresh,omitempty"`
	Access          string  `json:"access,omitempty"`
	Message         string  `json:"message"`
}

// CreateUserParams is the repository-level shape for inserting an account.
// The password arrives already hashed.
type CreateUserParams struct {
	Username      string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	DateOfBirth   *time.Time
	Weight        *float64
	Height        *float64
	Age           *int
	Gender        *string
	ActivityLevel *string
}
