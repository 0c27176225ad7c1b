package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/momentum-app/momentum-api/internal/api"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates the account/session lifecycle: signup, login with
// first-login detection, token refresh, and account mutation.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error)
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	UpdateAccount(ctx context.Context, userID uuid.UUID, req UpdateAccountRequest) (*UpdateAccountResponse, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	issuer *TokenIssuer
}

func NewAuthService(repo AuthRepo, issuer *TokenIssuer, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		issuer: issuer,
	}
}

// Signup validates the request, creates the account with a bcrypt-hashed
// password, and issues the first credential pair.
func (s *AuthServiceImpl) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if err := api.ValidateStruct(req); err != nil {
		return nil, err
	}

	var dob *time.Time
	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, api.NewValidationError("date_of_birth", "must be a valid date (YYYY-MM-DD)")
		}
		dob = &parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  string(hashed),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   dob,
		Weight:        req.Weight,
		Height:        req.Height,
		Age:           req.Age,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return nil, api.NewValidationError("email", "a user with this email already exists")
		case errors.Is(err, ErrUsernameTaken):
			return nil, api.NewValidationError("username", "a user with this username already exists")
		}
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	access, refresh, err := s.issuer.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credentials: %w", err)
	}

	return &SignupResponse{
		Access:  access,
		Refresh: refresh,
		Message: "Account created successfully!",
	}, nil
}

// Login authenticates the user, stamps first_login_at on the first ever
// successful authentication, and issues a fresh credential pair. Unknown
// usernames and password mismatches are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", api.ErrInvalidCredentials)
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("unknown username: %w", api.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("password mismatch: %w", api.ErrInvalidCredentials)
	}

	firstLogin := user.FirstLoginAt
	if firstLogin == nil {
		stamped, err := s.repo.MarkFirstLogin(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to record first login: %w", err)
		}
		firstLogin = &stamped
		l.InfoContext(ctx, "First login recorded", slog.Time("first_login_at", stamped))
	}

	access, refresh, err := s.issuer.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credentials: %w", err)
	}

	return &LoginResponse{
		Access:       access,
		Refresh:      refresh,
		Message:      "Login successful!",
		FirstLoginAt: firstLogin,
	}, nil
}

// Refresh mints a new credential pair from a valid refresh token.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	userID, err := s.issuer.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("token user no longer exists: %w", api.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("refresh failed: %w", err)
	}

	access, refresh, err := s.issuer.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue credentials: %w", err)
	}
	return &TokenResponse{Access: access, Refresh: refresh}, nil
}

// UpdateAccount applies an email change and/or a password rotation. All
// checks run before any mutation: the email format first, then the current
// password when a rotation is requested. A successful rotation issues a new
// credential pair inline; previously issued pairs are not revoked and age
// out by TTL.
func (s *AuthServiceImpl) UpdateAccount(ctx context.Context, userID uuid.UUID, req UpdateAccountRequest) (*UpdateAccountResponse, error) {
	l := s.logger.With(slog.String("method", "UpdateAccount"), slog.String("userID", userID.String()))

	resp := &UpdateAccountResponse{Message: "Account updated successfully"}

	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return nil, ErrEmailInvalid
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	rotatePassword := req.NewPassword != nil
	if rotatePassword {
		if req.CurrentPassword == nil || *req.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)); err != nil {
			return nil, ErrCurrentPasswordWrong
		}
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.repo.UpdateEmail(ctx, userID, *req.Email); err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return nil, ErrEmailInUse
			}
			return nil, fmt.Errorf("email update failed: %w", err)
		}
		resp.Email = req.Email
		l.InfoContext(ctx, "Email updated")
	} else if req.Email != nil {
		resp.Email = req.Email
	}

	if rotatePassword {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash new password: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
			return nil, fmt.Errorf("password update failed: %w", err)
		}

		email := user.Email
		if resp.Email != nil {
			email = *resp.Email
		}
		access, refresh, err := s.issuer.Issue(user.ID, user.Username, email)
		if err != nil {
			return nil, fmt.Errorf("failed to issue credentials: %w", err)
		}
		resp.PasswordUpdated = true
		resp.Access = access
		resp.Refresh = refresh
		l.InfoContext(ctx, "Password rotated, new credentials issued")
	}

	return resp, nil
}
