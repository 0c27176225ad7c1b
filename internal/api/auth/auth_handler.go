package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/momentum-app/momentum-api/app/observability/metrics"
	"github.com/momentum-app/momentum-api/internal/api"
)

// AuthHandler handles HTTP requests for the account/session lifecycle.
type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup creates a new account and returns the first credential pair.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Signup(ctx, req)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.Get().SignupRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		var verr *api.ValidationError
		if errors.As(err, &verr) {
			api.ValidationErrorResponse(w, r, verr)
			return
		}
		h.logger.ErrorContext(ctx, "Signup failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create account")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

// Login authenticates a user, stamping first_login_at on the first success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(ctx, req.Username, req.Password)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.Get().LoginRequestsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)))

	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.logger.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Login failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// Refresh exchanges a valid refresh token for a new credential pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Refresh == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	resp, err := h.authService.Refresh(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "Token refresh failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Token refresh failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// UpdateAccount changes the caller's email and/or rotates their password.
// Unexpected internal failures are deliberately surfaced as a generic 500.
func (h *AuthHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateAccountRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.UpdateAccount(ctx, userID, req)
	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			api.ErrorResponse(w, r, http.StatusBadRequest, userFacingMessage(err))
			return
		}
		h.logger.ErrorContext(ctx, "Account update failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update account")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// userFacingMessage strips the wrapped sentinel suffix from a credential
// error so the client sees only the leading description.
func userFacingMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmailInvalid):
		return "Please provide a valid email address."
	case errors.Is(err, ErrEmailInUse):
		return "This email is already in use."
	case errors.Is(err, ErrCurrentPasswordRequired):
		return "Current password is required to set a new password."
	case errors.Is(err, ErrCurrentPasswordWrong):
		return "Current password is incorrect."
	default:
		return "Invalid credentials"
	}
}
