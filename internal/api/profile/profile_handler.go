package profile

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/momentum-app/momentum-api/internal/api"
	"github.com/momentum-app/momentum-api/internal/api/auth"
)

// ProfileHandler handles HTTP requests for the caller's own profile.
type ProfileHandler struct {
	profileService ProfileService
	logger         *slog.Logger
}

func NewProfileHandler(profileService ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile returns the caller's profile with aggregate log counts.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.profileService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Profile not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to load profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// UpdateProfile applies a partial update and returns the refreshed profile.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := auth.GetUserIDFromContext(ctx)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.profileService.UpdateProfile(ctx, userID, req)
	if err != nil {
		var verr *api.ValidationError
		switch {
		case errors.As(err, &verr):
			api.ValidationErrorResponse(w, r, verr)
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "Profile not found")
		default:
			h.logger.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
