package tracker

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/momentum-app/momentum-api/app/observability/metrics"
	"github.com/momentum-app/momentum-api/internal/api"
	"github.com/momentum-app/momentum-api/internal/api/auth"
)

// TrackerHandler handles HTTP requests for the owned wellness records.
type TrackerHandler struct {
	trackerService TrackerService
	logger         *slog.Logger
}

func NewTrackerHandler(trackerService TrackerService, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{
		trackerService: trackerService,
		logger:         logger,
	}
}

func recordWrite(r *http.Request, kind RecordKind, op string) {
	metrics.Get().RecordWritesTotal.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("operation", op),
	))
}

// callerID pulls the authenticated user out of the context; a missing id
// means the middleware did not run and the request cannot proceed.
func (h *TrackerHandler) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// recordID parses the {id} route parameter. A malformed id gets the same
// 404 as an absent record so nothing about other users' ids leaks.
func (h *TrackerHandler) recordID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Record not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TrackerHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *api.ValidationError
	switch {
	case errors.As(err, &verr):
		api.ValidationErrorResponse(w, r, verr)
	case errors.Is(err, api.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Record not found")
	default:
		h.logger.ErrorContext(r.Context(), action, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, action)
	}
}

func (h *TrackerHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	log, err := h.trackerService.CreateWorkout(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create workout log")
		return
	}
	recordWrite(r, KindWorkout, "create")
	api.WriteJSONResponse(w, r, http.StatusCreated, log)
}

func (h *TrackerHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	logs, err := h.trackerService.ListWorkouts(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list workout logs")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, logs)
}

func (h *TrackerHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, KindWorkout)
}

func (h *TrackerHandler) CreateNutrition(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req CreateNutritionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	log, err := h.trackerService.CreateNutrition(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create nutrition log")
		return
	}
	recordWrite(r, KindNutrition, "create")
	api.WriteJSONResponse(w, r, http.StatusCreated, log)
}

func (h *TrackerHandler) ListNutrition(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	logs, err := h.trackerService.ListNutrition(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list nutrition logs")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, logs)
}

func (h *TrackerHandler) DeleteNutrition(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, KindNutrition)
}

func (h *TrackerHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req CreateGoalRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := h.trackerService.CreateGoal(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create goal")
		return
	}
	recordWrite(r, KindGoal, "create")
	api.WriteJSONResponse(w, r, http.StatusCreated, goal)
}

func (h *TrackerHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	goals, err := h.trackerService.ListGoals(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list goals")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, goals)
}

func (h *TrackerHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	goalID, ok := h.recordID(w, r)
	if !ok {
		return
	}
	goal, err := h.trackerService.GetGoal(r.Context(), goalID, userID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch goal")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, goal)
}

func (h *TrackerHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	goalID, ok := h.recordID(w, r)
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := h.trackerService.UpdateGoal(r.Context(), goalID, userID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to update goal")
		return
	}
	recordWrite(r, KindGoal, "update")
	api.WriteJSONResponse(w, r, http.StatusOK, goal)
}

func (h *TrackerHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, KindGoal)
}

func (h *TrackerHandler) CreateMindfulness(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req CreateMindfulnessRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	log, err := h.trackerService.CreateMindfulness(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to create mindfulness log")
		return
	}
	recordWrite(r, KindMindfulness, "create")
	api.WriteJSONResponse(w, r, http.StatusCreated, log)
}

func (h *TrackerHandler) ListMindfulness(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	logs, err := h.trackerService.ListMindfulness(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to list mindfulness logs")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, logs)
}

func (h *TrackerHandler) DeleteMindfulness(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, KindMindfulness)
}

func (h *TrackerHandler) deleteRecord(w http.ResponseWriter, r *http.Request, kind RecordKind) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	recordID, ok := h.recordID(w, r)
	if !ok {
		return
	}
	if err := h.trackerService.DeleteRecord(r.Context(), kind, recordID, userID); err != nil {
		h.writeServiceError(w, r, err, "Failed to delete record")
		return
	}
	recordWrite(r, kind, "delete")
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
