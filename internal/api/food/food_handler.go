package food

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/momentum-app/momentum-api/internal/api"
)

// FoodHandler handles HTTP requests for nutrition lookups.
type FoodHandler struct {
	foodService FoodService
	logger      *slog.Logger
}

func NewFoodHandler(foodService FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{
		foodService: foodService,
		logger:      logger,
	}
}

// Search proxies a nutrition query to the upstream provider.
func (h *FoodHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("query")
	if query == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Query parameter is required")
		return
	}

	items, err := h.foodService.Search(ctx, query)
	if err != nil {
		if errors.Is(err, api.ErrUpstream) {
			api.ErrorResponse(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Food search failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Food search failed")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, SearchResponse{Items: items})
}
