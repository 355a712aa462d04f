package recommend

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kivaw/kivaw/internal/observability"
	"github.com/kivaw/kivaw/internal/platform/httpx"
)

// Handler exposes the recommendation endpoint.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler. Metrics may be nil in tests.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers recommendation routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/recommendations", h.Recommend)
}

type recommendResponse struct {
	Results []ScoredResult `json:"results"`
}

// Recommend scores the catalog against the posted situational input.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	results, err := h.service.Recommend(r.Context(), input)
	if err != nil {
		h.logger.Error("recommend", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if results == nil {
		results = []ScoredResult{}
	}
	h.metrics.RecommendationsServed(len(results))
	httpx.JSON(w, http.StatusOK, recommendResponse{Results: results})
}
