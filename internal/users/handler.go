package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/platform/httpx"
)

// Handler wires the user directory endpoint.
type Handler struct {
	logger *slog.Logger
	repo   Repository
	guard  *authz.Guard
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo Repository, guard *authz.Guard) *Handler {
	return &Handler{logger: logger, repo: repo, guard: guard}
}

// MountRoutes registers the directory behind the users resource guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireResource("users"))
		r.Get("/users", h.List)
	})
}

type listResponse struct {
	Users []DirectoryEntry `json:"users"`
	Total int              `json:"total"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	entries, total, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []DirectoryEntry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Users: entries, Total: total})
}
