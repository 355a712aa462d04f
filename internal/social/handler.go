package social

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kivaw/kivaw/internal/platform/httpx"
	"github.com/kivaw/kivaw/internal/shared"
)

// Handler wires reaction HTTP endpoints. All routes assume a signed-in
// session; the router mounts them behind the session check.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers reaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/items/{id}/reactions/{kind}", h.React)
	r.Delete("/items/{id}/reactions/{kind}", h.Unreact)
	r.Get("/items/{id}/reactions", h.Counts)
	r.Get("/me/saves", h.MySaves)
}

func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	userID, itemID, kind, ok := h.params(w, r)
	if !ok {
		return
	}
	if err := h.service.React(r.Context(), userID, itemID, kind); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unreact(w http.ResponseWriter, r *http.Request) {
	userID, itemID, kind, ok := h.params(w, r)
	if !ok {
		return
	}
	if err := h.service.Unreact(r.Context(), userID, itemID, kind); err != nil {
		h.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return
	}
	counts, err := h.service.CountsForItem(r.Context(), itemID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, counts)
}

type savesResponse struct {
	ItemIDs []int64 `json:"item_ids"`
}

func (h *Handler) MySaves(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
		return
	}
	ids, err := h.service.SavedItemIDs(r.Context(), userID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	httpx.JSON(w, http.StatusOK, savesResponse{ItemIDs: ids})
}

func (h *Handler) params(w http.ResponseWriter, r *http.Request) (userID, itemID int64, kind Kind, ok bool) {
	userID, okUser := sessionUserID(r)
	if !okUser {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
		return 0, 0, "", false
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid item id")
		return 0, 0, "", false
	}
	kind = Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown reaction kind")
		return 0, 0, "", false
	}
	return userID, itemID, kind, true
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownKind) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.logger.Error("social", slog.Any("error", err))
	httpx.RespondError(w, err)
}

func sessionUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
