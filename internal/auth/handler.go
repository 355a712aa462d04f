package auth

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/platform/httpx"
	"github.com/kivaw/kivaw/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	guard          *authz.Guard
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager, guard *authz.Guard) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		guard:          guard,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type sessionUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type loginResponse struct {
	User      sessionUser `json:"user"`
	Tier      authz.Tier  `json:"tier"`
	Landing   string      `json:"landing"`
	CSRFToken string      `json:"csrf_token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	userID := strconv.FormatInt(user.ID, 10)
	sess.SetUser(userID)

	// A fresh sign-in must never see role data cached for a previous
	// session of the same user.
	h.guard.InvalidateRoles(r.Context(), userID)

	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	roleKeys, err := h.service.RoleKeys(r.Context(), userID)
	if err != nil {
		h.logger.Warn("login role lookup", slog.Any("error", err))
		roleKeys = nil
	}
	tier := authz.ResolveTier(roleKeys, user.IsSuperAdmin)

	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	httpx.JSON(w, http.StatusOK, loginResponse{
		User:      sessionUser{ID: user.ID, Email: user.Email, DisplayName: user.DisplayName},
		Tier:      tier,
		Landing:   LandingRoute(r.URL.Query().Get("redirect"), tier),
		CSRFToken: csrfToken,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if userID := sess.User(); userID != "" {
			h.guard.InvalidateRoles(r.Context(), userID)
		}
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email"`
	Tier      authz.Tier `json:"tier"`
	Resources []string   `json:"resources"`
}

// handleMe reports the caller's resolved tier and accessible back-office
// resources. Clients use a 401 here to distinguish "not signed in yet" from
// a per-resource denial.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.guard.CurrentIdentity(r)
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
		return
	}
	roleKeys := h.guard.RoleKeysFor(r.Context(), ident.UserID)

	var accessible []string
	for _, resource := range authz.Resources() {
		if authz.CanAccessResource(roleKeys, ident.IsSuperAdmin, resource) {
			accessible = append(accessible, resource)
		}
	}
	sort.Strings(accessible)

	httpx.JSON(w, http.StatusOK, meResponse{
		UserID:    ident.UserID,
		Email:     ident.Email,
		Tier:      authz.ResolveTier(roleKeys, ident.IsSuperAdmin),
		Resources: accessible,
	})
}
