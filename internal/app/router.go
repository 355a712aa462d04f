package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kivaw/kivaw/internal/auth"
	"github.com/kivaw/kivaw/internal/authz"
	"github.com/kivaw/kivaw/internal/content"
	"github.com/kivaw/kivaw/internal/observability"
	"github.com/kivaw/kivaw/internal/recommend"
	"github.com/kivaw/kivaw/internal/shared"
	"github.com/kivaw/kivaw/internal/social"
	"github.com/kivaw/kivaw/internal/users"
	"github.com/kivaw/kivaw/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Guard          *authz.Guard

	AuthHandler      *auth.Handler
	RecommendHandler *recommend.Handler
	ContentHandler   *content.Handler
	SocialHandler    *social.Handler
	UsersHandler     *users.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Kivaw defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		params.ContentHandler.MountPublicRoutes(r)
		if params.RecommendHandler != nil {
			params.RecommendHandler.MountRoutes(r)
		}
		if params.SocialHandler != nil {
			params.SocialHandler.MountRoutes(r)
		}
	})

	r.Route("/admin", func(r chi.Router) {
		if params.UsersHandler != nil {
			params.UsersHandler.MountRoutes(r)
		}
		params.ContentHandler.MountAdminRoutes(r, params.Guard)
		if params.JobHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(params.Guard.RequireResource("operations"))
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
