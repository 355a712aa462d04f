package content

import (
	"github.com/go-chi/chi/v5"

	"github.com/kivaw/kivaw/internal/authz"
)

// MountPublicRoutes registers the consumer-facing catalog routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/items", h.ListPublic)
	r.Get("/items/{id}", h.Show)
}

// MountAdminRoutes registers the back-office catalog routes behind the
// content capability guards.
func (h *Handler) MountAdminRoutes(r chi.Router, guard *authz.Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireCapability(authz.CapViewContent))
		r.Get("/content", h.List)
		r.Get("/content/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireCapability(authz.CapManageContent))
		r.Post("/content", h.Create)
		r.Patch("/content/{id}", h.Update)
		r.Delete("/content/{id}", h.Delete)
	})
}
