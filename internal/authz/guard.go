package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kivaw/kivaw/internal/shared"
)

// Identity describes the authenticated actor as the guard needs it. The
// IsSuperAdmin flag comes from the user row itself, a trusted source that
// wins even when the role lookup is unavailable.
type Identity struct {
	UserID       string
	Email        string
	IsSuperAdmin bool
}

// IdentitySource fetches the identity for a session user ID.
type IdentitySource interface {
	Identity(ctx context.Context, userID string) (*Identity, error)
}

// RoleSource fetches raw role keys for a user.
type RoleSource interface {
	RoleKeys(ctx context.Context, userID string) ([]string, error)
}

// Guard wires authorization middleware for HTTP handlers. It owns the
// sequencing the resolver itself stays out of: session, identity, roles,
// then the pure capability decision.
type Guard struct {
	Identities IdentitySource
	Roles      RoleSource
	Cache      *RoleCache
	Logger     *slog.Logger

	// DevAllowlist grants super-admin access to the listed emails. It is
	// honored only when DevBypassEnabled is set, which callers tie to
	// non-production environments.
	DevAllowlist     []string
	DevBypassEnabled bool
}

// RequireResource allows the request through when the current user can
// access the named back-office resource. Missing identity yields 401 so the
// caller can distinguish "not signed in" from a resolved 403 denial.
func (g *Guard) RequireResource(resource string) func(http.Handler) http.Handler {
	return g.require(func(ident *Identity, roleKeys []string) bool {
		return CanAccessResource(roleKeys, ident.IsSuperAdmin, resource)
	})
}

// RequireCapability allows the request through when the current user holds
// the capability atom.
func (g *Guard) RequireCapability(capability Capability) func(http.Handler) http.Handler {
	return g.require(func(ident *Identity, roleKeys []string) bool {
		return HasCapability(roleKeys, ident.IsSuperAdmin, capability)
	})
}

func (g *Guard) require(allowed func(*Identity, []string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := g.CurrentIdentity(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			roleKeys := g.roleKeysFor(r.Context(), ident.UserID)
			if allowed(ident, roleKeys) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// CurrentIdentity resolves the signed-in identity from the request session.
// The dev allow-list is applied here so every guard sees the same bypass.
func (g *Guard) CurrentIdentity(r *http.Request) (*Identity, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return nil, false
	}
	userID := strings.TrimSpace(sess.User())
	if userID == "" {
		return nil, false
	}
	ident, err := g.Identities.Identity(r.Context(), userID)
	if err != nil || ident == nil {
		if err != nil && g.Logger != nil {
			g.Logger.Warn("authz identity lookup", slog.String("user_id", userID), slog.Any("error", err))
		}
		return nil, false
	}
	if !ident.IsSuperAdmin && g.allowlisted(ident.Email) {
		if g.Logger != nil {
			g.Logger.Warn("authz dev allowlist bypass", slog.String("email", ident.Email))
		}
		ident.IsSuperAdmin = true
	}
	return ident, true
}

// RoleKeysFor returns the normalized role keys for a user, consulting the
// cache first. A failed lookup degrades to an empty set; the super-admin
// flag on the identity still wins inside the resolver.
func (g *Guard) RoleKeysFor(ctx context.Context, userID string) []string {
	return g.roleKeysFor(ctx, userID)
}

func (g *Guard) roleKeysFor(ctx context.Context, userID string) []string {
	if keys, ok := g.Cache.Get(ctx, userID); ok {
		return keys
	}
	raw, err := g.Roles.RoleKeys(ctx, userID)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Warn("authz role lookup", slog.String("user_id", userID), slog.Any("error", err))
		}
		return nil
	}
	keys := NormalizeRoleKeys(raw)
	g.Cache.Set(ctx, userID, keys)
	return keys
}

// InvalidateRoles drops any cached role set for the user. Called on sign-in
// and sign-out so stale grants never outlive a session change.
func (g *Guard) InvalidateRoles(ctx context.Context, userID string) {
	g.Cache.Invalidate(ctx, userID)
}

func (g *Guard) allowlisted(email string) bool {
	if !g.DevBypassEnabled || email == "" {
		return false
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, entry := range g.DevAllowlist {
		if strings.ToLower(strings.TrimSpace(entry)) == email {
			return true
		}
	}
	return false
}
