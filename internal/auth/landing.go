package auth

import (
	"strings"

	"github.com/kivaw/kivaw/internal/authz"
)

// LandingRoute decides where a user goes after sign-in. The precedence is
// fixed: an explicit redirect parameter wins, then the role-tier default,
// then the root fallback. Only same-origin relative paths are honored so the
// parameter cannot be abused as an open redirect.
func LandingRoute(redirectParam string, tier authz.Tier) string {
	if path := sanitizeRedirect(redirectParam); path != "" {
		return path
	}
	if tier != authz.TierNone {
		return "/admin"
	}
	return "/"
}

func sanitizeRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return ""
	}
	// "//host" and "/\host" are scheme-relative escapes, not local paths.
	if strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	return raw
}
