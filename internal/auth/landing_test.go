package auth

import (
	"testing"

	"github.com/kivaw/kivaw/internal/authz"
)

func TestLandingRoute(t *testing.T) {
	cases := []struct {
		name     string
		redirect string
		tier     authz.Tier
		want     string
	}{
		{"redirect wins over tier", "/admin/content", authz.TierAdmin, "/admin/content"},
		{"tier default without redirect", "", authz.TierOperations, "/admin"},
		{"root fallback", "", authz.TierNone, "/"},
		{"absolute url rejected", "https://evil.example/", authz.TierNone, "/"},
		{"scheme relative rejected", "//evil.example/x", authz.TierAdmin, "/admin"},
		{"backslash escape rejected", `/\evil.example`, authz.TierNone, "/"},
		{"whitespace trimmed", "  /saves  ", authz.TierNone, "/saves"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LandingRoute(tc.redirect, tc.tier); got != tc.want {
				t.Fatalf("LandingRoute(%q, %q) = %q, want %q", tc.redirect, tc.tier, got, tc.want)
			}
		})
	}
}
