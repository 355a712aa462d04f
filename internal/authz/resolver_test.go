package authz

import "testing"

func TestResolveTierSuperAdminOverride(t *testing.T) {
	cases := [][]string{
		nil,
		{},
		{"admin"},
		{"ops", "it"},
		{"garbage", ""},
	}
	for _, roleKeys := range cases {
		if got := ResolveTier(roleKeys, true); got != TierSuperAdmin {
			t.Fatalf("ResolveTier(%v, true) = %q, want super_admin", roleKeys, got)
		}
		if !HasCapability(roleKeys, true, CapManageAPISecrets) {
			t.Fatalf("super admin flag must grant any capability for roles %v", roleKeys)
		}
	}
	if got := ResolveTier([]string{"super_admin"}, false); got != TierSuperAdmin {
		t.Fatalf("super_admin role key should resolve tier, got %q", got)
	}
}

func TestResolveTierPriorityOrder(t *testing.T) {
	// Users with several legacy tags resolve deterministically.
	cases := []struct {
		roles []string
		want  Tier
	}{
		{[]string{"social_media", "admin"}, TierAdmin},
		{[]string{"it", "operations"}, TierOperations},
		{[]string{"it", "ops"}, TierOps},
		{[]string{"social_media", "it"}, TierIT},
		{[]string{"social_media"}, TierSocialMedia},
		{[]string{"creator"}, TierNone},
		{[]string{"partner", "creator"}, TierNone},
		{nil, TierNone},
	}
	for _, tc := range cases {
		if got := ResolveTier(tc.roles, false); got != tc.want {
			t.Fatalf("ResolveTier(%v) = %q, want %q", tc.roles, got, tc.want)
		}
	}
}

func TestResolveTierNormalizesKeys(t *testing.T) {
	if ResolveTier([]string{"Admin "}, false) != ResolveTier([]string{"admin"}, false) {
		t.Fatalf("role keys must be case and whitespace insensitive")
	}
	if got := ResolveTier([]string{"  SUPER_ADMIN"}, false); got != TierSuperAdmin {
		t.Fatalf("expected super_admin, got %q", got)
	}
}

func TestHasCapabilityNoTier(t *testing.T) {
	if HasCapability(nil, false, CapViewUsers) {
		t.Fatalf("no roles must not grant capabilities")
	}
	if HasCapability([]string{"partner"}, false, CapViewOverview) {
		t.Fatalf("partner role key must not grant back-office capabilities")
	}
}

func TestHasCapabilityOpsTier(t *testing.T) {
	roles := []string{"ops"}
	if !HasCapability(roles, false, CapViewOperations) {
		t.Fatalf("ops tier should hold view_operations")
	}
	if HasCapability(roles, false, CapManageAPISecrets) {
		t.Fatalf("ops tier must not hold manage_api_secrets")
	}
}

func TestManageDoesNotImplyView(t *testing.T) {
	// social_media holds manage_content and view_content via explicit
	// enumeration; it must not pick up unrelated view atoms.
	roles := []string{"social_media"}
	if !HasCapability(roles, false, CapManageContent) {
		t.Fatalf("social_media should hold manage_content")
	}
	if HasCapability(roles, false, CapViewUsers) {
		t.Fatalf("social_media must not hold view_users")
	}
}

func TestCanAccessResourceFailsClosed(t *testing.T) {
	if CanAccessResource([]string{"admin"}, false, "nonexistent_resource") {
		t.Fatalf("unknown resource must never grant access")
	}
	if CanAccessResource(nil, true, "nonexistent_resource") {
		t.Fatalf("unknown resource must fail closed even for super admins")
	}
}

func TestCanAccessResourceEmptyRoles(t *testing.T) {
	if got := ResolveTier(nil, false); got != TierNone {
		t.Fatalf("empty roles should resolve to none, got %q", got)
	}
	if CanAccessResource(nil, false, "users") {
		t.Fatalf("empty roles must not access users")
	}
}

func TestCanAccessResourceDisjunction(t *testing.T) {
	// operations holds view_content but not manage_content; the content
	// resource requires either one.
	if !CanAccessResource([]string{"operations"}, false, "content") {
		t.Fatalf("operations should reach content via view_content")
	}
	if CanAccessResource([]string{"it"}, false, "content") {
		t.Fatalf("it tier should not reach content")
	}
	if !CanAccessResource([]string{"admin"}, false, "secrets") {
		t.Fatalf("admin should reach secrets")
	}
	if CanAccessResource([]string{"operations"}, false, "secrets") {
		t.Fatalf("operations must not reach secrets")
	}
}

func TestNormalizeRoleKeys(t *testing.T) {
	got := NormalizeRoleKeys([]string{" Admin ", "ADMIN", "", "ops", "Ops"})
	want := []string{"admin", "ops"}
	if len(got) != len(want) {
		t.Fatalf("normalize: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("normalize: got %v want %v", got, want)
		}
	}
}

func TestTierGrantsCopies(t *testing.T) {
	grants := TierGrants(TierIT)
	if len(grants) == 0 {
		t.Fatalf("it tier should have grants")
	}
	grants[0] = Capability("mutated")
	if TierGrants(TierIT)[0] == Capability("mutated") {
		t.Fatalf("TierGrants must return a copy")
	}
	if TierGrants(TierSuperAdmin) != nil {
		t.Fatalf("super admin is not table-driven")
	}
}
