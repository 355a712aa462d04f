package authz

import "strings"

// NormalizeRoleKeys trims, lowercases and deduplicates raw role keys.
// Empty entries are dropped. A nil input yields an empty set, never nil
// dereference; role data in the wild contains values like "Admin ".
func NormalizeRoleKeys(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	keys := make([]string, 0, len(raw))
	for _, key := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// ResolveTier derives the single back-office tier for a role-key set.
//
// A trusted super-admin signal always wins, even over an empty or failed
// role lookup: the override exists to prevent lockout when role membership
// cannot be read. Otherwise the first match in the fixed priority order
// (admin, operations, ops, it, social_media) decides.
func ResolveTier(roleKeys []string, isSuperAdmin bool) Tier {
	keys := NormalizeRoleKeys(roleKeys)
	if isSuperAdmin {
		return TierSuperAdmin
	}
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	if _, ok := set[RoleSuperAdmin]; ok {
		return TierSuperAdmin
	}
	for _, entry := range tierPriority {
		if _, ok := set[entry.key]; ok {
			return entry.tier
		}
	}
	return TierNone
}

// HasCapability reports whether the resolved tier holds the capability atom.
// Super admins hold every capability unconditionally.
func HasCapability(roleKeys []string, isSuperAdmin bool, capability Capability) bool {
	tier := ResolveTier(roleKeys, isSuperAdmin)
	if tier == TierNone {
		return false
	}
	if tier == TierSuperAdmin {
		return true
	}
	for _, granted := range tierGrants[tier] {
		if granted == capability {
			return true
		}
	}
	return false
}

// CanAccessResource reports whether any capability required by the named
// resource is held. Unknown resource names fail closed.
func CanAccessResource(roleKeys []string, isSuperAdmin bool, resource string) bool {
	required, ok := resourceRequirements[strings.ToLower(strings.TrimSpace(resource))]
	if !ok {
		return false
	}
	for _, capability := range required {
		if HasCapability(roleKeys, isSuperAdmin, capability) {
			return true
		}
	}
	return false
}

// TierGrants returns a copy of the grant list for a tier. Super admin
// returns nil because it is not table-driven.
func TierGrants(tier Tier) []Capability {
	grants, ok := tierGrants[tier]
	if !ok {
		return nil
	}
	out := make([]Capability, len(grants))
	copy(out, grants)
	return out
}
