// Package authz resolves role memberships into back-office access decisions.
//
// The tables in this file are the single source of truth for what each role
// tier may do. There is no inheritance between tiers; the super admin tier
// bypasses the grant table entirely.
package authz

// Tier is the coarse privilege level derived from a user's role-key set.
type Tier string

const (
	TierSuperAdmin  Tier = "super_admin"
	TierAdmin       Tier = "admin"
	TierOperations  Tier = "operations"
	TierOps         Tier = "ops"
	TierIT          Tier = "it"
	TierSocialMedia Tier = "social_media"
	// TierNone means the user holds no back-office tier.
	TierNone Tier = ""
)

// Role keys understood by the resolver. A user holds a set of these.
// creator and partner are real role keys but never grant a back-office tier.
const (
	RoleSuperAdmin  = "super_admin"
	RoleAdmin       = "admin"
	RoleOperations  = "operations"
	RoleOps         = "ops"
	RoleIT          = "it"
	RoleSocialMedia = "social_media"
	RoleCreator     = "creator"
	RolePartner     = "partner"
)

// Capability is a single named permission atom. manage_X never implies
// view_X; grant lists enumerate both when both are intended.
type Capability string

const (
	CapViewOverview     Capability = "view_overview"
	CapViewUsers        Capability = "view_users"
	CapManageUsers      Capability = "manage_users"
	CapViewContent      Capability = "view_content"
	CapManageContent    Capability = "manage_content"
	CapViewOperations   Capability = "view_operations"
	CapManageOperations Capability = "manage_operations"
	CapViewSecurity     Capability = "view_security"
	CapManageSecurity   Capability = "manage_security"
	CapViewSocial       Capability = "view_social"
	CapManageSocial     Capability = "manage_social"
	CapViewSettings     Capability = "view_settings"
	CapManageSettings   Capability = "manage_settings"
	CapManageAPISecrets Capability = "manage_api_secrets"
	CapViewAnalytics    Capability = "view_analytics"
)

// tierPriority fixes the order in which overlapping role keys are resolved
// into a single tier. Legacy data contains users with several tags; only one
// tier drives the grant, so the order must be deterministic.
var tierPriority = []struct {
	key  string
	tier Tier
}{
	{RoleAdmin, TierAdmin},
	{RoleOperations, TierOperations},
	{RoleOps, TierOps},
	{RoleIT, TierIT},
	{RoleSocialMedia, TierSocialMedia},
}

// tierGrants maps each tier to the explicit, finite capability list it holds.
// TierSuperAdmin is deliberately absent: it is a universal override checked
// before this table is consulted.
var tierGrants = map[Tier][]Capability{
	TierAdmin: {
		CapViewOverview,
		CapViewUsers, CapManageUsers,
		CapViewContent, CapManageContent,
		CapViewOperations, CapManageOperations,
		CapViewSecurity, CapManageSecurity,
		CapViewSocial, CapManageSocial,
		CapViewSettings, CapManageSettings,
		CapManageAPISecrets,
		CapViewAnalytics,
	},
	TierOperations: {
		CapViewOverview,
		CapViewOperations, CapManageOperations,
		CapViewContent,
		CapViewAnalytics,
	},
	// ops is a legacy alias of operations kept as its own tier so existing
	// assignments keep working without a data migration.
	TierOps: {
		CapViewOverview,
		CapViewOperations, CapManageOperations,
		CapViewContent,
		CapViewAnalytics,
	},
	TierIT: {
		CapViewOverview,
		CapViewSecurity, CapManageSecurity,
		CapViewOperations,
		CapViewSettings,
	},
	TierSocialMedia: {
		CapViewOverview,
		CapViewSocial, CapManageSocial,
		CapViewContent, CapManageContent,
	},
}

// resourceRequirements maps each named back-office surface to the capability
// atoms that justify access; holding any one of them is sufficient. Unknown
// resource names fail closed.
var resourceRequirements = map[string][]Capability{
	"overview":   {CapViewOverview},
	"users":      {CapViewUsers, CapManageUsers},
	"content":    {CapViewContent, CapManageContent},
	"operations": {CapViewOperations, CapManageOperations},
	"security":   {CapViewSecurity, CapManageSecurity},
	"social":     {CapViewSocial, CapManageSocial},
	"settings":   {CapViewSettings, CapManageSettings},
	"secrets":    {CapManageAPISecrets},
	"analytics":  {CapViewAnalytics},
}

// Resources lists the known back-office surfaces in no particular order.
func Resources() []string {
	names := make([]string, 0, len(resourceRequirements))
	for name := range resourceRequirements {
		names = append(names, name)
	}
	return names
}
