package domain

// AccessLevel is the privilege tier derived from role claims. It governs
// content visibility, pagination size and the view quota. Exactly one level
// applies per request.
type AccessLevel string

const (
	AccessGuest   AccessLevel = "guest"
	AccessUser    AccessLevel = "user"
	AccessDonator AccessLevel = "donator"
	AccessVIP     AccessLevel = "vip"
)

const (
	RoleUser    = "ROLE_USER"
	RoleDonator = "ROLE_DONATOR"
	RoleVIP     = "ROLE_VIP"
	RoleAdmin   = "ROLE_ADMIN"
)

// ResolveAccessLevel maps role claims to a single access level. VIP wins
// over donator; any other authenticated caller is a plain user.
func ResolveAccessLevel(authenticated bool, roles []string) AccessLevel {
	if !authenticated {
		return AccessGuest
	}
	has := make(map[string]bool, len(roles))
	for _, r := range roles {
		has[r] = true
	}
	switch {
	case has[RoleVIP]:
		return AccessVIP
	case has[RoleDonator]:
		return AccessDonator
	default:
		return AccessUser
	}
}

// CanPaginate reports whether the tier may move past the first result page.
func (l AccessLevel) CanPaginate() bool {
	return l == AccessDonator || l == AccessVIP
}

// PageSize is the result page size for the tier.
func (l AccessLevel) PageSize() int {
	if l.CanPaginate() {
		return 20
	}
	return 10
}

// UnlimitedViews reports whether the tier opens documents without touching
// the view ledger.
func (l AccessLevel) UnlimitedViews() bool {
	return l == AccessDonator || l == AccessVIP
}
