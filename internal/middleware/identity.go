// Package middleware carries request-scoped concerns of the archive API.
package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/pkg/stringsutil"
)

const (
	headerUserID = "X-User-Id"
	headerRoles  = "X-User-Roles"

	identityKey = "identity"
)

// Identity is the caller as asserted by the authenticating proxy in front of
// this service. Requests without a parseable user id are guests.
type Identity struct {
	UserID        uuid.UUID
	Authenticated bool
	Roles         []string
	Level         domain.AccessLevel
	Admin         bool
}

// ResolveIdentity reads the trusted identity headers and stores the resolved
// Identity in the request context.
func ResolveIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := Identity{Level: domain.AccessGuest}

			if raw := c.Request().Header.Get(headerUserID); raw != "" {
				if userID, err := uuid.Parse(raw); err == nil {
					id.UserID = userID
					id.Authenticated = true
				}
			}

			if id.Authenticated {
				roles := strings.Split(c.Request().Header.Get(headerRoles), ",")
				for i, r := range roles {
					roles[i] = strings.TrimSpace(r)
				}
				id.Roles = stringsutil.RemoveEmptyStrings(roles)
				id.Level = domain.ResolveAccessLevel(true, id.Roles)
				for _, r := range id.Roles {
					if r == domain.RoleAdmin {
						id.Admin = true
						break
					}
				}
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the resolved identity, or a guest identity when the
// middleware did not run.
func IdentityFrom(c echo.Context) Identity {
	if id, ok := c.Get(identityKey).(Identity); ok {
		return id
	}
	return Identity{Level: domain.AccessGuest}
}
