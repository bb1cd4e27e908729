package router

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dzielazebrane/archiwum/internal/apperr"
	"github.com/dzielazebrane/archiwum/internal/middleware"
)

// ViewResetter reopens a user's view quota by clearing their window entries.
type ViewResetter interface {
	ResetViews(ctx context.Context, user uuid.UUID) (int64, error)
}

type AdminRouter struct {
	e      *echo.Echo
	ledger ViewResetter
}

func NewAdminRouter(e *echo.Echo, ledger ViewResetter) *AdminRouter {
	return &AdminRouter{
		e:      e,
		ledger: ledger,
	}
}

func (r *AdminRouter) Bind() {
	r.e.POST("/api/admin/users/:id/reset-views", r.resetViewsHandler)
}

// resetViewsHandler clears a user's quota window.
// @Summary Reset a user's view quota
// @Param id path string true "user uuid"
// @Success 200 {object} map[string]int64
// @Failure 403 {object} map[string]string
// @Router /api/admin/users/{id}/reset-views [post]
func (r *AdminRouter) resetViewsHandler(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if !identity.Admin {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}

	user, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("user id must be a uuid", err)
	}

	removed, err := r.ledger.ResetViews(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"removed": removed})
}
