package router

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/internal/middleware"
)

// Dictionary serves the filter dictionaries and corpus statistics shown
// around the search form.
type Dictionary interface {
	Volumes(ctx context.Context, includeUnpublished bool) ([]domain.Volume, error)
	Tags(ctx context.Context) ([]domain.Tag, error)
	Stats(ctx context.Context) (*domain.CorpusStats, error)
}

type MetaRouter struct {
	e    *echo.Echo
	dict Dictionary
}

func NewMetaRouter(e *echo.Echo, dict Dictionary) *MetaRouter {
	return &MetaRouter{
		e:    e,
		dict: dict,
	}
}

func (r *MetaRouter) Bind() {
	r.e.GET("/api/volumes", r.volumesHandler)
	r.e.GET("/api/tags", r.tagsHandler)
	r.e.GET("/api/stats", r.statsHandler)
}

func (r *MetaRouter) volumesHandler(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	volumes, err := r.dict.Volumes(c.Request().Context(), identity.Admin)
	if err != nil {
		return err
	}
	if volumes == nil {
		volumes = []domain.Volume{}
	}
	return c.JSON(http.StatusOK, volumes)
}

func (r *MetaRouter) tagsHandler(c echo.Context) error {
	tags, err := r.dict.Tags(c.Request().Context())
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return c.JSON(http.StatusOK, tags)
}

func (r *MetaRouter) statsHandler(c echo.Context) error {
	stats, err := r.dict.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
