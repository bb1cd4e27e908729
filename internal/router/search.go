// Package router binds the archive API routes to the retrieval pipeline,
// the document reader and the view quota gate.
package router

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dzielazebrane/archiwum/internal/apperr"
	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/internal/middleware"
	"github.com/dzielazebrane/archiwum/internal/search"
	"github.com/dzielazebrane/archiwum/pkg/pagination"
)

const dateLayout = "2006-01-02"

// SearchEngine is the retrieval pipeline behind /api/search.
type SearchEngine interface {
	Search(ctx context.Context, f domain.SearchFilter, page, limit int) (*search.Page, error)
}

// ViewedLister answers which documents the caller already opened within the
// quota window, so listings can mark them.
type ViewedLister interface {
	ViewedDocumentIDs(ctx context.Context, user uuid.UUID) (map[int64]bool, error)
}

type SearchRouter struct {
	e      *echo.Echo
	engine SearchEngine
	viewed ViewedLister
}

func NewSearchRouter(e *echo.Echo, engine SearchEngine, viewed ViewedLister) *SearchRouter {
	return &SearchRouter{
		e:      e,
		engine: engine,
		viewed: viewed,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/api/search", r.searchHandler)
}

type searchResponse struct {
	*search.Page
	ViewedIDs []int64 `json:"viewed_ids,omitempty"`
}

// searchHandler runs one search request.
// @Summary Search the archive
// @Param q query string false "search query"
// @Param volume query int false "volume id"
// @Param type query string false "document type"
// @Param tag query int false "tag id"
// @Param date_from query string false "lower event date bound (YYYY-MM-DD)"
// @Param date_to query string false "upper event date bound (YYYY-MM-DD)"
// @Param page query int false "1-based page"
// @Success 200 {object} searchResponse
// @Router /api/search [get]
func (r *SearchRouter) searchHandler(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	filter.IncludeUnpublished = identity.Admin

	req := pagination.OffsetRequest{Size: identity.Level.PageSize()}
	if raw := c.QueryParam("page"); raw != "" {
		req.Page, _ = strconv.Atoi(raw)
	}
	_ = req.Validate()
	// Only paginating tiers may move past the first page.
	if !identity.Level.CanPaginate() {
		req.Page = 1
	}

	result, err := r.engine.Search(c.Request().Context(), *filter, req.Page, req.Size)
	if err != nil {
		return err
	}
	// Non-paginating tiers see a single page, so never advertise pages
	// they cannot request.
	if !identity.Level.CanPaginate() {
		result.Page = 1
		result.Pages = 1
	}

	resp := searchResponse{Page: result}
	if identity.Level == domain.AccessUser {
		seen, err := r.viewed.ViewedDocumentIDs(c.Request().Context(), identity.UserID)
		if err != nil {
			return err
		}
		resp.ViewedIDs = sortedIDs(seen)
	}

	return c.JSON(http.StatusOK, resp)
}

func parseFilter(c echo.Context) (*domain.SearchFilter, error) {
	f := &domain.SearchFilter{
		Query:        c.QueryParam("q"),
		DocumentType: c.QueryParam("type"),
	}

	if raw := c.QueryParam("volume"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.NewValidationWrap("volume must be an integer", err)
		}
		f.VolumeID = &id
	}

	if raw := c.QueryParam("tag"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperr.NewValidationWrap("tag must be an integer", err)
		}
		f.TagID = &id
	}

	if raw := c.QueryParam("date_from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, apperr.NewValidationWrap("date_from must be YYYY-MM-DD", err)
		}
		f.DateFrom = &t
	}

	if raw := c.QueryParam("date_to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, apperr.NewValidationWrap("date_to must be YYYY-MM-DD", err)
		}
		f.DateTo = &t
	}

	return f, nil
}

func sortedIDs(set map[int64]bool) []int64 {
	if len(set) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
