package router

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dzielazebrane/archiwum/internal/apperr"
	"github.com/dzielazebrane/archiwum/internal/domain"
	"github.com/dzielazebrane/archiwum/internal/highlight"
	"github.com/dzielazebrane/archiwum/internal/middleware"
	"github.com/dzielazebrane/archiwum/internal/quota"
)

// DocumentStore loads single documents and their attachments.
type DocumentStore interface {
	GetDocument(ctx context.Context, id int64, includeUnpublished bool) (*domain.Document, *domain.Volume, error)
	Content(ctx context.Context, id int64, includeUnpublished bool) (string, error)
	Footnotes(ctx context.Context, id int64) ([]domain.Footnote, error)
	DocumentTags(ctx context.Context, id int64) ([]domain.Tag, error)
	RecentViews(ctx context.Context, user uuid.UUID, includeUnpublished bool) ([]domain.ViewedDocument, error)
}

// QuotaGate decides whether the caller may open a document's content.
type QuotaGate interface {
	Open(ctx context.Context, user uuid.UUID, level domain.AccessLevel, doc int64) (quota.Decision, error)
}

type DocumentRouter struct {
	e     *echo.Echo
	store DocumentStore
	gate  QuotaGate
}

func NewDocumentRouter(e *echo.Echo, store DocumentStore, gate QuotaGate) *DocumentRouter {
	return &DocumentRouter{
		e:     e,
		store: store,
		gate:  gate,
	}
}

func (r *DocumentRouter) Bind() {
	r.e.GET("/api/documents/:id", r.documentHandler)
	r.e.GET("/api/documents/:id/content", r.contentHandler)
	r.e.GET("/api/my-views", r.myViewsHandler)
}

type documentResponse struct {
	Document *domain.Document `json:"document"`
	Volume   *domain.Volume   `json:"volume,omitempty"`
	Tags     []domain.Tag     `json:"tags,omitempty"`
}

// documentHandler serves document metadata. Metadata is free to read for
// every tier; only content is quota-gated.
// @Summary Document metadata with volume and tags
// @Param id path int true "document id"
// @Success 200 {object} documentResponse
// @Failure 404 {object} map[string]string
// @Router /api/documents/{id} [get]
func (r *DocumentRouter) documentHandler(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	doc, volume, err := r.store.GetDocument(c.Request().Context(), id, identity.Admin)
	if err != nil {
		return err
	}
	doc.Content = ""

	tags, err := r.store.DocumentTags(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, documentResponse{
		Document: doc,
		Volume:   volume,
		Tags:     tags,
	})
}

type contentResponse struct {
	Content       string `json:"content"`
	Remaining     int    `json:"remaining"`
	AlreadyViewed bool   `json:"already_viewed,omitempty"`
}

// contentHandler serves the quota-gated document body as formatted HTML.
// The existence check runs before the gate so a miss never consumes quota.
// @Summary Document content
// @Param id path int true "document id"
// @Param q query string false "query to highlight"
// @Success 200 {object} contentResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/documents/{id}/content [get]
func (r *DocumentRouter) contentHandler(c echo.Context) error {
	identity := middleware.IdentityFrom(c)

	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	content, err := r.store.Content(c.Request().Context(), id, identity.Admin)
	if err != nil {
		return err
	}

	decision := quota.Decision{Allowed: true, Remaining: quota.Unlimited}
	if !identity.Admin {
		decision, err = r.gate.Open(c.Request().Context(), identity.UserID, identity.Level, id)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			return apperr.NewQuotaDenied(decision.Remaining)
		}
	}

	footnotes, err := r.store.Footnotes(c.Request().Context(), id)
	if err != nil {
		return err
	}

	html := highlight.FormatContent(content)
	html = highlight.ApplyFootnotes(html, footnotes)
	html = highlight.Document(html, c.QueryParam("q"))

	// Gated content must not land in shared caches.
	c.Response().Header().Set("Cache-Control", "no-store")

	return c.JSON(http.StatusOK, contentResponse{
		Content:       html,
		Remaining:     decision.Remaining,
		AlreadyViewed: decision.AlreadyViewed,
	})
}

// myViewsHandler lists the caller's view history within the quota window.
// @Summary Recent document views
// @Success 200 {array} domain.ViewedDocument
// @Router /api/my-views [get]
func (r *DocumentRouter) myViewsHandler(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if !identity.Authenticated {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	views, err := r.store.RecentViews(c.Request().Context(), identity.UserID, identity.Admin)
	if err != nil {
		return err
	}
	if views == nil {
		views = []domain.ViewedDocument{}
	}
	return c.JSON(http.StatusOK, views)
}

func parseDocumentID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.NewValidation("document id must be a positive integer")
	}
	return id, nil
}
