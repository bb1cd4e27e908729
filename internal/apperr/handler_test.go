package apperr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func invoke(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	GlobalErrorHandler()(err, c)
	return rec
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Run("validation error maps to 400", func(t *testing.T) {
		rec := invoke(t, NewValidation("volume must be an integer"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "volume must be an integer")
	})

	t.Run("wrapped validation error still recognized", func(t *testing.T) {
		err := NewValidationWrap("bad date", errors.New("parse failure"))
		rec := invoke(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		rec := invoke(t, NewNotFound("document", 42))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "document 42 not found")
	})

	t.Run("quota denial maps to 403 with remaining", func(t *testing.T) {
		rec := invoke(t, NewQuotaDenied(0))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), `"remaining":0`)
		assert.Contains(t, rec.Body.String(), "view quota exhausted")
	})

	t.Run("echo http error passes its status through", func(t *testing.T) {
		rec := invoke(t, echo.NewHTTPError(http.StatusUnauthorized, "authentication required"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown error maps to 500", func(t *testing.T) {
		rec := invoke(t, errors.New("pool exhausted"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "internal server error")
	})
}
