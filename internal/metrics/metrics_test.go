package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/attractions/:id", func(c echo.Context) error {
		if c.Param("id") == "404" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.NoContent(http.StatusOK)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/attractions/:id", "200"))
	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attractions/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/attractions/:id", "200"))
	assert.Equal(t, before+2, after)

	notFound := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/attractions/:id", "404"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attractions/404", nil))
	assert.Equal(t, notFound+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/attractions/:id", "404")))
}
