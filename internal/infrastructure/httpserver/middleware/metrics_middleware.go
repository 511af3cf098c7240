package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records every request, including the ones the
// governance pipeline rejects before dispatch.
type MetricsMiddleware struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetricsMiddleware accepts nil vectors; the handler then records nothing.
func NewMetricsMiddleware(requests *prometheus.CounterVec, latency *prometheus.HistogramVec) *MetricsMiddleware {
	return &MetricsMiddleware{requests: requests, latency: latency}
}

// finalStatus is the status the error handler will write for err.
func finalStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// routeLabel keeps label cardinality bounded by using the route template.
func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return unmatchedRoute
}

func (m *MetricsMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if m.requests == nil || m.latency == nil {
			return next
		}
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			method, route := c.Request().Method, routeLabel(c)
			m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(method, route, strconv.Itoa(finalStatus(c, err))).Inc()
			return err
		}
	}
}
