package httpserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the body of /healthz and /health.
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Timestamp    string            `json:"timestamp,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (s *Server) checkDependencies(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	healthy := true
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			deps[hc.Name()] = "unhealthy"
			healthy = false
			if s.logger != nil {
				s.logger.WithError(err).WithField("dependency", hc.Name()).Warn("health check failed")
			}
		} else {
			deps[hc.Name()] = "healthy"
		}
	}
	return deps, healthy
}

// healthz is the platform liveness probe: a static 200 while the process
// serves. Dependency probing lives on /health.
func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.config.ProjectName,
	})
}

// healthCheck reports 503 when any dependency is unhealthy.
func (s *Server) healthCheck(c echo.Context) error {
	deps, healthy := s.checkDependencies(c.Request().Context())
	resp := HealthResponse{
		Status:       "healthy",
		Service:      s.config.ProjectName,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Dependencies: deps,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// docs lists the registered routes; /docs and /redoc serve the same listing.
func (s *Server) docs(c echo.Context) error {
	routes := make([]routeInfo, 0, len(s.echo.Routes()))
	for _, r := range s.echo.Routes() {
		if r.Method == echo.RouteNotFound {
			continue
		}
		routes = append(routes, routeInfo{Method: r.Method, Path: r.Path})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	return c.JSON(http.StatusOK, map[string]any{
		"title":    s.config.ProjectName,
		"pipeline": s.pipeline.Names(),
		"routes":   routes,
	})
}
