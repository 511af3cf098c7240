package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

func (s *Server) dashboard(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	data, err := s.analyticsSvc.Dashboard(c.Request().Context(), current)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, data)
}

func (s *Server) statusAnalytics(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	data, err := s.analyticsSvc.Status(c.Request().Context(), current)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, data)
}

// salesPerformance is owner only; the route carries RequireOwner.
func (s *Server) salesPerformance(c echo.Context) error {
	data, err := s.analyticsSvc.SalesPerformance(c.Request().Context())
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, data)
}
