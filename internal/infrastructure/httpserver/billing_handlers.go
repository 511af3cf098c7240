package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listBilling(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	list, err := s.billingSvc.ListBilling(c.Request().Context(), current)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) createBilling(c echo.Context) error {
	var req billing.CreateBillingRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.billingSvc.CreateBilling(c.Request().Context(), &req)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateBillingStatus(c echo.Context) error {
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req billing.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := s.billingSvc.UpdateStatus(c.Request().Context(), id, &req)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}
