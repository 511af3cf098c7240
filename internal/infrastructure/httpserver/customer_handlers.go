package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

const reassignForbiddenMessage = "Regular members cannot reassign customers to other users"

// customerFilter reads status, assigned_to, search, skip and limit from the query string.
func customerFilter(c echo.Context) (*customer.Filter, error) {
	f := &customer.Filter{Search: c.QueryParam("search")}
	if raw := c.QueryParam("status"); raw != "" {
		st := customer.Status(raw)
		f.Status = &st
	}
	var err error
	if f.AssignedTo, err = helpers.QueryInt64Ptr(c, "assigned_to"); err != nil {
		return nil, err
	}
	if f.Skip, err = helpers.QueryInt(c, "skip", 0); err != nil {
		return nil, err
	}
	if f.Limit, err = helpers.QueryInt(c, "limit", 100); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Server) listCustomers(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	filter, err := customerFilter(c)
	if err != nil {
		return err
	}

	list, err := s.customerSvc.ListCustomers(c.Request().Context(), current, filter)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) createCustomer(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	var req customer.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.customerSvc.CreateCustomer(c.Request().Context(), current, &req)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) getCustomer(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	found, err := s.customerSvc.GetCustomer(c.Request().Context(), current, id)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, found)
}

func (s *Server) updateCustomer(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req customer.UpdateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := s.customerSvc.UpdateCustomer(c.Request().Context(), current, id, &req)
	if err != nil {
		if errors.Is(err, customer.ErrAssignForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, reassignForbiddenMessage)
		}
		return MapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteCustomer(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	deleted, err := s.customerSvc.DeleteCustomer(c.Request().Context(), current, id)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, deleted)
}

func (s *Server) listActivities(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	skip, err := helpers.QueryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := helpers.QueryInt(c, "limit", 100)
	if err != nil {
		return err
	}

	list, err := s.customerSvc.ListActivities(c.Request().Context(), current, id, skip, limit)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) createActivity(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req customer.CreateActivityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := s.customerSvc.CreateActivity(c.Request().Context(), current, id, &req)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

// exportCustomers streams the filtered customers as a CSV attachment.
func (s *Server) exportCustomers(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	filter, err := customerFilter(c)
	if err != nil {
		return err
	}

	export, err := s.customerSvc.ExportCustomers(c.Request().Context(), current, filter)
	if err != nil {
		return MapError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", export.Filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Content)
}
