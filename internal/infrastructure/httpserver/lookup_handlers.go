package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

func (s *Server) lookupPostalCode(c echo.Context) error {
	res, err := s.lookupSvc.PostalCode(c.Request().Context(), c.Param("postal_code"))
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) lookupPhoneNumber(c echo.Context) error {
	res, err := s.lookupSvc.PhoneNumber(c.Request().Context(), c.Param("phone_number"))
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) registryLogin(c echo.Context) error {
	res, err := s.lookupSvc.RegistryLogin(c.Request().Context())
	if err != nil {
		return MapError(err)
	}
	if !res.Success {
		return echo.NewHTTPError(http.StatusInternalServerError, res.Message)
	}
	return c.JSON(http.StatusOK, res)
}

// registrySearch takes name and address from the query string, as the registry form does.
func (s *Server) registrySearch(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	criteria := lookup.RegistrySearchCriteria{
		Name:    c.QueryParam("name"),
		Address: c.QueryParam("address"),
	}

	res, err := s.lookupSvc.RegistrySearch(c.Request().Context(), current.ID, criteria)
	if err != nil {
		return MapError(err)
	}
	if !res.Success {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search Registry Library")
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) registryDetails(c echo.Context) error {
	res, err := s.lookupSvc.RegistryDetails(c.Request().Context(), c.Param("registry_id"))
	if err != nil {
		return MapError(err)
	}
	if !res.Success {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get registry details")
	}
	return c.JSON(http.StatusOK, res)
}

// registryRecords lists stored extractions. Members only see their own; owners may filter by created_by.
func (s *Server) registryRecords(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	createdBy, err := helpers.QueryInt64Ptr(c, "created_by")
	if err != nil {
		return err
	}
	if !current.IsOwner() {
		id := current.ID
		createdBy = &id
	}
	skip, err := helpers.QueryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := helpers.QueryInt(c, "limit", 100)
	if err != nil {
		return err
	}

	records, err := s.lookupSvc.RegistryRecords(c.Request().Context(), createdBy, skip, limit)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, records)
}
