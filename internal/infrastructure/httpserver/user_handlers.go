package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

func (s *Server) listUsers(c echo.Context) error {
	skip, err := helpers.QueryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := helpers.QueryInt(c, "limit", 100)
	if err != nil {
		return err
	}

	users, err := s.userService.ListUsers(c.Request().Context(), user.ListParams{Skip: skip, Limit: limit})
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (s *Server) getOwnProfile(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, current)
}

func (s *Server) getUser(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	u, err := s.userService.GetUser(c.Request().Context(), current, id)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req user.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := s.userService.UpdateUser(c.Request().Context(), current, id, &req)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) deleteUser(c echo.Context) error {
	current, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		return err
	}

	u, err := s.userService.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return MapError(err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"actor_id": current.ID, "user_id": u.ID}).Info("user deleted")
	}
	return c.JSON(http.StatusOK, u)
}
