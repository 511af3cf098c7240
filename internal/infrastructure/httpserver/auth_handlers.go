package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
)

const formLoginFailedMessage = "Incorrect email/username or password"

func (s *Server) register(c echo.Context) error {
	var req user.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := s.userService.Register(c.Request().Context(), &req)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

// login accepts the OAuth2 password form; username may be an email or a username.
func (s *Server) login(c echo.Context) error {
	var req auth.FormLoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := s.authSvc.Login(c.Request().Context(), req.Username, req.Password, true)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, formLoginFailedMessage)
		}
		return MapError(err)
	}
	return c.JSON(http.StatusOK, token)
}

func (s *Server) loginJSON(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := s.authSvc.Login(c.Request().Context(), req.Email, req.Password, false)
	if err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, token)
}

func (s *Server) logout(c echo.Context) error {
	token, err := helpers.GetAccessTokenFromContext(c)
	if err != nil {
		return err
	}

	if err := s.authSvc.Logout(c.Request().Context(), token); err != nil {
		return MapError(err)
	}

	if u, err := helpers.GetCurrentUserFromContext(c); err == nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user logged out")
	}
	return c.JSON(http.StatusOK, auth.MessageResponse{Message: auth.MsgLoggedOut})
}

// requestPasswordReset answers identically whether or not the email is registered.
func (s *Server) requestPasswordReset(c echo.Context) error {
	var req auth.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.authSvc.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		// the caller must not learn whether delivery was attempted
		if s.logger != nil {
			s.logger.WithError(err).Error("password reset request failed")
		}
	}
	return c.JSON(http.StatusOK, auth.MessageResponse{Message: auth.MsgResetRequested})
}

func (s *Server) confirmPasswordReset(c echo.Context) error {
	var req auth.PasswordResetConfirm
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := s.authSvc.ConfirmPasswordReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return MapError(err)
	}
	return c.JSON(http.StatusOK, auth.MessageResponse{Message: auth.MsgPasswordResetDone})
}
