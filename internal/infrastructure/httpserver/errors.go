package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/realestate-crm/internal/core/domain/auth"
	"github.com/avatarctic/realestate-crm/internal/core/domain/billing"
	"github.com/avatarctic/realestate-crm/internal/core/domain/customer"
	"github.com/avatarctic/realestate-crm/internal/core/domain/lookup"
	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/core/domain/user"
	"github.com/avatarctic/realestate-crm/internal/core/ports"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/helpers"
	customMiddleware "github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

type errorMapping struct {
	err     error
	code    int
	message string
}

// domainErrors lists the caller-facing status and message for each domain sentinel.
var domainErrors = []errorMapping{
	{user.ErrNotFound, http.StatusNotFound, "User not found"},
	{user.ErrEmailTaken, http.StatusBadRequest, "A user with this email already exists."},
	{user.ErrUsernameTaken, http.StatusBadRequest, "A user with this username already exists."},
	{user.ErrLastOwner, http.StatusBadRequest, "Cannot delete the last owner"},
	{user.ErrRoleChange, http.StatusForbidden, "Regular members cannot change their role"},
	{auth.ErrForbidden, http.StatusForbidden, customMiddleware.ForbiddenMessage},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, helpers.CredentialsMessage},
	{auth.ErrTokenRevoked, http.StatusUnauthorized, helpers.CredentialsMessage},
	{auth.ErrInvalidResetToken, http.StatusBadRequest, "Invalid or expired reset token"},
	{customer.ErrNotFound, http.StatusNotFound, "Customer not found"},
	{customer.ErrForbidden, http.StatusForbidden, "Not enough permissions to access this customer"},
	{customer.ErrFilterForbidden, http.StatusForbidden, "Regular members can only filter by their own ID"},
	{customer.ErrAssignForbidden, http.StatusForbidden, "Regular members can only create customers assigned to themselves"},
	{customer.ErrCustomerMismatch, http.StatusBadRequest, "Customer ID in path must match customer ID in request body"},
	{billing.ErrNotFound, http.StatusNotFound, "Billing record not found"},
	{billing.ErrInvalidStatus, http.StatusBadRequest, "Invalid billing status"},
	{lookup.ErrInvalidPostalCode, http.StatusBadRequest, "Invalid postal code format"},
	{lookup.ErrInvalidPhoneNumber, http.StatusBadRequest, "Invalid phone number format"},
	{lookup.ErrMissingCriteria, http.StatusBadRequest, "At least one search criterion (name or address) must be provided"},
	{ratelimit.ErrRateLimitExceeded, http.StatusTooManyRequests, customMiddleware.RateLimitMessage},
}

// MapError converts a service error into the HTTP error the caller sees.
// Unknown errors become a bare 500 with the cause kept as Internal.
func MapError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	var ve *ports.ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.code, m.message)
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage).SetInternal(err)
}

// httpErrorHandler renders every error as {"detail": ...}.
func (s *Server) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := MapError(err)
	if he.Code == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", "Bearer")
	}
	if he.Code >= http.StatusInternalServerError && s.logger != nil {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		s.logger.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
			"status": he.Code,
		}).WithError(cause).Error("request failed")
	}

	detail := he.Message
	if msg, ok := detail.(string); ok && msg == "" {
		detail = http.StatusText(he.Code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(he.Code)
	} else {
		writeErr = c.JSON(he.Code, ErrorResponse{Detail: detail})
	}
	if writeErr != nil && s.logger != nil {
		s.logger.WithError(writeErr).Warn("failed to write error response")
	}
}
