package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/realestate-crm/internal/core/domain/ratelimit"
	"github.com/avatarctic/realestate-crm/internal/infrastructure/httpserver/middleware"
	tmocks "github.com/avatarctic/realestate-crm/test/mocks"
)

func recordingStage(name string, trace *[]string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			*trace = append(*trace, name)
			return next(c)
		}
	}
}

func TestPipeline_NamesFollowGovernanceOrder(t *testing.T) {
	p := middleware.NewPipeline(nil, nil, nil)
	assert.Equal(t, []string{middleware.StageCORS, middleware.StageRateLimit, middleware.StageCSRF}, p.Names())
}

func TestPipeline_ThenRunsFirstStageFirst(t *testing.T) {
	var trace []string
	p := middleware.NewPipeline(
		recordingStage("cors", &trace),
		recordingStage("rate_limit", &trace),
		recordingStage("csrf", &trace),
	)
	h := p.Then(func(c echo.Context) error {
		trace = append(trace, "handler")
		return nil
	})
	require.NoError(t, h(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
	assert.Equal(t, []string{"cors", "rate_limit", "csrf", "handler"}, trace)
}

func TestPipeline_ApplyKeepsOrderOnEcho(t *testing.T) {
	var trace []string
	e := echo.New()
	middleware.NewPipeline(
		recordingStage("cors", &trace),
		recordingStage("rate_limit", &trace),
		recordingStage("csrf", &trace),
	).Apply(e)
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"cors", "rate_limit", "csrf"}, trace)
}

// A rejected client never reaches the CSRF stage.
func TestGovernance_RateLimitShortCircuitsCSRF(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{AdmitFn: func(ctx context.Context, clientID string) (ratelimit.Decision, error) {
		return ratelimit.Rejected, nil
	}}
	mc := middleware.NewMiddlewareCollection(&tmocks.AuthServiceMock{}, limiter, nil, middleware.CSRFConfig{}, logrus.New(), nil, nil)

	e := echo.New()
	mc.Governance([]string{"http://localhost:3000"}).Apply(e)
	e.POST("/api/v1/customers", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/customers", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGovernance_PreflightAnsweredByCORS(t *testing.T) {
	limiter := &tmocks.RateLimiterServiceMock{}
	mc := middleware.NewMiddlewareCollection(&tmocks.AuthServiceMock{}, limiter, nil, middleware.CSRFConfig{}, logrus.New(), nil, nil)

	e := echo.New()
	mc.Governance([]string{"http://localhost:3000"}).Apply(e)
	e.POST("/api/v1/customers", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/customers", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	req.Header.Set(echo.HeaderAccessControlRequestHeaders, "authorization,content-type,x-csrf-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	assert.Empty(t, limiter.Clients)

	allowed := rec.Header().Get(echo.HeaderAccessControlAllowHeaders)
	assert.NotEqual(t, "*", allowed, "wildcard is ignored on credentialed requests")
	for _, h := range []string{"Authorization", "Content-Type", "X-CSRF-Token"} {
		assert.Contains(t, strings.Split(allowed, ","), h)
	}
}

func TestGovernance_UnsafeRequestWithoutTokenIsForbidden(t *testing.T) {
	mc := middleware.NewMiddlewareCollection(&tmocks.AuthServiceMock{}, &tmocks.RateLimiterServiceMock{}, nil, middleware.CSRFConfig{}, logrus.New(), nil, nil)

	e := echo.New()
	mc.Governance(nil).Apply(e)
	e.POST("/api/v1/customers", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/customers", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.CSRFMessage)
}
