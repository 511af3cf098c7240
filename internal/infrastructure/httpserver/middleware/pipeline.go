package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Stage names, in the order NewPipeline places them.
const (
	StageCORS      = "cors"
	StageRateLimit = "rate_limit"
	StageCSRF      = "csrf"
)

// Stage is one named request governance step.
type Stage struct {
	Name       string
	Middleware echo.MiddlewareFunc
}

// Pipeline runs its stages first to last in front of route dispatch.
type Pipeline []Stage

// NewPipeline builds the CORS -> rate limit -> CSRF pipeline.
func NewPipeline(cors, rateLimit, csrf echo.MiddlewareFunc) Pipeline {
	return Pipeline{
		{Name: StageCORS, Middleware: cors},
		{Name: StageRateLimit, Middleware: rateLimit},
		{Name: StageCSRF, Middleware: csrf},
	}
}

// Names lists stage names in execution order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Name
	}
	return names
}

// Then wraps h so that p[0] runs first.
func (p Pipeline) Then(h echo.HandlerFunc) echo.HandlerFunc {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Middleware != nil {
			h = p[i].Middleware(h)
		}
	}
	return h
}

// Apply registers the stages on e; echo runs Use middleware in registration order.
func (p Pipeline) Apply(e *echo.Echo) {
	for _, s := range p {
		if s.Middleware != nil {
			e.Use(s.Middleware)
		}
	}
}

// corsHeaders are the request headers browsers may send cross-origin. A "*"
// entry is not honoured on credentialed requests, so the list is explicit.
var corsHeaders = []string{
	echo.HeaderAuthorization,
	echo.HeaderContentType,
	echo.HeaderAccept,
	echo.HeaderOrigin,
	echo.HeaderXRequestedWith,
}

// CORS allows the configured origins, "https://*.example.com" wildcards
// included, with credentials. extraHeaders are appended to the allowed
// request headers; the CSRF header goes here.
func CORS(allowedOrigins []string, extraHeaders ...string) echo.MiddlewareFunc {
	headers := append(append([]string{}, corsHeaders...), extraHeaders...)
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: headers,
	})
}
