package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	CSRFMessage = "CSRF token missing or invalid"
	// csrfTokenBytes yields a 64 character hex token.
	csrfTokenBytes = 32
)

var csrfRejections = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "crm_csrf_rejections_total",
		Help: "Unsafe requests rejected for a missing or mismatched CSRF token",
	},
)

func init() {
	prometheus.MustRegister(csrfRejections)
}

type CSRFConfig struct {
	HeaderName   string
	CookieName   string
	CookieSecure bool
	ExemptPaths  []string
	// TokenFunc defaults to 32 random bytes, hex encoded.
	TokenFunc func() (string, error)
}

// CSRFMiddleware implements the double-submit cookie pattern. A GET without
// the cookie receives a fresh random token; unsafe requests must echo the
// cookie value in the header. Nothing is stored server side: a cross-site
// page can make the browser send the cookie but cannot read it, so it
// cannot produce the matching header.
type CSRFMiddleware struct {
	config CSRFConfig
	logger *logrus.Logger
}

func NewCSRFMiddleware(cfg CSRFConfig, logger *logrus.Logger) *CSRFMiddleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-CSRF-Token"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "csrf_token"
	}
	if cfg.TokenFunc == nil {
		cfg.TokenFunc = GenerateCSRFToken
	}
	return &CSRFMiddleware{config: cfg, logger: logger}
}

// HeaderName is the request header that must carry the token.
func (m *CSRFMiddleware) HeaderName() string { return m.config.HeaderName }

// GenerateCSRFToken returns 32 bytes from crypto/rand as lowercase hex.
func GenerateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func (m *CSRFMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if isSafeMethod(req.Method) {
				if req.Method == http.MethodGet {
					if _, err := c.Cookie(m.config.CookieName); err != nil {
						if err := m.issueCookie(c); err != nil {
							return err
						}
					}
				}
				return next(c)
			}

			if hasAnyPrefix(req.URL.Path, m.config.ExemptPaths) {
				return next(c)
			}

			header := req.Header.Get(m.config.HeaderName)
			cookie, err := c.Cookie(m.config.CookieName)
			if err != nil || cookie.Value == "" || header == "" ||
				subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				csrfRejections.Inc()
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{
						"client_id":  c.RealIP(),
						"method":     req.Method,
						"path":       req.URL.Path,
						"has_cookie": err == nil,
						"has_header": header != "",
					}).Warn("csrf validation failed")
				}
				return echo.NewHTTPError(http.StatusForbidden, CSRFMessage)
			}
			return next(c)
		}
	}
}

func (m *CSRFMiddleware) issueCookie(c echo.Context) error {
	token, err := m.config.TokenFunc()
	if err != nil {
		if m.logger != nil {
			m.logger.WithError(err).Error("failed to generate csrf token")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
	c.SetCookie(&http.Cookie{
		Name:     m.config.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}
