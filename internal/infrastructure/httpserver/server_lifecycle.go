package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) addr() string {
	return net.JoinHostPort(s.config.Host, s.config.Port)
}

func (s *Server) tlsEnabled() bool {
	return s.config.TLSCertFile != "" && s.config.TLSKeyFile != ""
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout. A listener failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.addr(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	log := s.logger.WithFields(map[string]interface{}{
		"addr":     httpServer.Addr,
		"tls":      s.tlsEnabled(),
		"pipeline": s.pipeline.Names(),
	})
	if !s.tlsEnabled() && s.config.Environment == "production" {
		log.Warn("TLS certificates not configured; CSRF cookies marked Secure will not reach plain HTTP clients")
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.tlsEnabled() {
			err = s.echo.StartTLS(httpServer.Addr, s.config.TLSCertFile, s.config.TLSKeyFile)
		} else {
			err = s.echo.StartServer(httpServer)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info("CRM API listening")

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Draining in-flight requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Echo exposes the router, mainly for httptest-driven tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
