// Package callback runs the loopback HTTP listener that receives control back
// from the OAuth provider redirect. It replaces the browser client's "resume
// on page load with a query marker" mechanism: the backend redirects here with
// ?oauth=success, the marker is consumed exactly once, and the waiting
// coordinator is signalled to re-check connection state.
package callback

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	markerParam = "oauth"
	markerValue = "success"
)

// Server wraps the loopback echo instance. Besides the OAuth callback route
// it exposes a liveness probe and the Prometheus metrics endpoint.
type Server struct {
	echo    *echo.Echo
	log     zerolog.Logger
	signals chan string
}

func NewServer(log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	s := &Server{
		echo: e,
		log:  log,
		// Buffered so the provider redirect is never blocked on the consumer.
		signals: make(chan string, 1),
	}

	e.GET("/callback", s.handleCallback)
	e.GET("/health", s.handleLiveness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s
}

// Notify delivers the platform hint (possibly empty) once per consumed
// redirect marker.
func (s *Server) Notify() <-chan string {
	return s.signals
}

// Start blocks serving on addr until Shutdown.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// handleCallback consumes the redirect marker and strips it from the visible
// URL by redirecting to the marker-free location, so a reload of the landing
// page cannot re-trigger the resume branch.
func (s *Server) handleCallback(c echo.Context) error {
	cleaned, marked := StripMarker(c.Request().URL)
	if !marked {
		return c.String(http.StatusOK, "No authorization pending. You can close this window.\n")
	}

	platform := c.QueryParam("platform")
	select {
	case s.signals <- platform:
	default:
		// A signal is already pending; the coordinator refreshes everything
		// anyway, so dropping the duplicate is safe.
	}

	s.log.Info().Str("platform", platform).Msg("oauth redirect received")
	return c.Redirect(http.StatusFound, cleaned)
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// StripMarker removes the oauth=success marker from u and returns the cleaned
// URL string plus whether the marker was present.
func StripMarker(u *url.URL) (string, bool) {
	q := u.Query()
	if q.Get(markerParam) != markerValue {
		return u.String(), false
	}
	q.Del(markerParam)

	cleaned := *u
	cleaned.RawQuery = q.Encode()
	return cleaned.String(), true
}
