package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/timesheet/core/internal/adapters/http"
	"github.com/timesheet/core/internal/application/session"
	"github.com/timesheet/core/internal/ports"
)

// sessionMiddleware resolves the bearer token through a session gate and
// only lets authenticated requests through
func (s *Server) sessionMiddleware(authService ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			token := httpHandlers.BearerToken(c.Request())

			gate := session.NewGate()
			defer gate.Close()

			if err := gate.Subscribe(ctx, authService.SessionSource(token)); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve session")
			}

			snapshot := gate.Await(ctx)
			if !snapshot.Authenticated() {
				s.logger.LogSecurityEvent("unauthenticated_request", "", c.RealIP(), map[string]interface{}{
					"endpoint":  c.Request().URL.Path,
					"has_token": token != "",
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
			}

			httpHandlers.SetSession(c, snapshot.User, claims)

			return next(c)
		}
	}
}
