package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PostOnlyJSON enforces the transport contract: every RPC endpoint is
// POST-only, application/json. An empty Content-Type is tolerated; echo's
// binder rejects anything it can't parse anyway.
func PostOnlyJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodPost {
				return c.JSON(http.StatusMethodNotAllowed, map[string]string{
					"error": "method not allowed",
				})
			}

			ct := c.Request().Header.Get(echo.HeaderContentType)
			if ct != "" && ct != echo.MIMEApplicationJSON && !hasJSONPrefix(ct) {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "Content-Type must be application/json",
				})
			}

			return next(c)
		}
	}
}

func hasJSONPrefix(contentType string) bool {
	const prefix = echo.MIMEApplicationJSON + ";"
	return len(contentType) >= len(prefix) && contentType[:len(prefix)] == prefix
}
