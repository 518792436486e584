// Package middleware holds the echo middleware chain: request logging,
// request-ID propagation, and method/content-type validation. Requests
// are unauthenticated.
package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
)

// Logging provides structured request logging.
func Logging() echo.MiddlewareFunc {
	return emw.LoggerWithConfig(emw.LoggerConfig{
		Format:           `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","method":"${method}","uri":"${uri}","status":${status},"latency_human":"${latency_human}"}` + "\n",
		CustomTimeFormat: time.RFC3339,
	})
}

// RequestID propagates or generates an X-Request-Id header.
func RequestID() echo.MiddlewareFunc {
	return emw.RequestID()
}
