package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"kodbank/internal/errors"
	"kodbank/internal/handlers"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a handler panic into a 500 with the standard error body
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				slog.Error("Panic recovered",
					"trace_id", GetTraceID(c),
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				if c.Response().Committed {
					return
				}
				err = handlers.SendError(c, errors.SystemInternalError)
			}()

			return next(c)
		}
	}
}
