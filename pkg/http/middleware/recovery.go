package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"FinCrawl/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into a 500 answered by echo's error handler,
// logging the stack once.
func Recover(l *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				l.Error("http handler panic",
					logger.Error(perr),
					logger.String("method", c.Request().Method),
					logger.String("route", c.Path()),
					logger.String("stack", string(debug.Stack())),
				)
				err = echo.NewHTTPError(http.StatusInternalServerError).SetInternal(perr)
			}()
			return next(c)
		}
	}
}
