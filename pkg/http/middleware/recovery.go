package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "TradeSentry/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns handler panics into a 500 with the standard error body.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(perr),
						applogger.String("path", c.Path()),
						applogger.String("stack", string(debug.Stack())),
					)
					if !c.Response().Committed {
						err = c.JSON(http.StatusInternalServerError, map[string]string{
							"error": "Internal Server Error",
						})
					}
				}
			}()
			return next(c)
		}
	}
}
