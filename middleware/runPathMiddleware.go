package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a usable `path` HTTP query parameter
was provided when submitting a run; paths may not escape the
configured run-config directory
*/
func MandateRunConfigPathAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.QueryParam("path")
		if len(path) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'path' query parameter for run submission!")
		}

		if strings.Contains(path, "..") {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid 'path' query parameter! Check your input")
		}

		return next(c)
	}
}
