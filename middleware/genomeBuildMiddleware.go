package middleware

import (
	"net/http"

	gb "varpipe/api/models/constants/genome-build"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a valid `genomeBuild` HTTP query parameter was provided
*/
func MandateGenomeBuildAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// check for genomeBuild query parameter
		genomeBuild := c.QueryParam("genomeBuild")
		if len(genomeBuild) == 0 || !gb.IsKnownGenomeBuild(genomeBuild) {
			// if no build was provided, or it was invalid, return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing or unknown genomeBuild!")
		}

		return next(c)
	}
}
