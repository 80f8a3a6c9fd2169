package middleware

import (
	"net/http"

	"varpipe/api/contexts"
	"varpipe/api/models/constants/chromosome"

	"github.com/labstack/echo"
)

/*
Echo middleware to validate an optional `chromosome` HTTP query
parameter, calibrating it onto the request context when present
*/
func ValidateOptionalChromosomeAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		vc := c.(*contexts.VarpipeContext)

		chromQP := chromosome.Normalize(c.QueryParam("chromosome"))
		if len(chromQP) > 0 && !chromosome.IsValidHumanChromosome(chromQP) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid 'chromosome' query parameter! Check your input")
		}

		vc.Chromosome = chromQP
		return next(c)
	}
}
