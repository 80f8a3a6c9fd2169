package mvc

import (
	"varpipe/api/contexts"
	"varpipe/api/models/constants"
	gb "varpipe/api/models/constants/genome-build"
	s "varpipe/api/models/constants/sort"
	vc "varpipe/api/models/constants/variant-caller"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

func RetrieveCommonElements(c echo.Context) (*elasticsearch.Client, string, int, int,
	constants.VariantCaller, constants.GenomeBuild, constants.SortDirection) {

	vpc := c.(*contexts.VarpipeContext)
	es := vpc.Es7Client

	chromosome := vpc.Chromosome

	lowerBound := vpc.LowerBound
	upperBound := vpc.UpperBound

	var caller constants.VariantCaller
	callerQP := c.QueryParam("caller")
	if len(callerQP) > 0 && vc.IsKnownVariantCaller(callerQP) {
		caller = vc.CastToVariantCaller(callerQP)
	}

	var genomeBuild constants.GenomeBuild
	genomeBuildQP := c.QueryParam("genomeBuild")
	if len(genomeBuildQP) > 0 && gb.IsKnownGenomeBuild(genomeBuildQP) {
		genomeBuild = gb.CastToGenomeBuild(genomeBuildQP)
	}

	sortByPosition := s.CastToSortDirection(c.QueryParam("sortByPosition"))

	return es, chromosome, lowerBound, upperBound, caller, genomeBuild, sortByPosition
}
