package contexts

import (
	"varpipe/api/models"
	orchestrationService "varpipe/api/services/orchestration"
	runsService "varpipe/api/services/runs"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other variables
	VarpipeContext struct {
		echo.Context
		Es7Client            *es7.Client
		Config               *models.Config
		RunService           *runsService.RunService
		OrchestrationService *orchestrationService.OrchestrationService

		// middleware-calibrated query attributes
		Chromosome string
		LowerBound int
		UpperBound int
	}
)
