package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"varpipe/api/contexts"
	vam "varpipe/api/middleware"
	"varpipe/api/models"
	serviceInfo "varpipe/api/models/constants/service-info"
	callsMvc "varpipe/api/mvc/calls"
	runsMvc "varpipe/api/mvc/runs"
	serviceInfoMvc "varpipe/api/mvc/service-info"
	workflowsMvc "varpipe/api/mvc/workflows"
	esRepo "varpipe/api/repositories/elasticsearch"
	orchestrationService "varpipe/api/services/orchestration"
	runsService "varpipe/api/services/runs"
	sanitationService "varpipe/api/services/sanitation"
	uploadService "varpipe/api/services/upload"
	"varpipe/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tRun Config Directory Path : %s \n"+
		"\tWork Directory Path : %s \n"+
		"\tGenome Directory Path : %s \n"+
		"\tBulk Indexing Cap : %d\n"+
		"\tRun Processing Concurrency Level : %d\n"+
		"\tRegion Processing Concurrency Level : %d\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.RunConfigPath,
		cfg.Api.WorkPath,
		cfg.Api.GenomePath,
		cfg.Api.BulkIndexingCap,
		cfg.Api.RunProcessingConcurrencyLevel,
		cfg.Api.RegionProcessingConcurrencyLevel,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch
	es := utils.CreateEsConnection(&cfg)
	if setupErr := esRepo.SetupIndices(&cfg, es); setupErr != nil {
		fmt.Printf("Failed to set up indices : %v\n", setupErr)
		os.Exit(2)
	}

	// Service Singletons
	oz := orchestrationService.NewOrchestrationService(&cfg)
	uz := uploadService.NewUploadService(&cfg)
	rz := runsService.NewRunService(es, &cfg, oz, uz)
	sanitationService.NewSanitationService(es, &cfg, rz)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom VarPipe" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.VarpipeContext{
				Context:              c,
				Es7Client:            es,
				Config:               &cfg,
				RunService:           rz,
				OrchestrationService: oz,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Runs
	e.GET("/runs/submit", runsMvc.RunsSubmit,
		// middleware
		vam.MandateRunConfigPathAttribute)
	e.GET("/runs/requests", runsMvc.GetAllRunRequests)
	e.GET("/runs/stats", runsMvc.RunsIndexingStats)
	e.GET("/runs", callsMvc.GetRuns)

	// -- Calls
	e.GET("/calls/overview", callsMvc.GetCallsOverview)

	e.GET("/calls/get/by/runId", callsMvc.CallsGetByRunId,
		// middleware
		vam.ValidateOptionalChromosomeAttribute,
		vam.MandateCalibratedBounds,
		vam.MandateGenomeBuildAttribute)
	e.GET("/calls/get/by/sampleId", callsMvc.CallsGetBySampleId,
		// middleware
		vam.ValidateOptionalChromosomeAttribute,
		vam.MandateCalibratedBounds,
		vam.MandateGenomeBuildAttribute)

	e.GET("/calls/count/by/runId", callsMvc.CallsCountByRunId,
		// middleware
		vam.ValidateOptionalChromosomeAttribute,
		vam.MandateCalibratedBounds,
		vam.MandateGenomeBuildAttribute)
	e.GET("/calls/count/by/sampleId", callsMvc.CallsCountBySampleId,
		// middleware
		vam.ValidateOptionalChromosomeAttribute,
		vam.MandateCalibratedBounds,
		vam.MandateGenomeBuildAttribute)

	// -- Workflows
	e.GET("/workflows", workflowsMvc.WorkflowsGet)
	e.GET("/workflows/:file", workflowsMvc.WorkflowsServeFile)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
