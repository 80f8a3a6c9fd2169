package runs

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"varpipe/api/contexts"
	runsModel "varpipe/api/models/runs"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

// RunsSubmit queues a run config for processing. The `path`
// query parameter is relative to the configured run-config
// directory.
func RunsSubmit(c echo.Context) error {
	fmt.Printf("[%s] - RunsSubmit hit!\n", time.Now())
	cfg := c.(*contexts.VarpipeContext).Config
	runService := c.(*contexts.VarpipeContext).RunService

	configPath := path.Join(cfg.Api.RunConfigPath, c.QueryParam("path"))
	if _, statErr := os.Stat(configPath); statErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Run config %s not found!", c.QueryParam("path")))
	}

	startTime := time.Now()

	// check if there is an already existing run request state
	if runService.PathAlreadyRunning(configPath) {
		return c.JSON(http.StatusOK, runsModel.RunResponseDTO{
			ConfigPath: configPath,
			State:      runsModel.Error,
			Message:    "Config already being processed..",
		})
	}

	// if not, execute
	newRequestState := &runsModel.RunRequest{
		Id:         uuid.New(),
		ConfigPath: configPath,
		State:      runsModel.Queued,
		CreatedAt:  fmt.Sprintf("%v", startTime),
	}
	runService.RunRequestChan <- newRequestState

	go runService.ProcessRun(newRequestState)

	return c.JSON(http.StatusOK, runsModel.RunResponseDTO{
		Id:         newRequestState.Id,
		ConfigPath: newRequestState.ConfigPath,
		State:      newRequestState.State,
		Message:    "Successfully queued..",
	})
}

func GetAllRunRequests(c echo.Context) error {
	fmt.Printf("[%s] - GetAllRunRequests hit!\n", time.Now())
	rzMap := c.(*contexts.VarpipeContext).RunService.RunRequestMap

	// transform map of id-to-runRequests to an array
	m := make([]*runsModel.RunRequest, 0, len(rzMap))
	for _, val := range rzMap {
		m = append(m, val)
	}
	return c.JSON(http.StatusOK, m)
}

func RunsIndexingStats(c echo.Context) error {
	fmt.Printf("[%s] - RunsIndexingStats hit!\n", time.Now())
	runService := c.(*contexts.VarpipeContext).RunService

	return c.JSON(http.StatusOK, runService.CallBulkIndexer.Stats())
}
