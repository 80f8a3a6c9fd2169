package calls

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"varpipe/api/contexts"
	"varpipe/api/models/dtos"
	"varpipe/api/models/indexes"
	"varpipe/api/mvc"
	esRepo "varpipe/api/repositories/elasticsearch"
	callsService "varpipe/api/services/calls"

	"github.com/labstack/echo"
	"github.com/mitchellh/mapstructure"
)

func CallsGetByRunId(c echo.Context) error {
	fmt.Printf("[%s] - CallsGetByRunId hit!\n", time.Now())
	// retrieve run Ids from query parameter (comma separated)
	runIds := strings.Split(c.QueryParam("ids"), ",")
	if len(runIds[0]) == 0 {
		// if no ids were provided, assume "wildcard" search
		runIds = []string{"*"}
	}

	return executeGetByIds(c, runIds, true)
}

func CallsGetBySampleId(c echo.Context) error {
	fmt.Printf("[%s] - CallsGetBySampleId hit!\n", time.Now())
	// retrieve sample Ids from query parameter (comma separated)
	sampleIds := strings.Split(c.QueryParam("ids"), ",")
	if len(sampleIds[0]) == 0 {
		// if no ids were provided, assume "wildcard" search
		sampleIds = []string{"*"}
	}

	return executeGetByIds(c, sampleIds, false)
}

func CallsCountByRunId(c echo.Context) error {
	fmt.Printf("[%s] - CallsCountByRunId hit!\n", time.Now())
	// retrieve single run id from query parameter and map to a list
	// to conform to function signature
	singleRunIdSlice := []string{c.QueryParam("id")}
	if len(singleRunIdSlice[0]) == 0 {
		// if no id was provided, assume "wildcard" search
		singleRunIdSlice = []string{"*"}
	}

	return executeCountByIds(c, singleRunIdSlice, true)
}

func CallsCountBySampleId(c echo.Context) error {
	fmt.Printf("[%s] - CallsCountBySampleId hit!\n", time.Now())
	// retrieve single sample id from query parameter and map to a list
	// to conform to function signature
	singleSampleIdSlice := []string{c.QueryParam("id")}
	if len(singleSampleIdSlice[0]) == 0 {
		// if no id was provided, assume "wildcard" search
		singleSampleIdSlice = []string{"*"}
	}

	return executeCountByIds(c, singleSampleIdSlice, false)
}

func GetCallsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetCallsOverview hit!\n", time.Now())

	es := c.(*contexts.VarpipeContext).Es7Client
	cfg := c.(*contexts.VarpipeContext).Config

	resultsMap := callsService.GetCallsOverview(es, cfg)

	return c.JSON(http.StatusOK, resultsMap)
}

func executeGetByIds(c echo.Context, ids []string, isRunIdQuery bool) error {
	cfg := c.(*contexts.VarpipeContext).Config

	var es, chromosome, lowerBound, upperBound, caller, genomeBuild, sortByPosition = mvc.RetrieveCommonElements(c)

	sizeQP := c.QueryParam("size")
	var (
		defaultSize = 100
		size        int
	)

	size = defaultSize
	if len(sizeQP) > 0 {
		parsedSize, sErr := strconv.Atoi(sizeQP)

		if sErr == nil && parsedSize != 0 {
			size = parsedSize
		}
	}

	// prepare response
	respDTO := dtos.CallsGetResponse{
		Results: make([]dtos.CallsQueryResult, 0),
	}
	respDTOMux := sync.RWMutex{}

	var errors []error
	errorMux := sync.RWMutex{}

	// TODO: optimize - make 1 repo call with all ids at once
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)

		go func(_id string) {
			defer wg.Done()

			callsResult := dtos.CallsQueryResult{
				Calls: make([]indexes.Call, 0),
			}

			var (
				docs      map[string]interface{}
				searchErr error
			)
			if isRunIdQuery {
				fmt.Printf("Executing Get-Calls for RunId %s\n", _id)
				callsResult.QueryId = fmt.Sprintf("runId:%s", _id)

				docs, searchErr = esRepo.GetCallsByRunOrSampleIdInPositionRange(cfg, es,
					chromosome, lowerBound, upperBound,
					_id, "", // note : "" is for sampleId
					caller, genomeBuild,
					size, sortByPosition)
			} else {
				// implied sampleId query
				fmt.Printf("Executing Get-Calls for SampleId %s\n", _id)
				callsResult.QueryId = fmt.Sprintf("sampleId:%s", _id)

				docs, searchErr = esRepo.GetCallsByRunOrSampleIdInPositionRange(cfg, es,
					chromosome, lowerBound, upperBound,
					"", _id, // note : "" is for runId
					caller, genomeBuild,
					size, sortByPosition)
			}

			if searchErr != nil {
				errorMux.Lock()
				errors = append(errors, searchErr)
				errorMux.Unlock()
				return
			}

			// -- map call index models to the call result dto
			callsResult.GenomeBuild = genomeBuild
			callsResult.Chromosome = chromosome
			callsResult.Start = lowerBound
			callsResult.End = upperBound

			// gather data from "hits"
			docsHits := docs["hits"].(map[string]interface{})["hits"]
			allDocHits := []map[string]interface{}{}
			mapstructure.Decode(docsHits, &allDocHits)

			// grab _source for each hit
			for _, r := range allDocHits {
				source := r["_source"]
				byteSlice, _ := json.Marshal(source)

				// cast map[string]interface{} to call document
				var resultingCall indexes.Call
				if err := json.Unmarshal(byteSlice, &resultingCall); err != nil {
					fmt.Println("failed to unmarshal:", err)
					continue
				}

				// accumulate structs
				callsResult.Calls = append(callsResult.Calls, resultingCall)
			}

			respDTOMux.Lock()
			respDTO.Results = append(respDTO.Results, callsResult)
			respDTOMux.Unlock()
		}(id)
	}

	wg.Wait()

	if len(errors) == 0 {
		respDTO.Status = 200
		respDTO.Message = "Success"
	} else {
		respDTO.Status = 500
		respDTO.Message = "Something went wrong.. Please contact the administrator!"
	}

	return c.JSON(http.StatusOK, respDTO)
}

func executeCountByIds(c echo.Context, ids []string, isRunIdQuery bool) error {
	cfg := c.(*contexts.VarpipeContext).Config

	var es, chromosome, lowerBound, upperBound, caller, genomeBuild, _ = mvc.RetrieveCommonElements(c)

	respDTO := dtos.CallsCountResponse{}
	respDTOMux := sync.RWMutex{}

	var errors []error
	errorMux := sync.RWMutex{}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)

		go func(_id string) {
			defer wg.Done()

			var (
				docs     map[string]interface{}
				countErr error
			)
			if isRunIdQuery {
				fmt.Printf("Executing Count-Calls for RunId %s\n", _id)

				docs, countErr = esRepo.CountCallsByRunOrSampleIdInPositionRange(cfg, es,
					chromosome, lowerBound, upperBound,
					_id, "", // note : "" is for sampleId
					caller, genomeBuild)
			} else {
				// implied sampleId query
				fmt.Printf("Executing Count-Calls for SampleId %s\n", _id)

				docs, countErr = esRepo.CountCallsByRunOrSampleIdInPositionRange(cfg, es,
					chromosome, lowerBound, upperBound,
					"", _id, // note : "" is for runId
					caller, genomeBuild)
			}

			if countErr != nil {
				errorMux.Lock()
				errors = append(errors, countErr)
				errorMux.Unlock()
				return
			}

			if docs["count"] != nil {
				respDTOMux.Lock()
				respDTO.Count += int(docs["count"].(float64))
				respDTOMux.Unlock()
			}
		}(id)
	}

	wg.Wait()

	if len(errors) == 0 {
		respDTO.Status = 200
		respDTO.Message = "Success"
	} else {
		respDTO.Status = 500
		respDTO.Message = "Something went wrong.. Please contact the administrator!"
	}

	return c.JSON(http.StatusOK, respDTO)
}

func GetRuns(c echo.Context) error {
	fmt.Printf("[%s] - GetRuns hit!\n", time.Now())

	es := c.(*contexts.VarpipeContext).Es7Client
	cfg := c.(*contexts.VarpipeContext).Config

	runId := c.QueryParam("id")

	docs, searchErr := esRepo.GetRuns(cfg, es, runId)
	if searchErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch runs!")
	}

	// gather data from "hits"
	docsHits := docs["hits"].(map[string]interface{})["hits"]
	allDocHits := []map[string]interface{}{}
	mapstructure.Decode(docsHits, &allDocHits)

	// grab _source for each hit
	allRuns := make([]indexes.Run, 0)
	for _, r := range allDocHits {
		source := r["_source"]
		byteSlice, _ := json.Marshal(source)

		// cast map[string]interface{} to run document
		var resultingRun indexes.Run
		if err := json.Unmarshal(byteSlice, &resultingRun); err != nil {
			fmt.Println("failed to unmarshal:", err)
			continue
		}

		// accumulate structs
		allRuns = append(allRuns, resultingRun)
	}

	return c.JSON(http.StatusOK, allRuns)
}
