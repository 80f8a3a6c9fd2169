package sanitation

import (
	"encoding/json"
	"fmt"
	"time"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/go-co-op/gocron"
	"github.com/mitchellh/mapstructure"

	"varpipe/api/models"
	"varpipe/api/models/indexes"
	"varpipe/api/models/runs"
	esRepo "varpipe/api/repositories/elasticsearch"
	runsService "varpipe/api/services/runs"
)

// Queued/Running requests untouched for longer than this are
// presumed abandoned and flipped to an error state.
const staleRequestCutoff = 24 * time.Hour

type (
	SanitationService struct {
		Initialized bool
		Es7Client   *es7.Client
		Config      *models.Config
		RunService  *runsService.RunService
	}
)

func NewSanitationService(es *es7.Client, cfg *models.Config, rz *runsService.RunService) *SanitationService {
	ss := &SanitationService{
		Initialized: false,
		Es7Client:   es,
		Config:      cfg,
		RunService:  rz,
	}

	ss.Init()

	return ss
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// - spin up a go routine that will periodically
		//   run through a series of steps to ensure
		//   the system is "sanitary" ; i.e. in an elasticsearch
		//   context, that would mean removing call documents
		//   whose run no longer exists in the runs index
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			// clean call documents with non-existing runs
			s.Every(1).Days().At("04:00:00").Do(func() { // 12am EST
				fmt.Printf("[%s] - Running call documents cleanup..\n", time.Now())

				// - get all known runs
				runsResult, runsError := esRepo.GetRuns(ss.Config, ss.Es7Client, "")
				if runsError != nil {
					fmt.Printf("[%s] - Error getting runs : %v..\n", time.Now(), runsError)
					return
				}

				// gather data from "hits"
				docsHits := runsResult["hits"].(map[string]interface{})["hits"]
				allDocHits := []map[string]interface{}{}
				mapstructure.Decode(docsHits, &allDocHits)

				// grab _source for each hit
				runIds := make([]string, 0)
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
					runIds = append(runIds, resultingRun.RunId)
				}
				fmt.Printf("[%s] - Run IDs found : %v..\n", time.Now(), runIds)

				// - obtain distribution of run IDs accross all calls
				callsBuckets, callsBucketsErr := esRepo.GetCallsBucketsByKeyword(ss.Config, ss.Es7Client, "runId.keyword")
				if callsBucketsErr != nil {
					fmt.Printf("[%s] - Error getting call buckets : %v..\n", time.Now(), callsBucketsErr)
					return
				}

				callRunIds := make([]string, 0)
				if aggs, aggsOk := callsBuckets["aggregations"].(map[string]interface{}); aggsOk {
					if items, itemsOk := aggs["items"].(map[string]interface{}); itemsOk {
						if buckets, bucketsOk := items["buckets"].([]interface{}); bucketsOk {
							for _, bucket := range buckets {
								if bucketMap, bucketMapOk := bucket.(map[string]interface{}); bucketMapOk {
									// accumulate IDs found in list
									callRunIds = append(callRunIds, fmt.Sprint(bucketMap["key"]))
								}
							}
						}
					}
				}
				fmt.Printf("[%s] - Run IDs found across all calls : %v..\n", time.Now(), callRunIds)

				// obtain set-difference between call-run IDs and run IDs
				setDiff := setDifference(callRunIds, runIds)
				fmt.Printf("[%s] - Call Run ID Difference: %v..\n", time.Now(), setDiff)

				// delete calls with run IDs found in this set difference
				for _, differentId := range setDiff {
					// fire and forget
					go func(_differentId string) {
						_, _ = esRepo.DeleteCallsByRunId(ss.Config, ss.Es7Client, _differentId)
					}(differentId)
				}
			})

			// expire stale run requests stuck in a non-terminal state
			s.Every(1).Days().At("04:30:00").Do(func() {
				fmt.Printf("[%s] - Running stale run-request cleanup..\n", time.Now())

				ss.RunService.RunRequestMapMux.Lock()
				defer ss.RunService.RunRequestMapMux.Unlock()

				for _, request := range ss.RunService.RunRequestMap {
					if request.State != runs.Queued && request.State != runs.Running {
						continue
					}

					updatedAt, parseErr := time.Parse("2006-01-02 15:04:05.999999999 -0700 MST", request.UpdatedAt)
					if parseErr != nil {
						continue
					}

					if time.Since(updatedAt) > staleRequestCutoff {
						fmt.Printf("[%s] - Expiring stale run request %s..\n", time.Now(), request.Id)
						request.State = runs.Error
						request.Message = "expired; request went stale without reaching a terminal state"
						request.UpdatedAt = time.Now().String()
					}
				}
			})

			// starts the scheduler in blocking mode, which blocks
			// the current execution path
			s.StartBlocking()
		}()

		ss.Initialized = true
		fmt.Println("Sanitation Service Initialized ..")
	}
}

func setDifference(a, b []string) (c []string) {
	m := make(map[string]bool)

	for _, item := range b {
		m[item] = true
	}

	for _, item := range a {
		if _, ok := m[item]; !ok {
			c = append(c, item)
		}
	}
	return
}
