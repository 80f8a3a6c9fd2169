package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"varpipe/api/models"
	"varpipe/api/models/indexes"
	"varpipe/api/utils"

	"github.com/elastic/go-elasticsearch/v7"
)

// IndexRun writes a run summary document once a run reaches
// a terminal state.
func IndexRun(cfg *models.Config, es *elasticsearch.Client, run *indexes.Run) error {
	runData, marshallErr := json.Marshal(run)
	if marshallErr != nil {
		log.Fatalf("Cannot encode run %s: %s\n", run.RunId, marshallErr)
	}

	res, indexErr := es.Index(
		runsIndex,
		bytes.NewReader(runData),
		es.Index.WithContext(context.Background()),
		es.Index.WithDocumentID(run.RunId),
		es.Index.WithRefresh("true"),
	)
	if indexErr != nil {
		fmt.Printf("Error indexing run document: %s\n", indexErr)
		return indexErr
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index run %s : got '%s'", run.RunId, res.Status())
	}

	return nil
}

// runsSearchQuery builds the runs search body; an empty runId
// matches every run. The size lifts elasticsearch's 10-hit
// default so consumers (sanitation in particular) see the whole
// index, in line with the 10000-bucket call aggregations.
func runsSearchQuery(runId string) map[string]interface{} {
	query := map[string]interface{}{
		"size": 10000,
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}
	if runId != "" {
		query = map[string]interface{}{
			"size": 10000,
			"query": map[string]interface{}{
				"match": map[string]interface{}{
					"runId": runId,
				},
			},
		}
	}
	return query
}

// GetRuns fetches run summary documents; an empty runId
// returns every run.
func GetRuns(cfg *models.Config, es *elasticsearch.Client, runId string) (map[string]interface{}, error) {

	// overall query structure
	var buf bytes.Buffer
	query := runsSearchQuery(runId)

	// encode the query
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		log.Fatalf("Error encoding query: %s\n", err)
		return nil, err
	}

	fmt.Printf("Query Start: %s\n", time.Now())

	// Perform the search request.
	res, searchErr := es.Search(
		es.Search.WithContext(context.Background()),
		es.Search.WithIndex(runsIndex),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
		es.Search.WithPretty(),
	)
	if searchErr != nil {
		fmt.Printf("Error getting response: %s\n", searchErr)
		return nil, searchErr
	}

	defer res.Body.Close()

	resultString := res.String()
	if cfg.Debug {
		fmt.Println(resultString)
	}

	// Declared an empty interface
	result := make(map[string]interface{})

	// Unmarshal or Decode the JSON to the interface.
	// Known bug: response comes back with a preceding '[200 OK] ' which needs trimming
	bracketString, jsonBodyString := utils.GetLeadingStringInBetweenSquareBrackets(resultString)
	if !strings.Contains(bracketString, "200") {
		return nil, fmt.Errorf("failed to get runs : got '%s'", bracketString)
	}

	umErr := json.Unmarshal([]byte(jsonBodyString), &result)
	if umErr != nil {
		fmt.Printf("Error unmarshalling response: %s\n", umErr)
		return nil, umErr
	}

	fmt.Printf("Query End: %s\n", time.Now())

	return result, nil
}
