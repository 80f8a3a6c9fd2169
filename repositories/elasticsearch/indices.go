package elasticsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"varpipe/api/models"
	"varpipe/api/models/indexes"

	"github.com/elastic/go-elasticsearch/v7"
)

// SetupIndices provisions the `runs` index and an index template
// covering the per-chromosome `calls-*` indices. Safe to call on
// every startup; existing indices are left alone.
func SetupIndices(cfg *models.Config, es *elasticsearch.Client) error {
	// -- runs index
	existsRes, existsErr := es.Indices.Exists([]string{runsIndex})
	if existsErr != nil {
		return existsErr
	}
	existsRes.Body.Close()

	if existsRes.StatusCode == 404 {
		runsBody := map[string]interface{}{
			"mappings": indexes.RUN_INDEX_MAPPING,
		}

		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(runsBody); err != nil {
			log.Fatalf("Error encoding runs index body: %s\n", err)
		}

		createRes, createErr := es.Indices.Create(runsIndex, es.Indices.Create.WithBody(&buf))
		if createErr != nil {
			return createErr
		}
		defer createRes.Body.Close()

		if createRes.IsError() {
			return fmt.Errorf("failed to create index %s : got '%s'", runsIndex, createRes.Status())
		}
		fmt.Printf("Created index %s ..\n", runsIndex)
	}

	// -- calls-* index template; indices themselves materialize
	//    on first bulk write for each chromosome
	templateBody := map[string]interface{}{
		"index_patterns": []string{wildcardCallsIndex},
		"mappings":       indexes.CALL_INDEX_MAPPING,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(templateBody); err != nil {
		log.Fatalf("Error encoding calls template body: %s\n", err)
	}

	templateRes, templateErr := es.Indices.PutTemplate("calls", &buf)
	if templateErr != nil {
		return templateErr
	}
	defer templateRes.Body.Close()

	if templateRes.IsError() {
		return fmt.Errorf("failed to put calls index template : got '%s'", templateRes.Status())
	}

	return nil
}
