package elasticsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunsSearchQuery(t *testing.T) {
	t.Run("fetch-all carries an explicit size past the 10-hit default", func(t *testing.T) {
		query := runsSearchQuery("")

		assert.Equal(t, 10000, query["size"])

		queryClause := query["query"].(map[string]interface{})
		_, isMatchAll := queryClause["match_all"]
		assert.True(t, isMatchAll)
	})

	t.Run("single-run lookup filters by runId and keeps the size", func(t *testing.T) {
		query := runsSearchQuery("abc-123")

		assert.Equal(t, 10000, query["size"])

		matchClause := query["query"].(map[string]interface{})["match"].(map[string]interface{})
		assert.Equal(t, "abc-123", matchClause["runId"])
	})
}
