package indexes

import (
	"time"

	c "varpipe/api/models/constants"
)

// Call is the per-variant document bulk-indexed into the
// `calls-<chrom>` indices once a caller finishes a region.
type Call struct {
	Chrom  string   `json:"chrom"`
	Pos    int      `json:"pos"`
	Id     string   `json:"id"`
	Ref    []string `json:"ref"`
	Alt    []string `json:"alt"`
	Qual   int      `json:"qual"`
	Filter string   `json:"filter"`

	SampleId string          `json:"sampleId"`
	Caller   c.VariantCaller `json:"caller"`

	RunId       string        `json:"runId"`
	GenomeBuild c.GenomeBuild `json:"genomeBuild"`
	CreatedTime time.Time     `json:"createdTime"`
}

// Run is the summary document written into the `runs` index
// when a run reaches a terminal state.
type Run struct {
	RunId       string         `json:"runId"`
	ConfigPath  string         `json:"configPath"`
	UploadDir   string         `json:"uploadDir"`
	State       string         `json:"state"`
	Samples     []SampleResult `json:"samples"`
	CreatedTime time.Time      `json:"createdTime"`
}

type SampleResult struct {
	Description string        `json:"description"`
	GenomeBuild c.GenomeBuild `json:"genomeBuild"`
	Batch       string        `json:"batch"`

	Calls []CallerResult `json:"calls"`
}

type CallerResult struct {
	Caller  c.VariantCaller `json:"caller"`
	VrnFile string          `json:"vrnFile"`

	Validation *ValidationResult `json:"validation,omitempty"`
}

// ValidationResult holds concordance counts of a call file
// against a sample's truth set.
type ValidationResult struct {
	TruthFile  string `json:"truthFile"`
	Concordant int    `json:"concordant"`
	Missing    int    `json:"missing"`
	Extra      int    `json:"extra"`
}

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_BOOL = map[string]interface{}{"type": "boolean"}
var MAPPING_DATE = map[string]interface{}{"type": "date"}

var CALL_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"chrom":       MAPPING_TEXT,
		"pos":         MAPPING_LONG,
		"id":          MAPPING_TEXT,
		"ref":         MAPPING_TEXT,
		"alt":         MAPPING_TEXT,
		"qual":        MAPPING_LONG,
		"filter":      MAPPING_TEXT,
		"sampleId":    MAPPING_TEXT,
		"caller":      MAPPING_TEXT,
		"runId":       MAPPING_TEXT,
		"genomeBuild": MAPPING_TEXT,
		"createdTime": MAPPING_DATE,
	},
}

var RUN_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"runId":      MAPPING_TEXT,
		"configPath": MAPPING_TEXT,
		"uploadDir":  MAPPING_TEXT,
		"state":      MAPPING_TEXT,
		"samples": map[string]interface{}{
			"properties": map[string]interface{}{
				"description": MAPPING_TEXT,
				"genomeBuild": MAPPING_TEXT,
				"batch":       MAPPING_TEXT,
				"calls": map[string]interface{}{
					"properties": map[string]interface{}{
						"caller":  MAPPING_TEXT,
						"vrnFile": MAPPING_TEXT,
						"validation": map[string]interface{}{
							"properties": map[string]interface{}{
								"truthFile":  MAPPING_TEXT,
								"concordant": MAPPING_LONG,
								"missing":    MAPPING_LONG,
								"extra":      MAPPING_LONG,
							},
						},
					},
				},
			},
		},
		"createdTime": MAPPING_DATE,
	},
}
