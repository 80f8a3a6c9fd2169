package workflows

import (
	c "varpipe/api/models/constants"
	gb "varpipe/api/models/constants/genome-build"
	vc "varpipe/api/models/constants/variant-caller"
)

type WorkflowSchema map[string]interface{}

var WORKFLOW_RUN_SCHEMA WorkflowSchema = map[string]interface{}{
	"ingestion": map[string]interface{}{
		"run_config_yaml": map[string]interface{}{
			"name":        "Run-Config Variant Calling",
			"description": "This ingestion workflow will validate a YAML run config, call variants for each sample, and index the resulting calls into Elasticsearch.",
			"data_type":   "variant",
			"tags":        []string{"variant", "run"},
			"file":        "run_config_yaml.wdl",
			"type":        "ingestion",
			"inputs": []map[string]interface{}{
				{
					"id":       "run_config_path",
					"type":     "file",
					"required": true,
					"pattern":  "^.*\\.yaml$",
				},
				{
					"id":       "genome_build",
					"type":     "enum",
					"required": true,
					"values":   []c.GenomeBuild{gb.GRCh37, gb.GRCh38, gb.Hg19, gb.Mm9},
				},
				{
					"id":       "variant_caller",
					"type":     "enum",
					"required": false,
					"values": []c.VariantCaller{
						vc.Gatk, vc.GatkHaplotype, vc.Freebayes,
						vc.Cortex, vc.Samtools, vc.Varscan, vc.Mutect,
					},
				},
				{
					"id":           "varpipe_url",
					"type":         "service-url",
					"required":     true,
					"injected":     true,
					"service_kind": "varpipe",
				},
			},
		},
	},
	"analysis": map[string]interface{}{},
	"export":   map[string]interface{}{},
}
