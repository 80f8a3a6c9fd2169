package dtos

import (
	"varpipe/api/models/constants"
	"varpipe/api/models/indexes"
)

type CallsResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type CallsGetResponse struct {
	CallsResponse
	Results []CallsQueryResult `json:"results"`
}

type CallsCountResponse struct {
	CallsResponse
	Count int `json:"count"`
}

type CallsQueryResult struct {
	QueryId     string                `json:"queryId"`
	GenomeBuild constants.GenomeBuild `json:"genomeBuild"`

	Calls []indexes.Call `json:"calls"`

	Chromosome string `json:"chromosome"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}
