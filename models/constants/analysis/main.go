package analysis

import (
	"strings"
	"varpipe/api/models/constants"
)

const (
	Unknown constants.AnalysisType = "Unknown"

	Variant2 constants.AnalysisType = "variant2"
	Variant  constants.AnalysisType = "variant"
	RnaSeq   constants.AnalysisType = "RNA-seq"
)

func CastToAnalysisType(text string) constants.AnalysisType {
	switch strings.ToLower(text) {
	case "variant2":
		return Variant2
	case "variant":
		return Variant
	case "rna-seq":
		return RnaSeq
	default:
		return Unknown
	}
}

func IsKnownAnalysisType(text string) bool {
	return CastToAnalysisType(text) != Unknown
}
