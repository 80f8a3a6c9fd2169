package coverageInterval

import (
	"strings"
	"varpipe/api/models/constants"
)

const (
	Unknown constants.CoverageInterval = "Unknown"

	Genome   constants.CoverageInterval = "genome"
	Regional constants.CoverageInterval = "regional"
	Amplicon constants.CoverageInterval = "amplicon"
)

func CastToCoverageInterval(text string) constants.CoverageInterval {
	switch strings.ToLower(text) {
	case "genome":
		return Genome
	case "regional":
		return Regional
	case "amplicon":
		return Amplicon
	default:
		return Unknown
	}
}

func IsKnownCoverageInterval(text string) bool {
	return CastToCoverageInterval(text) != Unknown
}
