package qualityFormat

import (
	"strings"
	"varpipe/api/models/constants"
)

const (
	Unknown constants.QualityFormat = "Unknown"

	Standard constants.QualityFormat = "Standard"
	Illumina constants.QualityFormat = "Illumina"
	Solexa   constants.QualityFormat = "Solexa"
)

func CastToQualityFormat(text string) constants.QualityFormat {
	switch strings.ToLower(text) {
	case "standard":
		return Standard
	case "illumina":
		return Illumina
	case "solexa":
		return Solexa
	default:
		return Unknown
	}
}

func IsKnownQualityFormat(text string) bool {
	return CastToQualityFormat(text) != Unknown
}
