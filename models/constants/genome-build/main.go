package genomeBuild

import (
	"strings"
	"varpipe/api/models/constants"
)

const (
	Unknown constants.GenomeBuild = "Unknown"

	GRCh38 constants.GenomeBuild = "GRCh38"
	GRCh37 constants.GenomeBuild = "GRCh37"
	Hg38   constants.GenomeBuild = "hg38"
	Hg19   constants.GenomeBuild = "hg19"
	Mm10   constants.GenomeBuild = "mm10"
	Mm9    constants.GenomeBuild = "mm9"
)

func CastToGenomeBuild(text string) constants.GenomeBuild {
	switch strings.ToLower(text) {
	case "grch38":
		return GRCh38
	case "grch37":
		return GRCh37
	case "hg38":
		return Hg38
	case "hg19":
		return Hg19
	case "mm10":
		return Mm10
	case "mm9":
		return Mm9
	default:
		return Unknown
	}
}

func IsKnownGenomeBuild(text string) bool {
	// attempt to cast to genomeBuild and
	// return if unknown build
	return CastToGenomeBuild(text) != Unknown
}
