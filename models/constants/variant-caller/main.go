package variantCaller

import (
	"strings"
	"varpipe/api/models/constants"
)

const (
	Unknown constants.VariantCaller = "Unknown"

	Gatk          constants.VariantCaller = "gatk"
	GatkHaplotype constants.VariantCaller = "gatk-haplotype"
	Freebayes     constants.VariantCaller = "freebayes"
	Cortex        constants.VariantCaller = "cortex"
	Samtools      constants.VariantCaller = "samtools"
	Varscan       constants.VariantCaller = "varscan"
	Mutect        constants.VariantCaller = "mutect"
)

// Default is the caller assumed when a sample's
// algorithm leaves `variantcaller` unset.
const Default = Gatk

func CastToVariantCaller(text string) constants.VariantCaller {
	switch strings.ToLower(text) {
	case "gatk":
		return Gatk
	case "gatk-haplotype":
		return GatkHaplotype
	case "freebayes":
		return Freebayes
	case "cortex":
		return Cortex
	case "samtools":
		return Samtools
	case "varscan":
		return Varscan
	case "mutect":
		return Mutect
	default:
		return Unknown
	}
}

func IsKnownVariantCaller(text string) bool {
	// attempt to cast to variantCaller and
	// return if unknown caller
	return CastToVariantCaller(text) != Unknown
}
