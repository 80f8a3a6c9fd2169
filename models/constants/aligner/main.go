package aligner

import (
	"strings"
	"varpipe/api/models/constants"
)

const (
	Unknown constants.Aligner = "Unknown"

	Bwa       constants.Aligner = "bwa"
	Bowtie    constants.Aligner = "bowtie"
	Bowtie2   constants.Aligner = "bowtie2"
	Novoalign constants.Aligner = "novoalign"
	Mosaik    constants.Aligner = "mosaik"
	Star      constants.Aligner = "star"
)

func CastToAligner(text string) constants.Aligner {
	switch strings.ToLower(text) {
	case "bwa":
		return Bwa
	case "bowtie":
		return Bowtie
	case "bowtie2":
		return Bowtie2
	case "novoalign":
		return Novoalign
	case "mosaik":
		return Mosaik
	case "star":
		return Star
	default:
		return Unknown
	}
}

func IsKnownAligner(text string) bool {
	return CastToAligner(text) != Unknown
}
