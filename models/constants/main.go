package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout VarPipe and it's
	associated services.
*/
type GenomeBuild string
type Aligner string
type VariantCaller string
type CoverageInterval string
type QualityFormat string
type AnalysisType string

type SortDirection string
