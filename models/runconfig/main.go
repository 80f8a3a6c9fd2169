package runconfig

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"varpipe/api/models/constants"
	al "varpipe/api/models/constants/aligner"
	an "varpipe/api/models/constants/analysis"
	ci "varpipe/api/models/constants/coverage-interval"
	gb "varpipe/api/models/constants/genome-build"
	qf "varpipe/api/models/constants/quality-format"
	vc "varpipe/api/models/constants/variant-caller"

	yaml "gopkg.in/yaml.v2"
)

/*
	The run configuration drives an entire variant-calling
	run: where artifacts get uploaded, and one descriptor
	per sample with its input files, genome build, tuning
	algorithm, per-tool resources and free-form metadata.
*/

type RunConfig struct {
	FcDate string `yaml:"fc_date,omitempty"`
	FcName string `yaml:"fc_name,omitempty"`

	Upload  UploadConfig   `yaml:"upload"`
	Details []SampleConfig `yaml:"details"`

	// directory the config file was loaded from;
	// all relative paths resolve against it
	BaseDir string `yaml:"-"`
}

type UploadConfig struct {
	Dir           string `yaml:"dir"`
	Method        string `yaml:"method,omitempty"`
	GalaxyUrl     string `yaml:"galaxy_url,omitempty"`
	GalaxyApiKey  string `yaml:"galaxy_api_key,omitempty"`
	GalaxyLibrary string `yaml:"galaxy_library,omitempty"`
}

type SampleConfig struct {
	Description string     `yaml:"description"`
	Analysis    string     `yaml:"analysis"`
	Files       StringList `yaml:"files,omitempty"`
	VrnFiles    StringList `yaml:"vrn_file,omitempty"`
	GenomeBuild string     `yaml:"genome_build"`
	Lane        string     `yaml:"lane,omitempty"`

	Algorithm AlgorithmConfig                   `yaml:"algorithm"`
	Resources map[string]map[string]interface{} `yaml:"resources,omitempty"`
	Metadata  map[string]string                 `yaml:"metadata,omitempty"`
}

type AlgorithmConfig struct {
	Aligner           string     `yaml:"aligner,omitempty"`
	VariantCaller     StringList `yaml:"variantcaller,omitempty"`
	QualityFormat     string     `yaml:"quality_format,omitempty"`
	AlignSplitSize    int        `yaml:"align_split_size,omitempty"`
	NomapSplitTargets int        `yaml:"nomap_split_targets,omitempty"`
	VariantRegions    string     `yaml:"variant_regions,omitempty"`
	Coverage          string     `yaml:"coverage,omitempty"`
	CoverageInterval  string     `yaml:"coverage_interval,omitempty"`
	CoverageDepth     string     `yaml:"coverage_depth,omitempty"`
	Validate          string     `yaml:"validate,omitempty"`
	Phasing           string     `yaml:"phasing,omitempty"`
	MarkDuplicates    bool       `yaml:"mark_duplicates,omitempty"`
	Recalibrate       bool       `yaml:"recalibrate,omitempty"`
	Realign           bool       `yaml:"realign,omitempty"`
}

// StringList accepts either a single YAML scalar or a
// sequence; run configs in the wild use both forms for
// `files`, `vrn_file` and `variantcaller`.
type StringList []string

func (sl *StringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*sl = []string{single}
		return nil
	}

	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*sl = many
	return nil
}

func Load(configPath string) (*RunConfig, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run config %s : %v", configPath, err)
	}
	defer f.Close()

	var cfg RunConfig
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode run config %s : %v", configPath, err)
	}

	cfg.BaseDir = path.Dir(configPath)
	cfg.resolvePaths()

	return &cfg, nil
}

// resolvePaths joins every relative file reference with the
// config file's own directory, leaving absolute paths alone.
func (rc *RunConfig) resolvePaths() {
	rc.Upload.Dir = rc.resolve(rc.Upload.Dir)

	for i := range rc.Details {
		sample := &rc.Details[i]
		for j, f := range sample.Files {
			sample.Files[j] = rc.resolve(f)
		}
		for j, f := range sample.VrnFiles {
			sample.VrnFiles[j] = rc.resolve(f)
		}
		sample.Algorithm.VariantRegions = rc.resolve(sample.Algorithm.VariantRegions)
		sample.Algorithm.Coverage = rc.resolve(sample.Algorithm.Coverage)
		sample.Algorithm.Validate = rc.resolve(sample.Algorithm.Validate)
	}
}

func (rc *RunConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rc.BaseDir, p)
}

func (rc *RunConfig) Validate() error {
	if rc.Upload.Dir == "" {
		return fmt.Errorf("run config is missing an upload directory")
	}
	if len(rc.Details) == 0 {
		return fmt.Errorf("run config contains no sample details")
	}

	for _, sample := range rc.Details {
		if sample.Description == "" {
			return fmt.Errorf("sample is missing a description")
		}
		if !an.IsKnownAnalysisType(sample.Analysis) {
			return fmt.Errorf("sample %s : unknown analysis type '%s'", sample.Description, sample.Analysis)
		}
		if !gb.IsKnownGenomeBuild(sample.GenomeBuild) {
			return fmt.Errorf("sample %s : unknown genome build '%s'", sample.Description, sample.GenomeBuild)
		}
		if len(sample.Files) == 0 && len(sample.VrnFiles) == 0 {
			return fmt.Errorf("sample %s : no input files or reference variant files", sample.Description)
		}

		alg := sample.Algorithm
		if alg.Aligner != "" && alg.Aligner != "false" && !al.IsKnownAligner(alg.Aligner) {
			return fmt.Errorf("sample %s : unknown aligner '%s'", sample.Description, alg.Aligner)
		}
		for _, caller := range alg.VariantCaller {
			if !vc.IsKnownVariantCaller(caller) {
				return fmt.Errorf("sample %s : unknown variant caller '%s'", sample.Description, caller)
			}
		}
		if alg.QualityFormat != "" && !qf.IsKnownQualityFormat(alg.QualityFormat) {
			return fmt.Errorf("sample %s : unknown quality format '%s'", sample.Description, alg.QualityFormat)
		}
		if alg.CoverageInterval != "" && !ci.IsKnownCoverageInterval(alg.CoverageInterval) {
			return fmt.Errorf("sample %s : unknown coverage interval '%s'", sample.Description, alg.CoverageInterval)
		}

		for _, p := range []string{alg.VariantRegions, alg.Coverage, alg.Validate} {
			if p == "" {
				continue
			}
			if _, statErr := os.Stat(p); statErr != nil {
				return fmt.Errorf("sample %s : referenced file does not resolve : %s", sample.Description, p)
			}
		}
	}

	return nil
}

// Callers normalizes the string-or-list `variantcaller` field:
// unset defaults to the standard caller, an explicitly empty
// list means this sample produces no calling work.
func (s *SampleConfig) Callers() []constants.VariantCaller {
	if s.Algorithm.VariantCaller == nil {
		return []constants.VariantCaller{vc.Default}
	}

	var callers []constants.VariantCaller
	for _, caller := range s.Algorithm.VariantCaller {
		callers = append(callers, vc.CastToVariantCaller(caller))
	}
	return callers
}

func (s *SampleConfig) Batch() string {
	return s.Metadata["batch"]
}

func (s *SampleConfig) Phenotype() string {
	return s.Metadata["phenotype"]
}

// WorkBam is the alignment file variant calling operates on;
// by convention the first input file of the sample.
func (s *SampleConfig) WorkBam() string {
	if len(s.Files) == 0 {
		return ""
	}
	return s.Files[0]
}
