package runconfig

import (
	"path/filepath"
	"testing"

	"varpipe/api/models/constants"
	vc "varpipe/api/models/constants/variant-caller"

	"github.com/stretchr/testify/assert"
)

func TestLoadRunConfig(t *testing.T) {
	rc, loadErr := Load("testdata/run_info.yaml")
	assert.Nil(t, loadErr)
	assert.NotNil(t, rc)

	assert.Equal(t, "110106", rc.FcDate)
	assert.Equal(t, "FC70BUKAAXX", rc.FcName)
	assert.Equal(t, 2, len(rc.Details))

	t.Run("relative paths resolve against the config directory", func(t *testing.T) {
		assert.Equal(t, filepath.Join("testdata", "final"), rc.Upload.Dir)
		assert.Equal(t, filepath.Join("testdata", "bams", "NA19239-sort.bam"), rc.Details[0].Files[0])
	})

	t.Run("variantcaller accepts both scalar and sequence forms", func(t *testing.T) {
		assert.Equal(t, StringList{"freebayes", "gatk"}, rc.Details[0].Algorithm.VariantCaller)
		assert.Equal(t, StringList{"samtools"}, rc.Details[1].Algorithm.VariantCaller)
	})

	t.Run("files accepts both scalar and sequence forms", func(t *testing.T) {
		assert.Equal(t, 1, len(rc.Details[0].Files))
		assert.Equal(t, 1, len(rc.Details[1].Files))
	})

	t.Run("metadata accessors", func(t *testing.T) {
		assert.Equal(t, "ceph-trio", rc.Details[0].Batch())
		assert.Equal(t, "tumor", rc.Details[0].Phenotype())
		assert.Equal(t, "", rc.Details[1].Phenotype())
	})

	t.Run("resources carry per-tool options", func(t *testing.T) {
		gatkResources, ok := rc.Details[0].Resources["gatk"]
		assert.True(t, ok)
		assert.NotNil(t, gatkResources["options"])
		assert.NotNil(t, gatkResources["jvm_opts"])
	})

	t.Run("validates cleanly", func(t *testing.T) {
		assert.Nil(t, rc.Validate())
	})
}

func TestLoadMissingConfig(t *testing.T) {
	_, loadErr := Load("testdata/does-not-exist.yaml")
	assert.NotNil(t, loadErr)
}

func TestCallers(t *testing.T) {
	t.Run("unset caller defaults", func(t *testing.T) {
		sample := SampleConfig{Description: "S1"}
		assert.Equal(t, []constants.VariantCaller{vc.Default}, sample.Callers())
	})

	t.Run("explicitly empty caller list yields no calling work", func(t *testing.T) {
		sample := SampleConfig{
			Description: "S1",
			Algorithm:   AlgorithmConfig{VariantCaller: StringList{}},
		}
		assert.Equal(t, 0, len(sample.Callers()))
	})

	t.Run("caller order is preserved", func(t *testing.T) {
		sample := SampleConfig{
			Description: "S1",
			Algorithm:   AlgorithmConfig{VariantCaller: StringList{"varscan", "freebayes", "gatk"}},
		}
		assert.Equal(t, []constants.VariantCaller{vc.Varscan, vc.Freebayes, vc.Gatk}, sample.Callers())
	})
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := func() *RunConfig {
		return &RunConfig{
			Upload: UploadConfig{Dir: "/tmp/final"},
			Details: []SampleConfig{{
				Description: "S1",
				Analysis:    "variant2",
				GenomeBuild: "GRCh37",
				Files:       StringList{"/tmp/S1.bam"},
			}},
		}
	}

	t.Run("missing upload dir", func(t *testing.T) {
		rc := base()
		rc.Upload.Dir = ""
		assert.NotNil(t, rc.Validate())
	})

	t.Run("no sample details", func(t *testing.T) {
		rc := base()
		rc.Details = nil
		assert.NotNil(t, rc.Validate())
	})

	t.Run("unknown analysis type", func(t *testing.T) {
		rc := base()
		rc.Details[0].Analysis = "chipseq-exotic"
		assert.NotNil(t, rc.Validate())
	})

	t.Run("unknown genome build", func(t *testing.T) {
		rc := base()
		rc.Details[0].GenomeBuild = "GRCh99"
		assert.NotNil(t, rc.Validate())
	})

	t.Run("unknown variant caller", func(t *testing.T) {
		rc := base()
		rc.Details[0].Algorithm.VariantCaller = StringList{"supercaller9000"}
		assert.NotNil(t, rc.Validate())
	})

	t.Run("sample without inputs", func(t *testing.T) {
		rc := base()
		rc.Details[0].Files = nil
		assert.NotNil(t, rc.Validate())
	})

	t.Run("dangling referenced file", func(t *testing.T) {
		rc := base()
		rc.Details[0].Algorithm.Validate = "/tmp/definitely-not-a-real-truth-set.vcf"
		assert.NotNil(t, rc.Validate())
	})
}

func TestWorkBam(t *testing.T) {
	sample := SampleConfig{Files: StringList{"/data/a.bam", "/data/b.bam"}}
	assert.Equal(t, "/data/a.bam", sample.WorkBam())

	empty := SampleConfig{}
	assert.Equal(t, "", empty.WorkBam())
}
