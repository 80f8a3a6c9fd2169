package orchestration

import (
	"context"
	"os"
	"path"
	"strings"
	"testing"

	"varpipe/api/models"
	"varpipe/api/models/constants"
	vc "varpipe/api/models/constants/variant-caller"
	"varpipe/api/models/indexes"
	"varpipe/api/models/regions"
	"varpipe/api/models/runconfig"

	"github.com/stretchr/testify/assert"

	. "github.com/ahmetb/go-linq"
)

func testService(workPath string) *OrchestrationService {
	var cfg models.Config
	cfg.Api.WorkPath = workPath
	cfg.Api.RunProcessingConcurrencyLevel = 2
	cfg.Api.RegionProcessingConcurrencyLevel = 2

	return NewOrchestrationService(&cfg)
}

func TestSplitByCallers(t *testing.T) {
	oz := testService("/work")

	t.Run("unset caller yields one default work item", func(t *testing.T) {
		items := oz.SplitByCallers(runconfig.SampleConfig{Description: "S1"})
		assert.Equal(t, 1, len(items))
		assert.Equal(t, vc.Default, items[0].Caller)
		assert.Nil(t, items[0].OrigCallerOrder)
	})

	t.Run("explicitly empty caller list yields no work items", func(t *testing.T) {
		items := oz.SplitByCallers(runconfig.SampleConfig{
			Description: "S1",
			Algorithm:   runconfig.AlgorithmConfig{VariantCaller: runconfig.StringList{}},
		})
		assert.Equal(t, 0, len(items))
	})

	t.Run("multiple callers fan out remembering original order", func(t *testing.T) {
		items := oz.SplitByCallers(runconfig.SampleConfig{
			Description: "S1",
			Algorithm:   runconfig.AlgorithmConfig{VariantCaller: runconfig.StringList{"varscan", "freebayes", "gatk"}},
		})
		assert.Equal(t, 3, len(items))

		expectedOrder := []constants.VariantCaller{vc.Varscan, vc.Freebayes, vc.Gatk}
		for _, item := range items {
			assert.Equal(t, expectedOrder, item.OrigCallerOrder)
		}

		var fannedOut []constants.VariantCaller
		From(items).SelectT(func(item *WorkItem) constants.VariantCaller {
			return item.Caller
		}).ToSlice(&fannedOut)
		assert.Equal(t, expectedOrder, fannedOut)
	})
}

func TestCombineCallerResults(t *testing.T) {
	oz := testService("/work")

	trio := runconfig.SampleConfig{
		Description: "NA19239",
		GenomeBuild: "GRCh37",
		Files:       runconfig.StringList{"/data/NA19239.bam"},
		Metadata:    map[string]string{"batch": "ceph-trio"},
	}
	single := runconfig.SampleConfig{
		Description: "NA19240",
		GenomeBuild: "GRCh37",
		Files:       runconfig.StringList{"/data/NA19240.bam"},
	}

	origOrder := []constants.VariantCaller{vc.Freebayes, vc.Gatk, vc.Varscan}

	// finished items arrive in whatever order calling completed;
	// deliberately scrambled here
	items := []*WorkItem{
		{Sample: trio, Caller: vc.Varscan, OrigCallerOrder: origOrder, VrnFile: "/work/varscan/ceph-trio.vcf"},
		{Sample: single, Caller: vc.Samtools, VrnFile: "/work/samtools/NA19240.vcf"},
		{Sample: trio, Caller: vc.Gatk, OrigCallerOrder: origOrder, VrnFile: "/work/gatk/ceph-trio.vcf"},
		{Sample: trio, Caller: vc.Freebayes, OrigCallerOrder: origOrder, VrnFile: "/work/freebayes/ceph-trio.vcf"},
	}

	results := oz.CombineCallerResults(items)
	assert.Equal(t, 2, len(results))

	t.Run("grouping follows first-seen alignment file order", func(t *testing.T) {
		assert.Equal(t, "NA19239", results[0].Description)
		assert.Equal(t, "ceph-trio", results[0].Batch)
		assert.Equal(t, "NA19240", results[1].Description)
	})

	t.Run("fanned-out callers come back in configured order", func(t *testing.T) {
		var callerOrder []constants.VariantCaller
		From(results[0].Calls).SelectT(func(call indexes.CallerResult) constants.VariantCaller {
			return call.Caller
		}).ToSlice(&callerOrder)
		assert.Equal(t, origOrder, callerOrder)
	})

	t.Run("single-caller sample keeps its lone result", func(t *testing.T) {
		assert.Equal(t, 1, len(results[1].Calls))
		assert.Equal(t, vc.Samtools, results[1].Calls[0].Caller)
		assert.Equal(t, "/work/samtools/NA19240.vcf", results[1].Calls[0].VrnFile)
	})
}

func TestWorkFileNaming(t *testing.T) {
	oz := testService("/work")

	sample := runconfig.SampleConfig{
		Description: "NA19239",
		Metadata:    map[string]string{"batch": "ceph-trio"},
	}
	item := &WorkItem{Sample: sample, Caller: vc.Freebayes}

	t.Run("region file nests under caller and chromosome", func(t *testing.T) {
		region := regions.Region{Chrom: "22", Start: 100, End: 20000}
		assert.Equal(t, "/work/freebayes/22/ceph-trio-NA19239-22_100_20000.vcf", oz.regionWorkFile(item, region))
	})

	t.Run("whole-genome region maps straight to the combined file", func(t *testing.T) {
		assert.Equal(t, oz.combinedFile(item), oz.regionWorkFile(item, regions.Region{}))
	})

	t.Run("batch-less samples name files by description", func(t *testing.T) {
		plain := &WorkItem{Sample: runconfig.SampleConfig{Description: "NA19240"}, Caller: vc.Gatk}
		assert.Equal(t, "/work/gatk/NA19240.vcf", oz.combinedFile(plain))
	})

	t.Run("batch mates never share an output file", func(t *testing.T) {
		mate := &WorkItem{
			Sample: runconfig.SampleConfig{
				Description: "NA19240",
				Metadata:    map[string]string{"batch": "ceph-trio"},
			},
			Caller: vc.Freebayes,
		}
		assert.NotEqual(t, oz.combinedFile(item), oz.combinedFile(mate))
		assert.Equal(t, "/work/freebayes/ceph-trio-NA19240.vcf", oz.combinedFile(mate))
	})
}

func TestPlanRegions(t *testing.T) {
	oz := testService(t.TempDir())

	t.Run("no region file means whole genome", func(t *testing.T) {
		planned, planErr := oz.PlanRegions(&runconfig.SampleConfig{Description: "S1"})
		assert.Nil(t, planErr)
		assert.Equal(t, []regions.Region{{}}, planned)
	})

	t.Run("placeholder regions are dropped", func(t *testing.T) {
		bedPath := path.Join(t.TempDir(), "targets.bed")
		bedContents := "22\t100\t20000\n" +
			"nochrom\t0\t0\n" +
			"noanalysis\t0\t0\n" +
			"X\t500\t900\n"
		assert.Nil(t, os.WriteFile(bedPath, []byte(bedContents), 0644))

		planned, planErr := oz.PlanRegions(&runconfig.SampleConfig{
			Description: "S1",
			Algorithm:   runconfig.AlgorithmConfig{VariantRegions: bedPath},
		})
		assert.Nil(t, planErr)
		assert.Equal(t, 2, len(planned))
		assert.Equal(t, "22", planned[0].Chrom)
		assert.Equal(t, "X", planned[1].Chrom)
	})
}

func TestCallSampleReuseStillFilters(t *testing.T) {
	workDir := t.TempDir()
	oz := testService(workDir)

	item := &WorkItem{
		Sample: runconfig.SampleConfig{
			Description: "S1",
			GenomeBuild: "GRCh37",
			Files:       runconfig.StringList{"/data/S1.bam"},
		},
		Caller: vc.Freebayes,
	}

	// pre-existing outputs from an earlier run of the same config
	callerDir := path.Join(workDir, "freebayes")
	assert.Nil(t, os.MkdirAll(callerDir, 0755))
	combined := path.Join(callerDir, "S1.vcf")
	filtered := path.Join(callerDir, "S1-filter.vcf")
	assert.Nil(t, os.WriteFile(combined, []byte("##fileformat=VCFv4.1\n"), 0644))
	assert.Nil(t, os.WriteFile(filtered, []byte("##fileformat=VCFv4.1\n"), 0644))

	assert.Nil(t, oz.CallSample(context.Background(), item))

	// the rerun must surface the filtered calls, not the raw
	// combined file
	assert.Equal(t, filtered, item.VrnFile)
}

func TestExecuteRunKeepsPassThroughSamples(t *testing.T) {
	workDir := t.TempDir()
	oz := testService(workDir)

	// called sample reuses an existing combined output so no
	// external tools run; samtools calls pass filtration through
	callerDir := path.Join(workDir, "samtools")
	assert.Nil(t, os.MkdirAll(callerDir, 0755))
	combined := path.Join(callerDir, "NA19239.vcf")
	assert.Nil(t, os.WriteFile(combined, []byte("##fileformat=VCFv4.1\n"), 0644))

	rc := &runconfig.RunConfig{
		Upload: runconfig.UploadConfig{Dir: path.Join(workDir, "final")},
		Details: []runconfig.SampleConfig{
			{
				Description: "NA19239",
				GenomeBuild: "GRCh37",
				Files:       runconfig.StringList{"/data/NA19239.bam"},
				Algorithm:   runconfig.AlgorithmConfig{VariantCaller: runconfig.StringList{"samtools"}},
			},
			{
				Description: "NA12878",
				GenomeBuild: "GRCh37",
				VrnFiles:    runconfig.StringList{"/data/NA12878.vcf"},
				Algorithm:   runconfig.AlgorithmConfig{VariantCaller: runconfig.StringList{}},
			},
		},
	}

	run, workItems, execErr := oz.ExecuteRun(context.Background(), "run-1", rc)
	assert.Nil(t, execErr)
	assert.Equal(t, 1, len(workItems))
	assert.Equal(t, 2, len(run.Samples))

	t.Run("called sample carries its result", func(t *testing.T) {
		assert.Equal(t, "NA19239", run.Samples[0].Description)
		assert.Equal(t, 1, len(run.Samples[0].Calls))
		assert.Equal(t, combined, run.Samples[0].Calls[0].VrnFile)
	})

	t.Run("caller-less sample survives with no calls", func(t *testing.T) {
		assert.Equal(t, "NA12878", run.Samples[1].Description)
		assert.Equal(t, 0, len(run.Samples[1].Calls))
	})
}

func TestConcatRegionCalls(t *testing.T) {
	workDir := t.TempDir()

	writeRegionFile := func(name string, contents string) string {
		filePath := path.Join(workDir, name)
		assert.Nil(t, os.WriteFile(filePath, []byte(contents), 0644))
		return filePath
	}

	first := writeRegionFile("r1.vcf",
		"##fileformat=VCFv4.1\n"+
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"+
			"22\t1000\t.\tA\tG\t50\tPASS\t.\n")
	second := writeRegionFile("r2.vcf",
		"##fileformat=VCFv4.1\n"+
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"+
			"22\t2000\t.\tC\tT\t50\tPASS\t.\n")

	outFile := path.Join(workDir, "combined.vcf")
	assert.Nil(t, concatRegionCalls([]string{first, second}, outFile))

	combined, readErr := os.ReadFile(outFile)
	assert.Nil(t, readErr)

	lines := strings.Split(strings.TrimSpace(string(combined)), "\n")
	assert.Equal(t, 4, len(lines)) // one header block + two call lines

	headerCount := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "##fileformat") {
			headerCount++
		}
	}
	assert.Equal(t, 1, headerCount)
	assert.Equal(t, "22\t2000\t.\tC\tT\t50\tPASS\t.", lines[len(lines)-1])
}

func TestRegionArg(t *testing.T) {
	assert.Equal(t, "", regionArg(regions.Region{}))
	assert.Equal(t, "22:100-20000", regionArg(regions.Region{Chrom: "22", Start: 100, End: 20000}))
}

func TestResourceOptions(t *testing.T) {
	sample := &runconfig.SampleConfig{
		Resources: map[string]map[string]interface{}{
			"gatk": {
				"options":  []interface{}{"-stand_call_conf", "30.0"},
				"jvm_opts": []interface{}{"-Xmx2g"},
			},
		},
	}

	assert.Equal(t, []string{"-stand_call_conf", "30.0"}, resourceOptions(sample, "gatk"))
	assert.Nil(t, resourceOptions(sample, "freebayes"))
}

func TestFilterFileName(t *testing.T) {
	assert.Equal(t, "/work/freebayes/ceph-trio-filter.vcf", filterFileName("/work/freebayes/ceph-trio.vcf"))
}
