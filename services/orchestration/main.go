package orchestration

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"varpipe/api/models"
	"varpipe/api/models/constants"
	gb "varpipe/api/models/constants/genome-build"
	"varpipe/api/models/indexes"
	"varpipe/api/models/regions"
	"varpipe/api/models/runconfig"
	validationService "varpipe/api/services/validation"

	"golang.org/x/sync/errgroup"
)

// Sample phenotypes that drive batch processing; their regions
// are always re-called even when a combined output already exists,
// so attached samples (i.e. normals in tumor/normal pairs) can be
// grouped against fresh results.
var batchDriverPhenotypes = []string{"tumor"}

type (
	OrchestrationService struct {
		Initialized    bool
		Config         *models.Config
		CallerRegistry map[constants.VariantCaller]CallerFn
	}

	// CallerFn invokes one external variant caller over a
	// single region of a sample, writing outFile.
	CallerFn func(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
		refFile string, region regions.Region, outFile string) error

	// WorkItem is one (sample, caller) unit of calling work; a
	// sample configured with several callers fans out to several
	// work items which remember the original caller order.
	WorkItem struct {
		Sample runconfig.SampleConfig
		Caller constants.VariantCaller

		// set if and only if the sample fanned out
		OrigCallerOrder []constants.VariantCaller

		// resulting combined call file, filled in by CallSample
		VrnFile string

		// concordance against the sample's truth set, when configured
		Validation *indexes.ValidationResult
	}
)

func NewOrchestrationService(cfg *models.Config) *OrchestrationService {
	oz := &OrchestrationService{
		Initialized: false,
		Config:      cfg,
	}

	oz.CallerRegistry = buildCallerRegistry()

	oz.Init()

	return oz
}

func (oz *OrchestrationService) Init() {
	// safeguard to prevent multiple initilizations
	if !oz.Initialized {
		oz.Initialized = true
		fmt.Printf("Orchestration Service Initialized with %d registered callers ..\n", len(oz.CallerRegistry))
	}
}

// SplitByCallers fans a sample out into per-caller work items.
// A single configured caller (or none, which defaults) yields one
// item; an explicitly empty caller list yields no calling work.
func (oz *OrchestrationService) SplitByCallers(sample runconfig.SampleConfig) []*WorkItem {
	callers := sample.Callers()
	if len(callers) == 0 {
		return nil
	}

	if len(callers) == 1 {
		return []*WorkItem{{Sample: sample, Caller: callers[0]}}
	}

	var out []*WorkItem
	for _, caller := range callers {
		out = append(out, &WorkItem{
			Sample:          sample,
			Caller:          caller,
			OrigCallerOrder: callers,
		})
	}
	return out
}

// PlanRegions reads the sample's target regions; samples without
// a region file produce a single whole-genome region.
func (oz *OrchestrationService) PlanRegions(sample *runconfig.SampleConfig) ([]regions.Region, error) {
	if sample.Algorithm.VariantRegions == "" {
		return []regions.Region{{}}, nil
	}

	planned, err := regions.ParseBed(sample.Algorithm.VariantRegions)
	if err != nil {
		return nil, err
	}

	// drop nochrom/noanalysis placeholders right away;
	// they never produce calling work
	var callable []regions.Region
	for _, region := range planned {
		if region.IsCallable() {
			callable = append(callable, region)
		}
	}
	return callable, nil
}

// workName keeps batch mates apart: samples sharing a batch (and
// therefore a caller directory) are concurrent work items, so
// their output files carry the sample description too.
func workName(sample *runconfig.SampleConfig) string {
	if batch := sample.Batch(); batch != "" {
		return fmt.Sprintf("%s-%s", batch, sample.Description)
	}
	return sample.Description
}

// work file layout: <work>/<caller>/<chrom>/<name>-<safe region>.vcf
// combined file:    <work>/<caller>/<name>.vcf
func (oz *OrchestrationService) regionWorkFile(item *WorkItem, region regions.Region) string {
	name := workName(&item.Sample)
	if region.Chrom == "" {
		return path.Join(oz.Config.Api.WorkPath, string(item.Caller), fmt.Sprintf("%s.vcf", name))
	}
	return path.Join(oz.Config.Api.WorkPath, string(item.Caller), region.Chrom,
		fmt.Sprintf("%s-%s.vcf", name, region.SafeStr()))
}

func (oz *OrchestrationService) combinedFile(item *WorkItem) string {
	return path.Join(oz.Config.Api.WorkPath, string(item.Caller), fmt.Sprintf("%s.vcf", workName(&item.Sample)))
}

func (oz *OrchestrationService) isBatchDriver(sample *runconfig.SampleConfig) bool {
	for _, phenotype := range batchDriverPhenotypes {
		if sample.Phenotype() == phenotype {
			return true
		}
	}
	return false
}

// CallSample performs region-parallel variant calling for one
// work item, concatenates the per-region results, applies the
// caller's post-call filtration and fills in item.VrnFile.
func (oz *OrchestrationService) CallSample(ctx context.Context, item *WorkItem) error {
	callerFn, knownCaller := oz.CallerRegistry[item.Caller]
	if !knownCaller {
		return fmt.Errorf("no registered caller function for '%s'", item.Caller)
	}

	outFile := oz.combinedFile(item)

	refFile := path.Join(oz.Config.Api.GenomePath,
		fmt.Sprintf("%s.fa", gb.CastToGenomeBuild(item.Sample.GenomeBuild)))

	alignBams := item.Sample.Files

	// an existing combined output short-circuits re-calling only,
	// except for batch-driver samples which always re-process;
	// phasing and filtration still apply downstream
	if fileExists(outFile) && !oz.isBatchDriver(&item.Sample) {
		fmt.Printf("[%s] - Reusing existing calls for %s (%s)\n", time.Now(), item.Sample.Description, item.Caller)
	} else {
		planned, planErr := oz.PlanRegions(&item.Sample)
		if planErr != nil {
			return planErr
		}

		regionFiles := make([]string, len(planned))

		g, gctx := errgroup.WithContext(ctx)
		concurrency := oz.Config.Api.RegionProcessingConcurrencyLevel
		if concurrency < 1 {
			concurrency = 1
		}
		g.SetLimit(concurrency)

		for i, region := range planned {
			i, region := i, region
			g.Go(func() error {
				regionFile := oz.regionWorkFile(item, region)
				if mkErr := os.MkdirAll(path.Dir(regionFile), 0755); mkErr != nil {
					return mkErr
				}

				fmt.Printf("[%s] - Calling %s on %s %s\n", time.Now(), item.Caller, item.Sample.Description, region)
				if callErr := callerFn(gctx, alignBams, &item.Sample, refFile, region, regionFile); callErr != nil {
					return fmt.Errorf("caller %s failed on %s %s : %v", item.Caller, item.Sample.Description, region, callErr)
				}

				regionFiles[i] = regionFile
				return nil
			})
		}

		if waitErr := g.Wait(); waitErr != nil {
			return waitErr
		}

		// whole-genome calling writes the combined file directly
		if !(len(regionFiles) == 1 && regionFiles[0] == outFile) {
			if concatErr := concatRegionCalls(regionFiles, outFile); concatErr != nil {
				return concatErr
			}
		}
	}

	// read-backed phasing, when configured
	if item.Sample.Algorithm.Phasing == "gatk" {
		phased, phaseErr := readBackedPhasing(ctx, outFile, alignBams, refFile)
		if phaseErr != nil {
			return phaseErr
		}
		outFile = phased
	}

	filtered, filterErr := oz.FilterCalls(ctx, item.Caller, outFile, &item.Sample, refFile)
	if filterErr != nil {
		return filterErr
	}

	item.VrnFile = filtered
	return oz.validateCalls(item)
}

func (oz *OrchestrationService) validateCalls(item *WorkItem) error {
	truthFile := item.Sample.Algorithm.Validate
	if truthFile == "" {
		return nil
	}

	result, validationErr := validationService.Compare(item.VrnFile, truthFile)
	if validationErr != nil {
		return validationErr
	}

	item.Validation = result
	return nil
}

// ExecuteRun walks every sample of a run config through caller
// fan-out and region-parallel calling, then groups the finished
// calls back together into per-sample results.
func (oz *OrchestrationService) ExecuteRun(ctx context.Context, runId string, rc *runconfig.RunConfig) (*indexes.Run, []*WorkItem, error) {
	var toProcess []*WorkItem
	var passThrough []runconfig.SampleConfig
	for _, sample := range rc.Details {
		items := oz.SplitByCallers(sample)
		if len(items) == 0 {
			// samples opting out of calling still belong
			// to the run summary
			passThrough = append(passThrough, sample)
			continue
		}
		toProcess = append(toProcess, items...)
	}

	// "sample ingestion queue"
	// - manage # of work items being concurrently processed at any given time
	concurrency := oz.Config.Api.RunProcessingConcurrencyLevel
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, item := range toProcess {
		item := item
		g.Go(func() error {
			return oz.CallSample(gctx, item)
		})
	}

	if waitErr := g.Wait(); waitErr != nil {
		return nil, nil, waitErr
	}

	samples := oz.CombineCallerResults(toProcess)
	for _, sample := range passThrough {
		samples = append(samples, indexes.SampleResult{
			Description: sample.Description,
			GenomeBuild: gb.CastToGenomeBuild(sample.GenomeBuild),
			Batch:       sample.Batch(),
			Calls:       []indexes.CallerResult{},
		})
	}

	run := &indexes.Run{
		RunId:       runId,
		ConfigPath:  rc.BaseDir,
		UploadDir:   rc.Upload.Dir,
		Samples:     samples,
		CreatedTime: time.Now(),
	}

	return run, toProcess, nil
}

// CombineCallerResults collapses finished per-caller work items
// back into one result per sample, grouped by the alignment file
// they operated on. When a sample fanned out to several callers
// the original configuration order is restored.
func (oz *OrchestrationService) CombineCallerResults(items []*WorkItem) []indexes.SampleResult {
	byBam := map[string][]*WorkItem{}
	var bamOrder []string
	for _, item := range items {
		workBam := item.Sample.WorkBam()
		if _, seen := byBam[workBam]; !seen {
			bamOrder = append(bamOrder, workBam)
		}
		byBam[workBam] = append(byBam[workBam], item)
	}

	var out []indexes.SampleResult
	for _, workBam := range bamOrder {
		grouped := byBam[workBam]
		final := grouped[0]

		readyCalls := make([]indexes.CallerResult, 0, len(grouped))
		for _, item := range grouped {
			readyCalls = append(readyCalls, indexes.CallerResult{
				Caller:     item.Caller,
				VrnFile:    item.VrnFile,
				Validation: item.Validation,
			})
		}

		if len(readyCalls) > 1 && len(final.OrigCallerOrder) > 0 {
			readyCalls = sortByOrigCallerOrder(readyCalls, final.OrigCallerOrder)
		}

		out = append(out, indexes.SampleResult{
			Description: final.Sample.Description,
			GenomeBuild: gb.CastToGenomeBuild(final.Sample.GenomeBuild),
			Batch:       final.Sample.Batch(),
			Calls:       readyCalls,
		})
	}
	return out
}

func sortByOrigCallerOrder(calls []indexes.CallerResult, order []constants.VariantCaller) []indexes.CallerResult {
	position := map[constants.VariantCaller]int{}
	for i, caller := range order {
		position[caller] = i
	}

	sorted := make([]indexes.CallerResult, len(calls))
	copy(sorted, calls)
	// insertion sort; caller fan-outs are tiny
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && position[sorted[j].Caller] < position[sorted[j-1].Caller]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}

// concatRegionCalls stitches per-region call files into one
// combined file, keeping the VCF header of the first region only.
func concatRegionCalls(regionFiles []string, outFile string) error {
	if mkErr := os.MkdirAll(path.Dir(outFile), 0755); mkErr != nil {
		return mkErr
	}

	out, createErr := os.Create(outFile)
	if createErr != nil {
		return createErr
	}
	defer out.Close()

	for i, regionFile := range regionFiles {
		if copyErr := appendCalls(out, regionFile, i == 0); copyErr != nil {
			return copyErr
		}
	}
	return nil
}

func appendCalls(out *os.File, regionFile string, keepHeader bool) error {
	f, openErr := os.Open(regionFile)
	if openErr != nil {
		return openErr
	}
	defer f.Close()

	if keepHeader {
		_, copyErr := io.Copy(out, f)
		return copyErr
	}

	return copyWithoutHeader(out, f)
}

func fileExists(p string) bool {
	_, statErr := os.Stat(p)
	return statErr == nil
}
