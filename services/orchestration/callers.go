package orchestration

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"varpipe/api/models/constants"
	vc "varpipe/api/models/constants/variant-caller"
	"varpipe/api/models/regions"
	"varpipe/api/models/runconfig"
)

/*
	External variant-caller invocations. Alignment, duplicate
	marking, realignment, recalibration and calling itself are
	performed by the external tools a run config names; this
	registry only knows how to drive them over one region.
*/

func buildCallerRegistry() map[constants.VariantCaller]CallerFn {
	return map[constants.VariantCaller]CallerFn{
		vc.Gatk:          unifiedGenotyper,
		vc.GatkHaplotype: haplotypeCaller,
		vc.Freebayes:     runFreebayes,
		vc.Cortex:        runCortex,
		vc.Samtools:      runSamtools,
		vc.Varscan:       runVarscan,
		vc.Mutect:        mutectCaller,
	}
}

// regionArg renders a region as the samtools-style
// `chrom:start-end` restriction most tools accept; a zero
// region means whole genome and produces no restriction.
func regionArg(region regions.Region) string {
	if region.Chrom == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d-%d", region.Chrom, region.Start, region.End)
}

// resourceOptions pulls per-tool option overrides out of the
// sample's `resources` mapping.
func resourceOptions(sample *runconfig.SampleConfig, tool string) []string {
	toolResources, ok := sample.Resources[tool]
	if !ok {
		return nil
	}

	rawOptions, ok := toolResources["options"].([]interface{})
	if !ok {
		return nil
	}

	var options []string
	for _, rawOption := range rawOptions {
		options = append(options, fmt.Sprint(rawOption))
	}
	return options
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmdOutput := &bytes.Buffer{}
	cmd.Stdout = cmdOutput
	cmd.Stderr = cmdOutput
	err := cmd.Run()
	if err != nil {
		fmt.Println(cmdOutput.String())
		fmt.Println(err.Error())
		os.Stderr.WriteString(err.Error())
		return fmt.Errorf("%s failed : %v", name, err)
	}
	return nil
}

// runCommandToFile captures stdout into outFile, for tools
// without an output flag of their own.
func runCommandToFile(ctx context.Context, outFile string, name string, args ...string) error {
	out, createErr := os.Create(outFile)
	if createErr != nil {
		return createErr
	}
	defer out.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	err := cmd.Run()
	if err != nil {
		fmt.Println(stderr.String())
		os.Stderr.WriteString(err.Error())
		return fmt.Errorf("%s failed : %v", name, err)
	}
	return nil
}

func gatkWalker(ctx context.Context, walker string, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {

	args := []string{"-T", walker, "-R", refFile, "-o", outFile}
	for _, bam := range alignBams {
		args = append(args, "-I", bam)
	}
	if restriction := regionArg(region); restriction != "" {
		args = append(args, "-L", restriction)
	}
	args = append(args, resourceOptions(sample, "gatk")...)

	return runCommand(ctx, "gatk", args...)
}

func unifiedGenotyper(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {
	return gatkWalker(ctx, "UnifiedGenotyper", alignBams, sample, refFile, region, outFile)
}

func haplotypeCaller(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {
	return gatkWalker(ctx, "HaplotypeCaller", alignBams, sample, refFile, region, outFile)
}

func runFreebayes(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {

	args := []string{"-f", refFile, "-v", outFile}
	if restriction := regionArg(region); restriction != "" {
		args = append(args, "-r", restriction)
	}
	args = append(args, resourceOptions(sample, "freebayes")...)
	args = append(args, alignBams...)

	return runCommand(ctx, "freebayes", args...)
}

func runSamtools(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {

	args := []string{"mpileup", "-f", refFile}
	if restriction := regionArg(region); restriction != "" {
		args = append(args, "-r", restriction)
	}
	args = append(args, resourceOptions(sample, "samtools")...)
	args = append(args, alignBams...)
	args = append(args, "-v", "-o", outFile)

	return runCommand(ctx, "bcftools", args...)
}

func runVarscan(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {

	// varscan consumes a pileup; produce one alongside the
	// output, then call consensus over it
	pileupFile := fmt.Sprintf("%s-pileup", outFile)

	pileupArgs := []string{"mpileup", "-f", refFile}
	if restriction := regionArg(region); restriction != "" {
		pileupArgs = append(pileupArgs, "-r", restriction)
	}
	pileupArgs = append(pileupArgs, alignBams...)
	pileupArgs = append(pileupArgs, "-o", pileupFile)

	if pileupErr := runCommand(ctx, "samtools", pileupArgs...); pileupErr != nil {
		return pileupErr
	}
	defer os.Remove(pileupFile)

	varscanArgs := []string{"mpileup2cns", pileupFile, "--output-vcf", "1"}
	varscanArgs = append(varscanArgs, resourceOptions(sample, "varscan")...)

	return runCommandToFile(ctx, outFile, "varscan", varscanArgs...)
}

func runCortex(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {

	args := []string{"--ref", refFile, "--out", outFile}
	if restriction := regionArg(region); restriction != "" {
		args = append(args, "--region", restriction)
	}
	args = append(args, resourceOptions(sample, "cortex")...)
	args = append(args, alignBams...)

	return runCommand(ctx, "cortex_var", args...)
}

func mutectCaller(ctx context.Context, alignBams []string, sample *runconfig.SampleConfig,
	refFile string, region regions.Region, outFile string) error {

	args := []string{"--analysis_type", "MuTect", "--reference_sequence", refFile, "--vcf", outFile}
	for _, bam := range alignBams {
		args = append(args, "--input_file", bam)
	}
	if restriction := regionArg(region); restriction != "" {
		args = append(args, "--intervals", restriction)
	}
	args = append(args, resourceOptions(sample, "mutect")...)

	return runCommand(ctx, "mutect", args...)
}

// FilterCalls applies caller-specific post-call filtration.
// Callers that filter as part of the call process pass through.
func (oz *OrchestrationService) FilterCalls(ctx context.Context, caller constants.VariantCaller,
	callFile string, sample *runconfig.SampleConfig, refFile string) (string, error) {

	switch caller {
	case vc.Freebayes:
		return filterFreebayes(ctx, callFile)
	case vc.Gatk, vc.GatkHaplotype:
		return filterGatk(ctx, callFile, refFile)
	default:
		// no additional filtration for callers that
		// filter as part of the call process
		return callFile, nil
	}
}

func filterFreebayes(ctx context.Context, callFile string) (string, error) {
	outFile := filterFileName(callFile)
	if fileExists(outFile) {
		return outFile, nil
	}
	if err := runCommandToFile(ctx, outFile, "vcffilter", "-f", "QUAL > 20", callFile); err != nil {
		return "", err
	}
	return outFile, nil
}

func filterGatk(ctx context.Context, callFile string, refFile string) (string, error) {
	outFile := filterFileName(callFile)
	if fileExists(outFile) {
		return outFile, nil
	}
	err := runCommand(ctx, "gatk",
		"-T", "VariantFiltration",
		"-R", refFile,
		"-V", callFile,
		"-o", outFile,
		"--filterName", "lowQual",
		"--filterExpression", "QUAL < 20.0")
	if err != nil {
		return "", err
	}
	return outFile, nil
}

func filterFileName(callFile string) string {
	return fmt.Sprintf("%s-filter.vcf", strings.TrimSuffix(callFile, ".vcf"))
}

// readBackedPhasing runs the GATK phasing walker over a
// finished call file.
func readBackedPhasing(ctx context.Context, callFile string, alignBams []string, refFile string) (string, error) {
	outFile := fmt.Sprintf("%s-phased.vcf", strings.TrimSuffix(callFile, ".vcf"))
	if fileExists(outFile) {
		return outFile, nil
	}

	args := []string{"-T", "ReadBackedPhasing", "-R", refFile, "-V", callFile, "-o", outFile}
	for _, bam := range alignBams {
		args = append(args, "-I", bam)
	}

	if err := runCommand(ctx, "gatk", args...); err != nil {
		return "", err
	}
	return outFile, nil
}

// copyWithoutHeader streams the call records of a VCF, dropping
// header/meta lines; used when concatenating region files.
func copyWithoutHeader(out io.Writer, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if _, writeErr := fmt.Fprintln(out, line); writeErr != nil {
			return writeErr
		}
	}
	return scanner.Err()
}
