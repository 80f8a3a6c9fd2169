package regions

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"varpipe/api/models/constants/chromosome"
)

// Pseudo-chromosome names a region planner can emit for
// reads that either have no chromosome assignment or sit in
// regions excluded from analysis. Neither produces calling work.
const (
	NoChrom    = "nochrom"
	NoAnalysis = "noanalysis"
)

// Region is a half-open chromosome interval, in base pairs.
type Region struct {
	Chrom string
	Start int
	End   int
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.Chrom, r.Start, r.End)
}

// SafeStr renders a region as a filesystem-safe token used
// when naming per-region work files.
func (r Region) SafeStr() string {
	return fmt.Sprintf("%s_%d_%d", r.Chrom, r.Start, r.End)
}

// IsCallable reports whether a region holds actual calling
// work, as opposed to the nochrom/noanalysis placeholders.
func (r Region) IsCallable() bool {
	return r.Chrom != NoChrom && r.Chrom != NoAnalysis
}

// ParseBed reads a BED file of target regions, normalizing
// chromosome names and skipping comment/track lines.
func ParseBed(bedPath string) ([]Region, error) {
	f, err := os.Open(bedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open region file %s : %v", bedPath, err)
	}
	defer f.Close()

	var out []Region

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed BED line in %s : '%s'", bedPath, line)
		}

		start, startErr := strconv.Atoi(fields[1])
		end, endErr := strconv.Atoi(fields[2])
		if startErr != nil || endErr != nil {
			return nil, fmt.Errorf("non-numeric BED coordinates in %s : '%s'", bedPath, line)
		}

		out = append(out, Region{
			Chrom: chromosome.Normalize(fields[0]),
			Start: start,
			End:   end,
		})
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, scanErr
	}

	return out, nil
}
