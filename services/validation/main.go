package validation

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"varpipe/api/models/constants/chromosome"
	"varpipe/api/models/indexes"
)

/*
	Truth-set validation: parse a produced call file and the
	sample's truth VCF, key calls by chrom/pos/ref/alt and
	report concordance counts.
*/

// CallRecord is one parsed VCF data line.
type CallRecord struct {
	Chrom  string
	Pos    int
	Id     string
	Ref    []string
	Alt    []string
	Qual   int
	Filter string
}

// Key identifies a call for concordance comparison.
func (cr CallRecord) Key() string {
	return fmt.Sprintf("%s|%d|%s|%s", cr.Chrom, cr.Pos, strings.Join(cr.Ref, ","), strings.Join(cr.Alt, ","))
}

// ParseVcfCalls reads the data lines of a (possibly gzipped)
// VCF file into call records, skipping all header lines.
func ParseVcfCalls(filePath string) ([]CallRecord, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open call file %s : %v", filePath, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(filePath, ".gz") {
		gr, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return nil, gzErr
		}
		defer gr.Close()
		reader = gr
	}

	var out []CallRecord

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// ----  break up line
		rowComponents := strings.Split(line, "\t")
		if len(rowComponents) < 7 {
			return nil, fmt.Errorf("malformed VCF line in %s : '%s'", filePath, line)
		}

		record := CallRecord{
			Chrom:  chromosome.Normalize(rowComponents[0]),
			Filter: strings.TrimSpace(rowComponents[6]),
		}

		// Convert string's to int's, if possible
		pos, posErr := strconv.Atoi(strings.TrimSpace(rowComponents[1]))
		if posErr != nil {
			pos = -1 // here to simulate a null value (such as when the string value is empty, or
			//          is something as arbitrary as a single period '.')
		}
		record.Pos = pos

		// check for "empty" IDs (i.e, those with a period) and tokenize with "none"
		id := strings.TrimSpace(rowComponents[2])
		if id == "." {
			id = "none"
		}
		record.Id = id

		// Split all alleles by comma
		record.Ref = strings.Split(strings.TrimSpace(rowComponents[3]), ",")
		record.Alt = strings.Split(strings.TrimSpace(rowComponents[4]), ",")

		qual, qualErr := strconv.Atoi(strings.TrimSpace(rowComponents[5]))
		if qualErr != nil {
			qual = -1
		}
		record.Qual = qual

		out = append(out, record)
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return nil, scanErr
	}

	return out, nil
}

// Compare reports the concordance of a call file against a
// truth set: calls found in both, truth calls the file missed,
// and extra calls absent from the truth set.
func Compare(callFile string, truthFile string) (*indexes.ValidationResult, error) {
	calls, callsErr := ParseVcfCalls(callFile)
	if callsErr != nil {
		return nil, callsErr
	}

	truth, truthErr := ParseVcfCalls(truthFile)
	if truthErr != nil {
		return nil, truthErr
	}

	truthKeys := map[string]bool{}
	for _, record := range truth {
		truthKeys[record.Key()] = true
	}

	result := &indexes.ValidationResult{TruthFile: truthFile}

	seen := map[string]bool{}
	for _, record := range calls {
		key := record.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		if truthKeys[key] {
			result.Concordant++
		} else {
			result.Extra++
		}
	}

	for key := range truthKeys {
		if !seen[key] {
			result.Missing++
		}
	}

	return result, nil
}
