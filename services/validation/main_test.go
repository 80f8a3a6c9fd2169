package validation

import (
	"compress/gzip"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

const vcfHeader = "##fileformat=VCFv4.1\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func writeVcf(t *testing.T, name string, dataLines string) string {
	filePath := path.Join(t.TempDir(), name)
	assert.Nil(t, os.WriteFile(filePath, []byte(vcfHeader+dataLines), 0644))
	return filePath
}

func TestParseVcfCalls(t *testing.T) {
	filePath := writeVcf(t, "calls.vcf",
		"chr22\t16050036\trs2905062\tA\tC\t30\tPASS\t.\n"+
			"22\t16050115\t.\tG\tA,T\t.\tq10\t.\n")

	records, parseErr := ParseVcfCalls(filePath)
	assert.Nil(t, parseErr)
	assert.Equal(t, 2, len(records))

	t.Run("first record parses fully", func(t *testing.T) {
		assert.Equal(t, "22", records[0].Chrom)
		assert.Equal(t, 16050036, records[0].Pos)
		assert.Equal(t, "rs2905062", records[0].Id)
		assert.Equal(t, []string{"A"}, records[0].Ref)
		assert.Equal(t, []string{"C"}, records[0].Alt)
		assert.Equal(t, 30, records[0].Qual)
		assert.Equal(t, "PASS", records[0].Filter)
	})

	t.Run("period id tokenizes to none, period qual to -1", func(t *testing.T) {
		assert.Equal(t, "none", records[1].Id)
		assert.Equal(t, -1, records[1].Qual)
	})

	t.Run("comma-separated alleles split", func(t *testing.T) {
		assert.Equal(t, []string{"A", "T"}, records[1].Alt)
	})
}

func TestParseVcfCallsGzipped(t *testing.T) {
	filePath := path.Join(t.TempDir(), "calls.vcf.gz")

	f, createErr := os.Create(filePath)
	assert.Nil(t, createErr)
	gw := gzip.NewWriter(f)
	_, writeErr := gw.Write([]byte(vcfHeader + "22\t1000\t.\tA\tG\t50\tPASS\t.\n"))
	assert.Nil(t, writeErr)
	assert.Nil(t, gw.Close())
	assert.Nil(t, f.Close())

	records, parseErr := ParseVcfCalls(filePath)
	assert.Nil(t, parseErr)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, 1000, records[0].Pos)
}

func TestParseVcfCallsMalformed(t *testing.T) {
	filePath := writeVcf(t, "bad.vcf", "22\t1000\n")

	_, parseErr := ParseVcfCalls(filePath)
	assert.NotNil(t, parseErr)
}

func TestCompare(t *testing.T) {
	callFile := writeVcf(t, "calls.vcf",
		"22\t1000\t.\tA\tG\t50\tPASS\t.\n"+
			"22\t2000\t.\tC\tT\t50\tPASS\t.\n"+
			"22\t2000\t.\tC\tT\t50\tPASS\t.\n"+ // duplicate call, counted once
			"22\t3000\t.\tG\tA\t50\tPASS\t.\n")
	truthFile := writeVcf(t, "truth.vcf",
		"22\t1000\t.\tA\tG\t99\tPASS\t.\n"+
			"22\t2000\t.\tC\tT\t99\tPASS\t.\n"+
			"22\t4000\t.\tT\tC\t99\tPASS\t.\n")

	result, compareErr := Compare(callFile, truthFile)
	assert.Nil(t, compareErr)

	assert.Equal(t, truthFile, result.TruthFile)
	assert.Equal(t, 2, result.Concordant)
	assert.Equal(t, 1, result.Extra)   // 22:3000 absent from the truth set
	assert.Equal(t, 1, result.Missing) // 22:4000 never called
}

func TestCallRecordKey(t *testing.T) {
	record := CallRecord{Chrom: "22", Pos: 1000, Ref: []string{"A"}, Alt: []string{"G", "T"}}
	assert.Equal(t, "22|1000|A|G,T", record.Key())
}
