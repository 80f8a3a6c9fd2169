package regions

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBed(t *testing.T) {
	bedPath := path.Join(t.TempDir(), "targets.bed")
	bedContents := "track name=targets\n" +
		"# capture regions\n" +
		"chr22\t100\t20000\n" +
		"X\t500\t900\n" +
		"chrMT\t1\t16569\n" +
		"nochrom\t0\t0\n" +
		"\n"
	assert.Nil(t, os.WriteFile(bedPath, []byte(bedContents), 0644))

	parsed, parseErr := ParseBed(bedPath)
	assert.Nil(t, parseErr)
	assert.Equal(t, 4, len(parsed))

	t.Run("chromosome names normalize", func(t *testing.T) {
		assert.Equal(t, Region{Chrom: "22", Start: 100, End: 20000}, parsed[0])
		assert.Equal(t, Region{Chrom: "X", Start: 500, End: 900}, parsed[1])
		assert.Equal(t, Region{Chrom: "MT", Start: 1, End: 16569}, parsed[2])
	})

	t.Run("placeholder regions parse but are not callable", func(t *testing.T) {
		assert.Equal(t, NoChrom, parsed[3].Chrom)
		assert.False(t, parsed[3].IsCallable())
		assert.True(t, parsed[0].IsCallable())
	})
}

func TestParseBedMalformed(t *testing.T) {
	bedPath := path.Join(t.TempDir(), "bad.bed")

	t.Run("too few columns", func(t *testing.T) {
		assert.Nil(t, os.WriteFile(bedPath, []byte("22\t100\n"), 0644))
		_, parseErr := ParseBed(bedPath)
		assert.NotNil(t, parseErr)
	})

	t.Run("non-numeric coordinates", func(t *testing.T) {
		assert.Nil(t, os.WriteFile(bedPath, []byte("22\tabc\tdef\n"), 0644))
		_, parseErr := ParseBed(bedPath)
		assert.NotNil(t, parseErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, parseErr := ParseBed(path.Join(t.TempDir(), "nope.bed"))
		assert.NotNil(t, parseErr)
	})
}

func TestRegionStrings(t *testing.T) {
	r := Region{Chrom: "22", Start: 100, End: 20000}
	assert.Equal(t, "22:100-20000", r.String())
	assert.Equal(t, "22_100_20000", r.SafeStr())
}
