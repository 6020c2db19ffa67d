package insertion

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

func fastqRecords(names ...string) []byte {
	var out []byte
	for _, name := range names {
		out = append(out, "@"+name+"\nACGTACGT\n+\nFFFFFFFF\n"...)
	}
	return out
}

func TestCountReads(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tmpDir, "reads.fastq")
	assert.NoError(t, ioutil.WriteFile(path, fastqRecords("r1", "r2", "r3"), 0666))

	n, err := CountReads(path)
	assert.NoError(t, err)
	expect.EQ(t, n, 3)
}

func TestCountReadsGzip(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tmpDir, "reads.fastq.gz")
	f, err := os.Create(path)
	assert.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write(fastqRecords("r1", "r2", "r3", "r4"))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	assert.NoError(t, f.Close())

	n, err := CountReads(path)
	assert.NoError(t, err)
	expect.EQ(t, n, 4)
}

func TestCountReadsMissingFile(t *testing.T) {
	_, err := CountReads("/nonexistent/reads.fastq")
	expect.True(t, err != nil)
}

func TestNormalizeFFPM(t *testing.T) {
	insertions := []Insertion{
		{SupportJunction: 5},
		{SupportJunction: 0},
		{SupportJunction: 250},
	}
	NormalizeFFPM(insertions, 1000000)
	expect.EQ(t, insertions[0].FFPM, 5.0)
	expect.EQ(t, insertions[1].FFPM, 0.0)
	expect.EQ(t, insertions[2].FFPM, 250.0)

	NormalizeFFPM(insertions, 500000)
	expect.EQ(t, insertions[0].FFPM, 10.0)
}

func TestNormalizeFFPMEmptyLibrary(t *testing.T) {
	insertions := []Insertion{{SupportJunction: 5, FFPM: 0}}
	NormalizeFFPM(insertions, 0)
	expect.EQ(t, insertions[0].FFPM, 0.0)
}
