package insertion

import (
	"io"
	"os"
	"strings"

	"github.com/grailbio/bio/encoding/fastq"
	"github.com/klauspost/compress/gzip"
	pkgerrors "github.com/pkg/errors"
)

// CountReads returns the number of reads in the given FASTQ file, which may
// be gzip-compressed. Used as the library size for FFPM normalization; for
// paired-end data counting one mate file is sufficient.
func CountReads(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close() // nolint: errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return 0, pkgerrors.Wrap(err, path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}

	scanner := fastq.NewScanner(r, fastq.ID)
	var read fastq.Read
	n := 0
	for scanner.Scan(&read) {
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, pkgerrors.Wrap(err, path)
	}
	return n, nil
}

// NormalizeFFPM fills in each insertion's FFPM (fusions per million reads)
// given the sequencing library size. totalReads <= 0 leaves FFPM zero.
func NormalizeFFPM(insertions []Insertion, totalReads int) {
	if totalReads <= 0 {
		return
	}
	for i := range insertions {
		insertions[i].FFPM = float64(insertions[i].SupportJunction) / float64(totalReads) * 1e6
	}
}
