package fusion

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	pkgerrors "github.com/pkg/errors"
)

// ErrMalformedReport indicates a fusion report row that violates the expected
// Tophat2 format. A malformed row aborts the whole batch; it means a format
// assumption no longer holds, not that a single event is bad.
var ErrMalformedReport = errors.New("malformed fusion report")

// reportColumns is the number of leading columns consumed from a fusions.out
// row. Tophat2 appends extra per-read detail after these; it is ignored.
const reportColumns = 10

// ReadReportFile reads a Tophat2 fusions.out report from path.
// Transparently decompresses based on the path extension.
func ReadReportFile(ctx context.Context, path string) ([]Fusion, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = in.Reader(ctx)
	r, _ = compress.NewReaderPath(r, in.Name())
	fusions, err := ReadReport(r)
	if err != nil {
		_ = in.Close(ctx)
		return nil, pkgerrors.Wrap(err, path)
	}
	return fusions, in.Close(ctx)
}

// ReadReport parses a Tophat2 fusion report. The input is tab-separated with
// no header; the first ten columns of each row are, in order: seqnames
// ("chrA-chrB"), location_a, location_b, orientation (two characters, each
// 'f' or 'r'), supp_reads, supp_mates, supp_spanning_mates,
// contradicting_reads, flank_a and flank_b.
//
// An empty input yields an empty, non-nil slice.
func ReadReport(r io.Reader) ([]Fusion, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), 16<<20)

	fusions := []Fusion{}
	nLine := 0
	for scanner.Scan() {
		nLine++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fusion, err := parseReportRow(line)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "line %d", nLine)
		}
		fusions = append(fusions, fusion)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return fusions, nil
}

func parseReportRow(line string) (Fusion, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < reportColumns {
		return Fusion{}, pkgerrors.Wrapf(ErrMalformedReport,
			"expected at least %d columns, found %d", reportColumns, len(fields))
	}

	// The seqnames column joins both endpoint names with a single hyphen.
	// A seqname that itself contains a hyphen cannot be represented in this
	// format, so any other split width is an error.
	seqnames := strings.Split(fields[0], "-")
	if len(seqnames) != 2 || seqnames[0] == "" || seqnames[1] == "" {
		return Fusion{}, pkgerrors.Wrapf(ErrMalformedReport,
			"cannot split seqnames %q on '-'", fields[0])
	}

	orientation := fields[3]
	if len(orientation) != 2 {
		return Fusion{}, pkgerrors.Wrapf(ErrMalformedReport,
			"orientation %q is not two characters", orientation)
	}
	strandA, err := ParseStrand(orientation[0])
	if err != nil {
		return Fusion{}, err
	}
	strandB, err := ParseStrand(orientation[1])
	if err != nil {
		return Fusion{}, err
	}

	fusion := Fusion{
		SeqnameA: seqnames[0],
		SeqnameB: seqnames[1],
		StrandA:  strandA,
		StrandB:  strandB,
	}
	for _, col := range []struct {
		name string
		idx  int
		dst  *int
	}{
		{"location_a", 1, &fusion.LocationA},
		{"location_b", 2, &fusion.LocationB},
		{"supp_reads", 4, &fusion.SuppReads},
		{"supp_mates", 5, &fusion.SuppMates},
		{"supp_spanning_mates", 6, &fusion.SuppSpanningMates},
		{"contradicting_reads", 7, &fusion.ContradictingReads},
		{"flank_a", 8, &fusion.FlankA},
		{"flank_b", 9, &fusion.FlankB},
	} {
		v, err := strconv.Atoi(fields[col.idx])
		if err != nil {
			return Fusion{}, pkgerrors.Wrapf(ErrMalformedReport,
				"column %s: %q is not an integer", col.name, fields[col.idx])
		}
		*col.dst = v
	}
	return fusion, nil
}
