// Package fusion reads Tophat2 fusion reports and classifies the reported
// junctions into gene-transposon fusions.
package fusion

import (
	"fmt"
)

// Strand is a numeric strand code, +1 for forward, -1 for reverse.
type Strand int8

const (
	// Forward is the forward (Watson) strand.
	Forward Strand = 1
	// Reverse is the reverse (Crick) strand.
	Reverse Strand = -1
)

// ParseStrand maps a Tophat2 orientation character to a Strand.  'f' maps to
// Forward and 'r' to Reverse; anything else is a report-format violation.
func ParseStrand(ch byte) (Strand, error) {
	switch ch {
	case 'f':
		return Forward, nil
	case 'r':
		return Reverse, nil
	}
	return 0, fmt.Errorf("unknown orientation character %q: %w", ch, ErrMalformedReport)
}

// Code returns the Tophat2 orientation character for the strand.
func (s Strand) Code() byte {
	if s == Reverse {
		return 'r'
	}
	return 'f'
}

func (s Strand) String() string { return fmt.Sprintf("%+d", int(s)) }

// Fusion is one normalized row of a Tophat2 fusions.out report. The compound
// seqnames and orientation columns have been split into per-endpoint fields.
//
// Endpoints are labeled a and b in the order Tophat2 reports them. Exactly
// which endpoint is the transposon side is decided later, during
// classification.
type Fusion struct {
	SeqnameA  string
	LocationA int
	StrandA   Strand

	SeqnameB  string
	LocationB int
	StrandB   Strand

	// Read support, straight from the report. The semantics of these counts
	// depend on whether the library is paired-end; see IsPairedEnd.
	SuppReads          int
	SuppMates          int
	SuppSpanningMates  int
	ContradictingReads int

	// Number of flanking bases covered by reads on either side of the
	// junction, unsigned.
	FlankA int
	FlankB int
}

// TransposonFusion is a fusion between a genomic sequence and the transposon.
// It is produced once per qualifying report row and not mutated afterwards.
type TransposonFusion struct {
	// Seqname is the name of the genome-side sequence (e.g. "chr3"). The
	// transposon side always has the reference transposon name.
	Seqname string
	// AnchorGenome is the junction coordinate on the genome side.
	AnchorGenome int
	// AnchorTransposon is the junction coordinate within the transposon.
	AnchorTransposon int
	// FlankGenome is the signed flank length on the genome side. The sign
	// encodes which side of the breakpoint the flanking sequence extends
	// toward.
	FlankGenome int
	// FlankTransposon is the signed flank length on the transposon side.
	FlankTransposon int

	StrandGenome     Strand
	StrandTransposon Strand

	// SupportJunction is the number of reads directly spanning the junction.
	// SupportSpanning is the number of mate pairs straddling it. For
	// single-end libraries SupportSpanning is always zero.
	SupportJunction int
	SupportSpanning int

	metadata map[string]string
}

// Support returns the total read support for the fusion.
func (f TransposonFusion) Support() int { return f.SupportJunction + f.SupportSpanning }

// GenomeRegion returns the [start, end] genomic span covered by the fusion,
// i.e. the anchor extended by the signed flank.
func (f TransposonFusion) GenomeRegion() (start, end int) {
	return spanRegion(f.AnchorGenome, f.FlankGenome)
}

// TransposonRegion returns the [start, end] span covered within the
// transposon sequence.
func (f TransposonFusion) TransposonRegion() (start, end int) {
	return spanRegion(f.AnchorTransposon, f.FlankTransposon)
}

func spanRegion(anchor, flank int) (int, int) {
	if flank < 0 {
		return anchor + flank, anchor
	}
	return anchor, anchor + flank
}

// Metadata returns the annotation value stored under key, if any.
func (f TransposonFusion) Metadata(key string) (string, bool) {
	v, ok := f.metadata[key]
	return v, ok
}

// WithMetadata returns a copy of the fusion with the given annotations added.
// The receiver is left unchanged.
func (f TransposonFusion) WithMetadata(kv map[string]string) TransposonFusion {
	merged := make(map[string]string, len(f.metadata)+len(kv))
	for k, v := range f.metadata {
		merged[k] = v
	}
	for k, v := range kv {
		merged[k] = v
	}
	f.metadata = merged
	return f
}
