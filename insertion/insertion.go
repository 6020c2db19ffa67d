// Package insertion converts gene-transposon fusions into approximate
// genomic insertion calls.
package insertion

import (
	"github.com/jrderuiter/im-fusion/fusion"
)

// Insertion is one called transposon insertion site.
type Insertion struct {
	// ID is unique within a sample, of the form "<sample>.INS_<n>".
	ID       string
	SampleID string

	// Seqname and Position locate the insertion; Position is the genomic
	// anchor of the supporting fusion.
	Seqname  string
	Position int
	// Strand is the orientation of the integrated transposon relative to the
	// genome.
	Strand fusion.Strand

	// GeneID/GeneName identify the annotated gene overlapping the insertion,
	// empty when intergenic. GeneStrand is meaningless when GeneID is empty.
	GeneID     string
	GeneName   string
	GeneStrand fusion.Strand

	// FeatureName/FeatureType describe the transposon feature (e.g. a splice
	// donor or acceptor) involved in the fusion, empty when none overlaps.
	FeatureName string
	FeatureType string

	SupportJunction int
	SupportSpanning int
	// Support is the total read support, junction plus spanning.
	Support int

	// FFPM is the fusion support normalized to fusions-per-million reads.
	// Zero when no library size was available.
	FFPM float64
}

// InGene reports whether the insertion overlaps an annotated gene.
func (i Insertion) InGene() bool { return i.GeneID != "" }

// Sense reports whether the transposon is oriented with the annotated gene.
// Only meaningful when InGene().
func (i Insertion) Sense() bool { return i.Strand == i.GeneStrand }
