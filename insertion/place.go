package insertion

import (
	"fmt"

	"github.com/jrderuiter/im-fusion/fusion"
)

// Place converts annotated fusions into insertion calls, one per fusion, in
// input order. IDs are assigned sequentially within the sample.
func Place(fusions []AnnotatedFusion, sampleID string) []Insertion {
	insertions := make([]Insertion, 0, len(fusions))
	for i, f := range fusions {
		insertions = append(insertions, place(f, sampleID, i+1))
	}
	return insertions
}

func place(f AnnotatedFusion, sampleID string, n int) Insertion {
	ins := Insertion{
		ID:              fmt.Sprintf("%s.INS_%d", sampleID, n),
		SampleID:        sampleID,
		Seqname:         f.Seqname,
		Position:        f.AnchorGenome,
		Strand:          transposonOrientation(f),
		SupportJunction: f.SupportJunction,
		SupportSpanning: f.SupportSpanning,
		Support:         f.Support(),
	}
	if f.Feature != nil {
		ins.FeatureName = f.Feature.Name
		ins.FeatureType = f.Feature.Type
	}
	if f.Gene != nil {
		ins.GeneID = f.Gene.GeneID
		ins.GeneName = f.Gene.GeneName
		ins.GeneStrand = fusion.Forward
		if f.Gene.Strand == '-' {
			ins.GeneStrand = fusion.Reverse
		}
	}
	return ins
}

// transposonOrientation derives the orientation of the integrated transposon
// relative to the genome. The two junction strands encode whether genome and
// transposon were read in the same direction; the feature strand corrects for
// features annotated on the reverse strand of the transposon itself.
func transposonOrientation(f AnnotatedFusion) fusion.Strand {
	orientation := int(f.StrandGenome) * int(f.StrandTransposon)
	if f.Feature != nil {
		orientation *= int(f.Feature.Strand)
	}
	return fusion.Strand(orientation)
}
