package insertion

import (
	"github.com/biogo/store/interval"

	"github.com/jrderuiter/im-fusion/fusion"
	"github.com/jrderuiter/im-fusion/gtf"
)

// AnnotatedFusion is a gene-transposon fusion with the transposon feature and
// reference gene it touches, when any.
type AnnotatedFusion struct {
	fusion.TransposonFusion

	// Feature is the transposon feature overlapping the transposon-side span,
	// nil when none does. When several overlap, the one with the largest
	// overlap wins.
	Feature *Feature
	// Gene is the reference gene overlapping the genome-side span, nil for
	// intergenic fusions. Ties are broken by overlap length as well.
	Gene *gtf.Gene
}

// span is an interval-tree entry pointing back into a slice by index.
type span struct {
	start, end int
	uid        uintptr
	index      int
}

func (s span) Overlap(b interval.IntRange) bool { return s.end > b.Start && s.start < b.End }
func (s span) ID() uintptr                      { return s.uid }
func (s span) Range() interval.IntRange         { return interval.IntRange{Start: s.start, End: s.end} }

// Annotator annotates fusions against the transposon feature table and the
// reference gene annotation.
type Annotator struct {
	features     []Feature
	featureTree  *interval.IntTree
	genes        []gtf.Gene
	genesByChrom map[string]*interval.IntTree
}

// NewAnnotator builds interval indexes over the given features and genes.
func NewAnnotator(features []Feature, genes []gtf.Gene) (*Annotator, error) {
	an := &Annotator{
		features:     features,
		featureTree:  &interval.IntTree{},
		genes:        genes,
		genesByChrom: map[string]*interval.IntTree{},
	}
	uid := uintptr(0)
	for i, f := range features {
		iv := span{start: f.Start, end: f.End, uid: uid, index: i}
		if err := an.featureTree.Insert(iv, false); err != nil {
			return nil, err
		}
		uid++
	}
	an.featureTree.AdjustRanges()

	for i, g := range genes {
		tree, ok := an.genesByChrom[g.Chrom]
		if !ok {
			tree = &interval.IntTree{}
			an.genesByChrom[g.Chrom] = tree
		}
		// GTF coordinates are 1-based inclusive; the tree is half-open.
		iv := span{start: g.Start - 1, end: g.End, uid: uid, index: i}
		if err := tree.Insert(iv, false); err != nil {
			return nil, err
		}
		uid++
	}
	for _, tree := range an.genesByChrom {
		tree.AdjustRanges()
	}
	return an, nil
}

// Annotate resolves the transposon feature and reference gene for one fusion.
// The resolved names are also recorded in the fusion's metadata.
func (an *Annotator) Annotate(f fusion.TransposonFusion) AnnotatedFusion {
	out := AnnotatedFusion{TransposonFusion: f}
	metadata := map[string]string{}

	trStart, trEnd := f.TransposonRegion()
	if i, ok := bestOverlap(an.featureTree, trStart, trEnd); ok {
		out.Feature = &an.features[i]
		metadata["feature_name"] = out.Feature.Name
		metadata["feature_type"] = out.Feature.Type
	}

	if tree, ok := an.genesByChrom[f.Seqname]; ok {
		genStart, genEnd := f.GenomeRegion()
		if i, ok := bestOverlap(tree, genStart, genEnd); ok {
			out.Gene = &an.genes[i]
			metadata["gene_id"] = out.Gene.GeneID
			metadata["gene_name"] = out.Gene.GeneName
		}
	}
	if len(metadata) > 0 {
		out.TransposonFusion = f.WithMetadata(metadata)
	}
	return out
}

// AnnotateAll annotates fusions in order.
func (an *Annotator) AnnotateAll(fusions []fusion.TransposonFusion) []AnnotatedFusion {
	out := make([]AnnotatedFusion, 0, len(fusions))
	for _, f := range fusions {
		out = append(out, an.Annotate(f))
	}
	return out
}

// bestOverlap returns the payload index of the tree entry with the largest
// overlap with [start, end), if any overlaps at all.
func bestOverlap(tree *interval.IntTree, start, end int) (int, bool) {
	if tree == nil || end <= start {
		return 0, false
	}
	query := span{start: start, end: end}
	best, bestLen := 0, 0
	for _, m := range tree.Get(query) {
		s := m.(span)
		l := min(s.end, end) - max(s.start, start)
		if l > bestLen {
			best, bestLen = s.index, l
		}
	}
	return best, bestLen > 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
