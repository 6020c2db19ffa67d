package tophat

import (
	"context"

	"github.com/grailbio/base/log"

	"github.com/jrderuiter/im-fusion/gtf"
	"github.com/jrderuiter/im-fusion/insertion"
)

// IdentifyInsertions runs the full per-sample pipeline: alignment, fusion
// extraction, annotation, placement, filtering and FFPM normalization.
func (a *Aligner) IdentifyInsertions(ctx context.Context, workDir, fastqPath, fastq2Path, sampleID string, filter *insertion.Filter) ([]insertion.Insertion, error) {
	fusions, err := a.IdentifyFusions(ctx, workDir, fastqPath, fastq2Path)
	if err != nil {
		return nil, err
	}

	log.Printf("annotating fusions")
	features, err := insertion.ReadFeaturesFile(ctx, a.Reference.FeaturesPath())
	if err != nil {
		return nil, err
	}
	genes, err := gtf.ReadGenes(ctx, a.Reference.GTFPath())
	if err != nil {
		return nil, err
	}
	annotator, err := insertion.NewAnnotator(features, genes)
	if err != nil {
		return nil, err
	}
	annotated := annotator.AnnotateAll(fusions)

	log.Printf("converting to insertions")
	insertions := insertion.Place(annotated, sampleID)
	if filter != nil {
		before := len(insertions)
		insertions = filter.Apply(insertions)
		log.Printf("filtered %d of %d insertions", before-len(insertions), before)
	}

	totalReads, err := insertion.CountReads(fastqPath)
	if err != nil {
		return nil, err
	}
	insertion.NormalizeFFPM(insertions, totalReads)
	return insertions, nil
}
