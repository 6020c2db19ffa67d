package main

// im-fusion identifies transposon insertion sites from RNA-seq reads. It
// aligns the reads against an augmented reference (built with
// im-fusion-build) using Tophat2 in fusion-search mode, classifies the
// reported fusions into gene-transposon junctions and converts those into
// approximate insertion calls.
//
// Example, paired-end:
//
//	im-fusion -reference ./ref -fastq r1.fastq.gz -fastq2 r2.fastq.gz \
//	    -sample S1 -output-dir ./out

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/jrderuiter/im-fusion/insertion"
	"github.com/jrderuiter/im-fusion/reference"
	"github.com/jrderuiter/im-fusion/shell"
	"github.com/jrderuiter/im-fusion/tophat"
)

var (
	referenceDir = flag.String("reference", "", "Path to the augmented reference directory (required)")
	fastqPath    = flag.String("fastq", "", "Path to the (first) fastq file (required)")
	fastq2Path   = flag.String("fastq2", "", "Path to the second fastq file for paired-end data")
	outputDir    = flag.String("output-dir", "", "Working/output directory for this sample (required)")
	sampleID     = flag.String("sample", "", "Sample name assigned to the called insertions; defaults to the fastq basename")

	alignerName = flag.String("aligner", "tophat", "Fusion-aware aligner to use")
	minFlank    = flag.Int("min-flank", 12, "Minimum flanking bases around a fusion junction (--fusion-anchor-length)")
	threads     = flag.Int("threads", 1, "Thread count passed to the external tools")
	tophatArgs  = flag.String("tophat-args", "", "Extra pass-through arguments for Tophat2")
	useExisting = flag.Bool("use-existing", true, "Reuse existing alignment output when present")

	assemble     = flag.Bool("assemble", false, "Assemble transcripts with StringTie")
	assembleArgs = flag.String("assemble-args", "", "Extra pass-through arguments for StringTie")

	noFilterFeatures    = flag.Bool("no-filter-features", false, "Keep insertions without a splice donor/acceptor feature")
	noFilterOrientation = flag.Bool("no-filter-orientation", false, "Keep insertions antisense to their gene")
	blacklistGenes      = flag.String("blacklist-genes", "", "Comma-separated gene IDs to drop")
	blacklistRegions    = flag.String("blacklist-regions", "", "Comma-separated chr:start-end regions to drop")
)

// insertionAligner is the behavior the pipeline needs from an aligner
// implementation.
type insertionAligner interface {
	CheckDependencies() error
	IdentifyInsertions(ctx context.Context, workDir, fastqPath, fastq2Path, sampleID string, filter *insertion.Filter) ([]insertion.Insertion, error)
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if *referenceDir == "" || *fastqPath == "" || *outputDir == "" {
		log.Fatalf("-reference, -fastq and -output-dir are required")
	}
	ctx := vcontext.Background()

	ref, err := reference.Open(*referenceDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Available aligner implementations, keyed by name. Constructed here and
	// passed down explicitly rather than registered globally.
	aligners := map[string]insertionAligner{
		"tophat": &tophat.Aligner{
			Reference:    ref,
			MinFlank:     *minFlank,
			Threads:      *threads,
			ExtraArgs:    shell.ParseArgs(*tophatArgs),
			Assemble:     *assemble,
			AssembleArgs: shell.ParseArgs(*assembleArgs),
			UseExisting:  *useExisting,
			Runner:       shell.ExecRunner{},
		},
	}
	aligner, ok := aligners[*alignerName]
	if !ok {
		log.Fatalf("unknown aligner %q", *alignerName)
	}
	if err := aligner.CheckDependencies(); err != nil {
		log.Fatalf("%v", err)
	}

	filter := &insertion.Filter{
		RequireFeature:     !*noFilterFeatures,
		RequireOrientation: !*noFilterOrientation,
		BlacklistGenes:     splitList(*blacklistGenes),
	}
	if err := filter.SetBlacklistRegions(splitList(*blacklistRegions)); err != nil {
		log.Fatalf("%v", err)
	}

	sample := *sampleID
	if sample == "" {
		sample = strings.SplitN(filepath.Base(*fastqPath), ".", 2)[0]
	}
	if err := os.MkdirAll(*outputDir, 0777); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	insertions, err := aligner.IdentifyInsertions(ctx, *outputDir, *fastqPath, *fastq2Path, sample, filter)
	if err != nil {
		log.Fatalf("%v", err)
	}

	outPath := filepath.Join(*outputDir, "insertions.txt")
	if err := insertion.WriteFile(ctx, outPath, insertions); err != nil {
		log.Fatalf("writing %s: %v", outPath, err)
	}
	log.Printf("wrote %d insertions to %s", len(insertions), outPath)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
