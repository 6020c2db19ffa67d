package main

// im-fusion-build constructs an augmented reference for im-fusion: the host
// genome concatenated with the transposon sequence, indexed for bowtie, with
// the gene annotation and transposon feature table copied alongside.

import (
	"flag"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/jrderuiter/im-fusion/reference"
	"github.com/jrderuiter/im-fusion/shell"
)

var (
	refseqPath     = flag.String("reference-seq", "", "Path to the host genome FASTA (required)")
	gtfPath        = flag.String("reference-gtf", "", "Path to the reference gene annotation GTF (required)")
	transposonPath = flag.String("transposon-seq", "", "Path to the transposon FASTA (required)")
	featuresPath   = flag.String("transposon-features", "", "Path to the transposon feature table TSV (required)")
	outputDir      = flag.String("output-dir", "", "Reference directory to create; must not exist (required)")

	blacklistRegions = flag.String("blacklist-regions", "", "Comma-separated chr:start-end regions to mask in the augmented genome")
	blacklistGenes   = flag.String("blacklist-genes", "", "Comma-separated gene IDs whose bodies are masked")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	for _, required := range []*string{refseqPath, gtfPath, transposonPath, featuresPath, outputDir} {
		if *required == "" {
			log.Fatalf("-reference-seq, -reference-gtf, -transposon-seq, -transposon-features and -output-dir are all required")
		}
	}
	ctx := vcontext.Background()

	builder := &reference.Builder{
		Runner:           shell.ExecRunner{},
		BlacklistRegions: splitList(*blacklistRegions),
		BlacklistGenes:   splitList(*blacklistGenes),
	}
	if err := shell.CheckDependencies(builder.Dependencies()...); err != nil {
		log.Fatalf("%v", err)
	}

	ref, err := builder.Build(ctx, reference.BuildOptions{
		RefseqPath:     *refseqPath,
		GTFPath:        *gtfPath,
		TransposonPath: *transposonPath,
		FeaturesPath:   *featuresPath,
		OutputDir:      *outputDir,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	name, err := ref.TransposonName(ctx)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("built reference in %s (transposon %q)", ref.Dir(), name)
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
