package tophat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bam"
	pkgerrors "github.com/pkg/errors"

	"github.com/jrderuiter/im-fusion/fusion"
	"github.com/jrderuiter/im-fusion/reference"
	"github.com/jrderuiter/im-fusion/shell"
)

// Aligner identifies gene-transposon fusions from RNA-seq reads using a
// Tophat2 fusion-search alignment against an augmented reference.
type Aligner struct {
	Reference *reference.Reference

	// MinFlank is the minimum flanking region around a junction, passed to
	// Tophat2 as --fusion-anchor-length.
	MinFlank int
	// Threads is the Tophat2 thread count.
	Threads int
	// ExtraArgs are caller-supplied pass-through Tophat2 flags. Flags this
	// aligner injects itself take precedence.
	ExtraArgs shell.Args

	// Assemble enables StringTie transcript assembly of the alignment.
	Assemble bool
	// AssembleArgs are pass-through StringTie flags.
	AssembleArgs shell.Args

	// UseExisting skips the alignment (and assembly) when its expected output
	// is already present in the work directory.
	UseExisting bool

	// Runner executes the external tools. Defaults to shell.ExecRunner.
	Runner shell.Runner
}

// Dependencies returns the external tools required by IdentifyFusions.
func (a *Aligner) Dependencies() []string {
	deps := []string{"tophat2", "bowtie"}
	if a.Assemble {
		deps = append(deps, "stringtie")
	}
	return deps
}

// CheckDependencies verifies the required external tools eagerly, before any
// subprocess is spawned.
func (a *Aligner) CheckDependencies() error {
	return shell.CheckDependencies(a.Dependencies()...)
}

// IdentifyFusions aligns the given reads, then parses and classifies the
// fusion report. fastq2Path is empty for single-end data. The alignment is
// symlinked into workDir as alignment.bam and the report as fusions.out.
func (a *Aligner) IdentifyFusions(ctx context.Context, workDir, fastqPath, fastq2Path string) ([]fusion.TransposonFusion, error) {
	tophatDir := filepath.Join(workDir, "tophat")
	fusionPath := filepath.Join(tophatDir, "fusions.out")

	if a.UseExisting && exists(fusionPath) {
		log.Error.Printf("using existing tophat alignment in %s", tophatDir)
	} else {
		log.Printf("running alignment")
		if err := a.align(ctx, tophatDir, fastqPath, fastq2Path); err != nil {
			return nil, err
		}
	}

	alignmentPath := filepath.Join(workDir, "alignment.bam")
	if err := symlinkRelative(filepath.Join(tophatDir, "accepted_hits.bam"), alignmentPath); err != nil {
		return nil, err
	}
	if err := symlinkRelative(fusionPath, filepath.Join(workDir, "fusions.out")); err != nil {
		return nil, err
	}

	transposonName, err := a.Reference.TransposonName(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateAlignment(alignmentPath, transposonName); err != nil {
		return nil, err
	}

	if a.Assemble {
		if err := a.assembleTranscripts(ctx, workDir, alignmentPath); err != nil {
			return nil, err
		}
	}

	log.Printf("extracting fusions")
	rows, err := fusion.ReadReportFile(ctx, fusionPath)
	if err != nil {
		return nil, err
	}
	fusions, stats := fusion.ExtractTransposonFusions(rows, transposonName)
	log.Printf("classified %d of %d fusion rows as gene-transposon junctions "+
		"(%d fully transposon, %d fully genomic)",
		stats.Qualifying, stats.Rows, stats.BothTransposon, stats.NeitherTransposon)
	return fusions, nil
}

func (a *Aligner) align(ctx context.Context, tophatDir, fastqPath, fastq2Path string) error {
	var injected shell.Args
	injected.Set("--fusion-search")
	injected.Set("--fusion-anchor-length", strconv.Itoa(a.MinFlank))
	injected.Set("--bowtie1")
	if a.Threads > 0 {
		injected.Set("--num-threads", strconv.Itoa(a.Threads))
	}
	// Prefer a prebuilt transcriptome index; fall back to the annotation, from
	// which Tophat2 derives one itself.
	if a.Reference.HasTranscriptomeIndex() {
		injected.Set("--transcriptome-index", a.Reference.TranscriptomeIndexPath())
	} else {
		injected.Set("--GTF", a.Reference.GTFPath())
	}

	args := a.ExtraArgs.Clone()
	args.Delete("-G") // superseded by the injected annotation flags
	return Align(ctx, a.runner(), AlignOptions{
		FastqPath:  fastqPath,
		Fastq2Path: fastq2Path,
		IndexPath:  a.Reference.IndexPath(),
		OutputDir:  tophatDir,
		ExtraArgs:  args.Merge(injected),
		LogPath:    filepath.Join(tophatDir, "tophat.log"),
	})
}

func (a *Aligner) runner() shell.Runner {
	if a.Runner != nil {
		return a.Runner
	}
	return shell.ExecRunner{}
}

// validateAlignment opens the BAM produced by the aligner and checks that the
// augmented reference, transposon included, is what the reads were aligned
// against. Catches runs accidentally resumed from a stale work directory.
func validateAlignment(path, transposonName string) error {
	in, err := os.Open(path)
	if err != nil {
		return pkgerrors.Wrap(err, "opening alignment")
	}
	defer in.Close() // nolint: errcheck

	r, err := bam.NewReader(in, 1)
	if err != nil {
		return pkgerrors.Wrap(err, path)
	}
	defer r.Close() // nolint: errcheck

	for _, ref := range r.Header().Refs() {
		if ref.Name() == transposonName {
			return nil
		}
	}
	return fmt.Errorf("%s: alignment reference lacks transposon sequence %q", path, transposonName)
}

// symlinkRelative links dst to src using a path relative to dst's directory,
// replacing any existing link. Relative links survive moving the work
// directory as a whole.
func symlinkRelative(src, dst string) error {
	rel, err := filepath.Rel(filepath.Dir(dst), src)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	return os.Symlink(rel, dst)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
