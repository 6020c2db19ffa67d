package reference

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bio/encoding/fasta"
	"github.com/grailbio/bio/interval"
	"github.com/grailbio/hts/bgzf"
	pkgerrors "github.com/pkg/errors"

	"github.com/jrderuiter/im-fusion/gtf"
	"github.com/jrderuiter/im-fusion/shell"
)

const fastaLineWidth = 60

// Builder constructs augmented reference directories: the host genome
// concatenated with the transposon sequence, indexed for bowtie, with the
// annotation and transposon features copied alongside.
type Builder struct {
	// Runner executes the external indexer. Defaults to shell.ExecRunner.
	Runner shell.Runner
	// BlacklistRegions are "chr:start-end" region strings whose bases are
	// masked to N in the augmented genome.
	BlacklistRegions []string
	// BlacklistGenes are gene IDs whose bodies are masked to N.
	BlacklistGenes []string
}

// BuildOptions names the inputs of one Build call.
type BuildOptions struct {
	// RefseqPath is the host genome FASTA.
	RefseqPath string
	// GTFPath is the reference gene annotation.
	GTFPath string
	// TransposonPath is the transposon FASTA (single sequence).
	TransposonPath string
	// FeaturesPath is the transposon feature table.
	FeaturesPath string
	// OutputDir is the reference directory to create. It must not exist yet.
	OutputDir string
}

// Dependencies returns the external tools Build invokes.
func (b *Builder) Dependencies() []string { return []string{"bowtie-build"} }

// Build creates a new augmented reference in opts.OutputDir.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*Reference, error) {
	// Refuse to write into an existing directory; a half-built reference
	// is worse than none.
	if err := os.Mkdir(opts.OutputDir, 0777); err != nil {
		return nil, pkgerrors.Wrap(err, "creating reference directory")
	}
	ref := &Reference{dir: opts.OutputDir}

	log.Printf("copying annotation and transposon files")
	for _, c := range []struct{ src, dst string }{
		{opts.GTFPath, ref.GTFPath()},
		{opts.TransposonPath, ref.TransposonPath()},
		{opts.FeaturesPath, ref.FeaturesPath()},
	} {
		if err := copyFile(c.src, c.dst); err != nil {
			return nil, err
		}
	}

	blacklist, err := b.blacklistEntries(ctx, opts.GTFPath)
	if err != nil {
		return nil, err
	}

	log.Printf("building augmented reference sequence")
	if err := buildFasta(ctx, opts.RefseqPath, opts.TransposonPath, ref.FastaPath(), blacklist); err != nil {
		return nil, err
	}

	log.Printf("indexing annotation")
	if err := compressGTF(ref.GTFPath(), ref.IndexedGTFPath()); err != nil {
		return nil, err
	}

	log.Printf("building bowtie index")
	runner := b.Runner
	if runner == nil {
		runner = shell.ExecRunner{}
	}
	cmd := shell.Command{
		Path: "bowtie-build",
		Args: []string{ref.FastaPath(), ref.IndexPath()},
	}
	if err := runner.Run(ctx, cmd); err != nil {
		return nil, err
	}
	return ref, nil
}

// blacklistEntries resolves the configured region strings and gene IDs into
// maskable intervals.
func (b *Builder) blacklistEntries(ctx context.Context, gtfPath string) ([]interval.Entry, error) {
	entries := make([]interval.Entry, 0, len(b.BlacklistRegions)+len(b.BlacklistGenes))
	for _, region := range b.BlacklistRegions {
		entry, err := interval.ParseRegionString(region)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "blacklist region %q", region)
		}
		entries = append(entries, entry)
	}
	if len(b.BlacklistGenes) == 0 {
		return entries, nil
	}

	genes, err := gtf.ReadGenes(ctx, gtfPath)
	if err != nil {
		return nil, err
	}
	byID := map[string]gtf.Gene{}
	for _, g := range genes {
		byID[g.GeneID] = g
	}
	for _, id := range b.BlacklistGenes {
		g, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("blacklisted gene %q not found in %s", id, gtfPath)
		}
		entries = append(entries, interval.Entry{
			RefName: g.Chrom,
			Start0:  interval.PosType(g.Start - 1),
			End:     interval.PosType(g.End),
		})
	}
	return entries, nil
}

// buildFasta concatenates the genome and transposon sequences into outPath,
// masking blacklisted intervals to N.
func buildFasta(ctx context.Context, refseqPath, transposonPath, outPath string, blacklist []interval.Entry) (err error) {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(out, 1<<20)

	for _, path := range []string{refseqPath, transposonPath} {
		if err = appendFasta(ctx, w, path, blacklist); err != nil {
			_ = out.Close()
			return err
		}
	}
	if err = w.Flush(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func appendFasta(ctx context.Context, w *bufio.Writer, path string, blacklist []interval.Entry) error {
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	defer in.Close(ctx) // nolint: errcheck

	fa, err := fasta.New(in.Reader(ctx))
	if err != nil {
		return pkgerrors.Wrap(err, path)
	}
	for _, name := range fa.SeqNames() {
		length, err := fa.Len(name)
		if err != nil {
			return err
		}
		seq, err := fa.Get(name, 0, length)
		if err != nil {
			return err
		}
		if err := writeFastaSeq(w, name, maskSeq(seq, name, blacklist)); err != nil {
			return err
		}
	}
	return nil
}

func maskSeq(seq, name string, blacklist []interval.Entry) string {
	var masked []byte
	for _, entry := range blacklist {
		if entry.RefName != name {
			continue
		}
		start, end := int(entry.Start0), int(entry.End)
		if start < 0 {
			start = 0
		}
		if end > len(seq) {
			end = len(seq)
		}
		if start >= end {
			continue
		}
		if masked == nil {
			masked = []byte(seq)
		}
		for i := start; i < end; i++ {
			masked[i] = 'N'
		}
	}
	if masked == nil {
		return seq
	}
	return string(masked)
}

func writeFastaSeq(w *bufio.Writer, name, seq string) error {
	if _, err := fmt.Fprintf(w, ">%s\n", name); err != nil {
		return err
	}
	for len(seq) > 0 {
		n := fastaLineWidth
		if n > len(seq) {
			n = len(seq)
		}
		if _, err := w.WriteString(seq[:n]); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}

// compressGTF writes a bgzip-compressed copy of the annotation, the layout
// downstream tabix-style consumers expect.
func compressGTF(srcPath, dstPath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close() // nolint: errcheck

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	bw := bgzf.NewWriter(dst, 1)
	if _, err = io.Copy(bw, src); err != nil {
		_ = bw.Close()
		_ = dst.Close()
		return err
	}
	if err = bw.Close(); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func copyFile(srcPath, dstPath string) (err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close() // nolint: errcheck

	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
