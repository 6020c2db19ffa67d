// Package reference describes the on-disk layout of an augmented reference
// (host genome plus transposon sequence) and builds new ones.
package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/file"
	"github.com/grailbio/bio/encoding/fasta"
	pkgerrors "github.com/pkg/errors"
)

// Reference provides the conventional paths inside an augmented reference
// directory, as produced by the Builder.
type Reference struct {
	dir string

	transposonName string // lazily resolved from the transposon FASTA
}

// Open returns a Reference rooted at dir. The directory must exist.
func Open(dir string) (*Reference, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening reference")
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reference path %s is not a directory", dir)
	}
	return &Reference{dir: dir}, nil
}

// Dir returns the reference base directory.
func (r *Reference) Dir() string { return r.dir }

// FastaPath returns the path of the augmented reference sequence.
func (r *Reference) FastaPath() string { return filepath.Join(r.dir, "reference.fa") }

// GTFPath returns the path of the reference gene annotation.
func (r *Reference) GTFPath() string { return filepath.Join(r.dir, "reference.gtf") }

// IndexedGTFPath returns the path of the bgzip-compressed gene annotation.
func (r *Reference) IndexedGTFPath() string { return filepath.Join(r.dir, "reference.gtf.gz") }

// IndexPath returns the bowtie index basename.
func (r *Reference) IndexPath() string { return filepath.Join(r.dir, "index") }

// TranscriptomeIndexPath returns the basename of the Tophat2 transcriptome
// index, which Tophat2 derives from the main index on first use.
func (r *Reference) TranscriptomeIndexPath() string { return r.IndexPath() + ".transcriptome" }

// HasTranscriptomeIndex reports whether a prebuilt transcriptome index is
// present next to the main index.
func (r *Reference) HasTranscriptomeIndex() bool {
	_, err := os.Stat(r.TranscriptomeIndexPath() + ".1.ebwt")
	return err == nil
}

// TransposonPath returns the path of the transposon sequence.
func (r *Reference) TransposonPath() string { return filepath.Join(r.dir, "transposon.fa") }

// FeaturesPath returns the path of the transposon feature table.
func (r *Reference) FeaturesPath() string { return filepath.Join(r.dir, "features.txt") }

// TransposonName returns the name of the transposon sequence, read from the
// first record of the transposon FASTA. The result is cached.
func (r *Reference) TransposonName(ctx context.Context) (string, error) {
	if r.transposonName != "" {
		return r.transposonName, nil
	}
	in, err := file.Open(ctx, r.TransposonPath())
	if err != nil {
		return "", pkgerrors.Wrap(err, "reading transposon sequence")
	}
	fa, err := fasta.New(in.Reader(ctx))
	if err != nil {
		_ = in.Close(ctx)
		return "", pkgerrors.Wrap(err, r.TransposonPath())
	}
	names := fa.SeqNames()
	if err := in.Close(ctx); err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%s: transposon FASTA holds no sequences", r.TransposonPath())
	}
	r.transposonName = names[0]
	return r.transposonName, nil
}
