// Package tophat orchestrates Tophat2 fusion-search alignments and extracts
// gene-transposon fusions from the resulting report.
package tophat

import (
	"context"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/jrderuiter/im-fusion/shell"
)

const executable = "tophat2"

// AlignOptions holds the inputs of one Tophat2 invocation.
type AlignOptions struct {
	// FastqPath is the first (or only) read file.
	FastqPath string
	// Fastq2Path is the second read file for paired-end data; empty for
	// single-end.
	Fastq2Path string
	// IndexPath is the bowtie index basename of the augmented genome.
	IndexPath string
	// OutputDir receives Tophat2's artifacts. Created when absent.
	OutputDir string
	// ExtraArgs are pass-through Tophat2 flags. Any -o/--output-dir in here
	// is dropped in favor of OutputDir.
	ExtraArgs shell.Args
	// LogPath, when set, captures Tophat2's stderr.
	LogPath string
}

// Align runs a Tophat2 alignment, blocking until the tool exits. The argument
// vector is the flattened flag set followed by the positional arguments
// [index, fastq1(, fastq2)].
func Align(ctx context.Context, runner shell.Runner, opts AlignOptions) error {
	if err := os.MkdirAll(opts.OutputDir, 0777); err != nil {
		return pkgerrors.Wrap(err, "creating tophat output directory")
	}

	// The output directory is owned by this call; caller-supplied output
	// flags would silently scatter artifacts elsewhere.
	args := opts.ExtraArgs.Clone()
	args.Delete("-o")
	args.Delete("--output-dir")
	args.Set("--output-dir", opts.OutputDir)

	argv := args.Flatten()
	argv = append(argv, opts.IndexPath, opts.FastqPath)
	if opts.Fastq2Path != "" {
		argv = append(argv, opts.Fastq2Path)
	}
	return runner.Run(ctx, shell.Command{Path: executable, Args: argv, LogPath: opts.LogPath})
}
