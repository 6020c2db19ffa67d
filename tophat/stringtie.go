package tophat

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bgzf"

	"github.com/jrderuiter/im-fusion/shell"
)

// assembleTranscripts runs StringTie on the alignment and leaves a
// bgzip-compressed assembly at workDir/assembled.gtf.gz.
func (a *Aligner) assembleTranscripts(ctx context.Context, workDir, alignmentPath string) error {
	assembledPath := filepath.Join(workDir, "assembled.gtf.gz")
	if a.UseExisting && exists(assembledPath) {
		log.Error.Printf("using existing assembly %s", assembledPath)
		return nil
	}
	log.Printf("assembling transcripts")

	plainPath := strings.TrimSuffix(assembledPath, ".gz")
	var injected shell.Args
	injected.Set("-G", a.Reference.GTFPath())
	injected.Set("-o", plainPath)
	if a.Threads > 0 {
		injected.Set("-p", strconv.Itoa(a.Threads))
	}
	args := a.AssembleArgs.Merge(injected)

	cmd := shell.Command{
		Path: "stringtie",
		Args: append([]string{alignmentPath}, args.Flatten()...),
	}
	if err := a.runner().Run(ctx, cmd); err != nil {
		return err
	}

	if err := bgzipFile(plainPath, assembledPath); err != nil {
		return err
	}
	return os.Remove(plainPath)
}

// bgzipFile writes a bgzip-compressed copy of srcPath to dstPath.
func bgzipFile(srcPath, dstPath string) error {
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
	if _, err := io.Copy(bw, src); err != nil {
		_ = bw.Close()
		_ = dst.Close()
		return err
	}
	if err := bw.Close(); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
