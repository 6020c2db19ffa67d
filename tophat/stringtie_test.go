package tophat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/jrderuiter/im-fusion/shell"
)

func TestAssembleTranscripts(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	ref := writeTestReference(t, filepath.Join(tmpDir, "ref"))
	workDir := filepath.Join(tmpDir, "work")
	assert.NoError(t, os.MkdirAll(workDir, 0777))
	plainPath := filepath.Join(workDir, "assembled.gtf")

	runner := &fakeRunner{}
	runner.onRun = func(cmd shell.Command) error {
		writeFile(t, plainPath, "chr1\tStringTie\ttranscript\t1\t100\t.\t+\t.\tgene_id \"STRG.1\";\n")
		return nil
	}
	aligner := &Aligner{Reference: ref, Threads: 4, Runner: runner}

	assert.NoError(t, aligner.assembleTranscripts(context.Background(), workDir, "alignment.bam"))
	assert.EQ(t, len(runner.commands), 1)

	cmd := runner.commands[0]
	expect.EQ(t, cmd.Path, "stringtie")
	expect.EQ(t, cmd.Args, []string{
		"alignment.bam",
		"-G", ref.GTFPath(),
		"-o", plainPath,
		"-p", "4",
	})

	// The plain assembly is replaced by its bgzip-compressed form.
	_, err := os.Stat(plainPath)
	expect.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(workDir, "assembled.gtf.gz"))
	expect.NoError(t, err)
}

func TestAssembleTranscriptsUsesExisting(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	ref := writeTestReference(t, filepath.Join(tmpDir, "ref"))
	workDir := filepath.Join(tmpDir, "work")
	assert.NoError(t, os.MkdirAll(workDir, 0777))
	writeFile(t, filepath.Join(workDir, "assembled.gtf.gz"), "")

	runner := &fakeRunner{}
	aligner := &Aligner{Reference: ref, UseExisting: true, Runner: runner}
	assert.NoError(t, aligner.assembleTranscripts(context.Background(), workDir, "alignment.bam"))
	expect.EQ(t, len(runner.commands), 0)
}
