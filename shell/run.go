package shell

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/grailbio/base/log"
	pkgerrors "github.com/pkg/errors"
)

// Command describes one external tool invocation.
type Command struct {
	// Path is the executable name or path.
	Path string
	// Args is the full argument vector, excluding the executable itself.
	Args []string
	// LogPath, when non-empty, receives the tool's stderr. Otherwise stderr
	// is captured in memory and reported only on failure.
	LogPath string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// ExecError is returned when an external tool exits with a non-zero status.
type ExecError struct {
	Command Command
	// Output holds captured stderr when no log file was configured.
	Output string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command.Path, e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// Runner runs external commands. The pipeline depends on this interface so
// that tests can substitute a stub and count invocations.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands via os/exec, blocking until the child exits.
type ExecRunner struct{}

// Run implements Runner. The child's stdout is discarded; stderr goes to the
// configured log file, or is captured for error reporting.
func (ExecRunner) Run(ctx context.Context, cmd Command) error {
	log.Debug.Printf("exec: %s", cmd)
	child := exec.CommandContext(ctx, cmd.Path, cmd.Args...)

	var captured bytes.Buffer
	if cmd.LogPath != "" {
		logFile, err := os.Create(cmd.LogPath)
		if err != nil {
			return pkgerrors.Wrapf(err, "creating log file for %s", cmd.Path)
		}
		defer logFile.Close() // nolint: errcheck
		child.Stderr = logFile
	} else {
		child.Stderr = &captured
	}

	if err := child.Run(); err != nil {
		return &ExecError{Command: cmd, Output: strings.TrimSpace(captured.String()), Err: err}
	}
	return nil
}

// CheckDependencies verifies that the named executables can be found on the
// execution path. It reports all missing tools at once, before anything is
// spawned, so that a half-finished pipeline never fails late on a missing
// binary.
func CheckDependencies(names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required external tool(s) not found on PATH: %s",
			strings.Join(missing, ", "))
	}
	return nil
}
