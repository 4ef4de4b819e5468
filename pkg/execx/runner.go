// Package execx provides a testable abstraction over external command
// execution. Installers depend on the Runner interface instead of calling
// os/exec directly, which keeps their reconciliation logic testable with a
// mock runner.
package execx

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"

	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/logging"
)

// Command describes a single external command invocation.
type Command struct {
	// Name is the program to run, or the full shell script when Shell is set.
	Name string
	Args []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Shell runs the command through "sh -c".
	Shell bool
	// Check turns a nonzero exit status into a COMMAND_FAILED error.
	Check bool
}

// String returns the command as it would appear on a shell prompt.
func (c Command) String() string {
	if c.Shell || len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Ok reports whether the command exited zero.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner defines the interface for executing external commands.
type Runner interface {
	// Run executes a command and returns its captured output. The returned
	// error is non-nil when the command could not be started, or when
	// cmd.Check is set and the command exited nonzero.
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath reports the absolute path of a command, or an error when it
	// is not present on PATH.
	LookPath(name string) (string, error)
}

// OSRunner implements Runner using os/exec.
type OSRunner struct {
	// Env overrides environment variables (nil = inherit from parent)
	Env []string
}

// NewOSRunner creates a new OS-based command runner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

func (r *OSRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	var c *exec.Cmd
	if cmd.Shell {
		c = exec.CommandContext(ctx, "sh", "-c", cmd.Name)
	} else {
		c = exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	}
	c.Dir = cmd.Dir
	if r.Env != nil {
		c.Env = r.Env
	}

	logging.LogCommand(cmd.Name, cmd.Args)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			// Command never ran (not found, permission, cancelled context).
			res.ExitCode = -1
			return res, errors.Wrapf(err, errors.ErrCommandFailed,
				"failed to start %q", cmd.String())
		}
		res.ExitCode = exitErr.ExitCode()
	}

	if cmd.Check && res.ExitCode != 0 {
		return res, errors.Newf(errors.ErrCommandFailed,
			"%q exited with status %d", cmd.String(), res.ExitCode).
			WithDetail("stderr", res.Stderr)
	}

	return res, nil
}

func (r *OSRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// CommandExists reports whether a command is available on PATH.
func CommandExists(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}
