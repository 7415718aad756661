package installer

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// CommandRunner launches the installed editor.
type CommandRunner interface {
	// Run starts name and waits for it. A non-zero exit is reported through
	// the exit code; err is set only when the process could not run at all.
	Run(ctx context.Context, name string, args ...string) (exitCode int, err error)
	// Start launches name without waiting for it.
	Start(name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout receives the output of waited commands.
	Stdout io.Writer
	// Stderr receives the error output of waited commands.
	Stderr io.Writer
}

// NewExecRunner returns a runner forwarding command output to the terminal.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	if err != nil {
		return -1, err
	}

	return 0, nil
}

// Start implements CommandRunner. The child is released and outlives the installer.
func (r *ExecRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...) //nolint:noctx // The editor must survive the installer's context.
	if err := cmd.Start(); err != nil {
		return err
	}

	return cmd.Process.Release()
}
