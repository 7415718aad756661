package installer

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExecRunner_Run reports exit codes and launch failures separately.
func TestExecRunner_Run(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}

	shell, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh is not available")
	}

	var stdout bytes.Buffer

	runner := &ExecRunner{Stdout: &stdout, Stderr: &stdout}

	code, err := runner.Run(context.Background(), shell, "-c", "echo installed; exit 3")
	require.NoError(t, err)
	require.Equal(t, 3, code)
	require.Equal(t, "installed\n", stdout.String())

	code, err = runner.Run(context.Background(), shell, "-c", "exit 0")
	require.NoError(t, err)
	require.Zero(t, code)

	_, err = runner.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

// TestExecRunner_Start fails for a missing executable.
func TestExecRunner_Start(t *testing.T) {
	t.Parallel()

	require.Error(t, NewExecRunner().Start(filepath.Join(t.TempDir(), "missing")))
}

// TestStageString names every stage.
func TestStageString(t *testing.T) {
	t.Parallel()

	names := map[Stage]string{
		StageFetching:            "fetching",
		StageCreatingDataDir:     "creating data directory",
		StageResolvingLocale:     "resolving locale",
		StageInstallingExtension: "installing extension",
		StageWritingConfig:       "writing config",
		StageDone:                "done",
		StageFailed:              "failed",
		Stage(0):                 "unknown",
	}
	for stage, name := range names {
		require.Equal(t, name, stage.String())
	}
}
