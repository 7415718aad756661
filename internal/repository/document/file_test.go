package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vsc-portable/internal/domain/appdata"
)

// TestFileWriter_RuntimeArgs writes argv.json and checks the decoded content and indentation.
func TestFileWriter_RuntimeArgs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "argv.json")

	require.NoError(t, NewFileWriter().Write(context.Background(), path, appdata.NewRuntimeArgs("fr")))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"locale\": \"fr\",\n  \"enable-crash-reporter\": false\n}\n", string(contents))
}

// TestFileWriter_CreatesParentDirectories writes settings.json below missing directories.
func TestFileWriter_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := appdata.SettingsPath(filepath.Join(t.TempDir(), "VSCode-linux-x64"))

	require.NoError(t, NewFileWriter().Write(context.Background(), path, appdata.NewUserSettings()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(contents, &got))
	require.Len(t, got, 5)
	require.Equal(t, "off", got["telemetry.telemetryLevel"])
}

// TestFileWriter_ReplacesExistingFile verifies that a second write replaces the first one.
func TestFileWriter_ReplacesExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "argv.json")
	writer := NewFileWriter()

	require.NoError(t, writer.Write(context.Background(), path, appdata.NewRuntimeArgs("de")))
	require.NoError(t, writer.Write(context.Background(), path, appdata.NewRuntimeArgs("ja")))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var got appdata.RuntimeArgs
	require.NoError(t, json.Unmarshal(contents, &got))
	require.Equal(t, "ja", got.Locale)

	// No swap leftovers.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestFileWriter_Failures checks that encoding and filesystem errors are reported as ErrConfigWriteFailed.
func TestFileWriter_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := NewFileWriter()

	// Unsupported value.
	err := writer.Write(context.Background(), filepath.Join(dir, "bad.json"), map[string]any{"ch": make(chan int)})
	require.ErrorIs(t, err, ErrConfigWriteFailed)

	// Parent path is a regular file.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, DefaultFileMode))

	err = writer.Write(context.Background(), filepath.Join(blocker, "User", "settings.json"), appdata.NewUserSettings())
	require.ErrorIs(t, err, ErrConfigWriteFailed)

	// Cancelled context.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = writer.Write(ctx, filepath.Join(dir, "argv.json"), appdata.NewRuntimeArgs("fr"))
	require.ErrorIs(t, err, ErrConfigWriteFailed)
	require.ErrorIs(t, err, context.Canceled)
}
