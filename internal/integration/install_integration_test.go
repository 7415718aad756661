package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/vsc-portable/internal/config"
	"github.com/oshokin/vsc-portable/internal/domain/appdata"
	"github.com/oshokin/vsc-portable/internal/platform"
	"github.com/oshokin/vsc-portable/internal/service/fetcher"
	"github.com/oshokin/vsc-portable/internal/service/installer"
	"github.com/oshokin/vsc-portable/internal/testutil"
)

// launcherScript stands in for the editor CLI and records its arguments.
const launcherScript = `#!/bin/sh
printf '%s\n' "$@" > "$(dirname "$0")/../extension-args.txt"
exit 0
`

// releaseServer serves the archive at the path of one version and 404 elsewhere.
func releaseServer(t *testing.T, version string) *httptest.Server {
	t.Helper()

	archive := testutil.TarGz(t,
		testutil.Dir("VSCode-linux-x64/"),
		testutil.Dir("VSCode-linux-x64/bin/"),
		testutil.File("VSCode-linux-x64/bin/code", launcherScript, 0o755),
		testutil.File("VSCode-linux-x64/resources/app/product.json", "{\"nameShort\":\"Code\"}\n", 0o644),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/"+version+"/linux-x64/stable", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-gzip")
		_, _ = w.Write(archive)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func newInstaller(t *testing.T, cfg *config.Config, observer installer.Observer) *installer.Installer {
	t.Helper()

	inst, err := installer.New(cfg, platform.LinuxAMD64,
		installer.WithProgressOutput(io.Discard),
		installer.WithCommandRunner(&installer.ExecRunner{Stdout: io.Discard, Stderr: io.Discard}),
		installer.WithObserver(observer),
	)
	require.NoError(t, err)

	return inst
}

// TestInstall_EndToEnd downloads, extracts, runs the launcher and writes both documents.
//
//nolint:paralleltest // Executes freshly written scripts; parallel forks can hit ETXTBSY.
func TestInstall_EndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("launcher is a POSIX shell script")
	}

	server := releaseServer(t, "1.2.3")

	cfg := &config.Config{
		HomeDir:         t.TempDir(),
		Version:         "1.2.3",
		DownloadBaseURL: server.URL,
		Language:        "ko",
	}

	var stages []installer.Stage

	inst := newInstaller(t, cfg, func(s installer.Stage) { stages = append(stages, s) })

	require.NoError(t, inst.Install(context.Background()))
	require.Equal(t, []installer.Stage{
		installer.StageFetching,
		installer.StageCreatingDataDir,
		installer.StageResolvingLocale,
		installer.StageInstallingExtension,
		installer.StageWritingConfig,
		installer.StageDone,
	}, stages)

	appDir := filepath.Join(cfg.HomeDir, config.DefaultFolder, "VSCode-linux-x64")

	// The launcher received the install-extension arguments.
	recorded, err := os.ReadFile(filepath.Join(appDir, "extension-args.txt"))
	require.NoError(t, err)
	require.Equal(t,
		[]string{"--install-extension", "ms-ceintl.vscode-language-pack-ko"},
		strings.Fields(string(recorded)))

	argv, err := os.ReadFile(filepath.Join(appDir, "data", "argv.json"))
	require.NoError(t, err)

	var args map[string]any
	require.NoError(t, json.Unmarshal(argv, &args))
	require.Equal(t, map[string]any{"locale": "ko", "enable-crash-reporter": false}, args)

	settingsFile, err := os.ReadFile(filepath.Join(appDir, "data", "user-data", "User", "settings.json"))
	require.NoError(t, err)

	var settings map[string]any
	require.NoError(t, json.Unmarshal(settingsFile, &settings))
	require.Equal(t, map[string]any{
		"security.workspace.trust.enabled": false,
		"telemetry.telemetryLevel":         "off",
		"update.mode":                      "none",
		"window.titleBarStyle":             "custom",
		"workbench.enableExperiments":      false,
	}, settings)

	// Uninstall removes everything; a second uninstall fails.
	require.NoError(t, inst.Uninstall(context.Background(), false))
	require.NoDirExists(t, inst.Destination())
	require.ErrorIs(t, inst.Uninstall(context.Background(), false), os.ErrNotExist)
}

// TestInstall_NotFound aborts at fetching with a 404 and creates no data directory.
func TestInstall_NotFound(t *testing.T) {
	t.Parallel()

	server := releaseServer(t, "1.2.3")

	cfg := &config.Config{
		HomeDir:         t.TempDir(),
		Version:         "9.9.9",
		DownloadBaseURL: server.URL,
		Language:        "fr",
	}

	var stages []installer.Stage

	inst := newInstaller(t, cfg, func(s installer.Stage) { stages = append(stages, s) })

	err := inst.Install(context.Background())
	require.ErrorIs(t, err, fetcher.ErrDownloadFailed)

	var downloadErr *fetcher.DownloadError
	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, http.StatusNotFound, downloadErr.StatusCode)

	require.Equal(t, []installer.Stage{installer.StageFetching, installer.StageFailed}, stages)
	require.NoDirExists(t, appdata.DataDirPath(platform.LinuxAMD64.AppDir(inst.Destination())))
}
