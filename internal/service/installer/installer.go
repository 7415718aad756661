package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/vsc-portable/internal/config"
	"github.com/oshokin/vsc-portable/internal/domain/appdata"
	"github.com/oshokin/vsc-portable/internal/domain/locale"
	"github.com/oshokin/vsc-portable/internal/logger"
	"github.com/oshokin/vsc-portable/internal/platform"
	"github.com/oshokin/vsc-portable/internal/repository/document"
	"github.com/oshokin/vsc-portable/internal/service/common"
	"github.com/oshokin/vsc-portable/internal/service/fetcher"
)

var (
	// ErrProcessLaunchFailed is returned when the installed executable cannot be started.
	ErrProcessLaunchFailed = errors.New("process launch failed")
	// ErrApplicationRunning is returned by Uninstall while the editor is running.
	ErrApplicationRunning = errors.New("application is running")
)

// dataDirMode is the permission of the portable data directory.
const dataDirMode os.FileMode = 0o755

// ArchiveFetcher downloads a release and extracts it into destination.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, version, destination string) error
}

// Installer installs, starts and removes one portable installation.
type Installer struct {
	// cfg holds the destination, version and language.
	cfg *config.Config
	// descriptor describes the archive layout of the target platform.
	descriptor platform.Descriptor
	// fetcher retrieves the release archive.
	fetcher ArchiveFetcher
	// documents writes argv.json and settings.json.
	documents document.Writer
	// runner launches the installed executable.
	runner CommandRunner
	// observer is told about every stage; may be nil.
	observer Observer
	// progressOutput is passed to the default fetcher.
	progressOutput io.Writer
	// isRunning reports whether a process with the given executable name runs from below dir.
	isRunning ProcessChecker
}

// ProcessChecker reports whether a process named name runs an executable located below dir.
type ProcessChecker func(ctx context.Context, name, dir string) (bool, error)

// Option configures the installer.
type Option func(*Installer)

// WithFetcher replaces the archive fetcher.
func WithFetcher(f ArchiveFetcher) Option {
	return func(i *Installer) {
		i.fetcher = f
	}
}

// WithDocumentWriter replaces the configuration document writer.
func WithDocumentWriter(w document.Writer) Option {
	return func(i *Installer) {
		i.documents = w
	}
}

// WithCommandRunner replaces the process runner.
func WithCommandRunner(r CommandRunner) Option {
	return func(i *Installer) {
		i.runner = r
	}
}

// WithObserver registers a stage observer.
func WithObserver(o Observer) Option {
	return func(i *Installer) {
		i.observer = o
	}
}

// WithProgressOutput sets where the default fetcher draws its progress bar.
func WithProgressOutput(w io.Writer) Option {
	return func(i *Installer) {
		i.progressOutput = w
	}
}

// WithProcessChecker replaces the running-process lookup used by Start and Uninstall.
func WithProcessChecker(isRunning ProcessChecker) Option {
	return func(i *Installer) {
		i.isRunning = isRunning
	}
}

// New validates cfg and builds an installer for descriptor.
func New(cfg *config.Config, descriptor platform.Descriptor, opts ...Option) (*Installer, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	i := &Installer{
		cfg:            cfg,
		descriptor:     descriptor,
		progressOutput: os.Stderr,
		isRunning:      common.IsRunningFrom,
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.fetcher == nil {
		i.fetcher = fetcher.New(cfg.DownloadBaseURL, descriptor,
			fetcher.WithHTTPClient(fetcher.NewHTTPClient(cfg.HeaderTimeout)),
			fetcher.WithProgressOutput(i.progressOutput),
		)
	}

	if i.documents == nil {
		i.documents = document.NewFileWriter()
	}

	if i.runner == nil {
		i.runner = NewExecRunner()
	}

	return i, nil
}

// Destination returns the root directory of the installation.
func (i *Installer) Destination() string {
	return i.cfg.Destination()
}

// Install runs the pipeline fetch → data dir → locale → extension → config.
func (i *Installer) Install(ctx context.Context) error {
	ctx = logger.WithName(ctx, "install")

	var (
		destination = i.Destination()
		appDir      = i.descriptor.AppDir(destination)
	)

	logger.InfoKV(ctx, "Installing",
		"destination", destination, "version", i.cfg.Version, "platform", i.descriptor.String())

	i.enter(ctx, StageFetching)

	if err := i.fetcher.Fetch(ctx, i.cfg.Version, destination); err != nil {
		return i.fail(ctx, StageFetching, err)
	}

	i.enter(ctx, StageCreatingDataDir)

	if err := os.MkdirAll(appdata.DataDirPath(appDir), dataDirMode); err != nil {
		return i.fail(ctx, StageCreatingDataDir, err)
	}

	i.enter(ctx, StageResolvingLocale)

	entry, err := locale.Resolve(i.cfg.Language)
	if err != nil {
		return i.fail(ctx, StageResolvingLocale, err)
	}

	logger.InfoKV(ctx, "Locale resolved", "language", entry.LanguageTag, "extension", entry.ExtensionID)

	i.enter(ctx, StageInstallingExtension)

	if err = i.installExtension(ctx, destination, entry.ExtensionID); err != nil {
		return i.fail(ctx, StageInstallingExtension, err)
	}

	i.enter(ctx, StageWritingConfig)

	if err = i.writeConfig(ctx, appDir, entry); err != nil {
		return i.fail(ctx, StageWritingConfig, err)
	}

	i.enter(ctx, StageDone)
	logger.InfoKV(ctx, "Installation completed", "executable", i.descriptor.ExecutablePath(destination))

	return nil
}

// installExtension runs the extracted executable and waits for it.
// Only a failure to launch stops the pipeline; a non-zero exit is logged.
func (i *Installer) installExtension(ctx context.Context, destination, extensionID string) error {
	executable := i.descriptor.ExecutablePath(destination)

	logger.InfoKV(ctx, "Installing language pack", "extension", extensionID)

	exitCode, err := i.runner.Run(ctx, executable, "--install-extension", extensionID)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProcessLaunchFailed, executable, err)
	}

	if exitCode != 0 {
		logger.WarnKV(ctx, "Language pack installation exited with non-zero status",
			"extension", extensionID, "exit_code", exitCode)
	}

	return nil
}

// writeConfig writes the runtime arguments and the user settings documents.
func (i *Installer) writeConfig(ctx context.Context, appDir string, entry locale.Entry) error {
	argvPath := appdata.RuntimeArgsPath(appDir)
	if err := i.documents.Write(ctx, argvPath, appdata.NewRuntimeArgs(entry.LanguageTag)); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Runtime arguments written", "path", argvPath)

	settingsPath := appdata.SettingsPath(appDir)
	if err := i.documents.Write(ctx, settingsPath, appdata.NewUserSettings()); err != nil {
		return err
	}

	logger.InfoKV(ctx, "User settings written", "path", settingsPath)

	return nil
}

// enter logs the stage and notifies the observer.
func (i *Installer) enter(ctx context.Context, stage Stage) {
	logger.DebugKV(ctx, "Entering stage", "stage", stage.String())

	if i.observer != nil {
		i.observer(stage)
	}
}

// fail moves the pipeline to StageFailed and annotates err with the stage.
func (i *Installer) fail(ctx context.Context, stage Stage, err error) error {
	logger.ErrorKV(ctx, "Installation failed", "stage", stage.String(), "error", err)

	if i.observer != nil {
		i.observer(StageFailed)
	}

	return fmt.Errorf("%s: %w", stage, err)
}

// Start launches the installed editor without arguments and returns immediately.
func (i *Installer) Start(ctx context.Context) error {
	ctx = logger.WithName(ctx, "start")
	executable := i.descriptor.ExecutablePath(i.Destination())

	if running, err := i.isRunning(ctx, i.descriptor.ExecutableName(), i.Destination()); err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
	} else if running {
		logger.WarnKV(ctx, "The installed editor is running already", "executable", i.descriptor.ExecutableName())
	}

	logger.InfoKV(ctx, "Starting executable", "executable", executable)

	if err := i.runner.Start(executable); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProcessLaunchFailed, executable, err)
	}

	return nil
}

// Uninstall removes the whole destination directory.
// A missing destination is an error. Unless force is set, an editor process
// started from the destination blocks the removal; editors installed elsewhere do not.
func (i *Installer) Uninstall(ctx context.Context, force bool) error {
	ctx = logger.WithName(ctx, "uninstall")
	destination := i.Destination()

	if _, err := os.Stat(destination); err != nil {
		return fmt.Errorf("uninstall %s: %w", destination, err)
	}

	if !force {
		running, err := i.isRunning(ctx, i.descriptor.ExecutableName(), destination)
		if err != nil {
			logger.WarnKV(ctx, "Unable to list processes", "error", err)
		}

		if running {
			return fmt.Errorf("%s: %w (close it or use --force)", i.descriptor.ExecutableName(), ErrApplicationRunning)
		}
	}

	logger.InfoKV(ctx, "Removing installation", "destination", destination)

	if err := os.RemoveAll(destination); err != nil {
		return fmt.Errorf("remove %s: %w", destination, err)
	}

	logger.Info(ctx, "Installation removed")

	return nil
}
