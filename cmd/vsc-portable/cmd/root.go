package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/vsc-portable/internal/config"
	"github.com/oshokin/vsc-portable/internal/logger"
	"github.com/oshokin/vsc-portable/internal/platform"
	"github.com/oshokin/vsc-portable/internal/service/installer"
	"github.com/oshokin/vsc-portable/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the level from the configuration file.
	logLevel string
	// force skips the running editor check of uninstall.
	force bool

	// rootCmd prints usage for anything that is not a known subcommand.
	rootCmd = &cobra.Command{
		Use:           "vsc-portable",
		Short:         "Install, start or remove a portable Visual Studio Code",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usage(cmd, nil)
		},
	}

	// installCmd downloads the release and prepares the portable data directory.
	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Download, extract and configure the editor",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usage(cmd, nil)
			}

			inst, err := newInstaller(cmd)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), inst.Destination())

			return inst.Install(cmd.Context())
		},
	}

	// startCmd launches the installed editor.
	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the installed editor",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usage(cmd, nil)
			}

			inst, err := newInstaller(cmd)
			if err != nil {
				return err
			}

			return inst.Start(cmd.Context())
		},
	}

	// uninstallCmd removes the installation directory.
	uninstallCmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installed editor and its data",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usage(cmd, nil)
			}

			inst, err := newInstaller(cmd)
			if err != nil {
				return err
			}

			return inst.Uninstall(cmd.Context(), force)
		},
	}
)

// Execute runs the vsc-portable CLI and exits with non-zero status on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.ErrorKV(ctx, "Command failed", "error", err)
		os.Exit(1)
	}
}

// usage prints the root help and succeeds. It also serves as the flag error
// handler, so unknown flags and stray arguments are not failures.
func usage(cmd *cobra.Command, _ error) error {
	return cmd.Root().Help()
}

// newInstaller loads settings, fills environment defaults and detects the platform.
func newInstaller(cmd *cobra.Command) (*installer.Installer, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	applyLogLevel(ctx, cfg)

	if err = cfg.ApplyEnvironment(ctx, os.UserHomeDir, os.LookupEnv); err != nil {
		return nil, err
	}

	descriptor, err := platform.Detect(ctx)
	if err != nil {
		return nil, err
	}

	return installer.New(cfg, descriptor)
}

// loadConfig reads the settings file; a missing default file means defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}

	return nil, err
}

// applyLogLevel sets the global level from the flag or the settings file.
func applyLogLevel(ctx context.Context, cfg *config.Config) {
	value := cfg.LogLevel
	if logLevel != "" {
		value = logLevel
	}

	if value == "" {
		return
	}

	level, ok := logger.ParseLogLevel(value)
	if !ok {
		logger.Warnf(ctx, "Unknown log level %q, keeping %s", value, logger.Level())
		return
	}

	logger.SetLevel(level)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	uninstallCmd.Flags().BoolVarP(&force, "force", "f", false, "remove even if the editor is running")

	rootCmd.SetFlagErrorFunc(usage)
	rootCmd.AddCommand(installCmd, startCmd, uninstallCmd)
	version.AttachCobraVersionCommand(rootCmd)
}
