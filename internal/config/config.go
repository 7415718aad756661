package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/vsc-portable/internal/domain/locale"
	"github.com/oshokin/vsc-portable/internal/logger"
)

// Config holds everything the installer needs to know about its environment.
type Config struct {
	// HomeDir is the user's home directory; the installation lives below it.
	HomeDir string `yaml:"home_dir,omitempty"`
	// Folder is the dot-prefixed directory name joined with HomeDir.
	Folder string `yaml:"folder"`
	// Version is the release channel or version substituted into the download URL.
	Version string `yaml:"version"`
	// DownloadBaseURL is the scheme and host of the update service.
	DownloadBaseURL string `yaml:"download_base_url"`
	// Language is a two-letter UI language code; detected from the environment when empty.
	Language string `yaml:"language,omitempty"`
	// HeaderTimeout bounds the wait for response headers of the archive download.
	HeaderTimeout time.Duration `yaml:"header_timeout"`
	// LogLevel is the minimum level of log messages.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for installer settings.
	DefaultConfigFilename = "vsc-portable.yaml"

	// DefaultFolder is the installation directory name below the home directory.
	DefaultFolder = ".vsc-portable"

	// DefaultVersion is the release channel installed by default.
	DefaultVersion = "latest"

	// DefaultDownloadBaseURL is the update service serving release archives.
	DefaultDownloadBaseURL = "https://update.code.visualstudio.com"

	// DefaultHeaderTimeout is the default wait for download response headers.
	DefaultHeaderTimeout = 30 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errHomeDirRequired is returned when the home directory is unknown.
	errHomeDirRequired = errors.New("home directory must be provided")
	// errBadFolder is returned when the folder would escape the home directory.
	errBadFolder = errors.New("folder must be a single relative path element")
	// errBadScheme is returned for download URLs that are not http(s).
	errBadScheme = errors.New("download base URL must use http or https")
)

// Default returns settings with every optional field set to its default.
func Default() *Config {
	return &Config{
		Folder:          DefaultFolder,
		Version:         DefaultVersion,
		DownloadBaseURL: DefaultDownloadBaseURL,
		HeaderTimeout:   DefaultHeaderTimeout,
		LogLevel:        DefaultLogLevel,
	}
}

// Load reads configuration from the provided path on top of the defaults.
// A missing file is reported with an error wrapping os.ErrNotExist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// ApplyEnvironment fills HomeDir and Language when the settings file left them empty.
// homeDir and lookupEnv are usually os.UserHomeDir and os.LookupEnv.
// An undetectable language is logged, left empty and reported later by the installer.
func (c *Config) ApplyEnvironment(
	ctx context.Context,
	homeDir func() (string, error),
	lookupEnv func(string) (string, bool),
) error {
	if c.HomeDir == "" {
		home, err := homeDir()
		if err != nil {
			return fmt.Errorf("detect home directory: %w", err)
		}

		c.HomeDir = home
	}

	if c.Language == "" {
		code, err := locale.Detect(lookupEnv)
		if err != nil {
			logger.WarnKV(ctx, "Unable to detect the UI language, set language in the settings file", "error", err)
		}

		c.Language = code
	}

	return nil
}

// Destination returns the root directory of the installation.
func (c *Config) Destination() string {
	return filepath.Join(c.HomeDir, c.Folder)
}

// Validate checks the provided settings and fills defaults for empty optional fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.HomeDir == "" {
		return errHomeDirRequired
	}

	if cfg.Folder == "" {
		cfg.Folder = DefaultFolder
	}

	if cfg.Folder != filepath.Base(cfg.Folder) || cfg.Folder == "." || cfg.Folder == ".." {
		return fmt.Errorf("%q: %w", cfg.Folder, errBadFolder)
	}

	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = DefaultVersion
	}

	if cfg.DownloadBaseURL == "" {
		cfg.DownloadBaseURL = DefaultDownloadBaseURL
	}

	parsed, err := url.ParseRequestURI(cfg.DownloadBaseURL)
	if err != nil {
		return fmt.Errorf("invalid download base URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s: %w", cfg.DownloadBaseURL, errBadScheme)
	}

	if cfg.HeaderTimeout <= 0 {
		cfg.HeaderTimeout = DefaultHeaderTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return nil
}
