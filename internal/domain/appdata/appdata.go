package appdata

import "path/filepath"

const (
	// DataDirName is the portable-mode directory next to the executable folder.
	DataDirName = "data"
	// RuntimeArgsFilename is the runtime arguments file inside the data directory.
	RuntimeArgsFilename = "argv.json"
	// SettingsFilename is the user settings file inside UserDirPath.
	SettingsFilename = "settings.json"
)

// RuntimeArgs is the argv.json document. Keys are kebab-case.
type RuntimeArgs struct {
	// Locale is the display language tag.
	Locale string `json:"locale"`
	// EnableCrashReporter is always false.
	EnableCrashReporter bool `json:"enable-crash-reporter"`
}

// NewRuntimeArgs returns runtime arguments for the given language tag.
func NewRuntimeArgs(languageTag string) *RuntimeArgs {
	return &RuntimeArgs{
		Locale:              languageTag,
		EnableCrashReporter: false,
	}
}

// UserSettings is the settings.json document. Keys are dotted setting identifiers.
type UserSettings struct {
	WorkspaceTrustEnabled bool   `json:"security.workspace.trust.enabled"`
	TelemetryLevel        string `json:"telemetry.telemetryLevel"`
	UpdateMode            string `json:"update.mode"`
	TitleBarStyle         string `json:"window.titleBarStyle"`
	EnableExperiments     bool   `json:"workbench.enableExperiments"`
}

// NewUserSettings returns the fixed settings: no workspace trust prompts,
// no telemetry, no update checks, custom title bar, no experiments.
func NewUserSettings() *UserSettings {
	return &UserSettings{
		WorkspaceTrustEnabled: false,
		TelemetryLevel:        "off",
		UpdateMode:            "none",
		TitleBarStyle:         "custom",
		EnableExperiments:     false,
	}
}

// DataDirPath returns the data directory of an extracted application folder.
func DataDirPath(appDir string) string {
	return filepath.Join(appDir, DataDirName)
}

// RuntimeArgsPath returns the argv.json location for an extracted application folder.
func RuntimeArgsPath(appDir string) string {
	return filepath.Join(DataDirPath(appDir), RuntimeArgsFilename)
}

// UserDirPath returns the directory holding per-user settings.
func UserDirPath(appDir string) string {
	return filepath.Join(DataDirPath(appDir), "user-data", "User")
}

// SettingsPath returns the settings.json location for an extracted application folder.
func SettingsPath(appDir string) string {
	return filepath.Join(UserDirPath(appDir), SettingsFilename)
}
