package installer

// Stage is a step of the install pipeline.
type Stage int

const (
	// StageFetching downloads and extracts the release archive.
	StageFetching Stage = iota + 1
	// StageCreatingDataDir creates the portable data directory.
	StageCreatingDataDir
	// StageResolvingLocale maps the UI language to a language pack.
	StageResolvingLocale
	// StageInstallingExtension runs the editor to install the language pack.
	StageInstallingExtension
	// StageWritingConfig writes argv.json and settings.json.
	StageWritingConfig
	// StageDone is the successful terminal stage.
	StageDone
	// StageFailed is the terminal stage after an error.
	StageFailed
)

// String returns the stage name used in logs and errors.
func (s Stage) String() string {
	switch s {
	case StageFetching:
		return "fetching"
	case StageCreatingDataDir:
		return "creating data directory"
	case StageResolvingLocale:
		return "resolving locale"
	case StageInstallingExtension:
		return "installing extension"
	case StageWritingConfig:
		return "writing config"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Observer is notified about every stage the pipeline enters.
type Observer func(Stage)
