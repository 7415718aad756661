// Package installer sequences the portable editor installation and provides
// the start and uninstall actions.
//
// Install is a linear pipeline: fetch and extract the archive, create the
// portable data directory, resolve the locale, install the language pack
// through the extracted executable and write argv.json and settings.json.
// A failed step stops the pipeline; nothing already on disk is rolled back.
package installer
