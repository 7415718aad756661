// Package appdata contains the two documents written into the portable data
// directory of the editor: runtime arguments (argv.json) and user settings
// (settings.json).
package appdata
