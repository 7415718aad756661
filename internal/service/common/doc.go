// Package common contains helpers shared by the installer commands.
//
// Process lookups use go-ps so start and uninstall can tell whether the
// installed editor is currently running.
package common
