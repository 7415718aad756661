// Package config defines the installer settings and provides helpers to load,
// validate and save them in YAML format.
//
// Values that normally come from the environment (home directory, UI language)
// are plain fields here: the command layer fills them once and every service
// receives them through Config.
package config
