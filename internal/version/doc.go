// Package version exposes build metadata for vsc-portable.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags.
// Short and Full render them for the CLI and for the HTTP User-Agent header.
package version
