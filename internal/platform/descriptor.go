package platform

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
)

// Compression identifies how the tar stream of a release archive is compressed.
type Compression string

const (
	// CompressionGzip marks .tar.gz archives.
	CompressionGzip Compression = "gzip"
	// CompressionXZ marks .tar.xz archives.
	CompressionXZ Compression = "xz"
)

// ErrUnsupportedPlatform is returned when no descriptor matches the host.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Descriptor is the release layout for one OS and architecture pair.
type Descriptor struct {
	// OS is the GOOS value the descriptor applies to.
	OS string
	// Arch is the normalized GOARCH value the descriptor applies to.
	Arch string
	// URLSegment is the platform part of the download URL.
	URLSegment string
	// AppFolder is the top-level folder inside the archive.
	AppFolder string
	// Executable is the slash-separated launcher path relative to AppFolder.
	Executable string
	// Compression of the archive body.
	Compression Compression
}

// LinuxAMD64 is the 64-bit Linux release.
//
//nolint:gochecknoglobals // Immutable descriptor value.
var LinuxAMD64 = Descriptor{
	OS:          "linux",
	Arch:        "amd64",
	URLSegment:  "linux-x64",
	AppFolder:   "VSCode-linux-x64",
	Executable:  "bin/code",
	Compression: CompressionGzip,
}

//nolint:gochecknoglobals // Read-only registry.
var descriptors = []Descriptor{
	LinuxAMD64,
}

// Lookup returns the descriptor registered for goos and arch.
func Lookup(goos, arch string) (Descriptor, error) {
	for _, d := range descriptors {
		if d.OS == goos && d.Arch == arch {
			return d, nil
		}
	}

	return Descriptor{}, fmt.Errorf("%s/%s: %w", goos, arch, ErrUnsupportedPlatform)
}

// String returns the OS/arch pair.
func (d Descriptor) String() string {
	return d.OS + "/" + d.Arch
}

// AppDir returns the extracted application folder below destination.
func (d Descriptor) AppDir(destination string) string {
	return filepath.Join(destination, d.AppFolder)
}

// ExecutablePath returns the launcher below destination.
func (d Descriptor) ExecutablePath(destination string) string {
	return filepath.Join(d.AppDir(destination), filepath.FromSlash(d.Executable))
}

// ExecutableName returns the base name of the launcher.
func (d Descriptor) ExecutableName() string {
	return path.Base(d.Executable)
}
