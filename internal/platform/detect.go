package platform

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Detect returns the descriptor for the host the installer runs on.
// The kernel architecture reported by gopsutil is preferred over GOARCH so a
// 32-bit build on a 64-bit kernel still selects the 64-bit release; when host
// detection fails the runtime values are used.
func Detect(ctx context.Context) (Descriptor, error) {
	goos, arch := runtime.GOOS, runtime.GOARCH

	info, err := host.InfoWithContext(ctx)
	if err == nil && info != nil {
		if info.OS != "" {
			goos = strings.ToLower(info.OS)
		}

		if normalized := normalizeArch(info.KernelArch); normalized != "" {
			arch = normalized
		}
	}

	return Lookup(goos, arch)
}

// normalizeArch converts uname machine names to GOARCH values.
func normalizeArch(arch string) string {
	switch strings.ToLower(strings.TrimSpace(arch)) {
	case "amd64", "x86_64", "x64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	case "armv7l", "armv7", "arm":
		return "arm"
	case "i386", "i686", "386", "x86":
		return "386"
	default:
		return ""
	}
}
