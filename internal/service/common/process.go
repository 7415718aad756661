//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-ps"
	"github.com/shirou/gopsutil/v4/process"
)

// FindProcesses returns the IDs of processes whose executable name is name.
// The current process is never included.
func FindProcesses(name string) ([]int, error) {
	processList, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	thisProcessID := os.Getpid()

	var found []int

	for _, p := range processList {
		if p.Pid() == thisProcessID {
			continue
		}

		if p.Executable() != name {
			continue
		}

		found = append(found, p.Pid())
	}

	return found, nil
}

// IsRunningFrom reports whether a process named name runs an executable located below dir.
// Processes with the same name started from elsewhere, and processes whose
// executable path cannot be read, are ignored.
func IsRunningFrom(ctx context.Context, name, dir string) (bool, error) {
	found, err := FindProcesses(name)
	if err != nil {
		return false, err
	}

	if len(found) == 0 {
		return false, nil
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	for _, pid := range found {
		proc, err := process.NewProcessWithContext(ctx, int32(pid)) //nolint:gosec // PIDs fit in int32.
		if err != nil {
			continue
		}

		executable, err := proc.ExeWithContext(ctx)
		if err != nil || executable == "" {
			continue
		}

		if isBelow(root, executable) {
			return true, nil
		}
	}

	return false, nil
}

// isBelow reports whether path is dir itself or inside it.
func isBelow(dir, path string) bool {
	path = filepath.Clean(path)

	return path == dir || strings.HasPrefix(path, dir+string(os.PathSeparator))
}
