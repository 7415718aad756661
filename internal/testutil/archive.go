// Package testutil builds release archives for tests.
package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// Entry is one member of a test archive.
type Entry struct {
	Name     string
	Body     string
	Mode     int64
	Type     byte
	Linkname string
}

// Dir returns a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name, Mode: 0o755, Type: tar.TypeDir}
}

// File returns a regular file entry.
func File(name, body string, mode int64) Entry {
	return Entry{Name: name, Body: body, Mode: mode, Type: tar.TypeReg}
}

// Symlink returns a symbolic link entry.
func Symlink(name, target string) Entry {
	return Entry{Name: name, Mode: 0o777, Type: tar.TypeSymlink, Linkname: target}
}

// TarGz returns a gzip-compressed tar stream of entries.
func TarGz(tb testing.TB, entries ...Entry) []byte {
	tb.Helper()

	var buf bytes.Buffer

	gz := gzip.NewWriter(&buf)
	writeTar(tb, gz, entries)
	require.NoError(tb, gz.Close())

	return buf.Bytes()
}

// TarXZ returns an xz-compressed tar stream of entries.
func TarXZ(tb testing.TB, entries ...Entry) []byte {
	tb.Helper()

	var buf bytes.Buffer

	xzw, err := xz.NewWriter(&buf)
	require.NoError(tb, err)
	writeTar(tb, xzw, entries)
	require.NoError(tb, xzw.Close())

	return buf.Bytes()
}

// AppEntries returns a minimal application tree below folder with a launcher at executable.
func AppEntries(folder, executable string) []Entry {
	return []Entry{
		Dir(folder + "/"),
		Dir(folder + "/bin/"),
		File(folder+"/"+executable, "#!/bin/sh\nexit 0\n", 0o755),
		File(folder+"/resources/app/package.json", "{\"name\":\"code-oss\"}\n", 0o644),
		Symlink(folder+"/bin/code-link", "code"),
	}
}

func writeTar(tb testing.TB, w io.Writer, entries []Entry) {
	tb.Helper()

	tw := tar.NewWriter(w)

	for _, e := range entries {
		header := &tar.Header{
			Name:     e.Name,
			Mode:     e.Mode,
			Typeflag: e.Type,
			Linkname: e.Linkname,
		}
		if e.Type == tar.TypeReg {
			header.Size = int64(len(e.Body))
		}

		require.NoError(tb, tw.WriteHeader(header))

		if e.Type == tar.TypeReg {
			_, err := io.WriteString(tw, e.Body)
			require.NoError(tb, err)
		}
	}

	require.NoError(tb, tw.Close())
}
