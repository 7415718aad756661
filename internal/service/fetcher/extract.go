package fetcher

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/oshokin/vsc-portable/internal/platform"
)

// ErrExtractionFailed is returned when the archive cannot be unpacked.
var ErrExtractionFailed = errors.New("extraction failed")

var (
	errIllegalPath        = errors.New("entry escapes destination")
	errUnknownCompression = errors.New("unknown compression")
)

const (
	dirMode         os.FileMode = 0o755
	defaultFileMode os.FileMode = 0o644
)

// Extract unpacks a compressed tar stream into destination, keeping the
// archive's own directory structure. Directories are merged; files, symlinks
// and hard links that already exist make the extraction fail. Every entry is
// created through an os.Root, so links inside the archive cannot be used to
// write outside destination.
func Extract(r io.Reader, destination string, compression platform.Compression) error {
	stream, closeStream, err := decompress(r, compression)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	defer closeStream()

	if err = os.MkdirAll(destination, dirMode); err != nil {
		return fmt.Errorf("%w: create destination: %w", ErrExtractionFailed, err)
	}

	root, err := os.OpenRoot(destination)
	if err != nil {
		return fmt.Errorf("%w: open destination: %w", ErrExtractionFailed, err)
	}

	defer func() {
		_ = root.Close()
	}()

	tarReader := tar.NewReader(stream)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("%w: read tar header: %w", ErrExtractionFailed, err)
		}

		if err = extractEntry(root, header, tarReader); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrExtractionFailed, header.Name, err)
		}
	}
}

// decompress selects the reader for the archive compression.
func decompress(r io.Reader, compression platform.Compression) (io.Reader, func(), error) {
	switch compression {
	case platform.CompressionGzip:
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip stream: %w", err)
		}

		return gzipReader, func() { _ = gzipReader.Close() }, nil
	case platform.CompressionXZ:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("open xz stream: %w", err)
		}

		return xzReader, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%q: %w", compression, errUnknownCompression)
	}
}

// extractEntry materializes one tar member inside root.
func extractEntry(root *os.Root, header *tar.Header, content io.Reader) error {
	name, err := localName(header.Name)
	if err != nil {
		return err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		return root.MkdirAll(name, dirMode)
	case tar.TypeReg:
		return writeFile(root, name, content, os.FileMode(header.Mode).Perm()) //nolint:gosec // Mode comes from tar permission bits.
	case tar.TypeSymlink:
		if err = checkSymlink(name, header.Linkname); err != nil {
			return err
		}

		if err = root.MkdirAll(filepath.Dir(name), dirMode); err != nil {
			return err
		}

		return root.Symlink(header.Linkname, name)
	case tar.TypeLink:
		source, err := localName(header.Linkname)
		if err != nil {
			return err
		}

		if err = root.MkdirAll(filepath.Dir(name), dirMode); err != nil {
			return err
		}

		return root.Link(source, name)
	default:
		// Devices, FIFOs and the like have no place in a release archive.
		return nil
	}
}

// writeFile creates name exclusively and copies content into it.
func writeFile(root *os.Root, name string, content io.Reader, mode os.FileMode) error {
	if mode == 0 {
		mode = defaultFileMode
	}

	if err := root.MkdirAll(filepath.Dir(name), dirMode); err != nil {
		return err
	}

	file, err := root.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(file, content); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

// localName converts an archive member name to a path relative to the destination.
func localName(name string) (string, error) {
	local := filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%q: %w", name, errIllegalPath)
	}

	return local, nil
}

// checkSymlink rejects link targets that point outside the destination as written.
func checkSymlink(name, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("absolute link %q: %w", linkname, errIllegalPath)
	}

	if !filepath.IsLocal(filepath.Join(filepath.Dir(name), filepath.FromSlash(linkname))) {
		return fmt.Errorf("link %q: %w", linkname, errIllegalPath)
	}

	return nil
}
