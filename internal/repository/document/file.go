package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
)

// ErrConfigWriteFailed is returned when a document cannot be rendered or stored.
var ErrConfigWriteFailed = errors.New("config write failed")

const (
	// DefaultFileMode is the permission of written documents.
	DefaultFileMode os.FileMode = 0o644
	// DefaultDirMode is the permission of directories created for documents.
	DefaultDirMode os.FileMode = 0o755

	indent = "  "
)

// Writer stores documents at filesystem paths.
type Writer interface {
	Write(ctx context.Context, path string, doc any) error
}

// FileWriter writes documents as indented JSON files.
type FileWriter struct {
	// mode is applied to the written files.
	mode os.FileMode
}

// NewFileWriter creates a writer producing files with DefaultFileMode.
func NewFileWriter() *FileWriter {
	return &FileWriter{
		mode: DefaultFileMode,
	}
}

// Write serializes doc and replaces the file at path, creating parent directories.
// Field names come from the document's json tags.
func (w *FileWriter) Write(ctx context.Context, path string, doc any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfigWriteFailed, path, err)
	}

	path = filepath.Clean(path)

	data, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrConfigWriteFailed, path, err)
	}

	data = append(data, '\n')

	if err = os.MkdirAll(filepath.Dir(path), DefaultDirMode); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrConfigWriteFailed, err)
	}

	// go-update moves the previous file aside, so there must be one.
	if err = w.ensureExists(path); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrConfigWriteFailed, path, err)
	}

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: w.mode,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrConfigWriteFailed, path, err)
	}

	return nil
}

// ensureExists creates an empty file at path unless something is already there.
func (w *FileWriter) ensureExists(path string) error {
	if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, w.mode)
	if err != nil {
		return err
	}

	return file.Close()
}
