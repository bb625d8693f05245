package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// readDirBatch is how many entries are pulled from the OS per ReadDir call
const readDirBatch = 64

// Local is a filesystem-based storage backend.
// Paths are used exactly as given; relative paths resolve against the
// working directory.
type Local struct{}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{}
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	if info, err := file.Stat(); err == nil && info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("failed to open file %s: %w", path, ErrIsDirectory)
	}

	adviseSequential(file)

	return file, nil
}

// OpenDir opens a directory for enumeration
func (l *Local) OpenDir(ctx context.Context, path string) (Directory, error) {
	dir, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	info, err := dir.Stat()
	if err != nil {
		dir.Close()
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		dir.Close()
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	return &localDir{file: dir}, nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

// localDir streams entries from an open *os.File in small batches
type localDir struct {
	file *os.File
}

// Iterate delivers entries without following symlinks
func (d *localDir) Iterate(ctx context.Context, visit Visitor) error {
	var position int64

	for {
		batch, err := d.file.ReadDir(readDirBatch)
		for _, de := range batch {
			entry := Entry{
				Name:     de.Name(),
				Type:     TypeFromMode(de.Type()),
				Position: position,
			}
			position++

			if verr := visit(entry); verr != nil {
				if errors.Is(verr, SkipAll) {
					return nil
				}
				return verr
			}
		}

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}
	}
}

// Close releases the directory handle
func (d *localDir) Close() error {
	return d.file.Close()
}
