package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// Billy is a storage backend over any go-billy filesystem
type Billy struct {
	fs billy.Filesystem
}

// NewBilly creates a backend using the given go-billy filesystem
func NewBilly(fsys billy.Filesystem) *Billy {
	return &Billy{fs: fsys}
}

// NewInMemory creates a backend over an empty in-memory filesystem
func NewInMemory() *Billy {
	return &Billy{fs: memfs.New()}
}

// NewChroot creates a backend whose paths resolve below root
func NewChroot(root string) *Billy {
	return &Billy{fs: osfs.New(root)}
}

// Raw returns the underlying go-billy filesystem
func (b *Billy) Raw() billy.Filesystem {
	return b.fs
}

// Open opens a file for reading
func (b *Billy) Open(ctx context.Context, path string) (File, error) {
	if info, err := b.fs.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("billy: open %q: %w", path, ErrIsDirectory)
	}
	f, err := b.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", path, err)
	}
	return f, nil
}

// OpenDir opens a directory for enumeration
func (b *Billy) OpenDir(ctx context.Context, path string) (Directory, error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("billy: path is not a directory: %s", path)
	}
	return &billyDir{fs: b.fs, path: path}, nil
}

// Close releases resources (no-op for go-billy filesystems)
func (b *Billy) Close() error {
	return nil
}

// billyDir enumerates a go-billy directory.
// go-billy has no incremental readdir, so the listing is read in one call;
// entries are still handed to the visitor one at a time.
type billyDir struct {
	fs   billy.Filesystem
	path string
}

func (d *billyDir) Iterate(ctx context.Context, visit Visitor) error {
	infos, err := d.fs.ReadDir(d.path)
	if err != nil {
		return fmt.Errorf("billy: readdir %q: %w", d.path, err)
	}

	for i, info := range infos {
		entry := Entry{
			Name:     info.Name(),
			Type:     TypeFromMode(info.Mode()),
			Position: int64(i),
		}
		if verr := visit(entry); verr != nil {
			if errors.Is(verr, SkipAll) {
				return nil
			}
			return verr
		}
	}

	return nil
}

func (d *billyDir) Close() error {
	return nil
}
