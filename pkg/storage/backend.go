package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

// SkipAll is returned by a Visitor to stop enumeration early without error
var SkipAll = errors.New("skip remaining directory entries")

// EntryType is the kind of object a directory entry names
type EntryType string

const (
	TypeRegular   EntryType = "regular"
	TypeDirectory EntryType = "directory"
	TypeSymlink   EntryType = "symlink"
	// TypeOther covers devices, sockets, fifos and anything else
	TypeOther EntryType = "other"
)

// TypeFromMode maps file mode bits to an EntryType without following symlinks
func TypeFromMode(mode fs.FileMode) EntryType {
	switch {
	case mode.IsRegular():
		return TypeRegular
	case mode.IsDir():
		return TypeDirectory
	case mode&fs.ModeSymlink != 0:
		return TypeSymlink
	default:
		return TypeOther
	}
}

// Entry is a single item delivered by directory enumeration.
// Entries are ephemeral: a Visitor must not keep them past its return.
type Entry struct {
	Name     string
	Type     EntryType
	Position int64 // Delivery index within this enumeration
}

// Visitor receives directory entries one at a time.
// Returning SkipAll stops enumeration cleanly; any other error aborts it and
// is returned from Iterate.
type Visitor func(entry Entry) error

// ErrIsDirectory is returned by Open when the path names a directory
var ErrIsDirectory = errors.New("is a directory")

// File is an open read-only handle
type File interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Directory is an open directory handle
type Directory interface {
	// Iterate delivers the directory's entries to visit until they are
	// exhausted or visit stops it
	Iterate(ctx context.Context, visit Visitor) error

	// Close releases the directory handle
	Close() error
}

// Backend defines the filesystem primitives the scanner needs
// Implementations include the local filesystem and go-billy filesystems
type Backend interface {
	// Open opens a file for reading
	Open(ctx context.Context, path string) (File, error)

	// OpenDir opens a directory for enumeration
	OpenDir(ctx context.Context, path string) (Directory, error)

	// Close releases any resources held by the backend
	Close() error
}
