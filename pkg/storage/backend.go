package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes one entry of a tree. RelativePath uses forward slashes.
type FileInfo struct {
	Name         string
	RelativePath string
	Size         int64
	ModTime      time.Time
	IsDir        bool
	// IsRegular is false for directories, devices, pipes, sockets and
	// dangling links; only regular files may be read for comparison
	IsRegular bool
}

// Backend defines read-only access to one side of a comparison.
// Paths passed to a Backend are relative to its root; "" and "." name
// the root itself. Implementations include the local filesystem and an
// in-memory tree.
type Backend interface {
	// Root returns the root path as given by the caller
	Root() string

	// FullPath joins a relative path onto the root for reporting
	FullPath(path string) string

	// ReadDir lists the immediate children of a directory.
	// Symbolic links are resolved; a dangling link is reported as a file.
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Read opens a regular file. The caller closes the reader.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Stat returns entry metadata, following symbolic links
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Close releases the backend; further calls are undefined
	Close() error
}
