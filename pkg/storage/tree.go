package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	pathpkg "path"
	"path/filepath"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sdejongh/dircmp/internal/platform"
	"github.com/sdejongh/dircmp/pkg/models"
)

// Tree is a Backend over a go-billy filesystem chrooted at the compared root
type Tree struct {
	root string
	fs   billy.Filesystem
}

// NewLocal creates a backend over the local filesystem.
// The root does not need to exist yet; traversal reports it if missing.
func NewLocal(rootPath string) (*Tree, error) {
	if err := platform.ValidatePath(rootPath); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	return &Tree{
		root: platform.NormalizePath(rootPath),
		fs:   osfs.New(absPath),
	}, nil
}

// NewMemory creates a backend rooted at root inside an in-memory filesystem.
// A nil fsys starts from an empty tree.
func NewMemory(fsys billy.Filesystem, root string) (*Tree, error) {
	if fsys == nil {
		fsys = memfs.New()
	}

	chrooted, err := fsys.Chroot(root)
	if err != nil {
		return nil, fmt.Errorf("failed to chroot memory filesystem: %w", err)
	}

	return &Tree{root: root, fs: chrooted}, nil
}

// Root returns the root path as given by the caller
func (t *Tree) Root() string {
	return t.root
}

// FullPath joins a relative path onto the root
func (t *Tree) FullPath(path string) string {
	if path == "" || path == "." {
		return t.root
	}
	return filepath.Join(t.root, filepath.FromSlash(path))
}

// ReadDir lists the immediate children of a directory
func (t *Tree) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := clean(path)
	info, err := t.fs.Stat(dir)
	if err != nil {
		return nil, t.wrap(path, err)
	}
	if !info.IsDir() {
		return nil, models.NewTraversalError(t.FullPath(path), models.ErrNotADirectory)
	}

	entries, err := t.fs.ReadDir(dir)
	if err != nil {
		return nil, t.wrap(path, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		rel := pathpkg.Join(path, entry.Name())

		// Resolve symlinks so a link to a directory is traversed like one
		if entry.Mode()&os.ModeSymlink != 0 {
			if target, err := t.fs.Stat(rel); err == nil {
				entry = target
			}
		}

		files = append(files, toFileInfo(entry, rel))
	}

	return files, nil
}

// Read opens a file for reading
func (t *Tree) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := t.fs.Open(clean(path))
	if err != nil {
		return nil, t.wrap(path, err)
	}

	return file, nil
}

// Stat returns entry metadata
func (t *Tree) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := t.fs.Stat(clean(path))
	if err != nil {
		return nil, t.wrap(path, err)
	}

	fi := toFileInfo(info, path)
	return &fi, nil
}

// Close releases resources (no-op for billy filesystems)
func (t *Tree) Close() error {
	return nil
}

// wrap maps filesystem errors onto the traversal error taxonomy. Every
// error carries the full path on this side of the comparison.
func (t *Tree) wrap(path string, err error) error {
	full := t.FullPath(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return models.NewTraversalError(full, models.ErrPathNotFound)
	case errors.Is(err, syscall.ENOTDIR):
		return models.NewTraversalError(full, models.ErrNotADirectory)
	default:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return models.NewTraversalError(full, err)
	}
}

func toFileInfo(info os.FileInfo, rel string) FileInfo {
	return FileInfo{
		Name:         info.Name(),
		RelativePath: rel,
		Size:         info.Size(),
		ModTime:      info.ModTime(),
		IsDir:        info.IsDir(),
		IsRegular:    info.Mode().IsRegular(),
	}
}

func clean(path string) string {
	if path == "" {
		return "."
	}
	return path
}
