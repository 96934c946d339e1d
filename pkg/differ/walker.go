package differ

import (
	"context"
	"sort"

	"github.com/sdejongh/dircmp/pkg/storage"
)

// ListAll returns every directory and file under root, root first.
// Each directory is followed by its files in name order, then its
// subdirectories are listed the same way in name order. Paths are full
// paths built from the backend root.
func ListAll(ctx context.Context, backend storage.Backend, root string) ([]string, error) {
	return listAll(ctx, backend, root, nil)
}

func listAll(ctx context.Context, backend storage.Backend, root string, excluder *Excluder) ([]string, error) {
	var paths []string
	if err := walkDir(ctx, backend, root, excluder, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func walkDir(ctx context.Context, backend storage.Backend, rel string, excluder *Excluder, paths *[]string) error {
	entries, err := backend.ReadDir(ctx, rel)
	if err != nil {
		return err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	*paths = append(*paths, backend.FullPath(rel))

	var dirs []string
	for _, e := range entries {
		if excluder.Match(e.RelativePath, e.IsDir) {
			continue
		}
		if e.IsDir {
			dirs = append(dirs, e.RelativePath)
			continue
		}
		*paths = append(*paths, backend.FullPath(e.RelativePath))
	}

	for _, dir := range dirs {
		if err := walkDir(ctx, backend, dir, excluder, paths); err != nil {
			return err
		}
	}

	return nil
}
