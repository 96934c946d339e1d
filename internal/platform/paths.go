package platform

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans path for the current platform, keeping the leading
// double separator of Windows UNC shares that filepath.Clean would fold.
func NormalizePath(path string) string {
	normalized := filepath.Clean(path)
	if isWindows() && strings.HasPrefix(path, `\\`) && !strings.HasPrefix(normalized, `\\`) {
		normalized = `\` + normalized
	}
	return normalized
}

// SamePath reports whether a and b name the same location once made
// absolute and cleaned. Case is folded on Windows.
func SamePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(NormalizePath(a))
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(NormalizePath(b))
	if err != nil {
		return false, err
	}

	if isWindows() {
		return strings.EqualFold(absA, absB), nil
	}
	return absA == absB, nil
}

// ValidatePath rejects paths no filesystem call could succeed with.
// It does not touch the filesystem.
func ValidatePath(path string) error {
	if path == "" {
		return &PathError{Path: path, Reason: "path is empty"}
	}
	if strings.ContainsRune(path, 0) {
		return &PathError{Path: path, Reason: "path contains a NUL byte"}
	}

	if isWindows() {
		// The volume name may legitimately hold '?' (\\?\C:\...)
		rest := path[len(filepath.VolumeName(path)):]
		if i := strings.IndexAny(rest, `<>"|?*`); i >= 0 {
			return &PathError{Path: path, Reason: fmt.Sprintf("path contains invalid character %q", rest[i])}
		}
	}

	return nil
}

// PathError reports a path rejected by ValidatePath
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func isWindows() bool {
	return runtime.GOOS == "windows"
}
