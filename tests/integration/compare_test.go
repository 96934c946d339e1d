package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/sdejongh/dircmp/pkg/compare"
	"github.com/sdejongh/dircmp/pkg/differ"
	"github.com/sdejongh/dircmp/pkg/models"
	"github.com/sdejongh/dircmp/pkg/ratelimit"
	"github.com/sdejongh/dircmp/pkg/storage"
)

// TestHelper provides utilities for integration tests
type TestHelper struct {
	t        *testing.T
	tempDir  string
	leftDir  string
	rightDir string
	left     *storage.Tree
	right    *storage.Tree
}

// NewTestHelper creates a new integration test helper
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "dircmp-integration-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	leftDir := filepath.Join(tempDir, "left")
	rightDir := filepath.Join(tempDir, "right")

	for _, dir := range []string{leftDir, rightDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
	}

	left, err := storage.NewLocal(leftDir)
	if err != nil {
		t.Fatalf("failed to create left backend: %v", err)
	}

	right, err := storage.NewLocal(rightDir)
	if err != nil {
		t.Fatalf("failed to create right backend: %v", err)
	}

	return &TestHelper{
		t:        t,
		tempDir:  tempDir,
		leftDir:  leftDir,
		rightDir: rightDir,
		left:     left,
		right:    right,
	}
}

// Cleanup removes all temporary files
func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.tempDir)
}

// CreateFile creates a file under the left or right root
func (h *TestHelper) CreateFile(left bool, name string, content []byte) {
	h.t.Helper()
	root := h.rightDir
	if left {
		root = h.leftDir
	}
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

// CreateBoth creates the same file on both sides
func (h *TestHelper) CreateBoth(name string, content []byte) {
	h.CreateFile(true, name, content)
	h.CreateFile(false, name, content)
}

// NewOperation creates a default compare operation for testing
func (h *TestHelper) NewOperation(method models.ComparisonMethod) *models.CompareOperation {
	return &models.CompareOperation{
		ID:               "integration",
		LeftPath:         h.leftDir,
		RightPath:        h.rightDir,
		Mode:             models.ModeDirectories,
		ComparisonMethod: method,
		Options:          models.AllOptions(),
		BufferSize:       4096,
	}
}

// Run compares both roots with method
func (h *TestHelper) Run(method models.ComparisonMethod) *models.Report {
	h.t.Helper()

	op := h.NewOperation(method)
	comparator, err := compare.New(method, op.BufferSize)
	if err != nil {
		h.t.Fatalf("compare.New() error = %v", err)
	}

	report, err := differ.New(comparator, nil).Run(context.Background(), op, h.left, h.right)
	if err != nil {
		h.t.Fatalf("Run() error = %v", err)
	}
	return report
}

func (h *TestHelper) leftPath(rel string) string { return filepath.Join(h.leftDir, rel) }
func (h *TestHelper) rightPath(rel string) string { return filepath.Join(h.rightDir, rel) }

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============== Tree Comparison Tests ==============

func TestCompare_EmptyTrees(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	report := h.Run(models.CompareBinary)

	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, want success", report.Status)
	}
	if n := report.Result.Entries(); n != 0 {
		t.Errorf("Entries() = %d, want 0", n)
	}
	if report.Stats.DirPairsScanned != 1 {
		t.Errorf("DirPairsScanned = %d, want 1", report.Stats.DirPairsScanned)
	}
}

func TestCompare_AllMethods(t *testing.T) {
	methods := []models.ComparisonMethod{models.CompareBinary, models.CompareHash, models.CompareMD5}

	for _, method := range methods {
		t.Run(string(method), func(t *testing.T) {
			h := NewTestHelper(t)
			defer h.Cleanup()

			h.CreateBoth("same.txt", []byte("identical"))
			h.CreateBoth("nested/deep/same.bin", []byte{0, 1, 2, 3})
			h.CreateFile(true, "nested/changed.txt", []byte("version 1"))
			h.CreateFile(false, "nested/changed.txt", []byte("version 2"))
			h.CreateFile(true, "resized.txt", []byte("short"))
			h.CreateFile(false, "resized.txt", []byte("much longer"))
			h.CreateFile(true, "only-left/a.txt", []byte("a"))
			h.CreateFile(false, "only-right.txt", []byte("r"))

			report := h.Run(method)
			result := report.Result

			if len(result.Common) != 2 {
				t.Errorf("Common = %v, want 2 pairs", result.Common)
			}
			if len(result.Differing) != 2 {
				t.Errorf("Differing = %v, want 2 pairs", result.Differing)
			}

			wantLeft := []string{h.leftPath("only-left"), h.leftPath("only-left/a.txt")}
			if got := sorted(result.LeftOnly); !equal(got, wantLeft) {
				t.Errorf("LeftOnly = %v, want %v", got, wantLeft)
			}

			wantRight := []string{h.rightPath("only-right.txt")}
			if !equal(result.RightOnly, wantRight) {
				t.Errorf("RightOnly = %v, want %v", result.RightOnly, wantRight)
			}

			if report.Stats.FilesCompared != 4 {
				t.Errorf("FilesCompared = %d, want 4", report.Stats.FilesCompared)
			}
		})
	}
}

func TestCompare_LargeFilesPartialHash(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	// Same size, differ in the first block
	big := make([]byte, 2<<20)
	changed := append([]byte(nil), big...)
	changed[10] = 1

	h.CreateFile(true, "big.bin", big)
	h.CreateFile(false, "big.bin", changed)
	h.CreateBoth("big-same.bin", big)

	report := h.Run(models.CompareHash)

	if len(report.Result.Differing) != 1 || report.Result.Differing[0].Left != h.leftPath("big.bin") {
		t.Errorf("Differing = %v, want big.bin", report.Result.Differing)
	}
	if len(report.Result.Common) != 1 {
		t.Errorf("Common = %v, want big-same.bin", report.Result.Common)
	}
}

func TestCompare_SymlinkedDirectory(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateBoth("real/file.txt", []byte("x"))
	if err := os.Symlink(filepath.Join(h.leftDir, "real"), filepath.Join(h.leftDir, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	h.CreateFile(false, "link/file.txt", []byte("x"))

	report := h.Run(models.CompareBinary)

	if len(report.Result.Common) != 2 {
		t.Errorf("Common = %v, want real/file.txt and link/file.txt", report.Result.Common)
	}
	if len(report.Result.LeftOnly)+len(report.Result.RightOnly) != 0 {
		t.Errorf("one-sided entries = %v %v, want none", report.Result.LeftOnly, report.Result.RightOnly)
	}
}

func TestCompare_RateLimited(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateBoth("a.txt", []byte("rate limited content"))

	op := h.NewOperation(models.CompareBinary)
	ctx := context.Background()

	limiter := ratelimit.NewLimiter(1 << 20)
	comparator := compare.WithReaderWrapper(compare.NewBinaryComparator(4096), ratelimit.Wrapper(ctx, limiter))

	report, err := differ.New(comparator, nil).Run(ctx, op, h.left, h.right)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Result.Common) != 1 {
		t.Errorf("Common = %v, want 1 pair", report.Result.Common)
	}
}

func TestCompare_ContextCancellation(t *testing.T) {
	h := NewTestHelper(t)
	defer h.Cleanup()

	h.CreateBoth("a/b/c.txt", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := differ.New(compare.NewBinaryComparator(4096), nil).Run(ctx, h.NewOperation(models.CompareBinary), h.left, h.right)
	if err == nil {
		t.Fatal("Run() expected error for cancelled context")
	}
}
