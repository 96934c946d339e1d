package compare

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sdejongh/dircmp/pkg/models"
	"github.com/sdejongh/dircmp/pkg/storage"
)

// TestHelper provides utilities for comparator tests
type TestHelper struct {
	t       *testing.T
	tempDir string
	left    *storage.Tree
	right   *storage.Tree
}

// NewTestHelper creates a new test helper with temporary directories
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir := t.TempDir()
	leftDir := filepath.Join(tempDir, "left")
	rightDir := filepath.Join(tempDir, "right")

	if err := os.MkdirAll(leftDir, 0755); err != nil {
		t.Fatalf("failed to create left dir: %v", err)
	}
	if err := os.MkdirAll(rightDir, 0755); err != nil {
		t.Fatalf("failed to create right dir: %v", err)
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
		t:       t,
		tempDir: tempDir,
		left:    left,
		right:   right,
	}
}

// CreateFile creates a file on one side
func (h *TestHelper) CreateFile(side, name string, content []byte) {
	h.t.Helper()
	path := filepath.Join(h.tempDir, side, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create %s file: %v", side, err)
	}
}

// Pair writes the same name on both sides
func (h *TestHelper) Pair(name string, left, right []byte) {
	h.t.Helper()
	h.CreateFile("left", name, left)
	h.CreateFile("right", name, right)
}

func comparators() []Comparator {
	return []Comparator{
		NewBinaryComparator(4096),
		NewHashComparator(4096),
		NewMD5Comparator(4096),
	}
}

// TestComparators runs the shared behaviour table against every method
func TestComparators(t *testing.T) {
	large := bytes.Repeat([]byte("0123456789abcdef"), 128*1024) // 2MB
	largeTail := append([]byte{}, large...)
	largeTail[len(largeTail)-1] = 'X'
	largeHead := append([]byte{}, large...)
	largeHead[10] = 'X'

	tests := []struct {
		name        string
		left, right []byte
		want        Result
	}{
		{"IdenticalFiles", []byte("hello world"), []byte("hello world"), Same},
		{"EmptyFiles", []byte{}, []byte{}, Same},
		{"DifferentSize", []byte("short"), []byte("much longer content"), Different},
		{"SameSizeDifferentContent", []byte("hello world"), []byte("hello WORLD"), Different},
		{"LargeIdentical", large, large, Same},
		{"LargeDifferAtEnd", large, largeTail, Different},
		{"LargeDifferAtStart", large, largeHead, Different},
	}

	for _, comp := range comparators() {
		for _, tt := range tests {
			t.Run(comp.Name()+"/"+tt.name, func(t *testing.T) {
				h := NewTestHelper(t)
				h.Pair("file.bin", tt.left, tt.right)

				result, err := comp.Compare(context.Background(), h.left, h.right, "file.bin", "file.bin")
				if err != nil {
					t.Fatalf("Compare() error = %v", err)
				}
				if result.Result != tt.want {
					t.Errorf("Compare() result = %v, want %v (reason: %s)", result.Result, tt.want, result.Reason)
				}
				if result.LeftPath != "file.bin" || result.RightPath != "file.bin" {
					t.Errorf("Compare() paths = %q/%q", result.LeftPath, result.RightPath)
				}
			})
		}
	}
}

// TestHashComparatorPartial checks the head-of-file quick reject and that
// disabling it still finds the difference with a full digest
func TestHashComparatorPartial(t *testing.T) {
	large := bytes.Repeat([]byte("0123456789abcdef"), 128*1024)
	changed := append([]byte{}, large...)
	changed[100] = 'X'

	h := NewTestHelper(t)
	h.Pair("big.bin", large, changed)

	comp := NewHashComparator(4096)
	result, err := comp.Compare(context.Background(), h.left, h.right, "big.bin", "big.bin")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !strings.Contains(result.Reason, "partial") {
		t.Errorf("Reason = %q, want a partial hash mismatch", result.Reason)
	}

	comp.SetPartialHashEnabled(false)
	result, err = comp.Compare(context.Background(), h.left, h.right, "big.bin", "big.bin")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.Result != Different || strings.Contains(result.Reason, "partial") {
		t.Errorf("Compare() = %v (%s), want a full-hash difference", result.Result, result.Reason)
	}
	if result.BytesCompared != int64(len(large)) {
		t.Errorf("BytesCompared = %d, want %d", result.BytesCompared, len(large))
	}
}

// TestBinaryComparatorOffset checks the reported offset of the first differing byte
func TestBinaryComparatorOffset(t *testing.T) {
	h := NewTestHelper(t)
	content := bytes.Repeat([]byte("a"), 10000)
	changed := append([]byte{}, content...)
	changed[5000] = 'b'
	h.Pair("file.txt", content, changed)

	comp := NewBinaryComparator(4096)
	result, err := comp.Compare(context.Background(), h.left, h.right, "file.txt", "file.txt")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.Result != Different {
		t.Fatalf("Compare() result = %v, want Different", result.Result)
	}
	if !strings.Contains(result.Reason, "offset 5000") {
		t.Errorf("Reason = %q, want offset 5000", result.Reason)
	}
}

// TestComparatorMissingFile checks that a vanished file surfaces as PathNotFound
func TestComparatorMissingFile(t *testing.T) {
	for _, comp := range comparators() {
		t.Run(comp.Name(), func(t *testing.T) {
			h := NewTestHelper(t)
			h.CreateFile("left", "only.txt", []byte("x"))

			_, err := comp.Compare(context.Background(), h.left, h.right, "only.txt", "only.txt")
			if err == nil {
				t.Fatal("Compare() should fail when the right file is missing")
			}
			if !errors.Is(err, models.ErrPathNotFound) {
				t.Errorf("Compare() error = %v, want ErrPathNotFound", err)
			}
		})
	}
}

// TestComparatorCancelled checks that a cancelled context stops reading
func TestComparatorCancelled(t *testing.T) {
	h := NewTestHelper(t)
	h.Pair("file.txt", []byte("same"), []byte("same"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, comp := range comparators() {
		t.Run(comp.Name(), func(t *testing.T) {
			if _, err := comp.Compare(ctx, h.left, h.right, "file.txt", "file.txt"); err == nil {
				t.Error("Compare() should fail with a cancelled context")
			}
		})
	}
}

// oneByteReader forces short reads
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return o.r.Read(p[:1])
}

// TestReaderWrapper checks wrappers are applied and short reads are tolerated
func TestReaderWrapper(t *testing.T) {
	h := NewTestHelper(t)
	h.Pair("file.txt", []byte("identical content"), []byte("identical content"))

	for _, comp := range comparators() {
		t.Run(comp.Name(), func(t *testing.T) {
			var wrapped atomic.Int32
			WithReaderWrapper(comp, func(r io.Reader) io.Reader {
				wrapped.Add(1)
				return oneByteReader{r: r}
			})

			result, err := comp.Compare(context.Background(), h.left, h.right, "file.txt", "file.txt")
			if err != nil {
				t.Fatalf("Compare() error = %v", err)
			}
			if result.Result != Same {
				t.Errorf("Compare() result = %v, want Same (reason: %s)", result.Result, result.Reason)
			}
			if n := wrapped.Load(); n != 2 {
				t.Errorf("wrapper applied %d times, want 2", n)
			}
		})
	}
}

// TestNew checks the method factory
func TestNew(t *testing.T) {
	tests := []struct {
		method models.ComparisonMethod
		name   string
	}{
		{models.CompareBinary, "binary"},
		{models.CompareHash, "hash"},
		{models.CompareMD5, "md5"},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			comp, err := New(tt.method, 65536)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if comp.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", comp.Name(), tt.name)
			}
		})
	}

	if _, err := New("namesize", 65536); err == nil {
		t.Error("New() should reject unknown methods")
	}
}

// TestComparatorInterface verifies all comparators implement the interface
func TestComparatorInterface(t *testing.T) {
	var _ Comparator = (*BinaryComparator)(nil)
	var _ Comparator = (*HashComparator)(nil)
}
