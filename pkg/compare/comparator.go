package compare

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/dircmp/pkg/models"
	"github.com/sdejongh/dircmp/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	LeftPath  string
	RightPath string
	Result    Result
	Reason    string
	// BytesCompared counts bytes read from each side
	BytesCompared int64
}

// Comparator defines the interface for file comparison algorithms.
// A Same result means the contents are identical.
type Comparator interface {
	// Compare compares two files and returns the result
	Compare(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// ReaderWrapper wraps a reader before it is consumed (e.g., for rate limiting)
type ReaderWrapper func(io.Reader) io.Reader

const minBufferSize = 4096

// reading is the state comparators share: pooled read buffers and the
// optional reader wrapper
type reading struct {
	pool    sync.Pool
	wrapper ReaderWrapper
}

func newReading(bufferSize int) *reading {
	size := max(bufferSize, minBufferSize)
	return &reading{
		pool: sync.Pool{New: func() any {
			buf := make([]byte, size)
			return &buf
		}},
	}
}

// SetReaderWrapper sets a function applied to every reader opened
func (rd *reading) SetReaderWrapper(wrapper ReaderWrapper) {
	rd.wrapper = wrapper
}

func (rd *reading) buffer() *[]byte {
	return rd.pool.Get().(*[]byte)
}

func (rd *reading) release(buf *[]byte) {
	rd.pool.Put(buf)
}

// open opens path on backend with the wrapper applied. Closing the
// returned value closes the underlying file.
func (rd *reading) open(ctx context.Context, backend storage.Backend, path string) (io.ReadCloser, error) {
	rc, err := backend.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if rd.wrapper == nil {
		return rc, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{rd.wrapper(rc), rc}, nil
}

// New returns the comparator for the given method
func New(method models.ComparisonMethod, bufferSize int) (Comparator, error) {
	switch method {
	case models.CompareBinary:
		// Thorough: byte-by-byte, reports the first differing offset
		return NewBinaryComparator(bufferSize), nil
	case models.CompareHash:
		// Secure: SHA-256 hash comparison
		return NewHashComparator(bufferSize), nil
	case models.CompareMD5:
		// Fast hash: MD5 comparison
		return NewMD5Comparator(bufferSize), nil
	default:
		return nil, fmt.Errorf("unsupported comparison method: %s (use: binary, hash, md5)", method)
	}
}

// WithReaderWrapper installs wrapper on comparators that support it
func WithReaderWrapper(c Comparator, wrapper ReaderWrapper) Comparator {
	if wrapper == nil {
		return c
	}
	if w, ok := c.(interface{ SetReaderWrapper(ReaderWrapper) }); ok {
		w.SetReaderWrapper(wrapper)
	}
	return c
}

// statPair stats both files and reports a size mismatch without reading content
func statPair(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*storage.FileInfo, *Comparison, error) {
	leftInfo, err := left.Stat(ctx, leftPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat left file: %w", err)
	}

	rightInfo, err := right.Stat(ctx, rightPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat right file: %w", err)
	}

	if leftInfo.Size != rightInfo.Size {
		return leftInfo, &Comparison{
			LeftPath:  leftPath,
			RightPath: rightPath,
			Result:    Different,
			Reason:    fmt.Sprintf("size mismatch: left=%d, right=%d", leftInfo.Size, rightInfo.Size),
		}, nil
	}

	return leftInfo, nil, nil
}
