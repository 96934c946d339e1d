package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sdejongh/dircmp/pkg/storage"
)

// BinaryComparator compares files byte-by-byte.
// It stops at the first differing chunk and reports the exact offset.
type BinaryComparator struct {
	*reading
}

// NewBinaryComparator creates a byte-by-byte comparator reading in chunks
// of bufferSize (at least 4 KiB)
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	return &BinaryComparator{reading: newReading(bufferSize)}
}

// Compare compares two files byte-by-byte
func (c *BinaryComparator) Compare(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*Comparison, error) {
	_, mismatch, err := statPair(ctx, left, right, leftPath, rightPath)
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		return mismatch, nil
	}

	lr, err := c.open(ctx, left, leftPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open left file: %w", err)
	}
	defer lr.Close()

	rr, err := c.open(ctx, right, rightPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open right file: %w", err)
	}
	defer rr.Close()

	leftBufPtr, rightBufPtr := c.buffer(), c.buffer()
	defer c.release(leftBufPtr)
	defer c.release(rightBufPtr)
	leftBuf, rightBuf := *leftBufPtr, *rightBufPtr

	var compared int64
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// ReadFull keeps both sides aligned even on short reads
		leftN, leftErr := io.ReadFull(lr, leftBuf)
		rightN, rightErr := io.ReadFull(rr, rightBuf)

		if leftErr != nil && !isEOF(leftErr) {
			return nil, fmt.Errorf("failed to read left file: %w", leftErr)
		}
		if rightErr != nil && !isEOF(rightErr) {
			return nil, fmt.Errorf("failed to read right file: %w", rightErr)
		}

		n := min(leftN, rightN)
		if !bytes.Equal(leftBuf[:n], rightBuf[:n]) {
			offset := compared
			for i := 0; i < n; i++ {
				if leftBuf[i] != rightBuf[i] {
					offset += int64(i)
					break
				}
			}
			return &Comparison{
				LeftPath:      leftPath,
				RightPath:     rightPath,
				Result:        Different,
				Reason:        fmt.Sprintf("binary content differs at byte offset %d", offset),
				BytesCompared: compared + int64(n),
			}, nil
		}
		compared += int64(n)

		if leftN != rightN {
			// Sizes matched at stat time; the file changed underneath us
			return &Comparison{
				LeftPath:      leftPath,
				RightPath:     rightPath,
				Result:        Different,
				Reason:        fmt.Sprintf("one side ended at byte offset %d", compared),
				BytesCompared: compared,
			}, nil
		}

		if isEOF(leftErr) {
			break
		}
	}

	return &Comparison{
		LeftPath:      leftPath,
		RightPath:     rightPath,
		Result:        Same,
		Reason:        fmt.Sprintf("binary content matches (%d bytes)", compared),
		BytesCompared: compared,
	}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
