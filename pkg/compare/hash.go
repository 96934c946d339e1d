package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"sync"

	"github.com/sdejongh/dircmp/pkg/storage"
)

const (
	// files at least this large get a quick digest of their head first
	partialHashThreshold = 1 << 20
	partialHashSize      = 256 << 10
)

// HashComparator compares files by digest.
// Large files are first compared on a digest of their leading bytes so
// that most differing pairs are rejected without a full read.
type HashComparator struct {
	*reading
	name              string
	newHash           func() hash.Hash
	enablePartialHash bool
}

// NewHashComparator creates a SHA-256 comparator
func NewHashComparator(bufferSize int) *HashComparator {
	return newDigestComparator("hash", sha256.New, bufferSize)
}

// NewMD5Comparator creates an MD5 comparator. Collisions do not matter
// when the other side is not adversarial.
func NewMD5Comparator(bufferSize int) *HashComparator {
	return newDigestComparator("md5", md5.New, bufferSize)
}

func newDigestComparator(name string, newHash func() hash.Hash, bufferSize int) *HashComparator {
	return &HashComparator{
		reading:           newReading(bufferSize),
		name:              name,
		newHash:           newHash,
		enablePartialHash: true,
	}
}

// SetPartialHashEnabled turns the head-of-file quick reject on or off
func (c *HashComparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// Compare compares two files by digest
func (c *HashComparator) Compare(ctx context.Context, left, right storage.Backend, leftPath, rightPath string) (*Comparison, error) {
	leftInfo, mismatch, err := statPair(ctx, left, right, leftPath, rightPath)
	if err != nil {
		return nil, err
	}
	if mismatch != nil {
		return mismatch, nil
	}

	if c.enablePartialHash && leftInfo.Size >= partialHashThreshold {
		leftSum, rightSum, err := c.hashBoth(ctx, left, right, leftPath, rightPath, partialHashSize)
		if err != nil {
			return nil, err
		}
		if leftSum != rightSum {
			return &Comparison{
				LeftPath:      leftPath,
				RightPath:     rightPath,
				Result:        Different,
				Reason:        fmt.Sprintf("%s partial hash mismatch (first %dKB differ)", c.name, partialHashSize/1024),
				BytesCompared: partialHashSize,
			}, nil
		}
	}

	leftSum, rightSum, err := c.hashBoth(ctx, left, right, leftPath, rightPath, -1)
	if err != nil {
		return nil, err
	}

	if leftSum != rightSum {
		return &Comparison{
			LeftPath:      leftPath,
			RightPath:     rightPath,
			Result:        Different,
			Reason:        c.name + " hashes differ",
			BytesCompared: leftInfo.Size,
		}, nil
	}

	return &Comparison{
		LeftPath:      leftPath,
		RightPath:     rightPath,
		Result:        Same,
		Reason:        c.name + " hashes match",
		BytesCompared: leftInfo.Size,
	}, nil
}

// hashBoth digests both files in parallel; limit < 0 reads whole files
func (c *HashComparator) hashBoth(ctx context.Context, left, right storage.Backend, leftPath, rightPath string, limit int64) (string, string, error) {
	var leftSum, rightSum string
	var leftErr, rightErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		leftSum, leftErr = c.computeHash(ctx, left, leftPath, limit)
	}()
	go func() {
		defer wg.Done()
		rightSum, rightErr = c.computeHash(ctx, right, rightPath, limit)
	}()
	wg.Wait()

	if leftErr != nil {
		return "", "", fmt.Errorf("failed to hash left file: %w", leftErr)
	}
	if rightErr != nil {
		return "", "", fmt.Errorf("failed to hash right file: %w", rightErr)
	}
	return leftSum, rightSum, nil
}

// computeHash streams a file through the digest
func (c *HashComparator) computeHash(ctx context.Context, backend storage.Backend, path string, limit int64) (string, error) {
	rc, err := c.open(ctx, backend, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit >= 0 {
		r = io.LimitReader(r, limit)
	}

	hasher := c.newHash()
	bufPtr := c.buffer()
	defer c.release(bufPtr)
	buffer := *bufPtr

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return c.name
}
