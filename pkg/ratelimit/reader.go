package ratelimit

import (
	"context"
	"io"
)

// Reader charges every read against a shared Limiter
type Reader struct {
	ctx     context.Context
	src     io.Reader
	limiter *Limiter
}

// NewReader wraps src so reads are paced by limiter. src is returned
// unchanged when limiter is nil.
func NewReader(ctx context.Context, src io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return src
	}
	return &Reader{ctx: ctx, src: src, limiter: limiter}
}

// Wrapper adapts limiter to the comparators' reader hook. It is nil when
// limiter is nil, which leaves comparator reads unpaced.
func Wrapper(ctx context.Context, limiter *Limiter) func(io.Reader) io.Reader {
	if limiter == nil {
		return nil
	}
	return func(r io.Reader) io.Reader {
		return NewReader(ctx, r, limiter)
	}
}

// Read reserves up to one burst of tokens, reads, and hands back what the
// underlying reader did not use.
func (r *Reader) Read(p []byte) (int, error) {
	chunk := min(int64(len(p)), r.limiter.burst)
	if err := r.limiter.Wait(r.ctx, chunk); err != nil {
		return 0, err
	}

	n, err := r.src.Read(p[:chunk])
	r.limiter.refund(chunk - int64(n))
	return n, err
}
