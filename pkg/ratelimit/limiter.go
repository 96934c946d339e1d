package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const minBurst = 64 * 1024

// Limiter is a token bucket shared by every reader of a run, so the
// configured rate bounds the sum of all comparator reads.
type Limiter struct {
	rate  float64 // bytes per second
	burst int64

	mu     sync.Mutex
	tokens float64 // may go negative while reservations are outstanding
	last   time.Time
}

// NewLimiter returns a limiter for bytesPerSecond, or nil when the rate is
// not positive. The burst is one second of traffic, at least 64 KiB.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	burst := max(bytesPerSecond, minBurst)
	return &Limiter{
		rate:   float64(bytesPerSecond),
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// BytesPerSecond returns the configured rate
func (l *Limiter) BytesPerSecond() int64 {
	if l == nil {
		return 0
	}
	return int64(l.rate)
}

// Wait blocks until n bytes may pass. A wait abandoned through ctx gives
// its reservation back.
func (l *Limiter) Wait(ctx context.Context, n int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	delay := l.reserve(n)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		l.refund(n)
		return ctx.Err()
	}
}

// reserve takes n tokens immediately and returns how long the caller must
// wait before the debt is paid off
func (l *Limiter) reserve(n int64) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	l.tokens -= float64(n)
	if l.tokens >= 0 {
		return 0
	}
	return time.Duration(-l.tokens / l.rate * float64(time.Second))
}

func (l *Limiter) refund(n int64) {
	if n <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	l.tokens = min(l.tokens+float64(n), float64(l.burst))
}

// advance credits tokens earned since the last update. Caller holds mu.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last)
	if elapsed <= 0 {
		return
	}
	l.tokens = min(l.tokens+elapsed.Seconds()*l.rate, float64(l.burst))
	l.last = now
}

// ParseBandwidth parses a rate such as "512K", "10M" or "1G" into bytes
// per second. Suffixes are binary multiples, a trailing "B" or "/s" is
// ignored, and an empty string means unlimited (0).
func ParseBandwidth(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/S"), "B")

	multiplier := int64(1)
	if s != "" {
		switch s[len(s)-1] {
		case 'K':
			multiplier = 1 << 10
		case 'M':
			multiplier = 1 << 20
		case 'G':
			multiplier = 1 << 30
		}
	}
	if multiplier > 1 {
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid bandwidth %q (e.g. 512K, 10M, 1G)", s)
	}

	return int64(value * float64(multiplier)), nil
}
