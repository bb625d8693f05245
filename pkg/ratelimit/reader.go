package ratelimit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// minBucket keeps bursts large enough that a chunk never waits on itself
const minBucket = 64 * 1024

// Limiter is a token bucket shared by every reader it wraps.
// One token is one byte.
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastUpdate time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter creates a limiter for bytesPerSecond.
// A non-positive rate means no limiting and returns nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucketSize := bytesPerSecond
	if bucketSize < minBucket {
		bucketSize = minBucket
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucketSize,
		tokens:         bucketSize,
		lastUpdate:     time.Now(),
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// Wrap returns r throttled by the limiter. A nil limiter returns r unchanged.
func (l *Limiter) Wrap(r io.Reader) io.Reader {
	if l == nil {
		return r
	}
	return &Reader{reader: r, limiter: l}
}

// Reader is an io.Reader throttled by a Limiter
type Reader struct {
	reader  io.Reader
	limiter *Limiter
}

// Read waits for enough tokens for len(p), capped at the bucket size, then reads
func (r *Reader) Read(p []byte) (int, error) {
	toRead := int64(len(p))
	if toRead > r.limiter.bucketSize {
		toRead = r.limiter.bucketSize
	}

	r.limiter.take(toRead)

	n, err := r.reader.Read(p[:toRead])
	if unused := toRead - int64(n); unused > 0 {
		r.limiter.refund(unused)
	}
	return n, err
}

// take blocks until n tokens are available and consumes them
func (l *Limiter) take(n int64) {
	for {
		l.mu.Lock()
		l.refill()

		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return
		}

		deficit := n - l.tokens
		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		l.mu.Unlock()

		l.sleep(wait)
	}
}

// refund returns tokens reserved for bytes that were not read
func (l *Limiter) refund(n int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens += n
	if l.tokens > l.bucketSize {
		l.tokens = l.bucketSize
	}
}

// refill adds tokens for the time elapsed since the last update (lock held)
func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.lastUpdate)

	add := int64(elapsed.Seconds() * float64(l.bytesPerSecond))
	if add > 0 {
		l.tokens += add
		if l.tokens > l.bucketSize {
			l.tokens = l.bucketSize
		}
		l.lastUpdate = now
	}
}

// ParseRate parses a bandwidth such as "512K", "10M" or "1G" into bytes per second.
// Suffixes are binary multiples; an empty string or "0" means unlimited.
func ParseRate(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil
	}

	s = strings.TrimSuffix(strings.TrimSuffix(s, "/S"), "B")
	if s == "" {
		return 0, fmt.Errorf("invalid bandwidth: missing value")
	}

	multiplier := int64(1)
	switch s[len(s)-1] {
	case 'K':
		multiplier = 1 << 10
	case 'M':
		multiplier = 1 << 20
	case 'G':
		multiplier = 1 << 30
	}
	if multiplier > 1 {
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth %q: %w", s, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid bandwidth: must not be negative")
	}

	return int64(value * float64(multiplier)), nil
}
