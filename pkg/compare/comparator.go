package compare

import (
	"io"
)

// Outcome represents the result of comparing two byte streams
type Outcome string

const (
	// Identical indicates both streams hold the same bytes
	Identical Outcome = "identical"
	// Different indicates the streams differ in content or length
	Different Outcome = "different"
	// ReadError indicates a read failed before a verdict was reached
	ReadError Outcome = "read_error"
)

// Comparison holds the result of comparing two streams
type Comparison struct {
	Outcome Outcome
	Reason  string

	// BytesCompared counts bytes confirmed equal before the verdict
	BytesCompared int64

	// Chunks is the number of lock-step read rounds performed
	Chunks int

	// Err is set when Outcome is ReadError
	Err error
}

// ReaderWrapper wraps a reader before comparison (e.g., for rate limiting)
type ReaderWrapper func(io.Reader) io.Reader

// Comparator defines the interface for content comparison
type Comparator interface {
	// Compare reads both streams from their current positions and reports
	// whether the remaining bytes are identical.
	// Stream positions are left wherever the comparison stopped.
	Compare(reference, candidate io.Reader) *Comparison

	// Name returns the name of the comparison method
	Name() string
}
