package compare

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// countingReader records how the comparator reads from a stream
type countingReader struct {
	r        io.Reader
	calls    int
	maxAsked int
	consumed int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.calls++
	if len(p) > c.maxAsked {
		c.maxAsked = len(p)
	}
	n, err := c.r.Read(p)
	c.consumed += int64(n)
	return n, err
}

func newCounting(s string) *countingReader {
	return &countingReader{r: strings.NewReader(s)}
}

// TestOutcomeConstants verifies that Outcome constants are properly defined
func TestOutcomeConstants(t *testing.T) {
	tests := []struct {
		outcome  Outcome
		expected string
	}{
		{Identical, "identical"},
		{Different, "different"},
		{ReadError, "read_error"},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			if string(tt.outcome) != tt.expected {
				t.Errorf("Outcome constant %s has wrong value: got %s, want %s", tt.outcome, string(tt.outcome), tt.expected)
			}
		})
	}
}

func TestNewContentComparator(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"Explicit", 4096, 4096},
		{"Tiny", 1, 1},
		{"ZeroFallsBack", 0, models.DefaultChunkSize},
		{"NegativeFallsBack", -5, models.DefaultChunkSize},
		{"TooLargeFallsBack", models.MaxChunkSize + 1, models.DefaultChunkSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContentComparator(tt.size)
			if c.ChunkSize() != tt.want {
				t.Errorf("ChunkSize() = %d, want %d", c.ChunkSize(), tt.want)
			}
		})
	}

	if NewContentComparator(0).Name() != "content" {
		t.Error("Name() should be content")
	}
}

// TestContentComparator tests the chunked comparator on small inputs
func TestContentComparator(t *testing.T) {
	tests := []struct {
		name      string
		chunk     int
		reference string
		candidate string
		want      Outcome
	}{
		{"IdenticalShort", 1024, "hello", "hello", Identical},
		{"OneByteDiffers", 1024, "hello", "hellx", Different},
		{"DifferentSizes", 1024, "hello", "hello world", Different},
		{"BothEmpty", 1024, "", "", Identical},
		{"EmptyReference", 1024, "", "x", Different},
		{"EmptyCandidate", 1024, "x", "", Different},
		{"ExactChunkMultiple", 4, "abcdefgh", "abcdefgh", Identical},
		{"CandidateLongerByChunk", 4, "abcd", "abcdefgh", Different},
		{"ReferenceLongerByPartialChunk", 4, "abcdef", "abcd", Different},
		{"DiffersInLastChunk", 4, "abcdefghij", "abcdefghiX", Different},
		{"SingleByteChunks", 1, "duplicate", "duplicate", Identical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContentComparator(tt.chunk)
			result := c.Compare(strings.NewReader(tt.reference), strings.NewReader(tt.candidate))
			if result.Outcome != tt.want {
				t.Errorf("Outcome = %s, want %s (reason: %s)", result.Outcome, tt.want, result.Reason)
			}
			if result.Outcome == Identical && result.BytesCompared != int64(len(tt.reference)) {
				t.Errorf("BytesCompared = %d, want %d", result.BytesCompared, len(tt.reference))
			}
			if result.Err != nil {
				t.Errorf("Err = %v, want nil", result.Err)
			}
		})
	}
}

// TestContentComparatorShortCircuit checks no reads happen past the first differing chunk
func TestContentComparatorShortCircuit(t *testing.T) {
	c := NewContentComparator(4)

	t.Run("DiffInFirstChunk", func(t *testing.T) {
		ref := newCounting("Xbcdefghijkl")
		cand := newCounting("abcdefghijkl")

		result := c.Compare(ref, cand)
		if result.Outcome != Different {
			t.Fatalf("Outcome = %s, want different", result.Outcome)
		}
		if ref.calls != 1 || cand.calls != 1 {
			t.Errorf("reads = %d/%d, want 1/1", ref.calls, cand.calls)
		}
		if ref.consumed != 4 || cand.consumed != 4 {
			t.Errorf("consumed = %d/%d bytes, want 4/4", ref.consumed, cand.consumed)
		}
		if !strings.Contains(result.Reason, "offset 0") {
			t.Errorf("Reason = %q, want offset 0", result.Reason)
		}
	})

	t.Run("DiffInSecondChunk", func(t *testing.T) {
		ref := newCounting("abcdefXhijkl")
		cand := newCounting("abcdefghijkl")

		result := c.Compare(ref, cand)
		if result.Outcome != Different {
			t.Fatalf("Outcome = %s, want different", result.Outcome)
		}
		if ref.calls != 2 || cand.calls != 2 {
			t.Errorf("reads = %d/%d, want 2/2", ref.calls, cand.calls)
		}
		if result.Chunks != 2 {
			t.Errorf("Chunks = %d, want 2", result.Chunks)
		}
		if !strings.Contains(result.Reason, "offset 6") {
			t.Errorf("Reason = %q, want offset 6", result.Reason)
		}
	})
}

// TestContentComparatorBoundedReads checks read requests never exceed the chunk size
func TestContentComparatorBoundedReads(t *testing.T) {
	const chunk = 1024
	data := bytes.Repeat([]byte("0123456789abcdef"), 64*1024) // 1 MiB

	for _, size := range []int{0, 1, chunk - 1, chunk, chunk + 1, len(data)} {
		ref := &countingReader{r: bytes.NewReader(data[:size])}
		cand := &countingReader{r: bytes.NewReader(data[:size])}

		result := NewContentComparator(chunk).Compare(ref, cand)
		if result.Outcome != Identical {
			t.Fatalf("size %d: Outcome = %s, want identical", size, result.Outcome)
		}
		if ref.maxAsked > chunk || cand.maxAsked > chunk {
			t.Errorf("size %d: largest read request = %d/%d, want <= %d", size, ref.maxAsked, cand.maxAsked, chunk)
		}
	}
}

// TestContentComparatorRandomized compares against bytes.Equal on random inputs
func TestContentComparatorRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		size := rng.Intn(5000)
		chunk := 1 + rng.Intn(2048)

		reference := make([]byte, size)
		rng.Read(reference)

		candidate := append([]byte(nil), reference...)
		switch rng.Intn(3) {
		case 1:
			if size > 0 {
				candidate[rng.Intn(size)] ^= 0xFF
			}
		case 2:
			candidate = append(candidate, byte(rng.Intn(256)))
		}

		want := Different
		if bytes.Equal(reference, candidate) {
			want = Identical
		}

		result := NewContentComparator(chunk).Compare(bytes.NewReader(reference), bytes.NewReader(candidate))
		if result.Outcome != want {
			t.Fatalf("case %d (size=%d chunk=%d): Outcome = %s, want %s", i, size, chunk, result.Outcome, want)
		}
	}
}

func TestContentComparatorReadErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	c := NewContentComparator(1024)

	t.Run("ReferenceFails", func(t *testing.T) {
		result := c.Compare(iotest.ErrReader(boom), strings.NewReader("hello"))
		if result.Outcome != ReadError {
			t.Fatalf("Outcome = %s, want read_error", result.Outcome)
		}
		if !errors.Is(result.Err, boom) {
			t.Errorf("Err = %v, want wrapped %v", result.Err, boom)
		}
	})

	t.Run("CandidateFails", func(t *testing.T) {
		result := c.Compare(strings.NewReader("hello"), iotest.ErrReader(boom))
		if result.Outcome != ReadError {
			t.Fatalf("Outcome = %s, want read_error", result.Outcome)
		}
		if !errors.Is(result.Err, boom) {
			t.Errorf("Err = %v, want wrapped %v", result.Err, boom)
		}
	})

	t.Run("FailsAfterData", func(t *testing.T) {
		ref := io.MultiReader(strings.NewReader("abcd"), iotest.ErrReader(boom))
		result := NewContentComparator(4).Compare(ref, strings.NewReader("abcdefgh"))
		if result.Outcome != ReadError {
			t.Fatalf("Outcome = %s, want read_error", result.Outcome)
		}
		if result.BytesCompared != 4 {
			t.Errorf("BytesCompared = %d, want 4", result.BytesCompared)
		}
	})
}

// TestContentComparatorShortReads covers readers that return less than asked
func TestContentComparatorShortReads(t *testing.T) {
	t.Run("StrictModeTreatsShortReadAsMismatch", func(t *testing.T) {
		c := NewContentComparator(1024)
		result := c.Compare(strings.NewReader("hello"), iotest.OneByteReader(strings.NewReader("hello")))
		if result.Outcome != Different {
			t.Errorf("Outcome = %s, want different", result.Outcome)
		}
	})

	t.Run("FillModeReconcilesShortReads", func(t *testing.T) {
		c := NewContentComparator(1024)
		c.SetFillChunks(true)
		result := c.Compare(strings.NewReader("hello"), iotest.OneByteReader(strings.NewReader("hello")))
		if result.Outcome != Identical {
			t.Errorf("Outcome = %s, want identical (reason: %s)", result.Outcome, result.Reason)
		}
	})

	t.Run("FillModeStillDetectsDifference", func(t *testing.T) {
		c := NewContentComparator(2)
		c.SetFillChunks(true)
		result := c.Compare(iotest.HalfReader(strings.NewReader("hello")), iotest.OneByteReader(strings.NewReader("hellx")))
		if result.Outcome != Different {
			t.Errorf("Outcome = %s, want different", result.Outcome)
		}
	})
}

func TestContentComparatorReaderWrapper(t *testing.T) {
	c := NewContentComparator(1024)

	wrapped := 0
	c.SetReaderWrapper(func(r io.Reader) io.Reader {
		wrapped++
		return r
	})

	result := c.Compare(strings.NewReader("same"), strings.NewReader("same"))
	if result.Outcome != Identical {
		t.Errorf("Outcome = %s, want identical", result.Outcome)
	}
	if wrapped != 2 {
		t.Errorf("wrapper applied %d times, want 2", wrapped)
	}
}

// TestComparatorInterface verifies the comparator implements the interface
func TestComparatorInterface(t *testing.T) {
	var _ Comparator = NewContentComparator(models.DefaultChunkSize)
}
