package compare

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// ContentComparator compares two streams chunk by chunk.
// Memory use is two chunk-sized buffers regardless of stream length.
type ContentComparator struct {
	chunkSize     int
	fillChunks    bool
	bufferPool    *sync.Pool
	readerWrapper ReaderWrapper // Optional reader wrapper (e.g., for rate limiting)
}

// NewContentComparator creates a comparator reading chunkSize bytes per step.
// Out-of-range sizes fall back to models.DefaultChunkSize.
func NewContentComparator(chunkSize int) *ContentComparator {
	if chunkSize < models.MinChunkSize || chunkSize > models.MaxChunkSize {
		chunkSize = models.DefaultChunkSize
	}
	return &ContentComparator{
		chunkSize: chunkSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// SetFillChunks makes each step keep reading until the chunk is full or the
// stream ends. With it off (the default) a short read on one side is taken
// as a length mismatch.
func (c *ContentComparator) SetFillChunks(fill bool) {
	c.fillChunks = fill
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *ContentComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// ChunkSize returns the per-step read size
func (c *ContentComparator) ChunkSize() int {
	return c.chunkSize
}

// Compare reads both streams in lock-step and stops at the first differing chunk
func (c *ContentComparator) Compare(reference, candidate io.Reader) *Comparison {
	if c.readerWrapper != nil {
		reference = c.readerWrapper(reference)
		candidate = c.readerWrapper(candidate)
	}

	refBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(refBufPtr)
	refBuf := *refBufPtr

	candBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(candBufPtr)
	candBuf := *candBufPtr

	result := &Comparison{}

	for {
		refN, refErr := c.readChunk(reference, refBuf)
		candN, candErr := c.readChunk(candidate, candBuf)
		result.Chunks++

		if refErr != nil {
			result.Outcome = ReadError
			result.Reason = fmt.Sprintf("reference read failed at offset %d", result.BytesCompared)
			result.Err = fmt.Errorf("failed to read reference: %w", refErr)
			return result
		}
		if candErr != nil {
			result.Outcome = ReadError
			result.Reason = fmt.Sprintf("candidate read failed at offset %d", result.BytesCompared)
			result.Err = fmt.Errorf("failed to read candidate: %w", candErr)
			return result
		}

		if refN != candN {
			result.Outcome = Different
			result.Reason = fmt.Sprintf("chunk length mismatch at offset %d: reference=%d, candidate=%d",
				result.BytesCompared, refN, candN)
			return result
		}

		if !bytes.Equal(refBuf[:refN], candBuf[:candN]) {
			diffOffset := result.BytesCompared
			for i := 0; i < refN; i++ {
				if refBuf[i] != candBuf[i] {
					diffOffset += int64(i)
					break
				}
			}
			result.Outcome = Different
			result.Reason = fmt.Sprintf("content differs at byte offset %d", diffOffset)
			return result
		}

		if refN == 0 {
			// Both sides returned an empty chunk together
			result.Outcome = Identical
			result.Reason = fmt.Sprintf("content matches (%d bytes)", result.BytesCompared)
			return result
		}

		result.BytesCompared += int64(refN)
	}
}

// readChunk performs one step's read; end of stream is a zero-length chunk, not an error
func (c *ContentComparator) readChunk(r io.Reader, buf []byte) (int, error) {
	if c.fillChunks {
		n, err := io.ReadFull(r, buf)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return n, nil
		}
		return n, err
	}

	n, err := r.Read(buf)
	if err == io.EOF {
		return n, nil
	}
	return n, err
}

// Name returns the comparator name
func (c *ContentComparator) Name() string {
	return "content"
}
