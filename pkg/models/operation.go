package models

import (
	"time"
)

const (
	// DefaultChunkSize is the number of bytes read from each stream per comparison step
	DefaultChunkSize = 1024
	// MinChunkSize is the smallest accepted chunk size
	MinChunkSize = 1
	// MaxChunkSize bounds the per-stream buffer
	MaxChunkSize = 16 * 1024 * 1024
)

// ScanOperation represents one duplicate scan
type ScanOperation struct {
	ID             string
	DirPath        string   // Directory whose entries are compared (non-recursive)
	ReferencePath  string   // File every candidate is compared against
	Exclude        []string // Extra glob patterns removed from the candidate set
	ChunkSize      int
	FillChunks     bool  // Retry short reads before declaring a length mismatch
	BandwidthLimit int64 // bytes per second, 0 = unlimited
	CreatedAt      time.Time
}

// Validate checks if the operation configuration is valid
func (op *ScanOperation) Validate() error {
	if op.DirPath == "" {
		return &ValidationError{Field: "DirPath", Message: "directory path is required"}
	}
	if op.ReferencePath == "" {
		return &ValidationError{Field: "ReferencePath", Message: "reference file is required"}
	}
	if op.ChunkSize < MinChunkSize || op.ChunkSize > MaxChunkSize {
		return &ValidationError{Field: "ChunkSize", Message: "chunk size must be between 1 byte and 16 MiB"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
