package output

import (
	"io"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// Progress update types
const (
	UpdateSkipped      = "entry_skipped"
	UpdateCompareStart = "compare_start"
	UpdateCompareDone  = "compare_done"
	UpdateMatch        = "match"
	UpdateEntryError   = "entry_error"
)

// ProgressUpdate represents a notification emitted while scanning
type ProgressUpdate struct {
	Type     string // One of the Update* constants
	Name     string // Entry name as enumerated
	Path     string // Candidate path, empty for skipped entries
	Position int64
	Skip     string // Skip reason for entry_skipped
	Outcome  string // Comparison outcome for compare_done

	// Set for match updates
	Match *models.Match

	// Set for entry_error updates
	EntryError *models.EntryError

	// Running totals after this update
	Stats models.Statistics
}

// Formatter defines the interface for output formatting.
// It is the reporting sink of a scan; implementations include
// human-readable, JSON and live progress formatters.
type Formatter interface {
	// Start initializes the formatter for a new scan
	Start(writer io.Writer, operation *models.ScanOperation) error

	// Progress reports an entry-level event during the scan
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the summary
	Complete(report *models.ScanReport) error

	// Error reports an error that ended the scan
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
