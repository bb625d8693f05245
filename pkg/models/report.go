package models

import (
	"time"
)

// ScanReport represents the results of a duplicate scan
type ScanReport struct {
	// Operation details
	OperationID   string
	DirPath       string
	ReferencePath string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	Stats Statistics

	// Matches holds one record per candidate identical to the reference
	Matches []Match

	// Errors holds non-fatal per-entry failures
	Errors []EntryError

	// Overall status
	Status ScanStatus
}

// Statistics holds scan metrics
type Statistics struct {
	EntriesSeen       int // Every entry delivered by the directory enumeration
	SkippedHidden     int
	SkippedNotRegular int // Directories, symlinks, devices, sockets, fifos
	SkippedExcluded   int // Removed by user exclude patterns
	FilesCompared     int // Comparisons that ran to an Identical or Different outcome
	FilesMatched      int
	FilesErrored      int
	BytesCompared     int64
}

// Match is a candidate whose content is byte-identical to the reference file
type Match struct {
	ReferencePath string
	CandidatePath string
	Size          int64
	FoundAt       time.Time
}

// EntryError records a directory entry that could not be compared
type EntryError struct {
	Name      string
	Path      string
	Kind      ErrorKind
	Error     string
	Timestamp time.Time
}

// ScanStatus represents the overall result
type ScanStatus string

const (
	// StatusSuccess indicates the directory was fully enumerated (per-entry errors allowed)
	StatusSuccess ScanStatus = "success"
	// StatusFailed indicates the scan could not start
	StatusFailed ScanStatus = "failed"
	// StatusCancelled indicates the scan was interrupted between entries
	StatusCancelled ScanStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the scan status
func (s ScanStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}

// AddError appends a per-entry error and keeps the counters in step
func (r *ScanReport) AddError(e EntryError) {
	r.Errors = append(r.Errors, e)
	r.Stats.FilesErrored++
}

// AddMatch appends a match and keeps the counters in step
func (r *ScanReport) AddMatch(m Match) {
	r.Matches = append(r.Matches, m)
	r.Stats.FilesMatched++
}
