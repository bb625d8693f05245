package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Nothing is written until Complete, so stdout holds exactly one document.
type JSONFormatter struct {
	writer    io.Writer
	operation *models.ScanOperation
	fatal     string
}

// JSONReportData represents the final report document
type JSONReportData struct {
	OperationID   string          `json:"operation_id"`
	DirPath       string          `json:"dir_path"`
	ReferencePath string          `json:"reference_path"`
	Status        string          `json:"status"`
	ExitCode      int             `json:"exit_code"`
	Error         string          `json:"error,omitempty"`
	Duration      string          `json:"duration"`
	DurationMs    int64           `json:"duration_ms"`
	Stats         JSONStatsData   `json:"stats"`
	Matches       []JSONMatchData `json:"matches"`
	Errors        []JSONErrorData `json:"errors,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	EntriesSeen       int   `json:"entries_seen"`
	SkippedHidden     int   `json:"skipped_hidden"`
	SkippedNotRegular int   `json:"skipped_not_regular"`
	SkippedExcluded   int   `json:"skipped_excluded"`
	FilesCompared     int   `json:"files_compared"`
	FilesMatched      int   `json:"files_matched"`
	FilesErrored      int   `json:"files_errored"`
	BytesCompared     int64 `json:"bytes_compared"`
}

// JSONMatchData represents one duplicate
type JSONMatchData struct {
	ReferencePath string `json:"reference_path"`
	CandidatePath string `json:"candidate_path"`
	Size          int64  `json:"size"`
	FoundAt       string `json:"found_at"`
}

// JSONErrorData represents an error entry
type JSONErrorData struct {
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, operation *models.ScanOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.operation = operation
	return nil
}

// Progress is a no-op; the JSON document is written once by Complete
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the report as a single JSON document
func (f *JSONFormatter) Complete(report *models.ScanReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	return json.NewEncoder(f.writer).Encode(newJSONReport(report, f.fatal))
}

// Error records a fatal error for inclusion in the final document
func (f *JSONFormatter) Error(err error) error {
	f.fatal = err.Error()
	return nil
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func newJSONReport(report *models.ScanReport, fatal string) JSONReportData {
	matches := make([]JSONMatchData, 0, len(report.Matches))
	for _, m := range report.Matches {
		matches = append(matches, JSONMatchData{
			ReferencePath: m.ReferencePath,
			CandidatePath: m.CandidatePath,
			Size:          m.Size,
			FoundAt:       m.FoundAt.Format(time.RFC3339),
		})
	}

	var errors []JSONErrorData
	for _, e := range report.Errors {
		errors = append(errors, JSONErrorData{
			Name:  e.Name,
			Path:  e.Path,
			Kind:  string(e.Kind),
			Error: e.Error,
		})
	}

	return JSONReportData{
		OperationID:   report.OperationID,
		DirPath:       report.DirPath,
		ReferencePath: report.ReferencePath,
		Status:        string(report.Status),
		ExitCode:      report.Status.ExitCode(),
		Error:         fatal,
		Duration:      report.Duration.Round(time.Millisecond).String(),
		DurationMs:    report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			EntriesSeen:       report.Stats.EntriesSeen,
			SkippedHidden:     report.Stats.SkippedHidden,
			SkippedNotRegular: report.Stats.SkippedNotRegular,
			SkippedExcluded:   report.Stats.SkippedExcluded,
			FilesCompared:     report.Stats.FilesCompared,
			FilesMatched:      report.Stats.FilesMatched,
			FilesErrored:      report.Stats.FilesErrored,
			BytesCompared:     report.Stats.BytesCompared,
		},
		Matches: matches,
		Errors:  errors,
	}
}
