package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// HumanFormatter formats output in human-readable format.
// Matches and entry errors are printed as they happen; everything else
// waits for the summary.
type HumanFormatter struct {
	writer    io.Writer
	verbose   bool
	startTime time.Time
}

// NewHumanFormatter creates a new human-readable formatter.
// In verbose mode skipped entries and every comparison are printed too.
func NewHumanFormatter(verbose bool) *HumanFormatter {
	return &HumanFormatter{verbose: verbose}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, operation *models.ScanOperation) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.startTime = time.Now()

	fmt.Fprintf(writer, "Scanning %s for copies of %s\n", operation.DirPath, operation.ReferencePath)
	return nil
}

// Progress reports entry events during the scan
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateMatch:
		fmt.Fprintf(f.writer, "Duplicate found: %s = %s\n", update.Match.ReferencePath, update.Match.CandidatePath)

	case UpdateEntryError:
		fmt.Fprintf(f.writer, "✗ %s: %s\n", update.Name, update.EntryError.Error)

	case UpdateSkipped:
		if f.verbose {
			fmt.Fprintf(f.writer, "  skip %s (%s)\n", update.Name, update.Skip)
		}

	case UpdateCompareDone:
		if f.verbose {
			fmt.Fprintf(f.writer, "  %s: %s\n", update.Name, update.Outcome)
		}
	}

	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.ScanReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	w := f.writer

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Scan finished in %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Entries:\n")
	fmt.Fprintf(w, "    Seen:              %d\n", report.Stats.EntriesSeen)
	fmt.Fprintf(w, "    Hidden skipped:    %d\n", report.Stats.SkippedHidden)
	fmt.Fprintf(w, "    Not regular:       %d\n", report.Stats.SkippedNotRegular)
	fmt.Fprintf(w, "    Excluded:          %d\n", report.Stats.SkippedExcluded)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Comparisons:\n")
	fmt.Fprintf(w, "    Files compared:    %d\n", report.Stats.FilesCompared)
	fmt.Fprintf(w, "    Duplicates:        %d\n", report.Stats.FilesMatched)
	fmt.Fprintf(w, "    Errors:            %d\n", report.Stats.FilesErrored)
	fmt.Fprintf(w, "    Data compared:     %s\n", formatBytes(report.Stats.BytesCompared))

	if report.Duration.Seconds() > 0 && report.Stats.BytesCompared > 0 {
		avgSpeed := float64(report.Stats.BytesCompared) / report.Duration.Seconds()
		fmt.Fprintf(w, "    Average speed:     %s/s\n", formatBytes(int64(avgSpeed)))
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: %s\n", report.Status)

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %s [%s]: %s\n", displayPath(e), e.Kind, e.Error)
		}
	}

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func displayPath(e models.EntryError) string {
	if e.Path != "" {
		return e.Path
	}
	return e.Name
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
