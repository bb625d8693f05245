package output

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// progressTemplate shows a running entry count; the directory size is not
// known up front because entries are streamed
const progressTemplate = `{{string . "prefix"}} {{counters . }} entries  {{string . "matches"}}  {{string . "current"}} {{etime . }}`

// ProgressFormatter shows a live counter while scanning and prints the
// duplicates with the summary when the scan ends
type ProgressFormatter struct {
	writer    io.Writer
	termWidth int
	startTime time.Time

	mu      sync.Mutex
	bar     *pb.ProgressBar
	matches []models.Match
}

// NewProgressFormatter creates a new progress formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// IsTerminal reports whether w is attached to a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, operation *models.ScanOperation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.startTime = time.Now()
	f.matches = nil

	// Detect terminal width to prevent line wrapping issues
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.termWidth = width
		}
	}
	// Default to 120 if we couldn't detect (pipe, redirect, etc.)
	if f.termWidth == 0 {
		f.termWidth = 120
	}

	fmt.Fprintf(writer, "Scanning %s for copies of %s\n", operation.DirPath, operation.ReferencePath)

	f.bar = pb.New64(0).
		SetTemplateString(progressTemplate).
		SetWriter(writer).
		SetMaxWidth(f.termWidth).
		SetRefreshRate(getUpdateInterval())
	f.bar.Set("prefix", "Scanning")
	f.bar.Set("matches", "0 duplicates")
	f.bar.Start()

	return nil
}

// Progress updates the live counter
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}

	switch update.Type {
	case UpdateSkipped:
		f.bar.SetCurrent(int64(update.Stats.EntriesSeen))

	case UpdateCompareStart:
		f.bar.SetCurrent(int64(update.Stats.EntriesSeen))
		f.bar.Set("current", f.truncate(update.Name))

	case UpdateMatch:
		f.matches = append(f.matches, *update.Match)
		f.bar.Set("matches", fmt.Sprintf("%d duplicates", update.Stats.FilesMatched))

	case UpdateEntryError:
		f.bar.SetCurrent(int64(update.Stats.EntriesSeen))
	}

	return nil
}

// Complete stops the counter and displays the duplicates and summary
func (f *ProgressFormatter) Complete(report *models.ScanReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = io.Discard
	}
	f.finishBar(report.Stats.EntriesSeen)

	w := f.writer
	if len(f.matches) > 0 {
		fmt.Fprintf(w, "\nDuplicates of %s:\n", report.ReferencePath)
		for _, m := range f.matches {
			fmt.Fprintf(w, "  %s (%s)\n", m.CandidatePath, formatBytes(m.Size))
		}
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Scan finished in %s\n", formatDuration(time.Since(f.startTime)))
	fmt.Fprintf(w, "  Entries seen:   %d\n", report.Stats.EntriesSeen)
	fmt.Fprintf(w, "  Compared:       %d (%s)\n", report.Stats.FilesCompared, formatBytes(report.Stats.BytesCompared))
	fmt.Fprintf(w, "  Duplicates:     %d\n", report.Stats.FilesMatched)
	fmt.Fprintf(w, "  Errors:         %d\n", report.Stats.FilesErrored)
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
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar(-1)
	w := f.writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "\n✗ Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

// finishBar stops the live counter; a negative seen leaves the count as is
func (f *ProgressFormatter) finishBar(seen int) {
	if f.bar == nil {
		return
	}
	if seen >= 0 {
		f.bar.SetCurrent(int64(seen))
	}
	f.bar.Set("current", "")
	f.bar.Finish()
	f.bar = nil
}

// truncate keeps entry names from wrapping the counter line
func (f *ProgressFormatter) truncate(name string) string {
	limit := f.termWidth / 3
	runes := []rune(name)
	if limit > 3 && len(runes) > limit {
		return string(runes[:limit-3]) + "..."
	}
	return name
}

// getUpdateInterval returns the refresh interval of the counter
// Windows terminals have higher latency with ANSI sequences, so we use a longer interval
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}
