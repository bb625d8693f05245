package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sdejongh/dupfinder/pkg/models"
)

// WriteMatchReport writes the duplicates found by a scan to a file, or to
// stdout when path is empty.
// Format can be "human" or "json"
func WriteMatchReport(report *models.ScanReport, path string, format string) error {
	if path == "" {
		return writeMatchReport(report, os.Stdout, format)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := writeMatchReport(report, file, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func writeMatchReport(report *models.ScanReport, w io.Writer, format string) error {
	switch format {
	case "json":
		return writeMatchesJSON(report, w)
	default: // "human"
		return writeMatchesHuman(report, w)
	}
}

// writeMatchesHuman writes matches in human-readable format
func writeMatchesHuman(report *models.ScanReport, w io.Writer) error {
	fmt.Fprintf(w, "Duplicate Report\n")
	fmt.Fprintf(w, "================\n\n")
	fmt.Fprintf(w, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "Operation: %s\n", report.OperationID)
	fmt.Fprintf(w, "Reference: %s\n", report.ReferencePath)
	fmt.Fprintf(w, "Directory: %s\n", report.DirPath)
	fmt.Fprintf(w, "Status: %s\n\n", report.Status)

	label := fmt.Sprintf("Duplicates (%d files)", len(report.Matches))
	fmt.Fprintf(w, "%s\n", label)
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))
	for _, m := range report.Matches {
		fmt.Fprintf(w, "  %s (%s)\n", m.CandidatePath, formatBytes(m.Size))
	}

	if len(report.Errors) > 0 {
		label = fmt.Sprintf("Not compared (%d files)", len(report.Errors))
		fmt.Fprintf(w, "\n%s\n", label)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", len(label)))
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %s\n", displayPath(e))
			fmt.Fprintf(w, "    %s: %s\n", e.Kind, e.Error)
		}
	}

	return nil
}

// writeMatchesJSON writes matches in JSON format
func writeMatchesJSON(report *models.ScanReport, w io.Writer) error {
	data := struct {
		Generated string `json:"generated"`
		JSONReportData
	}{
		Generated:      time.Now().Format(time.RFC3339),
		JSONReportData: newJSONReport(report, ""),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
