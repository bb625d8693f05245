package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dupfinder/pkg/output"
	"github.com/sdejongh/dupfinder/pkg/scan"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Dir          string
	File         string
	Root         string
	Exclude      []string
	ChunkSize    int
	FillChunks   bool
	Bandwidth    string
	Output       string
	Progress     bool
	Report       string
	ReportFormat string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find files identical to a reference file",
		Long: `Compare every regular file in a directory against a reference file and
report the byte-identical ones. The directory is not searched recursively;
hidden entries, subdirectories, symlinks and special files are skipped.`,
		RunE: runScan,
	}

	cmd.Flags().StringVarP(&scanFlags.Dir, "dir", "d", "", "directory to search for duplicates")
	cmd.Flags().StringVarP(&scanFlags.File, "file", "f", "", "reference file to compare against")
	cmd.Flags().StringVar(&scanFlags.Root, "root", "", "resolve --dir and --file inside this directory")

	// Optional flags
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", []string{}, "glob patterns of entry names to skip")
	cmd.Flags().IntVar(&scanFlags.ChunkSize, "chunk-size", 0, "bytes read from each file per comparison step (default 1024)")
	cmd.Flags().BoolVar(&scanFlags.FillChunks, "fill-chunks", false, "retry short reads before treating a chunk as different")
	cmd.Flags().StringVarP(&scanFlags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().BoolVar(&scanFlags.Progress, "progress", false, "show a live counter on terminals")
	cmd.Flags().StringVar(&scanFlags.Report, "report", "", "write the duplicate report to file")
	cmd.Flags().StringVar(&scanFlags.ReportFormat, "report-format", "human", "duplicate report format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Validate flags
	if err := validateScanFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validateScanPaths(cfg); err != nil {
		return err
	}

	// Create scan operation
	operation, err := createScanOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create scan operation: %w", err)
	}

	backend, err := createBackend(scanFlags.Root)
	if err != nil {
		return err
	}
	defer backend.Close()

	comparator := createComparator(operation)
	formatter, out := createFormatter(cfg, cmd.OutOrStdout())

	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	if err := formatter.Start(out, operation); err != nil {
		return fmt.Errorf("failed to start output: %w", err)
	}

	scanner := scan.NewScanner(backend, comparator, formatter, logger, operation)
	report, err := scanner.Run(ctx)
	if err != nil && cfg.Output.Quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	// Write the duplicate report if requested
	// Show report if:
	// - --report is specified (write to file)
	// - --report-format is explicitly set (write to stdout)
	if err == nil && (scanFlags.Report != "" || cmd.Flags().Changed("report-format")) {
		if err := output.WriteMatchReport(report, scanFlags.Report, scanFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write duplicate report: %w", err)
		}
	}

	return exitCode(report.Status.ExitCode())
}
