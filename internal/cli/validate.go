package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dupfinder/internal/platform"
	"github.com/sdejongh/dupfinder/pkg/compare"
	"github.com/sdejongh/dupfinder/pkg/config"
	"github.com/sdejongh/dupfinder/pkg/logging"
	"github.com/sdejongh/dupfinder/pkg/models"
	"github.com/sdejongh/dupfinder/pkg/output"
	"github.com/sdejongh/dupfinder/pkg/ratelimit"
	"github.com/sdejongh/dupfinder/pkg/storage"
)

// validateScanFlags validates the scan command flags that do not depend on config
func validateScanFlags() error {
	validOutputs := map[string]bool{"": true, "human": true, "json": true}
	if !validOutputs[scanFlags.Output] {
		return fmt.Errorf("invalid output format: %s (valid: human, json)", scanFlags.Output)
	}

	validReportFormats := map[string]bool{"human": true, "json": true}
	if !validReportFormats[scanFlags.ReportFormat] {
		return fmt.Errorf("invalid report format: %s (valid: human, json)", scanFlags.ReportFormat)
	}

	if globalFlags.Verbose && globalFlags.Quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}

	return nil
}

// validateScanPaths checks the merged paths before any file is opened.
// Existence is left to the scan itself, which reports it as a fatal open error.
func validateScanPaths(cfg *config.Config) error {
	if cfg.Scan.DirPath == "" {
		return fmt.Errorf("directory is required (--dir or scan.dir_path)")
	}
	if cfg.Scan.Filename == "" {
		return fmt.Errorf("reference file is required (--file or scan.filename)")
	}
	if err := platform.ValidatePath(cfg.Scan.DirPath); err != nil {
		return err
	}
	return platform.ValidatePath(cfg.Scan.Filename)
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if scanFlags.Dir != "" {
		cfg.Scan.DirPath = scanFlags.Dir
	}
	if scanFlags.File != "" {
		cfg.Scan.Filename = scanFlags.File
	}

	// Exclude patterns
	if len(scanFlags.Exclude) > 0 {
		cfg.Scan.Exclude = scanFlags.Exclude
	}

	if flags.Changed("fill-chunks") {
		cfg.Scan.FillChunks = scanFlags.FillChunks
	}
	if flags.Changed("chunk-size") {
		cfg.Performance.ChunkSize = scanFlags.ChunkSize
	}

	if scanFlags.Bandwidth != "" {
		rate, err := ratelimit.ParseRate(scanFlags.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = rate
	}

	// Output format
	if scanFlags.Output != "" {
		cfg.Output.Format = scanFlags.Output
	}
	if flags.Changed("progress") {
		cfg.Output.Progress = scanFlags.Progress
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Logging
	if scanFlags.LogFile != "" {
		cfg.Logging.File = scanFlags.LogFile
	}
	if scanFlags.LogFormat != "" {
		cfg.Logging.Format = scanFlags.LogFormat
	}
	if scanFlags.LogLevel != "" {
		cfg.Logging.Level = scanFlags.LogLevel
	}

	return nil
}

// createScanOperation creates a scan operation from configuration
func createScanOperation(cfg *config.Config) (*models.ScanOperation, error) {
	operation := &models.ScanOperation{
		ID:             uuid.New().String(),
		DirPath:        cfg.Scan.DirPath,
		ReferencePath:  cfg.Scan.Filename,
		Exclude:        cfg.Scan.Exclude,
		ChunkSize:      cfg.Performance.ChunkSize,
		FillChunks:     cfg.Scan.FillChunks,
		BandwidthLimit: cfg.Performance.BandwidthLimit,
		CreatedAt:      time.Now(),
	}

	if err := operation.Validate(); err != nil {
		return nil, err
	}

	return operation, nil
}

// createBackend returns the local filesystem, or a go-billy chroot when root is set
func createBackend(root string) (storage.Backend, error) {
	if root == "" {
		return storage.NewLocal(), nil
	}
	resolved, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}
	return storage.NewChroot(resolved), nil
}

// resolveRoot turns --root into a clean absolute directory path.
// Only the root is cleaned; paths inside it are used as given.
func resolveRoot(root string) (string, error) {
	if err := platform.ValidatePath(root); err != nil {
		return "", err
	}
	resolved := platform.NormalizePath(root)
	if !platform.IsAbsolute(resolved) {
		abs, err := filepath.Abs(resolved)
		if err != nil {
			return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
		}
		resolved = abs
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", &platform.PathError{Path: root, Message: "root is not a directory"}
	}
	return resolved, nil
}

// createComparator builds the content comparator for operation
func createComparator(operation *models.ScanOperation) *compare.ContentComparator {
	comparator := compare.NewContentComparator(operation.ChunkSize)
	comparator.SetFillChunks(operation.FillChunks)

	if limiter := ratelimit.NewLimiter(operation.BandwidthLimit); limiter != nil {
		comparator.SetReaderWrapper(limiter.Wrap)
	}

	return comparator
}

// createFormatter picks the output formatter and the writer it prints to
func createFormatter(cfg *config.Config, stdout io.Writer) (output.Formatter, io.Writer) {
	if cfg.Output.Quiet {
		return output.NewHumanFormatter(false), io.Discard
	}

	switch cfg.Output.Format {
	case "json":
		return output.NewJSONFormatter(), stdout
	default:
		if cfg.Output.Progress && output.IsTerminal(stdout) {
			return output.NewProgressFormatter(), stdout
		}
		return output.NewHumanFormatter(globalFlags.Verbose), stdout
	}
}

// createLogger creates a logger based on configuration.
// A log file wins; otherwise --verbose logs to stderr at debug level.
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	format := logging.ParseFormat(cfg.Logging.Format)

	if cfg.Logging.File != "" {
		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.Logging.File,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		})
	}

	if globalFlags.Verbose {
		return logging.NewStreamLogger(stderr, format, logging.DebugLevel), nil
	}

	return logging.NewNullLogger(), nil
}

// fileExists reports whether path names an existing file
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
