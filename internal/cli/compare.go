package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dupfinder/pkg/compare"
	"github.com/sdejongh/dupfinder/pkg/models"
	"github.com/sdejongh/dupfinder/pkg/ratelimit"
)

// Exit codes of the compare command, following cmp(1)
const (
	compareIdentical = 0
	compareDifferent = 1
	compareTrouble   = 2
)

// CompareFlags holds compare command flags
type CompareFlags struct {
	ChunkSize  int
	FillChunks bool
	Bandwidth  string
	Root       string
}

var compareFlags CompareFlags

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare REFERENCE CANDIDATE",
		Short: "Compare two files chunk by chunk",
		Long: `Compare two files with the same chunked algorithm the scan uses and
report whether they are identical. Exits 0 when identical, 1 when different
and 2 when a file cannot be read.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().IntVar(&compareFlags.ChunkSize, "chunk-size", models.DefaultChunkSize, "bytes read from each file per comparison step")
	cmd.Flags().BoolVar(&compareFlags.FillChunks, "fill-chunks", false, "retry short reads before treating a chunk as different")
	cmd.Flags().StringVarP(&compareFlags.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringVar(&compareFlags.Root, "root", "", "resolve both paths inside this directory")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Setup failures exit 2; 1 is reserved for differing content
	trouble := func(err error) error {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return exitCode(compareTrouble)
	}

	if compareFlags.ChunkSize < models.MinChunkSize || compareFlags.ChunkSize > models.MaxChunkSize {
		return trouble(&models.ValidationError{Field: "chunk-size", Message: "must be between 1 byte and 16 MiB"})
	}

	comparator := compare.NewContentComparator(compareFlags.ChunkSize)
	comparator.SetFillChunks(compareFlags.FillChunks)
	if compareFlags.Bandwidth != "" {
		rate, err := ratelimit.ParseRate(compareFlags.Bandwidth)
		if err != nil {
			return trouble(err)
		}
		comparator.SetReaderWrapper(ratelimit.NewLimiter(rate).Wrap)
	}

	backend, err := createBackend(compareFlags.Root)
	if err != nil {
		return trouble(err)
	}
	defer backend.Close()

	out := cmd.OutOrStdout()

	reference, err := backend.Open(ctx, args[0])
	if err != nil {
		return trouble(err)
	}
	defer reference.Close()

	candidate, err := backend.Open(ctx, args[1])
	if err != nil {
		return trouble(err)
	}
	defer candidate.Close()

	result := comparator.Compare(reference, candidate)

	switch result.Outcome {
	case compare.Identical:
		if !globalFlags.Quiet {
			fmt.Fprintf(out, "%s and %s are identical (%s)\n", args[0], args[1], result.Reason)
		}
		return exitCode(compareIdentical)
	case compare.Different:
		if !globalFlags.Quiet {
			fmt.Fprintf(out, "%s and %s differ: %s\n", args[0], args[1], result.Reason)
		}
		return exitCode(compareDifferent)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", result.Reason, result.Err)
		return exitCode(compareTrouble)
	}
}
