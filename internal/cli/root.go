package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the dupfinder command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dupfinder",
		Short: "Find files identical to a reference file",
		Long: `dupfinder scans a directory and reports every regular file whose
content is byte-identical to a reference file. Files are compared chunk by
chunk, so memory use does not depend on file size.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewScanCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
