package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags are accepted by every dupfinder command
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags registers --config, --verbose and --quiet on cmd and its children.
// --verbose and --quiet are rejected together by validateScanFlags.
func AddGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&globalFlags.ConfigFile, "config", "", "YAML config file (default $HOME/.config/dupfinder/config.yaml)")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "print skipped entries and outcomes; debug logs go to stderr unless --log-file is set")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "print nothing but fatal errors")
}
