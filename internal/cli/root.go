// Package cli implements the locations command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess = 0
	exitFailure = 1
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
}

// NewRootCmd creates the top-level "locations" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "locations",
		Short: "In-memory location and category catalog",
		Long: "Locations keeps locations and place categories in an in-memory store\n" +
			"and can populate the categories from the KudaGo public API.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "",
		"configuration directory (default: $LOCATIONS_CONFIG_DIR or the platform config dir)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(flags))
	root.AddCommand(newLoadCmd(flags))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitFailure)
	}
	os.Exit(exitSuccess)
}

func writef(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
