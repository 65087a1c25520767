package cli

import (
	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/locations"

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the locations version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writef(cmd, "locations v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
