package commands

import (
	"github.com/erraggy/oasgen"
	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/spf13/cobra"
)

// newVersionCommand returns a version command that prints out application
// and build information.
func newVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				cliutil.Writef(cmd.OutOrStdout(), "%s\n", oasgen.Version())
				return
			}
			cliutil.Writef(cmd.OutOrStdout(), "oasgen %s\n%s\n", oasgen.Version(), oasgen.BuildInfo())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}
