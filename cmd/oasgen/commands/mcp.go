package commands

import (
	"github.com/erraggy/oasgen/internal/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio.",
		Long: `Run a Model Context Protocol server over stdio that exposes document
generation, conversion, validation and client generation as tools.
Defaults are read from OASGEN_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
