package commands

import (
	"github.com/erraggy/oasgen/generator"
	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/spf13/cobra"
)

func newSchemaCommand(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "schema [flags] <file|-> <definition>",
		Short: "Export one definition as a standalone JSON Schema.",
		Long: `Export one definition of a document as a standalone JSON Schema (draft-07).
Definitions it references are copied under "definitions"; x-nullable and the
Swagger 2.0 file type are translated to their JSON Schema forms.`,
		Example: `  oasgen schema api.json Pet
  oasgen schema -o pet.schema.json api.yaml Pet`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := generator.RenderJSONSchema(doc, args[1])
			if err != nil {
				return err
			}
			g.log().Debug("schema rendered", "definition", args[1])
			return cliutil.WriteOutput(cmd.OutOrStdout(), output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
