package commands

import (
	"fmt"

	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/openapi"
	"github.com/spf13/cobra"
)

func newValidateCommand(g *globalFlags) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|->",
		Short: "Validate a Swagger 2.0 or OpenAPI 3.0 document.",
		Long: `Validate a document against the structural rules of its dialect: required
fields, declared path parameters, unique operation IDs and resolvable
references. Swagger 2.0 documents are upgraded to 3.0 before checking.`,
		Example: `  oasgen validate api.json
  oasgen generate api.yaml | oasgen validate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			// Validation reads JSON, so YAML input and inlined cross-file
			// references are checked in their rendered form.
			data, err := doc.ToJSON(doc.SourceDialect)
			if err != nil {
				return err
			}
			if err := openapi.Validate(cmd.Context(), data, doc.SourceDialect); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			g.log().Debug("document validated", "operations", len(doc.Operations()))
			if !quiet {
				cliutil.Writef(cmd.OutOrStdout(), "%s: valid %s document\n", args[0], dialectName(doc.SourceDialect))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing on success")
	return cmd
}

func dialectName(d openapi.Dialect) string {
	if d == openapi.Swagger2 {
		return "Swagger 2.0"
	}
	return "OpenAPI " + d.String()
}
