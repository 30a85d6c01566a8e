package commands

import (
	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/internal/config"
	"github.com/erraggy/oasgen/openapi"
	"github.com/spf13/cobra"
)

// convertFlags contains flags for the convert command
type convertFlags struct {
	to     string
	format string
	output string
}

func newConvertCommand(g *globalFlags) *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert [flags] <file|->",
		Short: "Convert a document between Swagger 2.0 and OpenAPI 3.0.",
		Long: `Convert a document between Swagger 2.0 and OpenAPI 3.0. The target defaults
to the dialect the input is not in. References are rewritten between
#/definitions/ and #/components/schemas/; references into other files
next to the input are resolved and inlined as definitions.`,
		Example: `  oasgen convert swagger.json
  oasgen convert --to 3.0 -f yaml -o openapi.yaml swagger.json
  cat openapi.yaml | oasgen convert - > swagger.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, g, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.to, "to", "t", "", "target dialect: 2.0 or 3.0")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: json or yaml (default json)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runConvert(cmd *cobra.Command, g *globalFlags, flags *convertFlags, path string) error {
	settings, err := g.settings(&config.File{Format: flags.format, Output: flags.output})
	if err != nil {
		return err
	}
	format, err := settings.ParsedFormat()
	if err != nil {
		return err
	}
	doc, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	target := openapi.Swagger2
	if doc.SourceDialect == openapi.Swagger2 {
		target = openapi.OpenAPI3
	}
	if flags.to != "" {
		if target, err = openapi.ParseDialect(flags.to); err != nil {
			return err
		}
	}

	data, err := doc.Marshal(target, format)
	if err != nil {
		return err
	}
	g.log().Debug("document converted", "from", doc.SourceDialect.String(), "to", target.String())
	return cliutil.WriteOutput(cmd.OutOrStdout(), settings.Output, data)
}

// readDocument parses the document at path, or standard input for "-".
// Files get cross-file reference resolution; standard input does not.
func readDocument(cmd *cobra.Command, path string) (*openapi.Document, error) {
	if path != cliutil.StdinPath {
		return openapi.FromFile(path)
	}
	data, err := cliutil.ReadInput(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	return openapi.FromYAML(data)
}
