package commands

import (
	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/builder"
	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/internal/config"
	"github.com/spf13/cobra"
)

// generateFlags contains flags for the generate command
type generateFlags struct {
	dialect        string
	title          string
	docVersion     string
	host           string
	basePath       string
	schemes        []string
	urlTemplate    string
	complexBinding string
	addMissing     bool
	apiVersions    []string
	controllers    []string
	schemaNaming   string
	genericNaming  string
	format         string
	output         string
	validate       bool
}

func newGenerateCommand(g *globalFlags) *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate [flags] <descriptions-file|->",
		Short: "Generate a document from an API description file.",
		Long: `Generate a Swagger 2.0 or OpenAPI 3.0 document from an API description
file. The file declares types and controllers, and optionally the API
descriptions reported by the hosting framework.`,
		Example: `  oasgen generate api.yaml
  oasgen generate --dialect 2.0 -o swagger.json api.yaml
  oasgen generate --complex-binding query --validate -f yaml api.yaml
  oasgen generate --controller OrdersController --controller 'Admin*' api.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, flags, args[0])
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.dialect, "dialect", "d", "", "output dialect: 2.0 or 3.0 (default 3.0)")
	fs.StringVar(&flags.title, "title", "", "document title")
	fs.StringVar(&flags.docVersion, "doc-version", "", "document version")
	fs.StringVar(&flags.host, "host", "", "host written to the document")
	fs.StringVar(&flags.basePath, "base-path", "", "base path written to the document")
	fs.StringSliceVar(&flags.schemes, "scheme", nil, "URL schemes (repeatable)")
	fs.StringVar(&flags.urlTemplate, "url-template", "", "route of controllers without routing attributes (default "+builder.DefaultURLTemplate+")")
	fs.StringVar(&flags.complexBinding, "complex-binding", "", "binding of complex parameters without a binding attribute: body or query")
	fs.BoolVar(&flags.addMissing, "add-missing-path-parameters", false, "synthesize string parameters for unbound path placeholders")
	fs.StringSliceVar(&flags.apiVersions, "api-version", nil, "allowed API versions (repeatable)")
	fs.StringSliceVar(&flags.controllers, "controller", nil, "generate only these controllers; exact names or patterns like Users* (repeatable)")
	fs.StringVar(&flags.schemaNaming, "schema-naming", "", "definition names: type, pascal, camel, snake, kebab or qualified")
	fs.StringVar(&flags.genericNaming, "generic-naming", "", "generic definition names: of, underscore, for or flattened")
	fs.StringVarP(&flags.format, "format", "f", "", "output format: json or yaml (default json)")
	fs.StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	fs.BoolVar(&flags.validate, "validate", false, "validate the generated document")
	return cmd
}

// overrides returns the settings given on the command line.
func (f *generateFlags) overrides(cmd *cobra.Command) *config.File {
	o := &config.File{
		Dialect:            f.dialect,
		Info:               config.Info{Title: f.title, Version: f.docVersion},
		Host:               f.host,
		BasePath:           f.basePath,
		Schemes:            f.schemes,
		DefaultURLTemplate: f.urlTemplate,
		ComplexBinding:     f.complexBinding,
		APIVersions:        f.apiVersions,
		Controllers:        f.controllers,
		SchemaNaming:       f.schemaNaming,
		GenericNaming:      f.genericNaming,
		Format:             f.format,
		Output:             f.output,
	}
	if cmd.Flags().Changed("add-missing-path-parameters") {
		o.AddMissingPathParameters = &f.addMissing
	}
	return o
}

func runGenerate(cmd *cobra.Command, g *globalFlags, flags *generateFlags, path string) error {
	settings, err := g.settings(flags.overrides(cmd))
	if err != nil {
		return err
	}
	dialect, err := settings.ParsedDialect()
	if err != nil {
		return err
	}
	format, err := settings.ParsedFormat()
	if err != nil {
		return err
	}
	opts, err := settings.BuilderOptions()
	if err != nil {
		return err
	}
	opts = append(opts, builder.WithLogger(g.openapiLogger()))

	var descriptions *apimeta.Descriptions
	if path == cliutil.StdinPath {
		data, err := cliutil.ReadInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		descriptions, err = apimeta.ParseDescriptions(data)
		if err != nil {
			return err
		}
	} else {
		descriptions, err = apimeta.LoadDescriptions(path)
		if err != nil {
			return err
		}
	}

	descriptions, err = descriptions.Select(settings.Controllers)
	if err != nil {
		return err
	}

	b, err := builder.New(opts...)
	if err != nil {
		return err
	}
	doc, err := b.Generate(cmd.Context(), builder.DescriptionsSource(descriptions))
	if err != nil {
		return err
	}
	if flags.validate {
		if err := doc.Validate(cmd.Context(), dialect); err != nil {
			return err
		}
		g.log().Info("document is valid", "dialect", dialect.String())
	}

	data, err := doc.Marshal(dialect, format)
	if err != nil {
		return err
	}
	if err := cliutil.WriteOutput(cmd.OutOrStdout(), settings.Output, data); err != nil {
		return err
	}
	g.log().Debug("document written",
		"operations", len(doc.Operations()), "definitions", len(doc.Definitions), "output", settings.Output)
	return nil
}
