package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasgen/generator"
	"github.com/erraggy/oasgen/internal/cliutil"
	"github.com/erraggy/oasgen/internal/config"
	"github.com/spf13/cobra"
)

// clientFlags contains flags for the client command
type clientFlags struct {
	names     string
	pkg       string
	userAgent string
	output    string
	typesOnly bool
	list      bool
}

func newClientCommand(g *globalFlags) *cobra.Command {
	flags := &clientFlags{}
	cmd := &cobra.Command{
		Use:   "client [flags] <file|->",
		Short: "Generate a Go client from a document.",
		Long: `Generate a Go client (types.go and client.go) from a Swagger 2.0 or
OpenAPI 3.0 document. The naming strategy decides how operations are grouped
into client types and how methods are named:

  ` + strings.Join(generator.Strategies(), "\n  ") + `

Use --list to print the client and method names without generating code.`,
		Example: `  oasgen client -o ./petstore --package petstore api.json
  oasgen client --names MultipleClientsFromOperationId --list api.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(cmd, g, flags, args[0])
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&flags.names, "names", "n", "", "client naming strategy (default "+generator.StrategySingleClientFromOperationID+")")
	fs.StringVarP(&flags.pkg, "package", "p", "", "Go package name (default api)")
	fs.StringVar(&flags.userAgent, "user-agent", "", "User-Agent header of the generated client")
	fs.StringVarP(&flags.output, "output", "o", "", "output directory (required unless --list)")
	fs.BoolVar(&flags.typesOnly, "types-only", false, "generate types.go only")
	fs.BoolVar(&flags.list, "list", false, "print client and method names instead of generating code")
	return cmd
}

func runClient(cmd *cobra.Command, g *globalFlags, flags *clientFlags, path string) error {
	settings, err := g.settings(&config.File{
		Client: config.Client{Package: flags.pkg, Names: flags.names, UserAgent: flags.userAgent, Output: flags.output},
	})
	if err != nil {
		return err
	}
	opts, err := settings.GeneratorOptions()
	if err != nil {
		return err
	}
	doc, err := readDocument(cmd, path)
	if err != nil {
		return err
	}

	if flags.list {
		names, err := generator.ByName(settings.Client.Names)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range generator.PlanClients(doc, names) {
			cliutil.Writef(out, "%s\n", c.TypeName)
			for _, m := range c.Methods {
				cliutil.Writef(out, "  %-24s %-7s %s\n", m.Name, m.HTTPMethod, m.Path)
			}
		}
		return nil
	}

	if settings.Client.Output == "" {
		return fmt.Errorf("client: --output directory is required")
	}
	if flags.typesOnly {
		opts = append(opts, generator.WithClient(false))
	}
	if path != cliutil.StdinPath {
		opts = append(opts, generator.WithSource(filepath.Base(path)))
	}
	result, err := generator.GenerateClient(doc, opts...)
	if err != nil {
		return err
	}
	if err := result.WriteFiles(settings.Client.Output); err != nil {
		return err
	}
	for _, f := range result.Files {
		cliutil.Writef(cmd.OutOrStdout(), "%s\n", filepath.Join(settings.Client.Output, f.Name))
	}
	g.log().Debug("client generated",
		"clients", len(result.Clients), "types", result.GeneratedTypes, "operations", result.GeneratedOperations)
	return nil
}
