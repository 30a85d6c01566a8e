// Package commands provides the cobra commands of the oasgen CLI.
package commands

import (
	"log/slog"

	"github.com/erraggy/oasgen/internal/config"
	"github.com/erraggy/oasgen/openapi"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool

	logger *slog.Logger
}

// NewRootCommand returns the oasgen command with all its subcommands.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "oasgen",
		Short: "Generate Swagger 2.0 and OpenAPI 3.0 documents from API descriptions.",
		Long: `oasgen builds Swagger 2.0 and OpenAPI 3.0 documents from the controllers
and actions of an HTTP API, converts documents between the two dialects,
validates them, and generates Go clients and JSON Schemas from them.

Settings are read from the file given with --config (YAML, JSON or TOML);
command-line flags override the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if g.verbose {
				level = slog.LevelDebug
			}
			g.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "settings file (YAML, JSON or TOML)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log generation details to stderr")

	cmd.AddCommand(
		newGenerateCommand(g),
		newConvertCommand(g),
		newClientCommand(g),
		newSchemaCommand(g),
		newValidateCommand(g),
		newMCPCommand(),
		newVersionCommand(),
	)
	return cmd
}

// settings loads the settings file and applies overrides on top.
func (g *globalFlags) settings(overrides *config.File) (*config.File, error) {
	f, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if err := f.Override(overrides); err != nil {
		return nil, err
	}
	g.log().Debug("settings loaded", "config", g.configPath, "dialect", f.Dialect)
	return f, nil
}

func (g *globalFlags) log() *slog.Logger {
	if g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

// openapiLogger adapts the command logger for the library packages.
func (g *globalFlags) openapiLogger() openapi.Logger {
	return openapi.NewSlogAdapter(g.log())
}
