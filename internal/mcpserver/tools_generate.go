package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/erraggy/oasgen/builder"
	"github.com/erraggy/oasgen/generator"
	"github.com/erraggy/oasgen/internal/config"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type generateDocumentInput struct {
	Descriptions             sourceInput `json:"descriptions"                          jsonschema:"The API description file (types, controllers, apiDescriptions)"`
	Dialect                  string      `json:"dialect,omitempty"                     jsonschema:"Output dialect: 2.0 or 3.0 (default from OASGEN_DIALECT)"`
	Title                    string      `json:"title,omitempty"                       jsonschema:"Document title"`
	Version                  string      `json:"version,omitempty"                     jsonschema:"Document version"`
	ComplexBinding           string      `json:"complex_binding,omitempty"             jsonschema:"Binding of complex parameters without a binding attribute: body (default) or query"`
	AddMissingPathParameters *bool       `json:"add_missing_path_parameters,omitempty" jsonschema:"Synthesize string parameters for unbound path placeholders"`
	Controllers              []string    `json:"controllers,omitempty"                 jsonschema:"Generate only these controllers: exact names or patterns like Users*. An unknown exact name is an error."`
	Format                   string      `json:"format,omitempty"                      jsonschema:"Output format: json (default) or yaml"`
	Validate                 bool        `json:"validate,omitempty"                    jsonschema:"Validate the generated document"`
	Output                   string      `json:"output,omitempty"                      jsonschema:"File path to write the document. If omitted the document is returned inline."`
}

type generateDocumentOutput struct {
	Version     string `json:"version"`
	Operations  int    `json:"operations"`
	Definitions int    `json:"definitions"`
	Valid       *bool  `json:"valid,omitempty"`
	WrittenTo   string `json:"written_to,omitempty"`
	Document    string `json:"document,omitempty"`
}

func handleGenerateDocument(ctx context.Context, _ *mcp.CallToolRequest, input generateDocumentInput) (*mcp.CallToolResult, generateDocumentOutput, error) {
	descriptions, err := input.Descriptions.descriptions()
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}

	settings := config.Defaults()
	settings.Dialect = cfg.Dialect.String()
	addMissing := cfg.AddMissingPathParameters
	settings.AddMissingPathParameters = &addMissing
	if err := settings.Override(&config.File{
		Dialect:                  input.Dialect,
		Info:                     config.Info{Title: input.Title, Version: input.Version},
		ComplexBinding:           input.ComplexBinding,
		AddMissingPathParameters: input.AddMissingPathParameters,
		Controllers:              input.Controllers,
		Format:                   input.Format,
	}); err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}

	dialect, err := settings.ParsedDialect()
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	format, err := settings.ParsedFormat()
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	opts, err := settings.BuilderOptions()
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	selected, err := descriptions.Select(settings.Controllers)
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	b, err := builder.New(opts...)
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	doc, err := b.Generate(ctx, builder.DescriptionsSource(selected))
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}

	output := generateDocumentOutput{
		Version:     dialect.String(),
		Operations:  len(doc.Operations()),
		Definitions: len(doc.Definitions),
	}
	if input.Validate {
		valid := doc.Validate(ctx, dialect) == nil
		output.Valid = &valid
	}

	data, err := doc.Marshal(dialect, format)
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	output.WrittenTo, err = writeOutput(input.Output, data)
	if err != nil {
		return errResult(err), generateDocumentOutput{}, nil
	}
	if output.WrittenTo == "" {
		output.Document = string(data)
	}
	return nil, output, nil
}

type generateClientInput struct {
	Document    sourceInput `json:"document"               jsonschema:"The Swagger 2.0 or OpenAPI 3.0 document to generate a client for"`
	PackageName string      `json:"package_name,omitempty" jsonschema:"Go package name for generated code (default: api)"`
	Names       string      `json:"names,omitempty"        jsonschema:"Client naming strategy (default: SingleClientFromOperationId)"`
	TypesOnly   bool        `json:"types_only,omitempty"   jsonschema:"Generate type definitions only"`
	OutputDir   string      `json:"output_dir"             jsonschema:"Directory to write generated files to"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type generateClientOutput struct {
	OutputDir           string              `json:"output_dir"`
	PackageName         string              `json:"package_name"`
	Clients             []string            `json:"clients,omitempty"`
	FileCount           int                 `json:"file_count"`
	Files               []generatedFileInfo `json:"files"`
	GeneratedTypes      int                 `json:"generated_types"`
	GeneratedOperations int                 `json:"generated_operations"`
}

func handleGenerateClient(_ context.Context, _ *mcp.CallToolRequest, input generateClientInput) (*mcp.CallToolResult, generateClientOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateClientOutput{}, nil
	}

	doc, _, err := input.Document.document()
	if err != nil {
		return errResult(err), generateClientOutput{}, nil
	}

	names, err := generator.ByName(input.Names)
	if err != nil {
		return errResult(err), generateClientOutput{}, nil
	}
	opts := []generator.Option{generator.WithNameGenerator(names)}
	if input.PackageName != "" {
		opts = append(opts, generator.WithPackageName(input.PackageName))
	}
	if input.TypesOnly {
		opts = append(opts, generator.WithClient(false))
	}
	if input.Document.File != "" {
		opts = append(opts, generator.WithSource(filepath.Base(input.Document.File)))
	}

	result, err := generator.GenerateClient(doc, opts...)
	if err != nil {
		return errResult(err), generateClientOutput{}, nil
	}
	if err := result.WriteFiles(input.OutputDir); err != nil {
		return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateClientOutput{}, nil
	}

	output := generateClientOutput{
		OutputDir:           input.OutputDir,
		PackageName:         result.PackageName,
		Clients:             result.Clients,
		FileCount:           len(result.Files),
		GeneratedTypes:      result.GeneratedTypes,
		GeneratedOperations: result.GeneratedOperations,
	}
	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFileInfo{
			Name: f.Name,
			Size: len(f.Content),
		})
	}
	return nil, output, nil
}
