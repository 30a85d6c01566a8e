package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasgen/generator"
	"github.com/erraggy/oasgen/openapi"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDocumentTool(t *testing.T) {
	input := generateDocumentInput{
		Descriptions: sourceInput{Content: petsDescriptions},
		Dialect:      "2.0",
		Title:        "Pets",
		Validate:     true,
	}
	result, output, err := handleGenerateDocument(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "2.0", output.Version)
	assert.Equal(t, 2, output.Operations)
	assert.Equal(t, 1, output.Definitions)
	require.NotNil(t, output.Valid)
	assert.Empty(t, output.WrittenTo)

	doc, err := openapi.FromJSON([]byte(output.Document))
	require.NoError(t, err)
	assert.Equal(t, openapi.Swagger2, doc.SourceDialect)
	assert.Equal(t, "Pets", doc.Info.Title)
	assert.Contains(t, doc.Definitions, "Pet")
	assert.NotNil(t, doc.Operation("/api/pets/{id}", "get"))
	assert.NotNil(t, doc.Operation("/api/pets", "get"))
}

func TestGenerateDocumentTool_YAMLToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "pets.yaml")
	input := generateDocumentInput{
		Descriptions: sourceInput{File: writeTemp(t, "pets.desc.yaml", petsDescriptions)},
		Format:       "yaml",
		Output:       out,
	}
	_, output, err := handleGenerateDocument(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	assert.Equal(t, out, output.WrittenTo)
	assert.Empty(t, output.Document, "document should not be inline when written to file")
	assert.Nil(t, output.Valid)

	doc, err := openapi.FromFile(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Dialect, doc.SourceDialect)
}

func TestGenerateDocumentTool_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input generateDocumentInput
	}{
		{"no input", generateDocumentInput{}},
		{"bad dialect", generateDocumentInput{Descriptions: sourceInput{Content: petsDescriptions}, Dialect: "3.1"}},
		{"bad format", generateDocumentInput{Descriptions: sourceInput{Content: petsDescriptions}, Format: "xml"}},
		{"bad binding", generateDocumentInput{Descriptions: sourceInput{Content: petsDescriptions}, ComplexBinding: "cookie"}},
		{"unknown controller", generateDocumentInput{Descriptions: sourceInput{Content: petsDescriptions}, Controllers: []string{"OwnersController"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleGenerateDocument(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestGenerateDocumentTool_Controllers(t *testing.T) {
	_, output, err := handleGenerateDocument(context.Background(), &mcp.CallToolRequest{}, generateDocumentInput{
		Descriptions: sourceInput{Content: petsDescriptions},
		Controllers:  []string{"Pets*"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, output.Operations)

	result, output, err := handleGenerateDocument(context.Background(), &mcp.CallToolRequest{}, generateDocumentInput{
		Descriptions: sourceInput{Content: petsDescriptions},
		Controllers:  []string{"Owners*"},
	})
	require.NoError(t, err)
	assert.Nil(t, result, "a pattern matching nothing is not an error")
	assert.Zero(t, output.Operations)
}

func TestConvertTool_DefaultsToOtherDialect(t *testing.T) {
	_, output, err := handleConvert(context.Background(), &mcp.CallToolRequest{}, convertInput{
		Document: sourceInput{Content: oas30Doc},
	})
	require.NoError(t, err)

	assert.Equal(t, "3.0.0", output.SourceVersion)
	assert.Equal(t, "2.0", output.TargetVersion)
	assert.Equal(t, 2, output.Operations)
	assert.Equal(t, 1, output.Definitions)
	assert.Contains(t, output.Document, `"swagger": "2.0"`)
	assert.Contains(t, output.Document, "#/definitions/Pet")
	assert.NotContains(t, output.Document, "#/components/schemas/")
}

func TestConvertTool_Swagger2ToOpenAPI3(t *testing.T) {
	_, output, err := handleConvert(context.Background(), &mcp.CallToolRequest{}, convertInput{
		Document: sourceInput{Content: swagger2Doc},
		Target:   "3.0",
		Format:   "yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "2.0", output.SourceVersion)
	assert.Equal(t, "3.0.0", output.TargetVersion)

	doc, err := openapi.FromYAML([]byte(output.Document))
	require.NoError(t, err)
	assert.Equal(t, openapi.OpenAPI3, doc.SourceDialect)
	get := doc.Operation("/pets/{id}", "get")
	require.NotNil(t, get)
	assert.Same(t, doc.Definitions["Pet"], get.Responses["200"].Schema.Reference)
}

func TestConvertTool_OutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "converted.json")
	_, output, err := handleConvert(context.Background(), &mcp.CallToolRequest{}, convertInput{
		Document: sourceInput{Content: oas30Doc},
		Output:   outPath,
	})
	require.NoError(t, err)

	assert.Equal(t, outPath, output.WrittenTo)
	assert.Empty(t, output.Document)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Test API")
}

func TestConvertTool_InvalidTarget(t *testing.T) {
	result, output, err := handleConvert(context.Background(), &mcp.CallToolRequest{}, convertInput{
		Document: sourceInput{Content: oas30Doc},
		Target:   "3.1",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.SourceVersion)
}

func TestClientNamesTool(t *testing.T) {
	_, output, err := handleClientNames(context.Background(), &mcp.CallToolRequest{}, clientNamesInput{
		Document: sourceInput{Content: oas30Doc},
		Strategy: generator.StrategyMultipleClientsFromOperationID,
	})
	require.NoError(t, err)

	assert.True(t, output.MultipleClients)
	assert.Equal(t, generator.Strategies(), output.Strategies)
	require.Len(t, output.Clients, 1)
	assert.Equal(t, "PetsClient", output.Clients[0].Name)
	var names []string
	for _, m := range output.Clients[0].Methods {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{"List", "Delete"}, names)
}

func TestClientNamesTool_DefaultStrategy(t *testing.T) {
	_, output, err := handleClientNames(context.Background(), &mcp.CallToolRequest{}, clientNamesInput{
		Document: sourceInput{Content: oas30Doc},
	})
	require.NoError(t, err)

	assert.Equal(t, generator.StrategySingleClientFromOperationID, output.Strategy)
	assert.False(t, output.MultipleClients)
	require.Len(t, output.Clients, 1)
	assert.Equal(t, "Client", output.Clients[0].Name)
}

func TestClientNamesTool_UnknownStrategy(t *testing.T) {
	result, _, err := handleClientNames(context.Background(), &mcp.CallToolRequest{}, clientNamesInput{
		Document: sourceInput{Content: oas30Doc},
		Strategy: "ByMood",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestGenerateClientTool(t *testing.T) {
	dir := t.TempDir()
	_, output, err := handleGenerateClient(context.Background(), &mcp.CallToolRequest{}, generateClientInput{
		Document:    sourceInput{File: writeTemp(t, "pets.yaml", oas30Doc)},
		PackageName: "pets",
		Names:       generator.StrategyMultipleClientsFromOperationID,
		OutputDir:   dir,
	})
	require.NoError(t, err)

	assert.Equal(t, "pets", output.PackageName)
	assert.Equal(t, []string{"PetsClient"}, output.Clients)
	assert.Equal(t, 2, output.FileCount)
	assert.Equal(t, 1, output.GeneratedTypes)
	assert.Equal(t, 2, output.GeneratedOperations)

	src, err := os.ReadFile(filepath.Join(dir, "client.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package pets")
	assert.Contains(t, string(src), "// Source: pets.yaml")
	assert.FileExists(t, filepath.Join(dir, "types.go"))
}

func TestGenerateClientTool_TypesOnly(t *testing.T) {
	_, output, err := handleGenerateClient(context.Background(), &mcp.CallToolRequest{}, generateClientInput{
		Document:  sourceInput{Content: oas30Doc},
		TypesOnly: true,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, output.FileCount)
	assert.Empty(t, output.Clients)
}

func TestGenerateClientTool_RequiresOutputDir(t *testing.T) {
	result, _, err := handleGenerateClient(context.Background(), &mcp.CallToolRequest{}, generateClientInput{
		Document: sourceInput{Content: oas30Doc},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestValidateTool(t *testing.T) {
	tests := []struct {
		name    string
		content string
		version string
	}{
		{"openapi 3 yaml", oas30Doc, "3.0.0"},
		{"swagger 2 json", swagger2Doc, "2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
				Document: sourceInput{Content: tt.content},
			})
			require.NoError(t, err)
			assert.True(t, output.Valid, output.Error)
			assert.Equal(t, tt.version, output.Version)
		})
	}
}

func TestValidateTool_Invalid(t *testing.T) {
	broken := `{
  "openapi": "3.0.0",
  "info": {"title": "Broken", "version": "1"},
  "paths": {"/items/{id}": {"get": {"responses": {"200": {"description": "ok"}}}}}
}`
	_, output, err := handleValidate(context.Background(), &mcp.CallToolRequest{}, validateInput{
		Document: sourceInput{Content: broken},
	})
	require.NoError(t, err)
	assert.False(t, output.Valid)
	assert.Contains(t, output.Error, "path parameter")
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON([]byte("  \n{\"a\":1}")))
	assert.False(t, isJSON([]byte("openapi: 3.0.0")))
	assert.False(t, isJSON(nil))
}
