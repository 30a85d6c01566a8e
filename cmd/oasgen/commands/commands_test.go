package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/oasgen"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersDescriptions = `
types:
  Order:
    package: shop
    properties:
      - {name: id, type: int64, required: true}
      - {name: total, type: double}
  OrderFilter:
    package: shop
    properties:
      - {name: status, type: string}
      - {name: take, type: int}
controllers:
  - name: OrdersController
    attributes:
      - {name: Route, props: {template: "api/orders"}}
    methods:
      - name: GetOrder
        returns: Order
        attributes:
          - {name: HttpGet, props: {template: "{id}"}}
        parameters:
          - {name: id, type: int64}
      - name: FindOrders
        returns: "[]Order"
        attributes:
          - {name: HttpGet, props: {template: "search"}}
        parameters:
          - {name: filter, type: OrderFilter}
`

const petsDocument = `openapi: "3.0.0"
info:
  title: Pets
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: Pets_List
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
  /pets/{id}:
    get:
      operationId: Pets_Get
      parameters:
        - {name: id, in: path, required: true, schema: {type: integer, format: int64}}
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      properties:
        id: {type: integer, format: int64}
        owner:
          $ref: "#/components/schemas/Owner"
    Owner:
      type: object
      properties:
        name: {type: string}
`

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestGenerate(t *testing.T) {
	desc := writeTemp(t, "orders.yaml", ordersDescriptions)

	stdout, _, err := execute(t, "", "generate", "--dialect", "2.0", "--title", "Orders", desc)
	require.NoError(t, err)

	doc, err := openapi.FromJSON([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, openapi.Swagger2, doc.SourceDialect)
	assert.Equal(t, "Orders", doc.Info.Title)
	assert.NotNil(t, doc.Operation("/api/orders/{id}", "get"))
	search := doc.Operation("/api/orders/search", "get")
	require.NotNil(t, search)
	require.NotNil(t, search.BodyParameter(), "complex parameters bind to the body by default")
}

func TestGenerate_ComplexBindingFromSettingsFile(t *testing.T) {
	desc := writeTemp(t, "orders.yaml", ordersDescriptions)
	settings := writeTemp(t, "oasgen.toml", "complexBinding = \"query\"\nformat = \"yaml\"\n")

	stdout, _, err := execute(t, "", "generate", "--config", settings, desc)
	require.NoError(t, err)

	doc, err := openapi.FromYAML([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, openapi.OpenAPI3, doc.SourceDialect)
	search := doc.Operation("/api/orders/search", "get")
	require.NotNil(t, search)
	assert.Nil(t, search.BodyParameter())
	assert.NotNil(t, search.Parameter("status", openapi.ParameterQuery))
	assert.NotNil(t, search.Parameter("take", openapi.ParameterQuery))
}

func TestGenerate_FlagsOverrideSettingsFile(t *testing.T) {
	desc := writeTemp(t, "orders.yaml", ordersDescriptions)
	settings := writeTemp(t, "oasgen.yaml", "dialect: \"2.0\"\ninfo:\n  title: From File\n")
	out := filepath.Join(t.TempDir(), "api.json")

	stdout, _, err := execute(t, "", "generate", "-c", settings, "-d", "3.0", "-o", out, "--validate", desc)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	doc, err := openapi.FromFile(out)
	require.NoError(t, err)
	assert.Equal(t, openapi.OpenAPI3, doc.SourceDialect)
	assert.Equal(t, "From File", doc.Info.Title)
}

func TestGenerate_Stdin(t *testing.T) {
	stdout, _, err := execute(t, ordersDescriptions, "generate", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"openapi": "3.0.0"`)
}

func TestGenerate_VerboseLogsToStderr(t *testing.T) {
	desc := writeTemp(t, "orders.yaml", ordersDescriptions)
	_, stderr, err := execute(t, "", "generate", "--verbose", desc)
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "document written")
}

func TestGenerate_Errors(t *testing.T) {
	desc := writeTemp(t, "orders.yaml", ordersDescriptions)
	tests := []struct {
		name string
		args []string
	}{
		{"bad dialect", []string{"generate", "-d", "4", desc}},
		{"bad format", []string{"generate", "-f", "xml", desc}},
		{"bad binding", []string{"generate", "--complex-binding", "header", desc}},
		{"missing settings", []string{"generate", "-c", filepath.Join(t.TempDir(), "none.yaml"), desc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "", "generate", filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, oaserrors.ErrParse)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, _, err := execute(t, "", "generate")
		assert.Error(t, err)
	})
}

func TestGenerate_Controllers(t *testing.T) {
	desc := writeTemp(t, "orders.yaml", ordersDescriptions)

	stdout, _, err := execute(t, "", "generate", "--controller", "OrdersController", desc)
	require.NoError(t, err)
	doc, err := openapi.FromJSON([]byte(stdout))
	require.NoError(t, err)
	assert.Len(t, doc.Operations(), 2)

	stdout, _, err = execute(t, "", "generate", "--controller", "Billing*", desc)
	require.NoError(t, err)
	doc, err = openapi.FromJSON([]byte(stdout))
	require.NoError(t, err)
	assert.Empty(t, doc.Operations())

	_, _, err = execute(t, "", "generate", "--controller", "OrdersController", "--controller", "BillingController", desc)
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrTypeNotFound)
	assert.Contains(t, err.Error(), "BillingController")

	settings := writeTemp(t, "oasgen.yaml", "controllers: [BillingController]\n")
	_, _, err = execute(t, "", "generate", "-c", settings, desc)
	assert.ErrorIs(t, err, oaserrors.ErrTypeNotFound)
}

func TestConvert(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)

	stdout, _, err := execute(t, "", "convert", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"swagger": "2.0"`)
	assert.Contains(t, stdout, "#/definitions/Owner")

	back, _, err := execute(t, stdout, "convert", "--to", "3.0", "-f", "yaml", "-")
	require.NoError(t, err)
	doc, err := openapi.FromYAML([]byte(back))
	require.NoError(t, err)
	assert.Equal(t, openapi.OpenAPI3, doc.SourceDialect)
	assert.Len(t, doc.Definitions, 2)
}

func TestConvert_InvalidTarget(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)
	_, _, err := execute(t, "", "convert", "--to", "3.1", src)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestClient(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)
	dir := filepath.Join(t.TempDir(), "petstore")

	stdout, _, err := execute(t, "", "client", "-o", dir, "-p", "petstore", "-n", "MultipleClientsFromOperationId", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(dir, "client.go"))

	client, err := os.ReadFile(filepath.Join(dir, "client.go"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "package petstore")
	assert.Contains(t, string(client), "// Source: pets.yaml")
	assert.Contains(t, string(client), "type PetsClient struct")
	assert.FileExists(t, filepath.Join(dir, "types.go"))
}

func TestClient_List(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)

	stdout, _, err := execute(t, "", "client", "--list", "--names", "multiple-clients-from-operation-id", src)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "PetsClient", lines[0])
	assert.Contains(t, stdout, "List")
	assert.Contains(t, stdout, "/pets/{id}")
}

func TestClient_Errors(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)

	_, _, err := execute(t, "", "client", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output")

	_, _, err = execute(t, "", "client", "--list", "--names", "Random", src)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestSchema(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)

	stdout, _, err := execute(t, "", "schema", src, "Pet")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "Pet", schema["title"])
	assert.Contains(t, schema["definitions"], "Owner")

	_, _, err = execute(t, "", "schema", src, "Missing")
	assert.ErrorIs(t, err, oaserrors.ErrTypeNotFound)
}

func TestValidate(t *testing.T) {
	src := writeTemp(t, "pets.yaml", petsDocument)
	stdout, _, err := execute(t, "", "validate", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "valid OpenAPI 3.0.0 document")

	stdout, _, err = execute(t, "", "validate", "-q", src)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	broken := writeTemp(t, "broken.json", `{
  "swagger": "2.0",
  "info": {"title": "Broken", "version": "1"},
  "paths": {"/items/{id}": {"get": {"responses": {"200": {"description": "ok"}}}}}
}`)
	_, _, err = execute(t, "", "validate", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "oasgen "+oasgen.Version())
	assert.Contains(t, stdout, "Go Version:")

	stdout, _, err = execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, oasgen.Version()+"\n", stdout)
}

func TestRootCommand_Subcommands(t *testing.T) {
	var names []string
	for _, c := range NewRootCommand().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"generate", "convert", "client", "schema", "validate", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}
