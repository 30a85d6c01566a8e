package mcpserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petsDescriptions = `
types:
  Pet:
    package: shop
    properties:
      - {name: id, type: int64, required: true}
      - {name: name, type: string}
controllers:
  - name: PetsController
    attributes:
      - {name: Route, props: {template: "api/pets"}}
    methods:
      - name: GetPet
        returns: Pet
        attributes:
          - {name: HttpGet, props: {template: "{id}"}}
        parameters:
          - {name: id, type: int64}
      - name: ListPets
        returns: "[]Pet"
        attributes:
          - HttpGet
`

const oas30Doc = `openapi: "3.0.0"
info:
  title: Test API
  version: "1.0.0"
paths:
  /pets:
    get:
      operationId: Pets_List
      tags: [Pets]
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
    delete:
      operationId: Pets_Delete
      tags: [Pets]
      parameters:
        - {name: id, in: path, required: true, schema: {type: integer}}
      responses:
        "204":
          description: Deleted
components:
  schemas:
    Pet:
      type: object
      properties:
        id: {type: integer, format: int64}
`

const swagger2Doc = `{
  "swagger": "2.0",
  "info": {"title": "Test API", "version": "1.0.0"},
  "paths": {
    "/pets/{id}": {
      "get": {
        "operationId": "Pets_Get",
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Pet"}}}
      }
    }
  },
  "definitions": {"Pet": {"type": "object", "properties": {"name": {"type": "string"}}}}
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSanitizeError(t *testing.T) {
	assert.Empty(t, sanitizeError(nil))
	got := sanitizeError(errors.New("open /home/dev/api/pets.yaml: no such file"))
	assert.Equal(t, "open <path>: no such file", got)
	assert.Equal(t, "plain message", sanitizeError(errors.New("plain message")))
}

func TestErrResult(t *testing.T) {
	result := errResult(errors.New("read /tmp/x.json failed"))
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "read <path> failed", text.Text)
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestWriteOutput(t *testing.T) {
	got, err := writeOutput("", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, got)

	path := filepath.Join(t.TempDir(), "out.json")
	got, err = writeOutput(path, []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, path, got)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = writeOutput(filepath.Join(t.TempDir(), "missing", "out.json"), []byte("{}"))
	assert.Error(t, err)
}

func TestRegisterAllTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "oasgen", Version: "test"}, nil)
	assert.NotPanics(t, func() { registerAllTools(server) })
}
