package generator

import (
	"encoding/json"
	"testing"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderSchema(t *testing.T, doc *openapi.Document, name string) map[string]any {
	t.Helper()
	data, err := RenderJSONSchema(doc, name)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestRenderJSONSchema(t *testing.T) {
	out := renderSchema(t, petstore(t), "Dog")

	assert.Equal(t, JSONSchemaDraft, out["$schema"])
	assert.Equal(t, "Dog", out["title"])

	allOf := out["allOf"].([]any)
	require.Len(t, allOf, 2)
	assert.Equal(t, "#/definitions/Pet", allOf[0].(map[string]any)["$ref"])

	// Pet is reached directly, Tag through Pet.
	defs := out["definitions"].(map[string]any)
	assert.Len(t, defs, 2)
	assert.Contains(t, defs, "Pet")
	assert.Contains(t, defs, "Tag")

	pet := defs["Pet"].(map[string]any)
	tag := pet["properties"].(map[string]any)["tag"].(map[string]any)
	assert.Equal(t, []any{
		map[string]any{"$ref": "#/definitions/Tag"},
		map[string]any{"type": "null"},
	}, tag["anyOf"])
	assert.NotContains(t, tag, "x-nullable")
}

func TestRenderJSONSchema_Standalone(t *testing.T) {
	doc := openapi.New()
	doc.Definitions["Upload"] = &openapi.Schema{
		Type:  "object",
		Title: "File upload",
		Properties: map[string]*openapi.Schema{
			"content": {Type: "file"},
			"note":    {Type: "string", Nullable: true},
			"either":  {Type: "object", OneOf: []*openapi.Schema{{Type: "string"}, {Type: "integer"}}},
		},
	}

	out := renderSchema(t, doc, "Upload")

	assert.Equal(t, "File upload", out["title"])
	assert.NotContains(t, out, "definitions")
	props := out["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "format": "binary"}, props["content"])
	assert.Equal(t, []any{"string", "null"}, props["note"].(map[string]any)["type"])
	either := props["either"].(map[string]any)
	assert.Len(t, either["oneOf"], 2)
	assert.NotContains(t, either, "x-oneOf")
}

func TestRenderJSONSchema_SelfReference(t *testing.T) {
	doc := openapi.New()
	node := &openapi.Schema{Type: "object"}
	node.Properties = map[string]*openapi.Schema{"next": openapi.NewRef("Node", node)}
	doc.Definitions["Node"] = node

	out := renderSchema(t, doc, "Node")

	assert.Contains(t, out["definitions"], "Node")
}

func TestRenderJSONSchema_Unknown(t *testing.T) {
	_, err := RenderJSONSchema(openapi.New(), "Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrTypeNotFound)
	assert.Contains(t, err.Error(), "definition not found: Missing")
}
