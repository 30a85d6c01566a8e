package generator

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
)

// JSONSchemaDraft is the $schema written by RenderJSONSchema.
const JSONSchemaDraft = "http://json-schema.org/draft-07/schema#"

// RenderJSONSchema renders the named definition as a standalone JSON Schema.
// Every definition it reaches, directly or transitively, is copied into the
// output's "definitions" so the result has no outside references.
// Nullable markers become a "null" member of the type.
func RenderJSONSchema(doc *openapi.Document, name string) ([]byte, error) {
	root, ok := doc.Definitions[name]
	if !ok {
		return nil, &oaserrors.LookupError{Kind: "definition", Name: name}
	}

	out, err := schemaObject(root)
	if err != nil {
		return nil, fmt.Errorf("generator: definition %s: %w", name, err)
	}
	out["$schema"] = JSONSchemaDraft
	if _, ok := out["title"]; !ok {
		out["title"] = name
	}

	deps := dependencies(doc, root)
	if len(deps) > 0 {
		defs := make(map[string]any, len(deps))
		for _, dep := range deps {
			obj, err := schemaObject(doc.Definitions[dep])
			if err != nil {
				return nil, fmt.Errorf("generator: definition %s: %w", dep, err)
			}
			defs[dep] = obj
		}
		out["definitions"] = defs
	}
	return json.MarshalIndent(out, "", "  ")
}

// schemaObject renders s in 2.0 form, whose "#/definitions/" references
// match the standalone layout, and rewrites the dialect extensions.
func schemaObject(s *openapi.Schema) (map[string]any, error) {
	data, err := openapi.MarshalSchema(s, openapi.Swagger2)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	toJSONSchema(obj)
	return obj, nil
}

// toJSONSchema rewrites x-nullable, x-oneOf, x-anyOf and the 2.0 "file"
// type in place.
func toJSONSchema(v any) {
	switch x := v.(type) {
	case []any:
		for _, e := range x {
			toJSONSchema(e)
		}
	case map[string]any:
		for _, e := range x {
			toJSONSchema(e)
		}
		for _, k := range []string{"oneOf", "anyOf"} {
			if list, ok := x["x-"+k]; ok {
				x[k] = list
				delete(x, "x-"+k)
			}
		}
		if x["type"] == "file" {
			x["type"] = "string"
			x["format"] = "binary"
		}
		if nullable, _ := x["x-nullable"].(bool); nullable {
			delete(x, "x-nullable")
			makeNullable(x)
		}
	}
}

func makeNullable(x map[string]any) {
	if t, ok := x["type"].(string); ok {
		x["type"] = []any{t, "null"}
		return
	}
	if ref, ok := x["$ref"]; ok {
		delete(x, "$ref")
		x["anyOf"] = []any{map[string]any{"$ref": ref}, map[string]any{"type": "null"}}
	}
}

// dependencies returns the sorted names of the definitions reachable from s.
// A self-referencing root lists itself.
func dependencies(doc *openapi.Document, s *openapi.Schema) []string {
	seen := make(map[string]bool)
	visited := make(map[*openapi.Schema]bool)
	var visit func(*openapi.Schema)
	visit = func(s *openapi.Schema) {
		if s == nil || visited[s] {
			return
		}
		visited[s] = true
		if s.Ref != "" {
			name := openapi.DefinitionName(s.Ref)
			if target, ok := doc.Definitions[name]; ok && !seen[name] {
				seen[name] = true
				visit(target)
			}
			return
		}
		visit(s.Items)
		visit(s.AdditionalProperties)
		for _, p := range s.Properties {
			visit(p)
		}
		for _, list := range [][]*openapi.Schema{s.AllOf, s.OneOf, s.AnyOf} {
			for _, c := range list {
				visit(c)
			}
		}
	}
	visit(s)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
