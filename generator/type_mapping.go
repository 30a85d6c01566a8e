package generator

import (
	"github.com/erraggy/oasgen/openapi"
)

// goType returns the Go type for s. Named definitions become their type
// name, pointer-wrapped when nullable.
func goType(s *openapi.Schema) string {
	if s == nil {
		return "any"
	}
	if s.Ref != "" {
		name := openapi.DefinitionName(s.Ref)
		if name == "" {
			return "any"
		}
		return "*" + toTypeName(name)
	}
	// Nullable wrappers around a single reference.
	if s.Type == "" && len(s.Properties) == 0 {
		if len(s.OneOf) == 1 && len(s.AllOf) == 0 {
			return goType(s.OneOf[0])
		}
		if len(s.AllOf) == 1 && len(s.OneOf) == 0 {
			return goType(s.AllOf[0])
		}
	}

	var t string
	switch s.Type {
	case "string":
		t = stringType(s.Format)
	case "integer":
		if s.Format == "int32" {
			t = "int32"
		} else {
			t = "int64"
		}
	case "number":
		if s.Format == "float" {
			t = "float32"
		} else {
			t = "float64"
		}
	case "boolean":
		t = "bool"
	case "file":
		return "[]byte"
	case "array":
		return "[]" + elemType(s.Items)
	case "object":
		// Inline objects with properties have no type name to render.
		if len(s.Properties) == 0 && s.AdditionalProperties != nil {
			return "map[string]" + elemType(s.AdditionalProperties)
		}
		return "map[string]any"
	default:
		return "any"
	}
	if s.Nullable && t != "[]byte" {
		return "*" + t
	}
	return t
}

// elemType is goType without a pointer around named element types.
func elemType(s *openapi.Schema) string {
	t := goType(s)
	if s != nil && s.IsReference() && len(t) > 1 && t[0] == '*' {
		return t[1:]
	}
	return t
}

func stringType(format string) string {
	switch format {
	case "date-time":
		return "time.Time"
	case "binary", "byte":
		return "[]byte"
	default:
		return "string"
	}
}

// isScalarType reports whether t is a non-pointer scalar Go type.
func isScalarType(t string) bool {
	switch t {
	case "string", "bool", "int32", "int64", "float32", "float64", "time.Time":
		return true
	}
	return false
}
