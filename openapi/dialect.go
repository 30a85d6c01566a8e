package openapi

import (
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
)

// Dialect selects the wire shape of a rendered document.
type Dialect int

const (
	// Swagger2 renders Swagger/OpenAPI 2.0.
	Swagger2 Dialect = iota + 1
	// OpenAPI3 renders OpenAPI 3.0.
	OpenAPI3
)

const (
	definitionsPrefix = "#/definitions/"
	componentsPrefix  = "#/components/schemas/"
)

// String returns the version string written to the document root.
func (d Dialect) String() string {
	switch d {
	case Swagger2:
		return "2.0"
	case OpenAPI3:
		return "3.0.0"
	default:
		return "unknown"
	}
}

// SupportsNullable reports whether the dialect has a first-class nullable keyword.
func (d Dialect) SupportsNullable() bool {
	return d == OpenAPI3
}

// DefinitionsPrefix returns the JSON pointer prefix of named schemas.
func (d Dialect) DefinitionsPrefix() string {
	if d == OpenAPI3 {
		return componentsPrefix
	}
	return definitionsPrefix
}

// ParseDialect accepts "2.0", "2", "swagger", "swagger2", "3", "3.0",
// "3.0.x", "openapi3" (case-insensitive).
func ParseDialect(s string) (Dialect, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "2" || v == "2.0" || v == "swagger" || v == "swagger2":
		return Swagger2, nil
	case v == "3" || v == "3.0" || strings.HasPrefix(v, "3.0.") || v == "openapi3" || v == "openapi":
		return OpenAPI3, nil
	}
	return 0, &oaserrors.ConfigError{Option: "dialect", Value: s, Message: "expected 2.0 or 3.0"}
}

// DefinitionRef returns the canonical reference to a named schema.
// References are stored in Swagger 2.0 form and rewritten on output.
func DefinitionRef(name string) string {
	return definitionsPrefix + escapePointer(name)
}

// DefinitionName extracts the schema name from a local or file-qualified
// definitions reference. It returns "" for anything else.
func DefinitionName(ref string) string {
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[i:]
	}
	for _, prefix := range []string{definitionsPrefix, componentsPrefix} {
		if name, ok := strings.CutPrefix(ref, prefix); ok && !strings.Contains(name, "/") {
			return unescapePointer(name)
		}
	}
	return ""
}

// canonicalRef rewrites an OpenAPI 3.0 components reference to definitions form.
func canonicalRef(ref string) string {
	file, fragment, _ := strings.Cut(ref, "#")
	if name, ok := strings.CutPrefix("#"+fragment, componentsPrefix); ok {
		return file + definitionsPrefix + name
	}
	return ref
}

// rewriteRef renders a canonical reference for the given dialect.
func rewriteRef(ref string, d Dialect) string {
	file, fragment, found := strings.Cut(ref, "#")
	if !found {
		return ref
	}
	if name, ok := strings.CutPrefix("#"+fragment, definitionsPrefix); ok {
		return file + d.DefinitionsPrefix() + name
	}
	return ref
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

func unescapePointer(s string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(s)
}
