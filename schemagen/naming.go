package schemagen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/naming"
)

// SchemaNamingStrategy defines built-in definition naming conventions.
type SchemaNamingStrategy int

const (
	// SchemaNamingTypeOnly uses just the type name.
	// Example: models.User -> User
	SchemaNamingTypeOnly SchemaNamingStrategy = iota

	// SchemaNamingPascalCase prefixes the package in PascalCase.
	// Example: models.User -> ModelsUser
	SchemaNamingPascalCase

	// SchemaNamingCamelCase uses "packageTypeName" format.
	// Example: models.User -> modelsUser
	SchemaNamingCamelCase

	// SchemaNamingSnakeCase uses "package_type_name" format.
	// Example: models.User -> models_user
	SchemaNamingSnakeCase

	// SchemaNamingKebabCase uses "package-type-name" format.
	// Example: models.User -> models-user
	SchemaNamingKebabCase

	// SchemaNamingQualified uses "package.TypeName" format.
	// Example: models.User -> models.User
	SchemaNamingQualified
)

// anonymousTypeName names anonymous objects that must be registered.
const anonymousTypeName = "AnonymousType"

// GenericNamingStrategy defines how type arguments appear in definition names.
type GenericNamingStrategy int

const (
	// GenericNamingOf joins arguments with "Of".
	// Example: Page[User] -> PageOfUser
	GenericNamingOf GenericNamingStrategy = iota

	// GenericNamingUnderscore wraps arguments in underscores.
	// Example: Page[User] -> Page_User_
	GenericNamingUnderscore

	// GenericNamingFor joins arguments with "For".
	// Example: Page[User] -> PageForUser
	GenericNamingFor

	// GenericNamingFlattened appends arguments directly.
	// Example: Page[User] -> PageUser
	GenericNamingFlattened
)

// SchemaNameContext is the type metadata handed to naming templates and
// functions.
type SchemaNameContext struct {
	// Type is the type name with its arguments (e.g. "Page[User]").
	Type string

	// TypeSanitized is Type with arguments formatted per GenericNamingStrategy.
	TypeSanitized string

	// TypeBase is the type name without arguments (e.g. "Page").
	TypeBase string

	// Package is the declaring package name (e.g. "models").
	Package string

	IsGeneric              bool
	GenericParams          []string
	GenericParamsSanitized []string

	// GenericSuffix is the formatted argument portion (e.g. "OfUser").
	GenericSuffix string

	IsAnonymous bool

	// Kind is "object", "interface" or "enum".
	Kind string
}

// SchemaNameFunc computes a definition name from type metadata.
type SchemaNameFunc func(ctx SchemaNameContext) string

// namer computes definition names. Priority: function > template > strategy.
type namer struct {
	strategy        SchemaNamingStrategy
	generic         GenericNamingStrategy
	genericPackages bool
	template        *template.Template
	fn              SchemaNameFunc
}

func (n *namer) name(t *apimeta.Type) string {
	ctx := n.buildContext(t)
	if n.fn != nil {
		if name := sanitizeSchemaName(n.fn(ctx)); name != "" {
			return name
		}
	}
	if n.template != nil {
		var buf strings.Builder
		if err := n.template.Execute(&buf, ctx); err == nil {
			if name := sanitizeSchemaName(buf.String()); name != "" {
				return name
			}
		}
	}
	return n.applyStrategy(ctx)
}

func (n *namer) buildContext(t *apimeta.Type) SchemaNameContext {
	ctx := SchemaNameContext{
		Type:        t.Name,
		TypeBase:    t.Name,
		Package:     t.Package,
		IsAnonymous: t.Name == "",
		Kind:        t.Kind.String(),
	}
	if ctx.IsAnonymous {
		return ctx
	}
	ctx.TypeSanitized = t.Name
	if len(t.GenericArgs) > 0 {
		ctx.IsGeneric = true
		for _, arg := range t.GenericArgs {
			ctx.GenericParams = append(ctx.GenericParams, typeExpr(arg))
			ctx.GenericParamsSanitized = append(ctx.GenericParamsSanitized, n.label(arg))
		}
		ctx.Type = t.Name + "[" + strings.Join(ctx.GenericParams, ",") + "]"
		ctx.GenericSuffix = n.formatGenericSuffix(ctx.GenericParamsSanitized)
		ctx.TypeSanitized = t.Name + ctx.GenericSuffix
	}
	return ctx
}

// label is the name fragment a type argument contributes.
func (n *namer) label(t *apimeta.Type) string {
	t = t.Deref()
	switch {
	case t.IsNamed():
		name := n.buildContext(t).TypeSanitized
		if n.genericPackages && t.Package != "" {
			name = naming.ToPascalCase(t.Package) + name
		}
		return name
	case t.Kind == apimeta.KindArray:
		return "ArrayOf" + n.label(t.Elem)
	case t.Kind == apimeta.KindMap:
		return "DictionaryOf" + n.label(t.Elem)
	}
	switch t.Format {
	case "int32":
		return "Integer"
	case "int64":
		return "Long"
	case "float":
		return "Float"
	case "double":
		return "Double"
	case "date-time":
		return "DateTime"
	case "uuid":
		return "Guid"
	case "byte":
		return "ByteArray"
	}
	if t.Kind == apimeta.KindAny {
		return "Object"
	}
	return naming.ToPascalCase(t.Kind.String())
}

// typeExpr renders a type the way description files spell it.
func typeExpr(t *apimeta.Type) string {
	switch {
	case t.Kind == apimeta.KindPointer:
		return "*" + typeExpr(t.Elem)
	case t.Kind == apimeta.KindArray:
		return "[]" + typeExpr(t.Elem)
	case t.Kind == apimeta.KindMap:
		return "map[string]" + typeExpr(t.Elem)
	case t.IsNamed() && len(t.GenericArgs) > 0:
		args := make([]string, len(t.GenericArgs))
		for i, a := range t.GenericArgs {
			args[i] = typeExpr(a)
		}
		return t.Name + "[" + strings.Join(args, ",") + "]"
	case t.Name != "":
		return t.Name
	case t.Format != "":
		return t.Format
	}
	return t.Kind.String()
}

func (n *namer) formatGenericSuffix(params []string) string {
	if len(params) == 0 {
		return ""
	}
	switch n.generic {
	case GenericNamingUnderscore:
		return "_" + strings.Join(params, "_") + "_"
	case GenericNamingFor:
		return "For" + strings.Join(params, "And")
	case GenericNamingFlattened:
		return strings.Join(params, "")
	default:
		return "Of" + strings.Join(params, "And")
	}
}

func (n *namer) applyStrategy(ctx SchemaNameContext) string {
	if ctx.IsAnonymous {
		return anonymousTypeName
	}
	if ctx.Package == "" {
		return ctx.TypeSanitized
	}
	switch n.strategy {
	case SchemaNamingPascalCase:
		return naming.ToPascalCase(ctx.Package) + ctx.TypeSanitized
	case SchemaNamingCamelCase:
		return naming.ToCamelCase(ctx.Package) + ctx.TypeSanitized
	case SchemaNamingSnakeCase:
		return naming.ToSnakeCase(ctx.Package) + "_" + naming.ToSnakeCase(ctx.TypeSanitized)
	case SchemaNamingKebabCase:
		return naming.ToKebabCase(ctx.Package) + "-" + naming.ToKebabCase(ctx.TypeSanitized)
	case SchemaNamingQualified:
		return ctx.Package + "." + ctx.TypeSanitized
	default:
		return ctx.TypeSanitized
	}
}

// sanitizeSchemaName replaces characters that are awkward in $ref URIs.
// Example: "Page[User]" -> "Page_User"
func sanitizeSchemaName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("[", "_", "]", "_", ",", "_", " ", "_", "<", "_", ">", "_", "/", "_").Replace(name)
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.TrimSuffix(name, "_")
}

// templateFuncs are available to templates passed to WithSchemaNameTemplate.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"pascal":     naming.ToPascalCase,
		"camel":      naming.ToCamelCase,
		"snake":      naming.ToSnakeCase,
		"kebab":      naming.ToKebabCase,
		"title":      naming.ToTitleCase,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"sanitize":   sanitizeSchemaName,
		"trimPrefix": strings.TrimPrefix,
		"trimSuffix": strings.TrimSuffix,
		"replace":    strings.ReplaceAll,
		"join": func(sep string, parts ...string) string {
			return strings.Join(parts, sep)
		},
	}
}

// parseSchemaNameTemplate parses tmpl and executes it once against a sample
// context so that field typos fail early.
func parseSchemaNameTemplate(tmpl string) (*template.Template, error) {
	t, err := template.New("schemaName").Funcs(templateFuncs()).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("schemagen: invalid schema name template: %w", err)
	}
	sample := SchemaNameContext{
		Type:          "Page[User]",
		TypeSanitized: "PageOfUser",
		TypeBase:      "Page",
		Package:       "models",
		IsGeneric:     true,
		GenericParams: []string{"User"},
		GenericSuffix: "OfUser",
		Kind:          "object",
	}
	var buf strings.Builder
	if err := t.Execute(&buf, sample); err != nil {
		return nil, fmt.Errorf("schemagen: schema name template execution failed: %w", err)
	}
	return t, nil
}
