package generator

import (
	"fmt"
	"go/token"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/oasgen"
	"github.com/erraggy/oasgen/internal/naming"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
)

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "types.go", "client.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// GenerateResult contains the generated files and what went into them.
type GenerateResult struct {
	Files       []GeneratedFile
	PackageName string
	// Clients lists the generated client type names in order.
	Clients             []string
	GeneratedTypes      int
	GeneratedOperations int
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Option configures GenerateClient.
type Option func(*generateConfig) error

type generateConfig struct {
	packageName string
	names       OperationNameGenerator
	userAgent   string
	types       bool
	client      bool
	source      string
}

// WithPackageName sets the package clause of the generated files.
func WithPackageName(name string) Option {
	return func(c *generateConfig) error {
		if !token.IsIdentifier(name) {
			return &oaserrors.ConfigError{Option: "package", Value: name, Message: "not a valid Go identifier"}
		}
		c.packageName = name
		return nil
	}
}

// WithNameGenerator selects how operations are grouped into clients and
// how their methods are named.
func WithNameGenerator(g OperationNameGenerator) Option {
	return func(c *generateConfig) error {
		if g == nil {
			return &oaserrors.ConfigError{Option: "name-generator", Message: "must not be nil"}
		}
		c.names = g
		return nil
	}
}

// WithUserAgent overrides the User-Agent the generated clients send.
func WithUserAgent(ua string) Option {
	return func(c *generateConfig) error {
		c.userAgent = ua
		return nil
	}
}

// WithTypes enables or disables types.go.
func WithTypes(enabled bool) Option {
	return func(c *generateConfig) error {
		c.types = enabled
		return nil
	}
}

// WithClient enables or disables client.go.
func WithClient(enabled bool) Option {
	return func(c *generateConfig) error {
		c.client = enabled
		return nil
	}
}

// WithSource names the input in the generated file header.
func WithSource(source string) Option {
	return func(c *generateConfig) error {
		c.source = source
		return nil
	}
}

// GenerateClient renders Go model types for the document definitions and
// one client struct per client name the name generator produces.
func GenerateClient(doc *openapi.Document, opts ...Option) (*GenerateResult, error) {
	if doc == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "must not be nil"}
	}
	cfg := &generateConfig{
		packageName: "api",
		names:       SingleClientFromOperationID{},
		types:       true,
		client:      true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.userAgent == "" {
		cfg.userAgent = defaultUserAgent(doc)
	}
	header := HeaderData{PackageName: cfg.packageName, Source: cfg.source}
	result := &GenerateResult{PackageName: cfg.packageName}

	if cfg.types {
		data := TypesFileData{Header: header, Types: buildTypes(doc)}
		src, err := executeTemplate("types.go.tmpl", "types.go", data)
		if err != nil {
			return nil, fmt.Errorf("generator: types.go: %w", err)
		}
		result.Files = append(result.Files, GeneratedFile{Name: "types.go", Content: src})
		result.GeneratedTypes = len(data.Types)
	}
	if cfg.client {
		clients := buildClients(doc, cfg.names)
		data := ClientFileData{Header: header, DefaultUserAgent: cfg.userAgent, Clients: clients}
		src, err := executeTemplate("client.go.tmpl", "client.go", data)
		if err != nil {
			return nil, fmt.Errorf("generator: client.go: %w", err)
		}
		result.Files = append(result.Files, GeneratedFile{Name: "client.go", Content: src})
		for _, c := range clients {
			result.Clients = append(result.Clients, c.TypeName)
			result.GeneratedOperations += len(c.Methods)
		}
	}
	return result, nil
}

// defaultUserAgent is "oasgen/{version}/generated/{title}".
func defaultUserAgent(doc *openapi.Document) string {
	title := doc.Info.Title
	if title == "" {
		title = "API Client"
	}
	return fmt.Sprintf("oasgen/%s/generated/%s", oasgen.Version(), title)
}

func buildTypes(doc *openapi.Document) []TypeDefinition {
	names := make([]string, 0, len(doc.Definitions))
	for name := range doc.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)

	types := make([]TypeDefinition, 0, len(names))
	for _, name := range names {
		types = append(types, typeDefinition(toTypeName(name), doc.Definitions[name]))
	}
	return types
}

func typeDefinition(typeName string, s *openapi.Schema) TypeDefinition {
	comment := cleanDescription(s.Description)
	switch {
	case s.Ref != "":
		return TypeDefinition{Kind: "alias", Alias: &AliasData{
			Comment: comment, TypeName: typeName, TargetType: elemType(s), IsAlias: true,
		}}
	case len(s.Enum) > 0 && (s.Type == "string" || s.Type == "integer"):
		return TypeDefinition{Kind: "enum", Enum: enumData(typeName, comment, s)}
	case s.Type == "object" && len(s.Properties) == 0 && len(s.AllOf) == 0:
		return TypeDefinition{Kind: "alias", Alias: &AliasData{
			Comment: comment, TypeName: typeName, TargetType: goType(s),
		}}
	case s.Type == "object" || len(s.Properties) > 0 || len(s.AllOf) > 0:
		return TypeDefinition{Kind: "struct", Struct: structData(typeName, comment, s)}
	default:
		t := goType(s)
		t = strings.TrimPrefix(t, "*")
		return TypeDefinition{Kind: "alias", Alias: &AliasData{Comment: comment, TypeName: typeName, TargetType: t}}
	}
}

func enumData(typeName, comment string, s *openapi.Schema) *EnumData {
	e := &EnumData{Comment: comment, TypeName: typeName, BaseType: "string"}
	if s.Type == "integer" {
		e.BaseType = "int64"
	}
	used := uniqueNames{}
	for _, v := range s.Enum {
		raw := fmt.Sprint(v)
		value := raw
		if e.BaseType == "string" {
			value = fmt.Sprintf("%q", raw)
		}
		e.Values = append(e.Values, EnumValueData{
			ConstName: used.claim(typeName + naming.ToIdentifier(raw, true)),
			Value:     value,
		})
	}
	return e
}

func structData(typeName, comment string, s *openapi.Schema) *StructData {
	st := &StructData{Comment: comment, TypeName: typeName}
	props := make(map[string]*openapi.Schema)
	var required []string
	collect := func(part *openapi.Schema) {
		for name, p := range part.Properties {
			props[name] = p
		}
		required = append(required, part.Required...)
	}
	for _, part := range s.AllOf {
		if part.IsReference() {
			st.Embedded = append(st.Embedded, elemType(part))
			continue
		}
		collect(part)
	}
	collect(s)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	used := uniqueNames{}
	for _, e := range st.Embedded {
		used[e] = true
	}
	for _, name := range names {
		p := props[name]
		req := slices.Contains(required, name)
		t := goType(p)
		tag := name
		if !req {
			tag += ",omitempty"
			if isScalarType(t) {
				t = "*" + t
			}
		}
		st.Fields = append(st.Fields, FieldData{
			Comment: cleanDescription(p.Description),
			Name:    used.claim(toFieldName(name)),
			Type:    t,
			Tags:    fmt.Sprintf(`json:%q`, tag),
		})
	}
	return st
}
