package openapi

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/oasgen/internal/httputil"
	"github.com/erraggy/oasgen/oaserrors"
	"go.yaml.in/yaml/v4"
)

// FromJSON parses a Swagger 2.0 or OpenAPI 3.0 document. Same-file references
// are resolved; cross-file references need FromFile.
func FromJSON(data []byte) (*Document, error) {
	return parseDocument(data, "", newResolveSession(""))
}

// FromYAML parses a YAML document. JSON input is accepted as well.
func FromYAML(data []byte) (*Document, error) {
	return parseDocument(data, "", newResolveSession(""))
}

// FromFile parses a JSON or YAML document from disk and resolves same-file and
// cross-file references. Referenced files must live under the directory of
// path.
func FromFile(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Cause: err}
	}
	data, err := os.ReadFile(abs) //nolint:gosec // G304: caller-supplied document path
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "read file", Cause: err}
	}
	return parseDocument(data, abs, newResolveSession(filepath.Dir(abs)))
}

func parseTreeRoot(data []byte, source string) (*omap, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "invalid JSON or YAML", Cause: err}
	}
	tree, err := decodeTree(&node)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: source, Cause: err}
	}
	m, ok := tree.(*omap)
	if !ok {
		return nil, &oaserrors.ParseError{Path: source, Line: node.Line, Message: "document root must be an object"}
	}
	return m, nil
}

func parseDocument(data []byte, source string, sess *resolveSession) (*Document, error) {
	m, err := parseTreeRoot(data, source)
	if err != nil {
		return nil, err
	}
	return parseTree(m, source, sess)
}

func detectDialect(m *omap) (Dialect, bool) {
	switch {
	case m.has("swagger"):
		return Swagger2, true
	case strings.HasPrefix(m.str("openapi"), "3"):
		return OpenAPI3, true
	}
	return 0, false
}

func parseTree(m *omap, source string, sess *resolveSession) (*Document, error) {
	dialect, ok := detectDialect(m)
	if !ok {
		return nil, &oaserrors.ParseError{Path: source, Message: "missing swagger or openapi version field"}
	}
	doc := New()
	doc.SourcePath = source
	doc.SourceDialect = dialect
	p := &docParser{doc: doc, dialect: dialect, root: m, source: source}
	if err := p.document(m); err != nil {
		return nil, err
	}
	if source != "" {
		sess.files[source] = &loadedFile{doc: doc}
	}
	if err := doc.resolveReferences(sess); err != nil {
		return nil, err
	}
	return doc, nil
}

type docParser struct {
	doc     *Document
	dialect Dialect
	root    *omap
	source  string
}

func (p *docParser) document(m *omap) error {
	d := p.doc
	if info := m.obj("info"); info != nil {
		d.Info = Info{
			Title:       info.str("title"),
			Description: info.str("description"),
			Version:     info.str("version"),
		}
	}
	d.Host = m.str("host")
	d.BasePath = m.str("basePath")
	d.Schemes = m.strings("schemes")
	d.Consumes = m.strings("consumes")
	d.Produces = m.strings("produces")
	for _, v := range m.list("servers") {
		if so, ok := v.(*omap); ok {
			d.Servers = append(d.Servers, &Server{URL: so.str("url"), Description: so.str("description")})
		}
	}

	defs := m.obj("definitions")
	if p.dialect == OpenAPI3 {
		defs = m.obj("components").obj("schemas")
	}
	if defs != nil {
		for _, name := range defs.keys {
			d.Definitions[name] = p.schema(defs.obj(name))
		}
	}

	for _, v := range m.list("tags") {
		if to, ok := v.(*omap); ok {
			d.Tags = append(d.Tags, &Tag{
				Name:        to.str("name"),
				Description: to.str("description"),
				Extensions:  to.extensions(),
			})
		}
	}

	paths := m.obj("paths")
	if paths != nil {
		for _, path := range paths.keys {
			item := paths.obj(path)
			shared := item.list("parameters")
			for _, method := range item.keys {
				if !httputil.IsMethod(method) {
					continue
				}
				op, err := p.operation(item.obj(method), shared)
				if err != nil {
					return &oaserrors.ParseError{Path: p.source, Message: strings.ToUpper(method) + " " + path, Cause: err}
				}
				if err := d.AddOperation(path, method, op); err != nil {
					return &oaserrors.ParseError{Path: p.source, Cause: err}
				}
			}
		}
	}
	d.Extensions = m.extensions()
	return nil
}

func (p *docParser) operation(m *omap, shared []any) (*Operation, error) {
	op := &Operation{
		OperationID: m.str("operationId"),
		Summary:     m.str("summary"),
		Description: m.str("description"),
		Tags:        m.strings("tags"),
		Deprecated:  m.boolean("deprecated"),
	}
	if p.dialect == Swagger2 {
		op.Consumes = m.strings("consumes")
		op.Produces = m.strings("produces")
	}

	for _, v := range m.list("parameters") {
		prm, err := p.parameter(v)
		if err != nil {
			return nil, err
		}
		if prm != nil {
			op.Parameters = append(op.Parameters, prm)
		}
	}
	for _, v := range shared {
		prm, err := p.parameter(v)
		if err != nil {
			return nil, err
		}
		if prm != nil && op.Parameter(prm.Name, prm.Kind) == nil {
			op.Parameters = append(op.Parameters, prm)
		}
	}

	if p.dialect == OpenAPI3 {
		if rb := m.obj("requestBody"); rb != nil {
			p.requestBody(op, p.deref(rb, "requestBodies"))
		}
		sort.SliceStable(op.Parameters, func(i, j int) bool {
			return positionLess(op.Parameters[i].Position, op.Parameters[j].Position)
		})
	}

	responses := m.obj("responses")
	if responses != nil {
		for _, code := range responses.keys {
			op.SetResponse(code, p.response(op, p.deref(responses.obj(code), "responses")))
		}
	}
	op.Extensions = m.extensions()
	return op, nil
}

// positionLess orders positioned parameters first, by position.
func positionLess(a, b int) bool {
	switch {
	case a == 0:
		return false
	case b == 0:
		return true
	default:
		return a < b
	}
}

// deref follows a "#/parameters/x", "#/responses/x" or "#/components/<section>/x"
// reference to the shared object it names.
func (p *docParser) deref(m *omap, section string) *omap {
	ref := m.str("$ref")
	if ref == "" {
		return m
	}
	name := ref[strings.LastIndex(ref, "/")+1:]
	if p.dialect == OpenAPI3 {
		if t := p.root.obj("components").obj(section).obj(name); t != nil {
			return t
		}
		return m
	}
	if t := p.root.obj(section).obj(name); t != nil {
		return t
	}
	return m
}

func (p *docParser) parameter(v any) (*Parameter, error) {
	m, ok := v.(*omap)
	if !ok {
		return nil, nil
	}
	m = p.deref(m, "parameters")
	in := m.str("in")
	if in == "cookie" {
		return nil, nil
	}
	kind, ok := ParseParameterKind(in)
	if !ok {
		return nil, &oaserrors.ParseError{Path: p.source, Message: "parameter " + m.str("name") + ": unsupported location " + in}
	}
	prm := &Parameter{
		Name:        m.str("name"),
		Kind:        kind,
		Description: m.str("description"),
		Required:    m.boolean("required"),
		Deprecated:  m.boolean("deprecated"),
		Position:    m.integer("x-position"),
		Extensions:  m.extensions("x-nullable", "x-position"),
	}
	if m.has("x-nullable") {
		b := m.boolean("x-nullable")
		prm.Nullable = &b
	}

	if p.dialect == Swagger2 && kind != ParameterBody {
		prm.Schema = p.simpleSchema(m)
		prm.Default = plain(m.get("default"))
		prm.CollectionFormat = m.str("collectionFormat")
		if m.str("type") == "file" && prm.CollectionFormat == "multi" {
			prm.Schema = &Schema{Type: "array", Items: prm.Schema}
		}
		return prm, nil
	}

	prm.Schema = p.schema(m.obj("schema"))
	if prm.Schema != nil {
		prm.Default = prm.Schema.Default
	}
	if m.str("style") == "form" && m.boolean("explode") && prm.Schema.IsArray() {
		prm.CollectionFormat = "multi"
	}
	return prm, nil
}

// simpleSchema builds a schema from Swagger 2.0 non-body parameter keys.
func (p *docParser) simpleSchema(m *omap) *Schema {
	s := &Schema{
		Type:    m.str("type"),
		Format:  m.str("format"),
		Default: plain(m.get("default")),
	}
	if enum := m.list("enum"); len(enum) > 0 {
		s.Enum, _ = plain(enum).([]any)
	}
	if s.Type == "file" {
		s.Type, s.Format = "string", "binary"
	}
	if items := m.obj("items"); items != nil {
		s.Items = p.simpleSchema(items)
	}
	return s
}

func isFormMediaType(mt string) bool {
	return mt == "multipart/form-data" || mt == "application/x-www-form-urlencoded"
}

func (p *docParser) requestBody(op *Operation, m *omap) {
	content := m.obj("content")
	if content == nil || len(content.keys) == 0 {
		return
	}
	op.AddConsumes(content.keys...)
	first := content.keys[0]
	schema := content.obj(first).obj("schema")

	if isFormMediaType(first) && !m.has("x-name") && schema.str("type") == "object" {
		props := schema.obj("properties")
		required := schema.strings("required")
		if props == nil {
			return
		}
		for _, name := range props.keys {
			ps := props.obj(name)
			s := p.schema(ps)
			if s != nil {
				delete(s.Extensions, "x-position")
				if len(s.Extensions) == 0 {
					s.Extensions = nil
				}
			}
			prm := &Parameter{
				Name:     name,
				Kind:     ParameterFormData,
				Required: slices.Contains(required, name),
				Schema:   s,
				Position: ps.integer("x-position"),
			}
			if s != nil {
				prm.Description = s.Description
				if s.IsArray() && s.IsBinary() {
					prm.CollectionFormat = "multi"
				}
			}
			op.Parameters = append(op.Parameters, prm)
		}
		return
	}

	name := m.str("x-name")
	if name == "" {
		name = "body"
	}
	body := &Parameter{
		Name:        name,
		Kind:        ParameterBody,
		Description: m.str("description"),
		Required:    m.boolean("required"),
		Schema:      p.schema(schema),
		Position:    m.integer("x-position"),
		Extensions:  m.extensions("x-name", "x-position", "x-nullable"),
	}
	if m.has("x-nullable") {
		b := m.boolean("x-nullable")
		body.Nullable = &b
	}
	op.Parameters = append(op.Parameters, body)
}

func (p *docParser) response(op *Operation, m *omap) *Response {
	r := &Response{
		Description: m.str("description"),
		Nullable:    m.boolean("x-nullable"),
		Extensions:  m.extensions("x-nullable", "x-expectedSchemas"),
	}
	if p.dialect == Swagger2 {
		r.Schema = p.schema(m.obj("schema"))
	} else if content := m.obj("content"); content != nil {
		op.AddProduces(content.keys...)
		if len(content.keys) > 0 {
			r.Schema = p.schema(content.obj(content.keys[0]).obj("schema"))
		}
	}
	for _, v := range m.list("x-expectedSchemas") {
		if eo, ok := v.(*omap); ok {
			r.ExpectedSchemas = append(r.ExpectedSchemas, &ExpectedSchema{
				Description: eo.str("description"),
				Schema:      p.schema(eo.obj("schema")),
			})
		}
	}
	return r
}

func (p *docParser) schema(m *omap) *Schema {
	if m == nil {
		return nil
	}
	s := &Schema{Nullable: m.boolean("nullable") || m.boolean("x-nullable")}
	if ref := m.str("$ref"); ref != "" {
		s.Ref = canonicalRef(ref)
		return s
	}
	switch t := m.get("type").(type) {
	case string:
		s.Type = t
	case []any:
		for _, e := range t {
			switch name := scalarString(e); {
			case name == "null":
				s.Nullable = true
			case s.Type == "":
				s.Type = name
			}
		}
	}
	s.Title = m.str("title")
	s.Description = m.str("description")
	s.Format = m.str("format")
	s.Default = plain(m.get("default"))
	s.Example = plain(m.get("example"))
	if enum := m.list("enum"); len(enum) > 0 {
		s.Enum, _ = plain(enum).([]any)
	}
	s.ReadOnly = m.boolean("readOnly")
	s.Deprecated = m.boolean("deprecated")
	s.Items = p.schema(m.obj("items"))
	if props := m.obj("properties"); props != nil {
		s.Properties = make(map[string]*Schema, len(props.keys))
		for _, name := range props.keys {
			s.Properties[name] = p.schema(props.obj(name))
		}
	}
	s.Required = m.strings("required")
	switch ap := m.get("additionalProperties").(type) {
	case *omap:
		s.AdditionalProperties = p.schema(ap)
	case bool:
		if ap {
			s.AdditionalProperties = &Schema{}
		}
	}
	s.AllOf = p.schemas(m.list("allOf"))
	s.OneOf = append(p.schemas(m.list("oneOf")), p.schemas(m.list("x-oneOf"))...)
	s.AnyOf = append(p.schemas(m.list("anyOf")), p.schemas(m.list("x-anyOf"))...)
	s.Extensions = m.extensions("x-nullable", "x-oneOf", "x-anyOf")

	if s.Nullable && len(s.OneOf) == 1 && s.OneOf[0].Ref != "" && s.onlyWrapsOneOf() {
		return &Schema{Ref: s.OneOf[0].Ref, Nullable: true}
	}
	return s
}

// onlyWrapsOneOf reports whether s carries nothing besides oneOf and nullable.
func (s *Schema) onlyWrapsOneOf() bool {
	return s.Type == "" && s.Format == "" && s.Title == "" && s.Description == "" &&
		s.Default == nil && len(s.Enum) == 0 && s.Items == nil && len(s.Properties) == 0 &&
		len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.Extensions) == 0
}

func (p *docParser) schemas(list []any) []*Schema {
	var out []*Schema
	for _, v := range list {
		if m, ok := v.(*omap); ok {
			out = append(out, p.schema(m))
		}
	}
	return out
}
