package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
	"go.yaml.in/yaml/v4"
)

// orderedObject is a JSON object that keeps key insertion order.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func newObject() *orderedObject {
	return &orderedObject{values: make(map[string]any)}
}

func (o *orderedObject) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// setNonEmpty skips zero strings, false, nil, and empty collections.
func (o *orderedObject) setNonEmpty(key string, v any) {
	switch x := v.(type) {
	case nil:
		return
	case string:
		if x == "" {
			return
		}
	case bool:
		if !x {
			return
		}
	case []string:
		if len(x) == 0 {
			return
		}
	case []any:
		if len(x) == 0 {
			return
		}
	case *orderedObject:
		if x == nil || len(x.keys) == 0 {
			return
		}
	}
	o.set(key, v)
}

func (o *orderedObject) setExtensions(ext map[string]any) {
	for _, k := range sortedKeys(ext) {
		o.set(k, ext[k])
	}
}

// MarshalJSON writes the keys in insertion order.
func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToJSON renders the document as indented JSON in the given dialect.
func (d *Document) ToJSON(dialect Dialect) ([]byte, error) {
	root, err := (&renderer{doc: d, dialect: dialect}).document()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, &oaserrors.ConversionError{TargetDialect: dialect.String(), Message: "marshal", Cause: err}
	}
	return data, nil
}

// ToYAML renders the document as YAML in the given dialect, keeping the key
// order of the JSON rendering.
func (d *Document) ToYAML(dialect Dialect) ([]byte, error) {
	data, err := d.ToJSON(dialect)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &oaserrors.ConversionError{TargetDialect: dialect.String(), Message: "re-encode as YAML", Cause: err}
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// blockStyle drops the flow and quoting styles inherited from JSON input.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

type renderer struct {
	doc     *Document
	dialect Dialect
}

func (r *renderer) document() (*orderedObject, error) {
	d := r.doc
	root := newObject()
	switch r.dialect {
	case Swagger2:
		root.set("swagger", "2.0")
	case OpenAPI3:
		root.set("openapi", r.dialect.String())
	default:
		return nil, &oaserrors.ConversionError{TargetDialect: r.dialect.String(), Message: "unsupported dialect"}
	}

	info := newObject()
	info.set("title", d.Info.Title)
	info.setNonEmpty("description", d.Info.Description)
	info.set("version", d.Info.Version)
	root.set("info", info)

	if r.dialect == Swagger2 {
		host, basePath, schemes := d.Host, d.BasePath, d.Schemes
		if host == "" && len(d.Servers) > 0 {
			host, basePath, schemes = splitServerURL(d.Servers[0].URL)
		}
		root.setNonEmpty("host", host)
		root.setNonEmpty("basePath", basePath)
		root.setNonEmpty("schemes", schemes)
		root.setNonEmpty("consumes", d.Consumes)
		root.setNonEmpty("produces", d.Produces)
	} else {
		root.setNonEmpty("servers", r.servers())
	}

	paths := newObject()
	if d.Paths != nil {
		for _, path := range d.Paths.Keys() {
			item := d.Paths.Get(path)
			pi := newObject()
			for _, method := range item.Methods() {
				op, err := r.operation(item.Get(method))
				if err != nil {
					return nil, &oaserrors.ConversionError{
						TargetDialect: r.dialect.String(),
						Path:          "paths." + path + "." + method,
						Cause:         err,
					}
				}
				pi.set(method, op)
			}
			paths.set(path, pi)
		}
	}
	root.set("paths", paths)

	defs := newObject()
	for _, name := range sortedKeys(d.Definitions) {
		defs.set(name, r.schema(d.Definitions[name]))
	}
	if r.dialect == Swagger2 {
		root.setNonEmpty("definitions", defs)
	} else if len(defs.keys) > 0 {
		components := newObject()
		components.set("schemas", defs)
		root.set("components", components)
	}

	tags := make([]any, 0, len(d.Tags))
	for _, t := range d.Tags {
		to := newObject()
		to.set("name", t.Name)
		to.setNonEmpty("description", t.Description)
		to.setExtensions(t.Extensions)
		tags = append(tags, to)
	}
	root.setNonEmpty("tags", tags)
	root.setExtensions(d.Extensions)
	return root, nil
}

func (r *renderer) servers() []any {
	var out []any
	for _, s := range r.doc.Servers {
		so := newObject()
		so.set("url", s.URL)
		so.setNonEmpty("description", s.Description)
		out = append(out, so)
	}
	if len(out) > 0 || r.doc.Host == "" {
		return out
	}
	schemes := r.doc.Schemes
	if len(schemes) == 0 {
		schemes = []string{"https"}
	}
	for _, scheme := range schemes {
		so := newObject()
		so.set("url", scheme+"://"+r.doc.Host+r.doc.BasePath)
		out = append(out, so)
	}
	return out
}

func splitServerURL(raw string) (host, basePath string, schemes []string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", raw, nil
	}
	if u.Scheme != "" {
		schemes = []string{u.Scheme}
	}
	return u.Host, u.Path, schemes
}

func (r *renderer) operation(op *Operation) (*orderedObject, error) {
	o := newObject()
	o.setNonEmpty("tags", op.Tags)
	o.setNonEmpty("summary", op.Summary)
	o.setNonEmpty("description", op.Description)
	o.setNonEmpty("operationId", op.OperationID)

	if r.dialect == Swagger2 {
		o.setNonEmpty("consumes", op.Consumes)
		o.setNonEmpty("produces", op.Produces)
	}

	var params []any
	var form []*Parameter
	var body *Parameter
	for _, p := range op.Parameters {
		switch {
		case r.dialect == OpenAPI3 && p.Kind == ParameterBody:
			if body != nil {
				return nil, fmt.Errorf("more than one body parameter (%s, %s)", body.Name, p.Name)
			}
			body = p
		case r.dialect == OpenAPI3 && p.Kind == ParameterFormData:
			form = append(form, p)
		default:
			params = append(params, r.parameter(p))
		}
	}
	o.setNonEmpty("parameters", params)

	if r.dialect == OpenAPI3 {
		switch {
		case body != nil:
			o.set("requestBody", r.requestBody(op, body))
		case len(form) > 0:
			o.set("requestBody", r.formBody(op, form))
		}
	}

	responses := newObject()
	for _, code := range op.ResponseCodes() {
		responses.set(code, r.response(op, op.Responses[code]))
	}
	o.set("responses", responses)
	o.setNonEmpty("deprecated", op.Deprecated)
	o.setExtensions(op.Extensions)
	return o, nil
}

func (r *renderer) parameter(p *Parameter) *orderedObject {
	o := newObject()
	o.set("name", p.Name)
	o.set("in", p.Kind.String())
	o.setNonEmpty("description", p.Description)
	if p.Required || p.Kind == ParameterPath {
		o.set("required", true)
	}
	o.setNonEmpty("deprecated", p.Deprecated && r.dialect == OpenAPI3)

	switch {
	case r.dialect == Swagger2 && p.Kind == ParameterBody:
		o.setNonEmpty("schema", r.schemaValue(p.Schema))
	case r.dialect == Swagger2:
		r.inlineSimpleType(o, p)
	default:
		o.setNonEmpty("schema", r.schemaValue(p.Schema))
		if p.CollectionFormat == "multi" {
			o.set("style", "form")
			o.set("explode", true)
		}
	}
	if p.Nullable != nil {
		o.set("x-nullable", *p.Nullable)
	}
	if p.Position > 0 {
		o.set("x-position", p.Position)
	}
	o.setExtensions(p.Extensions)
	return o
}

// inlineSimpleType writes the Swagger 2.0 type/format/items keys of a
// non-body parameter.
func (r *renderer) inlineSimpleType(o *orderedObject, p *Parameter) {
	s := p.Schema.ActualSchema()
	if s == nil {
		o.set("type", "string")
		return
	}
	switch {
	case p.Kind == ParameterFormData && s.IsBinary():
		o.set("type", "file")
		if s.Type == "array" {
			o.set("collectionFormat", "multi")
			return
		}
	case s.Type == "" || s.Type == "object":
		o.set("type", "string")
	default:
		o.set("type", s.Type)
		o.setNonEmpty("format", s.Format)
		if s.Type == "array" && s.Items != nil {
			o.set("items", r.simpleItems(s.Items))
		}
	}
	o.setNonEmpty("collectionFormat", p.CollectionFormat)
	if p.Default != nil {
		o.set("default", p.Default)
	}
	if len(s.Enum) > 0 {
		o.set("enum", s.Enum)
	}
}

func (r *renderer) simpleItems(s *Schema) *orderedObject {
	a := s.ActualSchema()
	o := newObject()
	if a == nil || a.Type == "" || a.Type == "object" {
		o.set("type", "string")
		return o
	}
	o.set("type", a.Type)
	o.setNonEmpty("format", a.Format)
	if len(a.Enum) > 0 {
		o.set("enum", a.Enum)
	}
	if a.Type == "array" && a.Items != nil {
		o.set("items", r.simpleItems(a.Items))
	}
	return o
}

func (r *renderer) requestBody(op *Operation, body *Parameter) *orderedObject {
	o := newObject()
	o.set("x-name", body.Name)
	o.setNonEmpty("description", body.Description)
	content := newObject()
	for _, mt := range op.EffectiveConsumes(r.doc) {
		m := newObject()
		m.setNonEmpty("schema", r.schemaValue(body.Schema))
		content.set(mt, m)
	}
	o.set("content", content)
	o.setNonEmpty("required", body.Required)
	if body.Nullable != nil {
		o.set("x-nullable", *body.Nullable)
	}
	if body.Position > 0 {
		o.set("x-position", body.Position)
	}
	o.setExtensions(body.Extensions)
	return o
}

func (r *renderer) formBody(op *Operation, form []*Parameter) *orderedObject {
	mediaType := "application/x-www-form-urlencoded"
	for _, p := range form {
		if p.IsBinary() {
			mediaType = "multipart/form-data"
		}
	}
	for _, c := range op.Consumes {
		if c == "multipart/form-data" {
			mediaType = c
		}
	}

	schema := newObject()
	schema.set("type", "object")
	props := newObject()
	var required []string
	for _, p := range form {
		ps, ok := r.schema(p.Schema).(*orderedObject)
		if !ok || ps == nil {
			ps = newObject()
		}
		if p.Description != "" {
			if _, exists := ps.values["description"]; !exists {
				ps.set("description", p.Description)
			}
		}
		if p.Position > 0 {
			ps.set("x-position", p.Position)
		}
		props.set(p.Name, ps)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema.set("properties", props)
	schema.setNonEmpty("required", required)

	m := newObject()
	m.set("schema", schema)
	content := newObject()
	content.set(mediaType, m)
	o := newObject()
	o.set("content", content)
	return o
}

func (r *renderer) response(op *Operation, resp *Response) *orderedObject {
	o := newObject()
	o.set("description", resp.Description)
	if resp.Schema != nil {
		if r.dialect == Swagger2 {
			o.set("schema", r.schemaValue(resp.Schema))
		} else {
			content := newObject()
			for _, mt := range op.EffectiveProduces(r.doc) {
				m := newObject()
				m.set("schema", r.schemaValue(resp.Schema))
				content.set(mt, m)
			}
			o.set("content", content)
		}
	}
	if resp.Nullable {
		o.set("x-nullable", true)
	}
	if len(resp.ExpectedSchemas) > 0 {
		expected := make([]any, 0, len(resp.ExpectedSchemas))
		for _, es := range resp.ExpectedSchemas {
			eo := newObject()
			eo.set("description", es.Description)
			eo.setNonEmpty("schema", r.schemaValue(es.Schema))
			expected = append(expected, eo)
		}
		o.set("x-expectedSchemas", expected)
	}
	o.setExtensions(resp.Extensions)
	return o
}

// schemaValue avoids storing a typed nil in an interface.
func (r *renderer) schemaValue(s *Schema) any {
	if s == nil {
		return nil
	}
	return r.schema(s)
}

func (r *renderer) schema(s *Schema) any {
	if s == nil {
		return nil
	}
	o := newObject()
	if s.Ref != "" {
		ref := newObject()
		ref.set("$ref", rewriteRef(s.Ref, r.dialect))
		if !s.Nullable {
			return ref
		}
		if r.dialect == Swagger2 {
			ref.set("x-nullable", true)
			return ref
		}
		o.set("oneOf", []any{ref})
		o.set("nullable", true)
		return o
	}

	o.setNonEmpty("title", s.Title)
	o.setNonEmpty("description", s.Description)
	o.setNonEmpty("type", s.Type)
	o.setNonEmpty("format", s.Format)
	if s.Nullable {
		if r.dialect.SupportsNullable() {
			o.set("nullable", true)
		} else {
			o.set("x-nullable", true)
		}
	}
	if s.Default != nil {
		o.set("default", s.Default)
	}
	if len(s.Enum) > 0 {
		o.set("enum", s.Enum)
	}
	if s.Items != nil {
		o.set("items", r.schema(s.Items))
	}
	if len(s.Properties) > 0 {
		props := newObject()
		for _, name := range sortedKeys(s.Properties) {
			props.set(name, r.schema(s.Properties[name]))
		}
		o.set("properties", props)
	}
	o.setNonEmpty("required", s.Required)
	if s.AdditionalProperties != nil {
		o.set("additionalProperties", r.schema(s.AdditionalProperties))
	}
	o.setNonEmpty("allOf", r.schemaList(s.AllOf))
	if r.dialect == Swagger2 {
		// 2.0 has no oneOf/anyOf; a single-member union is an allOf.
		if len(s.OneOf) == 1 && len(s.AllOf) == 0 {
			o.set("allOf", r.schemaList(s.OneOf))
		} else {
			o.setNonEmpty("x-oneOf", r.schemaList(s.OneOf))
		}
		o.setNonEmpty("x-anyOf", r.schemaList(s.AnyOf))
	} else {
		o.setNonEmpty("oneOf", r.schemaList(s.OneOf))
		o.setNonEmpty("anyOf", r.schemaList(s.AnyOf))
	}
	if s.Example != nil {
		o.set("example", s.Example)
	}
	o.setNonEmpty("readOnly", s.ReadOnly)
	o.setNonEmpty("deprecated", s.Deprecated && r.dialect == OpenAPI3)
	o.setExtensions(s.Extensions)
	return o
}

func (r *renderer) schemaList(list []*Schema) []any {
	if len(list) == 0 {
		return nil
	}
	out := make([]any, 0, len(list))
	for _, s := range list {
		out = append(out, r.schema(s))
	}
	return out
}

// Marshal renders the document as "json" or "yaml" (a leading dot, as in a
// file extension, is accepted).
func (d *Document) Marshal(dialect Dialect, format string) ([]byte, error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		return d.ToYAML(dialect)
	case "json", "":
		return d.ToJSON(dialect)
	default:
		return nil, &oaserrors.ConfigError{Option: "format", Value: format, Message: "expected json or yaml"}
	}
}

// MarshalSchema renders one schema node as compact JSON in the given
// dialect. References use the dialect's definitions prefix.
func MarshalSchema(s *Schema, dialect Dialect) ([]byte, error) {
	r := &renderer{doc: New(), dialect: dialect}
	v := r.schemaValue(s)
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
