package openapi

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/erraggy/oasgen/internal/httputil"
	"github.com/erraggy/oasgen/oaserrors"
)

// Document is the root of a generated or parsed API description.
type Document struct {
	Info     Info
	Host     string
	BasePath string
	Schemes  []string
	Servers  []*Server

	// Consumes and Produces are the document-wide media type defaults.
	Consumes []string
	Produces []string

	Paths       *Paths
	Definitions map[string]*Schema
	Tags        []*Tag
	Extensions  map[string]any

	// SourcePath is the file the document was parsed from, if any.
	SourcePath string
	// SourceDialect is the dialect of the parsed input. Zero for generated
	// documents.
	SourceDialect Dialect
}

// Info is the document metadata block.
type Info struct {
	Title       string
	Description string
	Version     string
}

// Server is an OpenAPI 3.0 server entry.
type Server struct {
	URL         string
	Description string
}

// Tag is a document-level tag declaration.
type Tag struct {
	Name        string
	Description string
	Extensions  map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{
		Paths:       NewPaths(),
		Definitions: make(map[string]*Schema),
	}
}

// AddOperation inserts op at (path, method). Registering the same pair twice
// is an error wrapping oaserrors.ErrDuplicateOperation.
func (d *Document) AddOperation(path, method string, op *Operation) error {
	method = strings.ToLower(method)
	if d.Paths == nil {
		d.Paths = NewPaths()
	}
	item := d.Paths.Get(path)
	if item == nil {
		item = &PathItem{}
		d.Paths.Set(path, item)
	}
	if item.Get(method) != nil {
		return fmt.Errorf("%w: %s %s", oaserrors.ErrDuplicateOperation, strings.ToUpper(method), path)
	}
	item.Set(method, op)
	return nil
}

// Operation returns the operation at (path, method), or nil.
func (d *Document) Operation(path, method string) *Operation {
	if d.Paths == nil {
		return nil
	}
	item := d.Paths.Get(path)
	if item == nil {
		return nil
	}
	return item.Get(strings.ToLower(method))
}

// OperationRef locates an operation in the path table.
type OperationRef struct {
	Path      string
	Method    string
	Operation *Operation
}

// Operations enumerates every operation in path then method insertion order.
func (d *Document) Operations() []OperationRef {
	if d.Paths == nil {
		return nil
	}
	var refs []OperationRef
	for _, path := range d.Paths.Keys() {
		item := d.Paths.Get(path)
		for _, method := range item.Methods() {
			refs = append(refs, OperationRef{Path: path, Method: method, Operation: item.Get(method)})
		}
	}
	return refs
}

// Tag returns the declared tag with the given name, or nil.
func (d *Document) Tag(name string) *Tag {
	for _, t := range d.Tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddTag declares a tag unless one with the same name exists. A non-empty
// description fills in an existing tag that has none.
func (d *Document) AddTag(name, description string) *Tag {
	if t := d.Tag(name); t != nil {
		if t.Description == "" {
			t.Description = description
		}
		return t
	}
	t := &Tag{Name: name, Description: description}
	d.Tags = append(d.Tags, t)
	return t
}

// Paths is an insertion-ordered path table.
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

// NewPaths returns an empty path table.
func NewPaths() *Paths {
	return &Paths{items: make(map[string]*PathItem)}
}

// Get returns the path item for path, or nil.
func (p *Paths) Get(path string) *PathItem {
	return p.items[path]
}

// Set stores item at path, appending path to the order if new.
func (p *Paths) Set(path string, item *PathItem) {
	if _, ok := p.items[path]; !ok {
		p.keys = append(p.keys, path)
	}
	p.items[path] = item
}

// Delete removes path.
func (p *Paths) Delete(path string) {
	if _, ok := p.items[path]; !ok {
		return
	}
	delete(p.items, path)
	p.keys = slices.DeleteFunc(p.keys, func(k string) bool { return k == path })
}

// Keys returns the paths in insertion order.
func (p *Paths) Keys() []string {
	return slices.Clone(p.keys)
}

// Len returns the number of paths.
func (p *Paths) Len() int {
	return len(p.keys)
}

// PathItem maps lower-case HTTP methods to operations, in insertion order.
type PathItem struct {
	methods []string
	ops     map[string]*Operation
}

// Get returns the operation for method, or nil.
func (p *PathItem) Get(method string) *Operation {
	return p.ops[strings.ToLower(method)]
}

// Set stores op under method.
func (p *PathItem) Set(method string, op *Operation) {
	method = strings.ToLower(method)
	if p.ops == nil {
		p.ops = make(map[string]*Operation)
	}
	if _, ok := p.ops[method]; !ok {
		p.methods = append(p.methods, method)
	}
	p.ops[method] = op
}

// Methods returns the methods in insertion order.
func (p *PathItem) Methods() []string {
	return slices.Clone(p.methods)
}

// Operation is one verb+path endpoint.
type Operation struct {
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Parameters  []*Parameter
	// Responses is keyed by status code string, including "default".
	Responses  map[string]*Response
	Consumes   []string
	Produces   []string
	Deprecated bool
	Extensions map[string]any
}

// Clone returns a copy of o with its own parameter, response, media type and
// extension containers. Schemas are shared.
func (o *Operation) Clone() *Operation {
	if o == nil {
		return nil
	}
	c := *o
	c.Tags = slices.Clone(o.Tags)
	c.Consumes = slices.Clone(o.Consumes)
	c.Produces = slices.Clone(o.Produces)
	c.Extensions = maps.Clone(o.Extensions)
	c.Parameters = make([]*Parameter, len(o.Parameters))
	for i, p := range o.Parameters {
		cp := *p
		cp.Extensions = maps.Clone(p.Extensions)
		c.Parameters[i] = &cp
	}
	if o.Responses != nil {
		c.Responses = make(map[string]*Response, len(o.Responses))
		for code, r := range o.Responses {
			cr := *r
			cr.ExpectedSchemas = slices.Clone(r.ExpectedSchemas)
			cr.Extensions = maps.Clone(r.Extensions)
			c.Responses[code] = &cr
		}
	}
	return &c
}

// BodyParameter returns the first body parameter, or nil.
func (o *Operation) BodyParameter() *Parameter {
	for _, p := range o.Parameters {
		if p.Kind == ParameterBody {
			return p
		}
	}
	return nil
}

// ParametersOfKind returns the parameters of kind k in order.
func (o *Operation) ParametersOfKind(k ParameterKind) []*Parameter {
	var out []*Parameter
	for _, p := range o.Parameters {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Parameter returns the parameter with the given name and kind, or nil.
func (o *Operation) Parameter(name string, k ParameterKind) *Parameter {
	for _, p := range o.Parameters {
		if p.Kind == k && p.Name == name {
			return p
		}
	}
	return nil
}

// SetResponse stores r under code, allocating the map if needed.
func (o *Operation) SetResponse(code string, r *Response) {
	if o.Responses == nil {
		o.Responses = make(map[string]*Response)
	}
	o.Responses[code] = r
}

// ResponseCodes returns status codes sorted numerically, with non-numeric
// codes after numeric ones and "default" last.
func (o *Operation) ResponseCodes() []string {
	codes := make([]string, 0, len(o.Responses))
	for code := range o.Responses {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return httputil.StatusCodeLess(codes[i], codes[j])
	})
	return codes
}

// AddConsumes appends media types not already present.
func (o *Operation) AddConsumes(mediaTypes ...string) {
	o.Consumes = appendUnique(o.Consumes, mediaTypes...)
}

// AddProduces appends media types not already present.
func (o *Operation) AddProduces(mediaTypes ...string) {
	o.Produces = appendUnique(o.Produces, mediaTypes...)
}

// ParameterKind is where a parameter is carried.
type ParameterKind int

const (
	// ParameterPath is a path template placeholder.
	ParameterPath ParameterKind = iota + 1
	// ParameterQuery is a query string value.
	ParameterQuery
	// ParameterHeader is a request header.
	ParameterHeader
	// ParameterFormData is a form field.
	ParameterFormData
	// ParameterBody is the request payload.
	ParameterBody
)

// String returns the Swagger 2.0 "in" value.
func (k ParameterKind) String() string {
	switch k {
	case ParameterPath:
		return "path"
	case ParameterQuery:
		return "query"
	case ParameterHeader:
		return "header"
	case ParameterFormData:
		return "formData"
	case ParameterBody:
		return "body"
	default:
		return "unknown"
	}
}

// ParseParameterKind maps an "in" value to a kind.
func ParseParameterKind(in string) (ParameterKind, bool) {
	switch in {
	case "path":
		return ParameterPath, true
	case "query":
		return ParameterQuery, true
	case "header":
		return ParameterHeader, true
	case "formData":
		return ParameterFormData, true
	case "body":
		return ParameterBody, true
	}
	return 0, false
}

// Parameter is one operation input.
type Parameter struct {
	Name        string
	Kind        ParameterKind
	Description string
	Required    bool
	// Nullable is the raw nullability marker; nil means unknown.
	Nullable *bool
	Schema   *Schema
	// Default mirrors the declared default value.
	Default          any
	CollectionFormat string
	// Position is the 1-based ordinal among the method's parameters (0 = unset).
	Position   int
	Deprecated bool
	Extensions map[string]any
}

// IsBinary reports whether the parameter carries a file or stream.
func (p *Parameter) IsBinary() bool {
	return p.Schema.IsBinary()
}

// Response is one status-code entry of an operation.
type Response struct {
	Description string
	Schema      *Schema
	Nullable    bool
	// ExpectedSchemas lists each declared type when several map to one status code.
	ExpectedSchemas []*ExpectedSchema
	Extensions      map[string]any
}

// ExpectedSchema pairs one member of a response union with its description.
type ExpectedSchema struct {
	Description string
	Schema      *Schema
}

func appendUnique(list []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	return list
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
