package apimeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
	"sigs.k8s.io/yaml"
)

// Descriptions is an API surface read from a description file.
type Descriptions struct {
	// Types holds the declared named types by name.
	Types           map[string]*Type
	Controllers     []*Controller
	APIDescriptions []*APIDescription

	generics  map[string]*typeDecl
	instances map[string]*Type
}

type descriptionFile struct {
	Types           map[string]*typeDecl  `json:"types"`
	Controllers     []*controllerDecl     `json:"controllers"`
	APIDescriptions []*apiDescriptionDecl `json:"apiDescriptions"`
}

type typeDecl struct {
	Kind        string          `json:"kind"`
	Package     string          `json:"package"`
	Base        string          `json:"base"`
	Interfaces  []string        `json:"interfaces"`
	Description string          `json:"description"`
	Properties  []*propertyDecl `json:"properties"`
	Enum        []any           `json:"enum"`
	EnumType    string          `json:"enumType"`
	TypeParams  []string        `json:"typeParams"`
	Attributes  []attributeDecl `json:"attributes"`
}

type propertyDecl struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Required    bool            `json:"required"`
	Description string          `json:"description"`
	Attributes  []attributeDecl `json:"attributes"`
}

type controllerDecl struct {
	Name       string          `json:"name"`
	Base       string          `json:"base"`
	Attributes []attributeDecl `json:"attributes"`
	Docs       docsDecl        `json:"docs"`
	Methods    []*methodDecl   `json:"methods"`
}

type methodDecl struct {
	Name       string           `json:"name"`
	Returns    string           `json:"returns"`
	Parameters []*parameterDecl `json:"parameters"`
	Attributes []attributeDecl  `json:"attributes"`
	Docs       docsDecl         `json:"docs"`
}

type parameterDecl struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Default     json.RawMessage `json:"default"`
	Description string          `json:"description"`
	Attributes  []attributeDecl `json:"attributes"`
}

type docsDecl struct {
	Summary string            `json:"summary"`
	Remarks string            `json:"remarks"`
	Returns string            `json:"returns"`
	Params  map[string]string `json:"params"`
}

type apiDescriptionDecl struct {
	Controller string              `json:"controller"`
	Method     string              `json:"method"`
	HTTPMethod string              `json:"httpMethod"`
	Path       string              `json:"path"`
	Consumes   []string            `json:"consumes"`
	Produces   []string            `json:"produces"`
	Parameters []*apiParameterDecl `json:"parameters"`
	Responses  []*apiResponseDecl  `json:"responses"`
}

type apiParameterDecl struct {
	Name      string `json:"name"`
	Source    string `json:"source"`
	Type      string `json:"type"`
	Parameter string `json:"parameter"`
	Required  bool   `json:"required"`
}

type apiResponseDecl struct {
	StatusCode any    `json:"statusCode"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	Default    bool   `json:"default"`
}

// attributeDecl is either a bare name or {name, props}.
type attributeDecl struct {
	Name  string         `json:"name"`
	Props map[string]any `json:"props"`
}

func (a *attributeDecl) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		return nil
	}
	type plain attributeDecl
	return json.Unmarshal(data, (*plain)(a))
}

// LoadDescriptions reads a YAML or JSON description file.
func LoadDescriptions(path string) (*Descriptions, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: caller-supplied description path
	if err != nil {
		return nil, &oaserrors.ParseError{Path: path, Message: "read description file", Cause: err}
	}
	d, err := ParseDescriptions(data)
	if err != nil {
		var pe *oaserrors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return d, nil
}

// ParseDescriptions decodes a YAML or JSON description document.
//
// Type expressions: int, int32, int64, long, float, double, number, bool,
// string, datetime, uuid, bytes, file, files, stream, xml, void, object,
// context, []T, *T (nullable), map[string]T, Task[T], Task, a declared type
// name, or a declared generic type instantiated as Name[T1,T2].
func ParseDescriptions(data []byte) (*Descriptions, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "invalid YAML", Cause: err}
	}
	dec := json.NewDecoder(strings.NewReader(string(jsonData)))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var f descriptionFile
	if err := dec.Decode(&f); err != nil {
		return nil, &oaserrors.ParseError{Message: "invalid description file", Cause: err}
	}

	d := &Descriptions{
		Types:     make(map[string]*Type),
		generics:  make(map[string]*typeDecl),
		instances: make(map[string]*Type),
	}
	if err := d.declareTypes(f.Types); err != nil {
		return nil, err
	}
	if err := d.buildControllers(f.Controllers); err != nil {
		return nil, err
	}
	if err := d.buildAPIDescriptions(f.APIDescriptions); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Descriptions) declareTypes(decls map[string]*typeDecl) error {
	// Shells first so declarations can refer to each other in any order.
	for name, decl := range decls {
		if len(decl.TypeParams) > 0 {
			d.generics[name] = decl
			continue
		}
		t := &Type{Name: name, Package: decl.Package, Description: decl.Description}
		switch decl.Kind {
		case "", "object":
			t.Kind = KindObject
		case "interface":
			t.Kind = KindInterface
		case "enum":
			t.Kind = KindEnum
		default:
			return &oaserrors.ParseError{Message: fmt.Sprintf("type %s: unknown kind %q", name, decl.Kind)}
		}
		d.Types[name] = t
	}
	for name, t := range d.Types {
		if err := d.fillType(t, decls[name], nil); err != nil {
			return &oaserrors.ParseError{Message: "type " + name, Cause: err}
		}
	}
	return nil
}

// fillType completes a declared type. scope binds generic parameters.
func (d *Descriptions) fillType(t *Type, decl *typeDecl, scope map[string]*Type) error {
	var err error
	if decl.Base != "" {
		if t.Base, err = d.resolve(decl.Base, scope); err != nil {
			return err
		}
	}
	for _, iface := range decl.Interfaces {
		it, err := d.resolve(iface, scope)
		if err != nil {
			return err
		}
		t.Interfaces = append(t.Interfaces, it)
	}
	for _, pd := range decl.Properties {
		pt, err := d.resolve(pd.Type, scope)
		if err != nil {
			return fmt.Errorf("property %s: %w", pd.Name, err)
		}
		attrs, err := d.attributes(pd.Attributes)
		if err != nil {
			return err
		}
		t.Properties = append(t.Properties, &Property{
			Name:        pd.Name,
			Type:        pt,
			Required:    pd.Required,
			Description: pd.Description,
			Attributes:  attrs,
		})
	}
	if t.Kind == KindEnum {
		t.EnumValues = plainNumbers(decl.Enum)
		switch decl.EnumType {
		case "", "string":
		case "int", "int32", "integer":
			t.Elem, t.Format = Int32, "int32"
		case "int64", "long":
			t.Elem, t.Format = Int64, "int64"
		default:
			return fmt.Errorf("unknown enum type %q", decl.EnumType)
		}
	}
	if t.Attributes, err = d.attributes(decl.Attributes); err != nil {
		return err
	}
	return nil
}

// plainNumbers converts json.Number values to int64 or float64.
func plainNumbers(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if n, ok := v.(json.Number); ok {
			if iv, err := n.Int64(); err == nil {
				out[i] = iv
				continue
			}
			fv, _ := n.Float64()
			out[i] = fv
			continue
		}
		out[i] = v
	}
	return out
}

func (d *Descriptions) attributes(decls []attributeDecl) ([]Attribute, error) {
	var out []Attribute
	for _, ad := range decls {
		props := make(map[string]any, len(ad.Props))
		for k, v := range ad.Props {
			if n, ok := v.(json.Number); ok {
				v = plainNumbers([]any{n})[0]
			}
			props[k] = v
		}
		a, err := DecodeAttribute(ad.Name, props, d.ResolveType)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ResolveType resolves a type expression against the declared types.
func (d *Descriptions) ResolveType(expr string) (*Type, error) {
	return d.resolve(expr, nil)
}

var builtinTypes = map[string]*Type{
	"int":          Int32,
	"int32":        Int32,
	"int64":        Int64,
	"long":         Int64,
	"float":        Float,
	"float32":      Float,
	"double":       Double,
	"float64":      Double,
	"number":       Double,
	"bool":         Bool,
	"boolean":      Bool,
	"string":       String,
	"datetime":     DateTime,
	"date-time":    DateTime,
	"uuid":         UUID,
	"guid":         UUID,
	"bytes":        Bytes,
	"file":         File,
	"files":        FileCollection,
	"stream":       Stream,
	"xml":          XMLDocument,
	"void":         Void,
	"object":       Object,
	"any":          Object,
	"context":      Cancellation,
	"cancellation": Cancellation,
	"Task":         VoidTask,
}

func (d *Descriptions) resolve(expr string, scope map[string]*Type) (*Type, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return nil, fmt.Errorf("empty type expression")
	case strings.HasPrefix(expr, "*"):
		t, err := d.resolve(expr[1:], scope)
		if err != nil {
			return nil, err
		}
		return PointerTo(t), nil
	case strings.HasPrefix(expr, "[]"):
		t, err := d.resolve(expr[2:], scope)
		if err != nil {
			return nil, err
		}
		return ArrayOf(t), nil
	case strings.HasPrefix(expr, "map[string]"):
		t, err := d.resolve(expr[len("map[string]"):], scope)
		if err != nil {
			return nil, err
		}
		return MapOf(t), nil
	}
	if t, ok := scope[expr]; ok {
		return t, nil
	}
	if t, ok := builtinTypes[expr]; ok {
		return t, nil
	}
	if t, ok := d.Types[expr]; ok {
		return t, nil
	}

	base, args, ok := splitGeneric(expr)
	if !ok {
		return nil, &oaserrors.LookupError{Kind: "type", Name: expr}
	}
	argTypes := make([]*Type, len(args))
	for i, a := range args {
		t, err := d.resolve(a, scope)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}
	if base == "Task" {
		if len(argTypes) != 1 {
			return nil, fmt.Errorf("task takes one type argument, got %d", len(argTypes))
		}
		return TaskOf(argTypes[0]), nil
	}
	return d.instantiate(base, argTypes)
}

// instantiate builds (once) a named instance of a generic declaration.
func (d *Descriptions) instantiate(name string, args []*Type) (*Type, error) {
	decl, ok := d.generics[name]
	if !ok {
		return nil, &oaserrors.LookupError{Kind: "type", Name: name}
	}
	if len(args) != len(decl.TypeParams) {
		return nil, fmt.Errorf("%s takes %d type arguments, got %d", name, len(decl.TypeParams), len(args))
	}
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = typeKey(a)
	}
	key := name + "[" + strings.Join(names, ",") + "]"
	if t, ok := d.instances[key]; ok {
		return t, nil
	}
	t := &Type{Name: name, Package: decl.Package, Kind: KindObject, Description: decl.Description, GenericArgs: args}
	d.instances[key] = t
	scope := make(map[string]*Type, len(args))
	for i, p := range decl.TypeParams {
		scope[p] = args[i]
	}
	if err := d.fillType(t, decl, scope); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

// typeKey is a stable identity string for instance caching.
func typeKey(t *Type) string {
	switch {
	case t.IsNamed():
		return t.QualifiedName()
	case t.Elem != nil:
		return t.Kind.String() + "<" + typeKey(t.Elem) + ">"
	default:
		return t.Kind.String() + ":" + t.Format
	}
}

// splitGeneric splits "Name[A,B[C]]" into "Name" and ["A", "B[C]"].
func splitGeneric(expr string) (string, []string, bool) {
	open := strings.Index(expr, "[")
	if open <= 0 || !strings.HasSuffix(expr, "]") {
		return "", nil, false
	}
	var args []string
	depth, start := 0, open+1
	inner := expr[:len(expr)-1]
	for i := open + 1; i < len(inner); i++ {
		switch inner[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))
	return expr[:open], args, true
}

func (d *Descriptions) buildControllers(decls []*controllerDecl) error {
	byName := make(map[string]*controllerDecl, len(decls))
	for _, cd := range decls {
		byName[cd.Name] = cd
	}
	types := make(map[string]*Type, len(decls))
	var typeFor func(name string, depth int) (*Type, error)
	typeFor = func(name string, depth int) (*Type, error) {
		if t, ok := types[name]; ok {
			return t, nil
		}
		cd, ok := byName[name]
		if !ok {
			return nil, &oaserrors.LookupError{Kind: "controller", Name: name}
		}
		if depth > len(decls) {
			return nil, fmt.Errorf("controller %s: inheritance cycle", name)
		}
		t := NewObject("", name)
		if cd.Base != "" {
			b, err := typeFor(cd.Base, depth+1)
			if err != nil {
				return nil, err
			}
			t.Base = b
		}
		types[name] = t
		return t, nil
	}

	for _, cd := range decls {
		ct, err := typeFor(cd.Name, 0)
		if err != nil {
			return &oaserrors.ParseError{Message: "controller " + cd.Name, Cause: err}
		}
		attrs, err := d.attributes(cd.Attributes)
		if err != nil {
			return err
		}
		c := &Controller{Name: cd.Name, Type: ct, Attributes: attrs, Docs: cd.Docs.docs()}
		// Own methods first, then inherited ones declared by each base.
		for owner := cd; owner != nil; owner = byName[owner.Base] {
			declaring := types[owner.Name]
			for _, md := range owner.Methods {
				m, err := d.method(md)
				if err != nil {
					return &oaserrors.ParseError{Message: fmt.Sprintf("controller %s method %s", cd.Name, md.Name), Cause: err}
				}
				m.DeclaringType = declaring
				c.Methods = append(c.Methods, m)
			}
			if owner.Base == "" {
				break
			}
		}
		d.Controllers = append(d.Controllers, c)
	}
	return nil
}

func (d *Descriptions) method(md *methodDecl) (*Method, error) {
	m := &Method{Name: md.Name, Returns: Void, Docs: md.Docs.docs()}
	if md.Returns != "" {
		t, err := d.ResolveType(md.Returns)
		if err != nil {
			return nil, err
		}
		m.Returns = t
	}
	var err error
	if m.Attributes, err = d.attributes(md.Attributes); err != nil {
		return nil, err
	}
	for _, pd := range md.Parameters {
		pt, err := d.ResolveType(pd.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", pd.Name, err)
		}
		p := &Parameter{Name: pd.Name, Type: pt}
		if len(pd.Default) > 0 {
			var v any
			dec := json.NewDecoder(strings.NewReader(string(pd.Default)))
			dec.UseNumber()
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("parameter %s default: %w", pd.Name, err)
			}
			p.HasDefault = true
			p.Default = plainNumbers([]any{v})[0]
		}
		if p.Attributes, err = d.attributes(pd.Attributes); err != nil {
			return nil, err
		}
		if pd.Description != "" {
			if m.Docs.Params == nil {
				m.Docs.Params = make(map[string]string)
			}
			m.Docs.Params[pd.Name] = pd.Description
		}
		m.Parameters = append(m.Parameters, p)
	}
	return m, nil
}

func (dd docsDecl) docs() Docs {
	return Docs{Summary: dd.Summary, Remarks: dd.Remarks, Returns: dd.Returns, Params: dd.Params}
}

// Controller returns the controller with the given name, or nil.
func (d *Descriptions) Controller(name string) *Controller {
	for _, c := range d.Controllers {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Select returns a view of d restricted to the controllers matching
// patterns, as SelectControllers matches them, and to the API descriptions
// of those controllers. No patterns returns d itself. d is not modified.
func (d *Descriptions) Select(patterns []string) (*Descriptions, error) {
	if len(patterns) == 0 {
		return d, nil
	}
	controllers, err := SelectControllers(d.Controllers, patterns)
	if err != nil {
		return nil, err
	}
	out := *d
	out.Controllers = controllers
	out.APIDescriptions = nil
	for _, ad := range d.APIDescriptions {
		if slices.Contains(controllers, ad.Controller) {
			out.APIDescriptions = append(out.APIDescriptions, ad)
		}
	}
	return &out, nil
}

func (d *Descriptions) buildAPIDescriptions(decls []*apiDescriptionDecl) error {
	for i, ad := range decls {
		desc, err := d.apiDescription(ad)
		if err != nil {
			return &oaserrors.ParseError{Message: fmt.Sprintf("apiDescriptions[%d]", i), Cause: err}
		}
		d.APIDescriptions = append(d.APIDescriptions, desc)
	}
	return nil
}

func (d *Descriptions) apiDescription(ad *apiDescriptionDecl) (*APIDescription, error) {
	c := d.Controller(ad.Controller)
	if c == nil {
		return nil, &oaserrors.LookupError{Kind: "controller", Name: ad.Controller}
	}
	var m *Method
	for _, cm := range c.Methods {
		if cm.Name == ad.Method {
			m = cm
			break
		}
	}
	if m == nil {
		return nil, &oaserrors.LookupError{Kind: "method", Name: ad.Controller + "." + ad.Method}
	}
	desc := &APIDescription{
		Controller:   c,
		Method:       m,
		HTTPMethod:   strings.ToUpper(ad.HTTPMethod),
		RelativePath: ad.Path,
		Consumes:     ad.Consumes,
		Produces:     ad.Produces,
	}
	for _, pd := range ad.Parameters {
		src, ok := ParseBindingSource(pd.Source)
		if !ok {
			return nil, fmt.Errorf("parameter %s: unknown binding source %q", pd.Name, pd.Source)
		}
		ap := &APIParameter{Name: pd.Name, Source: src, IsRequired: pd.Required}
		target := pd.Parameter
		if target == "" {
			target = pd.Name
		}
		for _, mp := range m.Parameters {
			if mp.Name == target {
				ap.Parameter = mp
				ap.Type = mp.Type
			}
		}
		if pd.Type != "" {
			t, err := d.ResolveType(pd.Type)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", pd.Name, err)
			}
			ap.Type = t
		}
		if ap.Type == nil {
			ap.Type = String
		}
		desc.Parameters = append(desc.Parameters, ap)
	}
	for _, rd := range ad.Responses {
		code, err := props{"statuscode": rd.StatusCode}.statusCode("statuscode")
		if err != nil {
			return nil, err
		}
		rt := &APIResponseType{StatusCode: code, IsNullable: rd.Nullable, IsDefault: rd.Default}
		if rd.Type != "" {
			t, err := d.ResolveType(rd.Type)
			if err != nil {
				return nil, err
			}
			rt.Type = t
		}
		desc.ResponseTypes = append(desc.ResponseTypes, rt)
	}
	return desc, nil
}
