package apimeta

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	timeType       = reflect.TypeFor[time.Time]()
	uuidType       = reflect.TypeFor[uuid.UUID]()
	contextType    = reflect.TypeFor[context.Context]()
	readerType     = reflect.TypeFor[io.Reader]()
	readCloserType = reflect.TypeFor[io.ReadCloser]()
	fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()
	errorType      = reflect.TypeFor[error]()
	byteSliceType  = reflect.TypeFor[[]byte]()
)

// pkgName returns the last element of t's package path, or "" for
// predeclared and unnamed types.
func pkgName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return ""
	}
	return path.Base(t.PkgPath())
}

// Registry maps Go types to Types. It is safe for concurrent use.
//
// Struct types become named objects: exported fields become properties named
// by their json tag, the first embedded struct becomes the Base, and fields of
// further embedded structs are promoted. Pointer types are nullable. Register
// interfaces and enums before the first TypeOf call that needs them.
type Registry struct {
	mu         sync.Mutex
	types      map[reflect.Type]*Type
	interfaces []reflect.Type
	enums      map[reflect.Type][]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[reflect.Type]*Type),
		enums: make(map[reflect.Type][]any),
	}
}

// RegisterInterface records an interface type. Struct types implementing it
// (by value or pointer) list it in Interfaces, in registration order.
func (r *Registry) RegisterInterface(iface reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if iface.Kind() == reflect.Pointer {
		iface = iface.Elem()
	}
	r.interfaces = append(r.interfaces, iface)
}

// RegisterEnum records the allowed values of a named scalar type.
func (r *Registry) RegisterEnum(t reflect.Type, values ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enums[t] = values
}

// TypeOf returns the Type for t, building and caching it on first use.
func (r *Registry) TypeOf(t reflect.Type) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.typeOf(t)
}

func (r *Registry) typeOf(t reflect.Type) *Type {
	if t == nil {
		return Void
	}
	if cached, ok := r.types[t]; ok {
		return cached
	}
	if special := specialType(t); special != nil {
		return special
	}

	switch t.Kind() {
	case reflect.Pointer:
		return PointerTo(r.typeOf(t.Elem()))
	case reflect.Slice, reflect.Array:
		if t == byteSliceType {
			return Bytes
		}
		return ArrayOf(r.typeOf(t.Elem()))
	case reflect.Map:
		return MapOf(r.typeOf(t.Elem()))
	case reflect.Struct:
		return r.structType(t)
	case reflect.Interface:
		if t.NumMethod() == 0 || t.Name() == "" {
			return Object
		}
		out := NewInterface(pkgName(t), t.Name())
		r.types[t] = out
		return out
	}

	var scalar *Type
	switch t.Kind() {
	case reflect.String:
		scalar = String
	case reflect.Bool:
		scalar = Bool
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		scalar = Int64
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		scalar = Int32
	case reflect.Float32:
		scalar = Float
	case reflect.Float64:
		scalar = Double
	default:
		return Object
	}
	if values, ok := r.enums[t]; ok {
		e := NewEnum(pkgName(t), t.Name(), values...)
		e.Format = scalar.Format
		if scalar.Kind != KindString {
			e.Elem = scalar
		}
		r.types[t] = e
		return e
	}
	return scalar
}

// specialType maps library types with a fixed wire shape.
func specialType(t reflect.Type) *Type {
	switch t {
	case timeType:
		return DateTime
	case uuidType:
		return UUID
	case contextType:
		return Cancellation
	case readerType, readCloserType:
		return Stream
	case fileHeaderType:
		return File
	}
	if t.Kind() == reflect.Slice && t.Elem() == fileHeaderType {
		return FileCollection
	}
	return nil
}

func (r *Registry) structType(t reflect.Type) *Type {
	// Anonymous structs keep an empty name and are rendered inline.
	out := NewObject(pkgName(t), t.Name())
	r.types[t] = out

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() != reflect.Struct {
				continue
			}
			embedded := r.typeOf(ft)
			if out.Base == nil && ft.Name() != "" {
				out.Base = embedded
				continue
			}
			for _, p := range embedded.AllProperties() {
				if out.Property(p.Name) == nil {
					out.Properties = append(out.Properties, p)
				}
			}
			continue
		}
		if p := r.property(field); p != nil {
			out.Properties = append(out.Properties, p)
		}
	}

	for _, iface := range r.interfaces {
		if t.Implements(iface) || reflect.PointerTo(t).Implements(iface) {
			out.Interfaces = append(out.Interfaces, r.typeOf(iface))
		}
	}
	return out
}

// property builds a property from a struct field. The json tag names the
// property; the oas tag accepts description, required, format, enum, and
// ignore entries.
func (r *Registry) property(field reflect.StructField) *Property {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return nil
	}
	name, opts, _ := strings.Cut(jsonTag, ",")
	if name == "" {
		name = field.Name
	}
	oas := parseOASTag(field.Tag.Get("oas"))
	if _, ignored := oas["ignore"]; ignored {
		return nil
	}

	p := &Property{
		Name:        name,
		Type:        r.typeOf(field.Type),
		Description: oas["description"],
		Required:    field.Type.Kind() != reflect.Pointer && !strings.Contains(opts, "omitempty"),
	}
	if v, ok := oas["required"]; ok {
		p.Required = v == "" || v == "true"
	}
	if format := oas["format"]; format != "" && p.Type.IsPrimitive() {
		cp := *p.Type.Deref()
		cp.Format = format
		p.Type = &cp
	}
	if enum := oas["enum"]; enum != "" {
		values := strings.Split(enum, "|")
		anon := &Type{Kind: KindEnum, Format: p.Type.Deref().Format}
		for _, v := range values {
			anon.EnumValues = append(anon.EnumValues, strings.TrimSpace(v))
		}
		p.Type = anon
	}
	return p
}

// parseOASTag splits `oas:"description=User ID,required"` into key/value
// pairs. A bare key maps to "".
func parseOASTag(tag string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// Annotated is implemented by controller values that describe their
// methods beyond what reflection can see.
type Annotated interface {
	Annotations() Annotations
}

// Annotations carries controller-level and per-method metadata.
type Annotations struct {
	Attributes []Attribute
	Docs       Docs
	// Methods is keyed by Go method name.
	Methods map[string]MethodAnnotations
}

// MethodAnnotations describes one method.
type MethodAnnotations struct {
	// Params names the parameters in order, skipping context.Context.
	Params []string
	// ParamAttributes is keyed by parameter name.
	ParamAttributes map[string][]Attribute
	// Defaults holds declared default values keyed by parameter name.
	Defaults   map[string]any
	Attributes []Attribute
	Docs       Docs
}

// ControllerOf builds a controller from a Go value. Every exported method is
// listed; the builder skips those annotated with NonAction. A trailing error
// result is dropped and a method with no other result returns void.
func (r *Registry) ControllerOf(v any) (*Controller, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("apimeta: nil controller")
	}
	rt := rv.Type()
	base := rt
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	var ann Annotations
	if a, ok := v.(Annotated); ok {
		ann = a.Annotations()
	}
	c := &Controller{
		Name:       base.Name(),
		Attributes: ann.Attributes,
		Docs:       ann.Docs,
	}
	if base.Kind() == reflect.Struct {
		c.Type = r.TypeOf(base)
	}

	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if _, ok := v.(Annotated); ok && m.Name == "Annotations" {
			continue
		}
		ma := ann.Methods[m.Name]
		method, err := r.method(m, ma)
		if err != nil {
			return nil, fmt.Errorf("apimeta: %s.%s: %w", c.Name, m.Name, err)
		}
		c.Methods = append(c.Methods, method)
	}
	return c, nil
}

func (r *Registry) method(m reflect.Method, ann MethodAnnotations) (*Method, error) {
	ft := m.Type
	out := &Method{Name: m.Name, Attributes: ann.Attributes, Docs: ann.Docs}

	named := 0
	for i := 1; i < ft.NumIn(); i++ {
		in := ft.In(i)
		pt := r.TypeOf(in)
		p := &Parameter{Type: pt}
		if pt.Kind == KindCancellation {
			p.Name = "ctx"
		} else {
			if named < len(ann.Params) {
				p.Name = ann.Params[named]
			} else {
				p.Name = fmt.Sprintf("p%d", named)
			}
			named++
		}
		p.Attributes = ann.ParamAttributes[p.Name]
		if d, ok := ann.Defaults[p.Name]; ok {
			p.HasDefault = true
			p.Default = d
		}
		out.Parameters = append(out.Parameters, p)
	}
	if named < len(ann.Params) {
		return nil, fmt.Errorf("%d parameter names for %d parameters", len(ann.Params), named)
	}

	results := make([]reflect.Type, 0, ft.NumOut())
	for i := 0; i < ft.NumOut(); i++ {
		results = append(results, ft.Out(i))
	}
	if n := len(results); n > 0 && results[n-1] == errorType {
		results = results[:n-1]
	}
	switch len(results) {
	case 0:
		out.Returns = Void
	case 1:
		out.Returns = r.TypeOf(results[0])
	default:
		return nil, fmt.Errorf("%d results; want at most one value and an error", len(results))
	}
	return out, nil
}
