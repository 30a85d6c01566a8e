package apimeta

import "slices"

// Kind classifies a Type.
type Kind int

const (
	// KindAny is the root object type every other type is assignable to.
	KindAny Kind = iota + 1
	// KindObject is a named or anonymous structured type.
	KindObject
	// KindInterface is a named abstract type.
	KindInterface
	// KindEnum is a named set of values.
	KindEnum
	// KindString is a string, including formatted strings such as date-time.
	KindString
	// KindInteger is a whole number.
	KindInteger
	// KindNumber is a floating point number.
	KindNumber
	// KindBoolean is a boolean.
	KindBoolean
	// KindArray is a sequence of Elem.
	KindArray
	// KindMap is a string-keyed dictionary of Elem.
	KindMap
	// KindPointer is a nullable reference to Elem.
	KindPointer
	// KindTask wraps an asynchronous result. A nil Elem means no result.
	KindTask
	// KindVoid is the absence of a value.
	KindVoid
	// KindFile is an uploaded file.
	KindFile
	// KindStream is a raw byte stream.
	KindStream
	// KindXMLDocument is an XML document body.
	KindXMLDocument
	// KindCancellation is a cancellation signal that never appears in documents.
	KindCancellation
)

var kindNames = map[Kind]string{
	KindAny:          "any",
	KindObject:       "object",
	KindInterface:    "interface",
	KindEnum:         "enum",
	KindString:       "string",
	KindInteger:      "integer",
	KindNumber:       "number",
	KindBoolean:      "boolean",
	KindArray:        "array",
	KindMap:          "map",
	KindPointer:      "pointer",
	KindTask:         "task",
	KindVoid:         "void",
	KindFile:         "file",
	KindStream:       "stream",
	KindXMLDocument:  "xml",
	KindCancellation: "cancellation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Type describes one type of the API surface.
//
// Named types (Object, Interface, Enum with a non-empty Name) have identity:
// two uses of the same named type share one *Type.
type Type struct {
	Name    string
	Package string
	Kind    Kind
	// Format refines primitive kinds ("int32", "int64", "double", "date-time", ...).
	Format string
	// Elem is the item type of arrays, the value type of maps, the target of
	// pointers, and the result of tasks.
	Elem *Type
	// Base is the parent type, if any.
	Base *Type
	// Interfaces are the implemented abstract types in declared order.
	Interfaces []*Type
	Properties []*Property
	EnumValues []any
	// GenericArgs are the type arguments of an instantiated generic type.
	GenericArgs []*Type
	Description string
	Attributes  []Attribute
}

// Property is one member of an object type.
type Property struct {
	// Name is the serialized member name.
	Name        string
	Type        *Type
	Required    bool
	Description string
	Attributes  []Attribute
}

// Well-known types shared by every source.
var (
	Object         = &Type{Name: "Object", Kind: KindAny}
	Void           = &Type{Kind: KindVoid}
	String         = &Type{Kind: KindString}
	Int32          = &Type{Kind: KindInteger, Format: "int32"}
	Int64          = &Type{Kind: KindInteger, Format: "int64"}
	Float          = &Type{Kind: KindNumber, Format: "float"}
	Double         = &Type{Kind: KindNumber, Format: "double"}
	Bool           = &Type{Kind: KindBoolean}
	Bytes          = &Type{Kind: KindString, Format: "byte"}
	DateTime       = &Type{Kind: KindString, Format: "date-time"}
	UUID           = &Type{Kind: KindString, Format: "uuid"}
	File           = &Type{Kind: KindFile}
	FileCollection = &Type{Kind: KindArray, Elem: File}
	Stream         = &Type{Kind: KindStream}
	XMLDocument    = &Type{Kind: KindXMLDocument}
	Cancellation   = &Type{Kind: KindCancellation}
	VoidTask       = &Type{Kind: KindTask}
)

// ArrayOf returns an array type of elem.
func ArrayOf(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// MapOf returns a string-keyed map type with values of elem.
func MapOf(elem *Type) *Type { return &Type{Kind: KindMap, Elem: elem} }

// PointerTo returns a nullable reference to t. Pointers are not stacked.
func PointerTo(t *Type) *Type {
	if t.Kind == KindPointer {
		return t
	}
	return &Type{Kind: KindPointer, Elem: t}
}

// TaskOf returns an asynchronous wrapper of result (nil for no result).
func TaskOf(result *Type) *Type { return &Type{Kind: KindTask, Elem: result} }

// NewObject returns a named object type.
func NewObject(pkg, name string, props ...*Property) *Type {
	return &Type{Name: name, Package: pkg, Kind: KindObject, Properties: props}
}

// NewEnum returns a named enum type.
func NewEnum(pkg, name string, values ...any) *Type {
	return &Type{Name: name, Package: pkg, Kind: KindEnum, EnumValues: values}
}

// NewInterface returns a named interface type.
func NewInterface(pkg, name string) *Type {
	return &Type{Name: name, Package: pkg, Kind: KindInterface}
}

// QualifiedName returns "pkg.Name", or Name when there is no package.
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// IsNamed reports whether the type is registered as a named definition.
func (t *Type) IsNamed() bool {
	if t == nil || t.Name == "" {
		return false
	}
	return t.Kind == KindObject || t.Kind == KindInterface || t.Kind == KindEnum
}

// Deref returns the target of a pointer, or t itself.
func (t *Type) Deref() *Type {
	if t != nil && t.Kind == KindPointer {
		return t.Elem
	}
	return t
}

// Unwrap removes task wrappers: Task[T] becomes T and Task becomes Void.
func (t *Type) Unwrap() *Type {
	for t != nil && t.Kind == KindTask {
		if t.Elem == nil {
			return Void
		}
		t = t.Elem
	}
	if t == nil {
		return Void
	}
	return t
}

// IsVoid reports whether the type carries no value once unwrapped.
func (t *Type) IsVoid() bool {
	return t.Unwrap().Kind == KindVoid
}

// IsNullable reports whether values of the type may be null.
func (t *Type) IsNullable() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindPointer, KindAny:
		return true
	default:
		return false
	}
}

// IsPrimitive reports whether the type is a scalar: a string, number,
// boolean, or enum.
func (t *Type) IsPrimitive() bool {
	d := t.Deref()
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindString, KindInteger, KindNumber, KindBoolean, KindEnum:
		return true
	default:
		return false
	}
}

// IsPrimitiveOrArray reports whether the type is a primitive or an array of
// primitives.
func (t *Type) IsPrimitiveOrArray() bool {
	d := t.Deref()
	if d != nil && d.Kind == KindArray {
		return d.Elem.IsPrimitive()
	}
	return t.IsPrimitive()
}

// IsBinary reports whether the type is a file or a collection of files.
func (t *Type) IsBinary() bool {
	d := t.Deref()
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindFile:
		return true
	case KindArray:
		return d.Elem.IsBinary()
	default:
		return false
	}
}

// IsArray reports whether the type is an array once dereferenced.
func (t *Type) IsArray() bool {
	d := t.Deref()
	return d != nil && d.Kind == KindArray
}

// IsComplex reports whether the type is structured: objects, interfaces,
// maps, the root object type, and arrays of them.
func (t *Type) IsComplex() bool {
	d := t.Deref()
	if d == nil {
		return false
	}
	switch d.Kind {
	case KindObject, KindInterface, KindMap, KindAny:
		return true
	case KindArray:
		return d.Elem.IsComplex()
	default:
		return false
	}
}

// Ancestry lists t, its base chain, then every implemented interface (own
// interfaces first, then those of each base, each followed by the interfaces
// it extends). Object is not included.
func (t *Type) Ancestry() []*Type {
	if t == nil {
		return nil
	}
	var out []*Type
	for cur := t; cur != nil; cur = cur.Base {
		if slices.Contains(out, cur) {
			break
		}
		out = append(out, cur)
	}
	chain := slices.Clone(out)
	var visit func(*Type)
	visit = func(i *Type) {
		if slices.Contains(out, i) {
			return
		}
		out = append(out, i)
		for _, parent := range i.Interfaces {
			visit(parent)
		}
	}
	for _, c := range chain {
		for _, i := range c.Interfaces {
			visit(i)
		}
	}
	return out
}

// AssignableTo reports whether a value of t can be used where other is
// expected. Every type is assignable to Object.
func (t *Type) AssignableTo(other *Type) bool {
	if other == Object || t == other {
		return true
	}
	return slices.Contains(t.Deref().Ancestry(), other.Deref())
}

// Property returns the property with the given name, or nil.
func (t *Type) Property(name string) *Property {
	for _, p := range t.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AllProperties returns the properties of t and its base chain, most
// derived first.
func (t *Type) AllProperties() []*Property {
	var out []*Property
	seen := make(map[string]bool)
	for cur := t.Deref(); cur != nil; cur = cur.Base {
		for _, p := range cur.Properties {
			if !seen[p.Name] {
				seen[p.Name] = true
				out = append(out, p)
			}
		}
		if cur.Base == cur {
			break
		}
	}
	return out
}
