package openapi

// Schema is a JSON Schema node as used by both dialects.
//
// A schema with a non-empty Ref is a reference; after parsing (or when built by
// the schema generator) Reference points at the live target.
type Schema struct {
	Ref string
	// Reference is the resolved target of Ref. It is never serialized.
	Reference *Schema

	Title       string
	Description string
	Type        string
	Format      string
	Nullable    bool
	Default     any
	Enum        []any
	Example     any
	ReadOnly    bool
	Deprecated  bool

	Items                *Schema
	Properties           map[string]*Schema
	Required             []string
	AdditionalProperties *Schema

	AllOf []*Schema
	OneOf []*Schema
	AnyOf []*Schema

	// Extensions holds "x-" keyed values.
	Extensions map[string]any
}

// NewRef returns a reference to a named definition.
func NewRef(name string, target *Schema) *Schema {
	return &Schema{Ref: DefinitionRef(name), Reference: target}
}

// IsReference reports whether the schema is a $ref.
func (s *Schema) IsReference() bool {
	return s != nil && s.Ref != ""
}

// ActualSchema follows Reference links (and single-element reference
// wrappers) until it reaches a concrete schema. A reference that was never
// resolved returns the reference itself.
func (s *Schema) ActualSchema() *Schema {
	seen := make(map[*Schema]bool)
	cur := s
	for cur != nil && !seen[cur] {
		seen[cur] = true
		switch {
		case cur.Ref != "" && cur.Reference != nil:
			cur = cur.Reference
		case cur.Ref == "" && cur.Type == "" && len(cur.Properties) == 0 && len(cur.OneOf) == 1 && len(cur.AllOf) == 0:
			cur = cur.OneOf[0]
		case cur.Ref == "" && cur.Type == "" && len(cur.Properties) == 0 && len(cur.AllOf) == 1 && len(cur.OneOf) == 0:
			cur = cur.AllOf[0]
		default:
			return cur
		}
	}
	return cur
}

// IsBinary reports whether the schema describes a file or byte stream, or an
// array of them.
func (s *Schema) IsBinary() bool {
	a := s.ActualSchema()
	if a == nil {
		return false
	}
	if a.Type == "file" || (a.Type == "string" && a.Format == "binary") {
		return true
	}
	return a.Type == "array" && a.Items != nil && a.Items.IsBinary()
}

// IsArray reports whether the schema describes an array.
func (s *Schema) IsArray() bool {
	a := s.ActualSchema()
	return a != nil && a.Type == "array"
}

// walk visits s and every nested schema exactly once.
func (s *Schema) walk(seen map[*Schema]bool, fn func(*Schema) error) error {
	if s == nil || seen[s] {
		return nil
	}
	seen[s] = true
	if err := fn(s); err != nil {
		return err
	}
	children := make([]*Schema, 0, len(s.Properties)+len(s.AllOf)+len(s.OneOf)+len(s.AnyOf)+2)
	children = append(children, s.Items, s.AdditionalProperties)
	for _, name := range sortedKeys(s.Properties) {
		children = append(children, s.Properties[name])
	}
	children = append(children, s.AllOf...)
	children = append(children, s.OneOf...)
	children = append(children, s.AnyOf...)
	for _, c := range children {
		if err := c.walk(seen, fn); err != nil {
			return err
		}
	}
	return nil
}
