package schemagen

import (
	"fmt"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
)

// Generator converts types into schemas and registers named types in the
// definitions table of one document. A Generator belongs to a single
// generation run and is not safe for concurrent use.
type Generator struct {
	doc   *openapi.Document
	namer *namer
	cache *schemaCache
	cfg   *config
}

// New returns a Generator registering definitions in doc.
func New(doc *openapi.Document, opts ...Option) (*Generator, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.templateError != nil {
		return nil, &oaserrors.ConfigError{Option: "schema name template", Message: "invalid template", Cause: cfg.templateError}
	}
	if doc.Definitions == nil {
		doc.Definitions = make(map[string]*openapi.Schema)
	}
	return &Generator{
		doc: doc,
		namer: &namer{
			strategy:        cfg.namingStrategy,
			generic:         cfg.genericStrategy,
			genericPackages: cfg.genericPackages,
			template:        cfg.namingTemplate,
			fn:              cfg.namingFunc,
		},
		cache: newSchemaCache(),
		cfg:   cfg,
	}, nil
}

// Document returns the document definitions are registered in.
func (g *Generator) Document() *openapi.Document { return g.doc }

// DefinitionName returns the definition name registered for t, if any.
func (g *Generator) DefinitionName(t *apimeta.Type) (string, bool) {
	return g.cache.nameFor(t.Deref())
}

// IsNullable reports whether values of t may be null under the configured
// null handling.
func (g *Generator) IsNullable(t *apimeta.Type) bool {
	if t == nil {
		return false
	}
	t = t.Unwrap()
	if t.IsNullable() {
		return true
	}
	if g.cfg.nullHandling == NullHandlingNull {
		switch t.Kind {
		case apimeta.KindObject, apimeta.KindInterface, apimeta.KindArray, apimeta.KindMap, apimeta.KindString:
			return true
		}
	}
	return false
}

// Generate returns the schema of t with its own nullability.
func (g *Generator) Generate(t *apimeta.Type) (*openapi.Schema, error) {
	return g.GenerateWithReferenceAndNullability(t, g.IsNullable(t))
}

// GenerateWithReferenceAndNullability returns the schema of t. Named types
// are registered once and returned as references. Task wrappers are removed;
// a void type has no schema and yields nil. The returned schema is never
// shared, so callers may modify it.
func (g *Generator) GenerateWithReferenceAndNullability(t *apimeta.Type, isNullable bool) (*openapi.Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", oaserrors.ErrSchemaGeneration)
	}
	t = t.Unwrap()
	if t.Deref().IsVoid() {
		return nil, nil
	}
	s, err := g.schema(t.Deref())
	if err != nil {
		return nil, err
	}
	s.Nullable = isNullable
	return s, nil
}

func (g *Generator) schema(t *apimeta.Type) (*openapi.Schema, error) {
	switch t.Kind {
	case apimeta.KindPointer:
		s, err := g.schema(t.Elem)
		if err != nil {
			return nil, err
		}
		s.Nullable = true
		return s, nil
	case apimeta.KindTask:
		u := t.Unwrap()
		if u.IsVoid() {
			return nil, fmt.Errorf("%w: task without result used as a value", oaserrors.ErrSchemaGeneration)
		}
		return g.schema(u)
	case apimeta.KindAny:
		return &openapi.Schema{Type: "object"}, nil
	case apimeta.KindString, apimeta.KindInteger, apimeta.KindNumber, apimeta.KindBoolean:
		return &openapi.Schema{Type: t.Kind.String(), Format: t.Format}, nil
	case apimeta.KindFile, apimeta.KindStream:
		return &openapi.Schema{Type: "string", Format: "binary"}, nil
	case apimeta.KindXMLDocument:
		return &openapi.Schema{Type: "string"}, nil
	case apimeta.KindArray:
		items, err := g.schema(t.Elem)
		if err != nil {
			return nil, err
		}
		return &openapi.Schema{Type: "array", Items: items}, nil
	case apimeta.KindMap:
		values, err := g.schema(t.Elem)
		if err != nil {
			return nil, err
		}
		return &openapi.Schema{Type: "object", AdditionalProperties: values}, nil
	case apimeta.KindEnum, apimeta.KindObject, apimeta.KindInterface:
		if t.IsNamed() {
			return g.reference(t)
		}
		return g.definition(t)
	}
	return nil, fmt.Errorf("%w: %s has no schema", oaserrors.ErrSchemaGeneration, t.Kind)
}

// reference registers t on first use and returns a fresh $ref to it. The
// definition is inserted before its body is built, so recursive types
// resolve to the same target.
func (g *Generator) reference(t *apimeta.Type) (*openapi.Schema, error) {
	if name, ok := g.cache.nameFor(t); ok {
		return openapi.NewRef(name, g.doc.Definitions[name]), nil
	}
	name := g.cache.reserve(t, g.namer.name(t), g.doc.Definitions)
	def := &openapi.Schema{}
	g.doc.Definitions[name] = def

	built, err := g.definition(t)
	if err != nil {
		delete(g.doc.Definitions, name)
		g.cache.remove(t)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	*def = *built
	return openapi.NewRef(name, def), nil
}

func (g *Generator) definition(t *apimeta.Type) (*openapi.Schema, error) {
	switch t.Kind {
	case apimeta.KindEnum:
		s := &openapi.Schema{Type: "string", Description: t.Description, Enum: t.EnumValues}
		if t.Elem != nil {
			s.Type, s.Format = t.Elem.Kind.String(), t.Elem.Format
		}
		return s, nil
	case apimeta.KindInterface:
		s, err := g.object(t)
		if err != nil {
			return nil, err
		}
		s.Extensions = map[string]any{"x-abstract": true}
		return s, nil
	}

	own, err := g.object(t)
	if err != nil {
		return nil, err
	}
	if t.Base == nil || t.Base.Kind == apimeta.KindAny {
		return own, nil
	}
	base, err := g.schema(t.Base)
	if err != nil {
		return nil, fmt.Errorf("base %s: %w", t.Base.Name, err)
	}
	own.Description = ""
	return &openapi.Schema{Description: t.Description, AllOf: []*openapi.Schema{base, own}}, nil
}

// object builds the schema of t's own properties.
func (g *Generator) object(t *apimeta.Type) (*openapi.Schema, error) {
	s := &openapi.Schema{Type: "object", Description: t.Description}
	for _, p := range t.Properties {
		if apimeta.IsExcluded(p.Attributes) {
			continue
		}
		ps, err := g.property(p)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		if s.Properties == nil {
			s.Properties = make(map[string]*openapi.Schema)
		}
		s.Properties[p.Name] = ps
		if p.Required {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s, nil
}

func (g *Generator) property(p *apimeta.Property) (*openapi.Schema, error) {
	s, err := g.Generate(p.Type)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: void property", oaserrors.ErrSchemaGeneration)
	}
	desc := p.Description
	if d, ok := apimeta.Find[apimeta.Description](p.Attributes); ok && desc == "" {
		desc = d.Text
	}
	if desc != "" {
		if s.IsReference() {
			// $ref siblings are ignored by readers, so the description wraps it.
			ref := &openapi.Schema{Ref: s.Ref, Reference: s.Reference}
			s = &openapi.Schema{Description: desc, Nullable: s.Nullable, AllOf: []*openapi.Schema{ref}}
		} else {
			s.Description = desc
		}
	}
	if apimeta.Has[apimeta.Deprecated](p.Attributes) {
		s.Deprecated = true
	}
	if g.cfg.propertyProcessor != nil {
		s = g.cfg.propertyProcessor(s, p)
	}
	return s, nil
}
