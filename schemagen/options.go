package schemagen

import (
	"text/template"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/openapi"
)

// Option configures a Generator.
type Option func(*config)

// PropertyProcessor is called for each generated property schema and returns
// a possibly modified schema. It runs after descriptions and nullability are
// applied.
//
//	func(s *openapi.Schema, p *apimeta.Property) *openapi.Schema {
//	    if p.Name == "password" {
//	        s.Format = "password"
//	    }
//	    return s
//	}
type PropertyProcessor func(schema *openapi.Schema, p *apimeta.Property) *openapi.Schema

// NullHandling decides whether types without an explicit pointer are nullable.
type NullHandling int

const (
	// NullHandlingNotNull treats only pointers and the root object type as
	// nullable.
	NullHandlingNotNull NullHandling = iota
	// NullHandlingNull also treats objects, interfaces, arrays, maps and
	// strings as nullable.
	NullHandlingNull
)

type config struct {
	namingStrategy    SchemaNamingStrategy
	namingTemplate    *template.Template
	namingFunc        SchemaNameFunc
	genericStrategy   GenericNamingStrategy
	genericPackages   bool
	templateError     error
	nullHandling      NullHandling
	propertyProcessor PropertyProcessor
}

// WithSchemaNaming sets a built-in naming strategy. The default is
// SchemaNamingTypeOnly. It clears any template or function set earlier.
func WithSchemaNaming(strategy SchemaNamingStrategy) Option {
	return func(cfg *config) {
		cfg.namingStrategy = strategy
		cfg.namingTemplate = nil
		cfg.namingFunc = nil
		cfg.templateError = nil
	}
}

// WithSchemaNameTemplate names definitions with a text/template executed
// against a SchemaNameContext. Parse errors are reported by New.
//
//	schemagen.WithSchemaNameTemplate(`{{pascal .Package}}{{.TypeSanitized}}`)
func WithSchemaNameTemplate(tmpl string) Option {
	return func(cfg *config) {
		t, err := parseSchemaNameTemplate(tmpl)
		cfg.namingTemplate = t
		cfg.templateError = err
		cfg.namingFunc = nil
	}
}

// WithSchemaNameFunc names definitions with fn. An empty result falls back
// to the built-in strategy.
func WithSchemaNameFunc(fn SchemaNameFunc) Option {
	return func(cfg *config) {
		cfg.namingFunc = fn
		cfg.namingTemplate = nil
		cfg.templateError = nil
	}
}

// WithGenericNaming sets how type arguments appear in definition names.
func WithGenericNaming(strategy GenericNamingStrategy) Option {
	return func(cfg *config) {
		cfg.genericStrategy = strategy
	}
}

// WithGenericIncludePackage prefixes named type arguments with their package.
func WithGenericIncludePackage(include bool) Option {
	return func(cfg *config) {
		cfg.genericPackages = include
	}
}

// WithNullHandling sets the nullability of types without an explicit pointer.
func WithNullHandling(h NullHandling) Option {
	return func(cfg *config) {
		cfg.nullHandling = h
	}
}

// WithPropertyProcessor installs a hook applied to every property schema.
func WithPropertyProcessor(fn PropertyProcessor) Option {
	return func(cfg *config) {
		cfg.propertyProcessor = fn
	}
}
