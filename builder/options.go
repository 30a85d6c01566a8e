package builder

import (
	"slices"

	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/processor"
	"github.com/erraggy/oasgen/schemagen"
)

// DefaultURLTemplate is the route used for controllers without routing
// attributes.
const DefaultURLTemplate = "api/{controller}/{id?}"

// ComplexBinding selects how a complex parameter without a binding
// attribute is bound.
type ComplexBinding int

const (
	// BindComplexToBody binds the parameter to the request body.
	BindComplexToBody ComplexBinding = iota
	// BindComplexToQuery flattens the parameter's public properties into
	// individual path, header, and query parameters.
	BindComplexToQuery
)

// String returns "body" or "query".
func (c ComplexBinding) String() string {
	if c == BindComplexToQuery {
		return "query"
	}
	return "body"
}

// Settings is the resolved configuration of a Builder.
type Settings struct {
	Dialect  openapi.Dialect
	Info     openapi.Info
	Host     string
	BasePath string
	Schemes  []string

	// DefaultURLTemplate is used for controllers without routing attributes.
	DefaultURLTemplate string
	ComplexBinding     ComplexBinding
	// AddMissingPathParameters synthesizes a string path parameter for each
	// placeholder no method parameter binds. When false such placeholders
	// are stripped from the path.
	AddMissingPathParameters bool

	DefaultConsumes []string
	DefaultProduces []string

	// APIVersions is the allow-list of API versions. Empty allows all.
	APIVersions []string

	// OperationProcessors run after the built-in chain, in order.
	OperationProcessors []processor.OperationProcessor
	// DocumentProcessors run after the built-in document chain, in order.
	DocumentProcessors []processor.DocumentProcessor
	// Processors resolves UseProcessor attributes by name.
	Processors *processor.Registry

	SchemaOptions []schemagen.Option
	Docs          processor.DocLookup
	Logger        openapi.Logger
}

// Option configures a Builder instance.
// Options are applied when creating a new Builder with New().
type Option func(*Settings)

func defaultSettings() *Settings {
	return &Settings{
		Dialect:            openapi.OpenAPI3,
		Info:               openapi.Info{Title: "My Title", Version: "1.0.0"},
		DefaultURLTemplate: DefaultURLTemplate,
		Docs:               processor.StaticDocs{},
		Logger:             openapi.NopLogger{},
	}
}

// WithDialect sets the dialect that governs dialect-dependent generation
// steps, such as parameter nullability and default values.
// The default is openapi.OpenAPI3.
func WithDialect(d openapi.Dialect) Option {
	return func(s *Settings) {
		s.Dialect = d
	}
}

// WithInfo sets the document title, description and version.
func WithInfo(info openapi.Info) Option {
	return func(s *Settings) {
		s.Info = info
	}
}

// WithHost sets the host, base path and schemes written to the document.
func WithHost(host, basePath string, schemes ...string) Option {
	return func(s *Settings) {
		s.Host = host
		s.BasePath = basePath
		s.Schemes = schemes
	}
}

// WithDefaultURLTemplate sets the route used for controllers without
// routing attributes. The default is DefaultURLTemplate.
//
// The template may use the {controller} and {action} placeholders, which
// are replaced by the controller name (without its "Controller" suffix) and
// the method name.
func WithDefaultURLTemplate(tmpl string) Option {
	return func(s *Settings) {
		s.DefaultURLTemplate = tmpl
	}
}

// WithComplexBinding sets how complex parameters without a binding
// attribute are bound. The default is BindComplexToBody.
func WithComplexBinding(c ComplexBinding) Option {
	return func(s *Settings) {
		s.ComplexBinding = c
	}
}

// WithAddMissingPathParameters enables synthesizing string path parameters
// for unbound placeholders.
func WithAddMissingPathParameters(enabled bool) Option {
	return func(s *Settings) {
		s.AddMissingPathParameters = enabled
	}
}

// WithDefaultMediaTypes sets the document-level consumes and produces.
func WithDefaultMediaTypes(consumes, produces []string) Option {
	return func(s *Settings) {
		s.DefaultConsumes = consumes
		s.DefaultProduces = produces
	}
}

// WithAPIVersions sets the allow-list of API versions. Operations declaring
// versions that are all outside the list are removed.
func WithAPIVersions(versions ...string) Option {
	return func(s *Settings) {
		s.APIVersions = versions
	}
}

// WithOperationProcessors appends operation processors. They run after the
// built-in processors and before processors named by UseProcessor
// attributes.
func WithOperationProcessors(p ...processor.OperationProcessor) Option {
	return func(s *Settings) {
		s.OperationProcessors = append(s.OperationProcessors, p...)
	}
}

// WithDocumentProcessors appends document processors.
func WithDocumentProcessors(p ...processor.DocumentProcessor) Option {
	return func(s *Settings) {
		s.DocumentProcessors = append(s.DocumentProcessors, p...)
	}
}

// WithProcessorRegistry sets the registry UseProcessor attributes are
// resolved against. The default is processor.NewRegistry().
func WithProcessorRegistry(r *processor.Registry) Option {
	return func(s *Settings) {
		s.Processors = r
	}
}

// WithSchemaOptions passes options to the schema generator.
func WithSchemaOptions(opts ...schemagen.Option) Option {
	return func(s *Settings) {
		s.SchemaOptions = append(s.SchemaOptions, opts...)
	}
}

// WithDocs sets the documentation lookup. The default reads the Docs
// carried by the metadata.
func WithDocs(d processor.DocLookup) Option {
	return func(s *Settings) {
		if d != nil {
			s.Docs = d
		}
	}
}

// WithLogger sets the logger. Skipped controllers, vetoed operations,
// expanded paths and synthesized parameters are logged at Debug level.
func WithLogger(l openapi.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.Logger = l
		}
	}
}

// clone returns a copy whose slices can be appended to independently.
func (s Settings) clone() Settings {
	s.Schemes = slices.Clone(s.Schemes)
	s.DefaultConsumes = slices.Clone(s.DefaultConsumes)
	s.DefaultProduces = slices.Clone(s.DefaultProduces)
	s.APIVersions = slices.Clone(s.APIVersions)
	s.OperationProcessors = slices.Clone(s.OperationProcessors)
	s.DocumentProcessors = slices.Clone(s.DocumentProcessors)
	s.SchemaOptions = slices.Clone(s.SchemaOptions)
	return s
}
