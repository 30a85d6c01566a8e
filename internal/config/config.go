// Package config loads oasgen settings files.
//
// A settings file is YAML, JSON or TOML, chosen by the file extension. Values
// present in the file are merged over Defaults; command-line flags are merged
// over the result with Override.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/BurntSushi/toml"
	"github.com/erraggy/oasgen/builder"
	"github.com/erraggy/oasgen/generator"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/schemagen"
	"go.yaml.in/yaml/v4"
)

// File is the layout of a settings file.
type File struct {
	// Dialect is "2.0" or "3.0".
	Dialect string `json:"dialect,omitempty" yaml:"dialect,omitempty" toml:"dialect,omitempty"`
	Info    Info   `json:"info" yaml:"info,omitempty" toml:"info,omitempty"`

	Host     string   `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	BasePath string   `json:"basePath,omitempty" yaml:"basePath,omitempty" toml:"basePath,omitempty"`
	Schemes  []string `json:"schemes,omitempty" yaml:"schemes,omitempty" toml:"schemes,omitempty"`

	DefaultURLTemplate string `json:"defaultUrlTemplate,omitempty" yaml:"defaultUrlTemplate,omitempty" toml:"defaultUrlTemplate,omitempty"`
	// ComplexBinding is "body" or "query".
	ComplexBinding           string `json:"complexBinding,omitempty" yaml:"complexBinding,omitempty" toml:"complexBinding,omitempty"`
	AddMissingPathParameters *bool  `json:"addMissingPathParameters,omitempty" yaml:"addMissingPathParameters,omitempty" toml:"addMissingPathParameters,omitempty"`

	Consumes    []string `json:"consumes,omitempty" yaml:"consumes,omitempty" toml:"consumes,omitempty"`
	Produces    []string `json:"produces,omitempty" yaml:"produces,omitempty" toml:"produces,omitempty"`
	APIVersions []string `json:"apiVersions,omitempty" yaml:"apiVersions,omitempty" toml:"apiVersions,omitempty"`
	// Controllers restricts generation to matching controllers: exact names,
	// or path.Match patterns.
	Controllers []string `json:"controllers,omitempty" yaml:"controllers,omitempty" toml:"controllers,omitempty"`

	// SchemaNaming is one of type, pascal, camel, snake, kebab or qualified.
	SchemaNaming string `json:"schemaNaming,omitempty" yaml:"schemaNaming,omitempty" toml:"schemaNaming,omitempty"`
	// GenericNaming is one of of, underscore, for or flattened.
	GenericNaming string `json:"genericNaming,omitempty" yaml:"genericNaming,omitempty" toml:"genericNaming,omitempty"`

	// Format is the output format, "json" or "yaml".
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`

	Client Client `json:"client" yaml:"client,omitempty" toml:"client,omitempty"`
}

// Info is the document metadata block of a settings file.
type Info struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Client holds the client generation settings.
type Client struct {
	Package string `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty"`
	// Names is a generator.Strategies() name.
	Names     string `json:"names,omitempty" yaml:"names,omitempty" toml:"names,omitempty"`
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty" toml:"userAgent,omitempty"`
	// Output is the directory generated files are written to.
	Output string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
}

// Defaults returns the settings used when no file is given.
func Defaults() *File {
	return &File{
		Dialect:            "3.0",
		Info:               Info{Title: "My Title", Version: "1.0.0"},
		DefaultURLTemplate: builder.DefaultURLTemplate,
		ComplexBinding:     "body",
		SchemaNaming:       "type",
		GenericNaming:      "of",
		Format:             "json",
		Client:             Client{Package: "api", Names: generator.StrategySingleClientFromOperationID},
	}
}

// Load reads the settings file at path and merges it over Defaults. An empty
// path returns Defaults.
func Load(path string) (*File, error) {
	f := Defaults()
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: caller-supplied settings path
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "read settings file", Cause: err}
	}
	loaded, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Value: path, Message: "decode settings file", Cause: err}
	}
	if err := f.Override(loaded); err != nil {
		return nil, err
	}
	return f, nil
}

// Decode decodes a settings document. ext selects the format: ".toml",
// ".json", and anything else as YAML. Unknown keys are rejected.
func Decode(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, &oaserrors.ConfigError{Option: undecoded[0].String(), Message: "unknown setting"}
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}
	return &f, nil
}

// Override merges the non-empty values of o over f.
func (f *File) Override(o *File) error {
	if o == nil {
		return nil
	}
	if err := mergo.Merge(f, o, mergo.WithOverride); err != nil {
		return &oaserrors.ConfigError{Option: "config", Message: "merge settings", Cause: err}
	}
	// mergo treats a pointer to false as empty.
	if o.AddMissingPathParameters != nil {
		v := *o.AddMissingPathParameters
		f.AddMissingPathParameters = &v
	}
	return nil
}

// ParsedDialect returns the configured dialect.
func (f *File) ParsedDialect() (openapi.Dialect, error) {
	return openapi.ParseDialect(f.Dialect)
}

// ParsedFormat returns "json" or "yaml".
func (f *File) ParsedFormat() (string, error) {
	switch strings.ToLower(f.Format) {
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	}
	return "", &oaserrors.ConfigError{Option: "format", Value: f.Format, Message: "expected json or yaml"}
}

// BuilderOptions translates the document settings into builder options.
func (f *File) BuilderOptions() ([]builder.Option, error) {
	dialect, err := f.ParsedDialect()
	if err != nil {
		return nil, err
	}
	binding, err := parseComplexBinding(f.ComplexBinding)
	if err != nil {
		return nil, err
	}
	naming, err := parseSchemaNaming(f.SchemaNaming)
	if err != nil {
		return nil, err
	}
	generic, err := parseGenericNaming(f.GenericNaming)
	if err != nil {
		return nil, err
	}

	opts := []builder.Option{
		builder.WithDialect(dialect),
		builder.WithInfo(openapi.Info{Title: f.Info.Title, Version: f.Info.Version, Description: f.Info.Description}),
		builder.WithComplexBinding(binding),
		builder.WithSchemaOptions(schemagen.WithSchemaNaming(naming), schemagen.WithGenericNaming(generic)),
	}
	if f.Host != "" || f.BasePath != "" || len(f.Schemes) > 0 {
		opts = append(opts, builder.WithHost(f.Host, f.BasePath, f.Schemes...))
	}
	if f.DefaultURLTemplate != "" {
		opts = append(opts, builder.WithDefaultURLTemplate(f.DefaultURLTemplate))
	}
	if f.AddMissingPathParameters != nil {
		opts = append(opts, builder.WithAddMissingPathParameters(*f.AddMissingPathParameters))
	}
	if len(f.Consumes) > 0 || len(f.Produces) > 0 {
		opts = append(opts, builder.WithDefaultMediaTypes(f.Consumes, f.Produces))
	}
	if len(f.APIVersions) > 0 {
		opts = append(opts, builder.WithAPIVersions(f.APIVersions...))
	}
	return opts, nil
}

// GeneratorOptions translates the client settings into generator options.
func (f *File) GeneratorOptions() ([]generator.Option, error) {
	names, err := generator.ByName(f.Client.Names)
	if err != nil {
		return nil, err
	}
	opts := []generator.Option{generator.WithNameGenerator(names)}
	if f.Client.Package != "" {
		opts = append(opts, generator.WithPackageName(f.Client.Package))
	}
	if f.Client.UserAgent != "" {
		opts = append(opts, generator.WithUserAgent(f.Client.UserAgent))
	}
	return opts, nil
}

func parseComplexBinding(s string) (builder.ComplexBinding, error) {
	switch strings.ToLower(s) {
	case "", "body":
		return builder.BindComplexToBody, nil
	case "query":
		return builder.BindComplexToQuery, nil
	}
	return 0, &oaserrors.ConfigError{Option: "complexBinding", Value: s, Message: "expected body or query"}
}

var schemaNamings = map[string]schemagen.SchemaNamingStrategy{
	"":          schemagen.SchemaNamingTypeOnly,
	"type":      schemagen.SchemaNamingTypeOnly,
	"pascal":    schemagen.SchemaNamingPascalCase,
	"camel":     schemagen.SchemaNamingCamelCase,
	"snake":     schemagen.SchemaNamingSnakeCase,
	"kebab":     schemagen.SchemaNamingKebabCase,
	"qualified": schemagen.SchemaNamingQualified,
}

func parseSchemaNaming(s string) (schemagen.SchemaNamingStrategy, error) {
	if v, ok := schemaNamings[strings.ToLower(s)]; ok {
		return v, nil
	}
	return 0, &oaserrors.ConfigError{Option: "schemaNaming", Value: s, Message: "expected type, pascal, camel, snake, kebab or qualified"}
}

var genericNamings = map[string]schemagen.GenericNamingStrategy{
	"":           schemagen.GenericNamingOf,
	"of":         schemagen.GenericNamingOf,
	"underscore": schemagen.GenericNamingUnderscore,
	"for":        schemagen.GenericNamingFor,
	"flattened":  schemagen.GenericNamingFlattened,
}

func parseGenericNaming(s string) (schemagen.GenericNamingStrategy, error) {
	if v, ok := genericNamings[strings.ToLower(s)]; ok {
		return v, nil
	}
	return 0, &oaserrors.ConfigError{Option: "genericNaming", Value: s, Message: "expected of, underscore, for or flattened"}
}
