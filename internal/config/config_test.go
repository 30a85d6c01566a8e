package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasgen/builder"
	"github.com/erraggy/oasgen/generator"
	"github.com/erraggy/oasgen/oaserrors"
	"github.com/erraggy/oasgen/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "oasgen.yaml",
			content: `
dialect: "2.0"
info:
  title: Shop
basePath: /v1
complexBinding: query
addMissingPathParameters: false
client:
  names: MultipleClientsFromOperationId
`,
		},
		{
			name: "json",
			file: "oasgen.json",
			content: `{
  "dialect": "2.0",
  "info": {"title": "Shop"},
  "basePath": "/v1",
  "complexBinding": "query",
  "addMissingPathParameters": false,
  "client": {"names": "MultipleClientsFromOperationId"}
}`,
		},
		{
			name: "toml",
			file: "oasgen.toml",
			content: `
dialect = "2.0"
basePath = "/v1"
complexBinding = "query"
addMissingPathParameters = false

[info]
title = "Shop"

[client]
names = "MultipleClientsFromOperationId"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "2.0", f.Dialect)
			assert.Equal(t, "Shop", f.Info.Title)
			assert.Equal(t, "1.0.0", f.Info.Version, "default kept")
			assert.Equal(t, "/v1", f.BasePath)
			assert.Equal(t, "query", f.ComplexBinding)
			require.NotNil(t, f.AddMissingPathParameters)
			assert.False(t, *f.AddMissingPathParameters)
			assert.Equal(t, "MultipleClientsFromOperationId", f.Client.Names)
			assert.Equal(t, "api", f.Client.Package, "default kept")
			assert.Equal(t, builder.DefaultURLTemplate, f.DefaultURLTemplate)
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), f)
}

func TestLoad_EmptyYAML(t *testing.T) {
	f, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), f)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "dialekt: 2.0\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("unknown json key", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.json", `{"dialekt": "2.0"}`))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("unknown toml key", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.toml", "dialekt = \"2.0\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialekt")
	})
}

func TestOverride(t *testing.T) {
	f := Defaults()
	enabled := true
	f.AddMissingPathParameters = &enabled
	f.Schemes = []string{"http"}

	disabled := false
	require.NoError(t, f.Override(&File{
		Dialect:                  "2.0",
		Schemes:                  []string{"https"},
		AddMissingPathParameters: &disabled,
	}))

	assert.Equal(t, "2.0", f.Dialect)
	assert.Equal(t, []string{"https"}, f.Schemes)
	assert.False(t, *f.AddMissingPathParameters)
	assert.Equal(t, "My Title", f.Info.Title)

	// The override's pointer is not shared.
	disabled = true
	assert.False(t, *f.AddMissingPathParameters)

	require.NoError(t, f.Override(nil))
}

func TestParsedFormat(t *testing.T) {
	for in, want := range map[string]string{"json": "json", "YAML": "yaml", "yml": "yaml"} {
		f := &File{Format: in}
		got, err := f.ParsedFormat()
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := (&File{Format: "xml"}).ParsedFormat()
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestBuilderOptions(t *testing.T) {
	f := Defaults()
	f.Dialect = "2.0"
	f.Host = "api.example.com"
	f.BasePath = "/v1"
	f.Schemes = []string{"https"}
	f.ComplexBinding = "QUERY"
	f.APIVersions = []string{"1.0"}
	f.Consumes = []string{"application/json"}

	opts, err := f.BuilderOptions()
	require.NoError(t, err)
	b, err := builder.New(opts...)
	require.NoError(t, err)

	s := b.Settings()
	assert.Equal(t, openapi.Swagger2, s.Dialect)
	assert.Equal(t, "My Title", s.Info.Title)
	assert.Equal(t, "api.example.com", s.Host)
	assert.Equal(t, "/v1", s.BasePath)
	assert.Equal(t, []string{"https"}, s.Schemes)
	assert.Equal(t, builder.BindComplexToQuery, s.ComplexBinding)
	assert.Equal(t, []string{"1.0"}, s.APIVersions)
	assert.Equal(t, []string{"application/json"}, s.DefaultConsumes)
	assert.Len(t, s.SchemaOptions, 2)
}

func TestBuilderOptions_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *File)
		option string
	}{
		{"dialect", func(f *File) { f.Dialect = "4.0" }, "dialect"},
		{"complex binding", func(f *File) { f.ComplexBinding = "header" }, "complexBinding"},
		{"schema naming", func(f *File) { f.SchemaNaming = "screaming" }, "schemaNaming"},
		{"generic naming", func(f *File) { f.GenericNaming = "angle" }, "genericNaming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Defaults()
			tt.mutate(f)
			_, err := f.BuilderOptions()
			require.Error(t, err)
			var ce *oaserrors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.option, ce.Option)
		})
	}
}

func TestGeneratorOptions(t *testing.T) {
	f := Defaults()
	f.Client.Package = "shop"
	f.Client.Names = "path-segments"
	_, err := f.GeneratorOptions()
	require.Error(t, err, "strategy names must match after folding")

	f.Client.Names = generator.StrategyMultipleClientsFromPathSegments
	opts, err := f.GeneratorOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	f.Client.UserAgent = "shop-client/1"
	opts, err = f.GeneratorOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestDecode_Controllers(t *testing.T) {
	for ext, data := range map[string]string{
		".yaml": "controllers: [OrdersController, 'Admin*']\n",
		".json": `{"controllers": ["OrdersController", "Admin*"]}`,
		".toml": "controllers = [\"OrdersController\", \"Admin*\"]\n",
	} {
		t.Run(ext, func(t *testing.T) {
			f, err := Decode([]byte(data), ext)
			require.NoError(t, err)
			assert.Equal(t, []string{"OrdersController", "Admin*"}, f.Controllers)
		})
	}
}
