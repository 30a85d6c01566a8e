package generator

import (
	"bytes"
	"embed"
	"strconv"
	"text/template"

	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").
	Funcs(templateFuncs).
	ParseFS(templateFS, "templates/*.tmpl"))

// templateFuncs provides custom functions for templates
var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

// executeTemplate executes a template by name and returns gofmt-ed source
// with its imports fixed. Unformattable output is an error: it means the
// generated code does not parse.
func executeTemplate(name, filename string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return imports.Process(filename, buf.Bytes(), nil)
}
