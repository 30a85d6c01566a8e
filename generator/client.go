package generator

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasgen/internal/httputil"
	"github.com/erraggy/oasgen/openapi"
)

// reservedArgs are the identifiers generated method bodies use.
var reservedArgs = []string{"c", "ctx", "r", "out", "err"}

// buildClients groups the document operations by client name, keeping the
// order in which each client first appears.
func buildClients(doc *openapi.Document, names OperationNameGenerator) []ClientData {
	var (
		order   []string
		byName  = make(map[string]*ClientData)
		methods = make(map[string]uniqueNames)
	)
	prefix := strings.TrimRight(doc.BasePath, "/")
	for _, ref := range doc.Operations() {
		client := ""
		if names.SupportsMultipleClients() {
			client = names.ClientName(doc, ref.Path, ref.Method, ref.Operation)
		}
		typeName := clientTypeName(client)
		cd, ok := byName[typeName]
		if !ok {
			cd = &ClientData{TypeName: typeName}
			byName[typeName] = cd
			methods[typeName] = uniqueNames{}
			order = append(order, typeName)
		}
		opName := names.OperationName(doc, ref.Path, ref.Method, ref.Operation)
		m := clientMethod(ref, prefix)
		m.Name = methods[typeName].claim(toTypeName(opName))
		cd.Methods = append(cd.Methods, m)
	}

	out := make([]ClientData, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// ClientPlan lists the methods one generated client type would have.
type ClientPlan struct {
	TypeName string
	Methods  []MethodPlan
}

// MethodPlan names the client method generated for one operation.
type MethodPlan struct {
	Name        string
	HTTPMethod  string
	Path        string
	OperationID string
}

// PlanClients returns the client types and method names GenerateClient
// would produce for doc, in the same order, without rendering any code.
func PlanClients(doc *openapi.Document, names OperationNameGenerator) []ClientPlan {
	if names == nil {
		names = SingleClientFromOperationID{}
	}
	clients := buildClients(doc, names)
	plans := make([]ClientPlan, 0, len(clients))
	for _, c := range clients {
		p := ClientPlan{TypeName: c.TypeName, Methods: make([]MethodPlan, 0, len(c.Methods))}
		for _, m := range c.Methods {
			p.Methods = append(p.Methods, MethodPlan{Name: m.Name, HTTPMethod: m.HTTPMethod, Path: m.Path, OperationID: m.OperationID})
		}
		plans = append(plans, p)
	}
	return plans
}

func clientMethod(ref openapi.OperationRef, prefix string) ClientMethodData {
	op := ref.Operation
	m := ClientMethodData{
		HTTPMethod:  strings.ToUpper(ref.Method),
		Path:        prefix + ref.Path,
		OperationID: op.OperationID,
		Comment:     cleanDescription(op.Summary),
	}
	if m.Comment == "" {
		m.Comment = cleanDescription(op.Description)
	}
	if m.Comment == "" {
		m.Comment = fmt.Sprintf("calls %s %s.", m.HTTPMethod, ref.Path)
	}
	if op.Deprecated {
		m.Comment += "\n//\n// Deprecated: the operation is marked deprecated."
	}

	args := uniqueNames{}
	for _, r := range reservedArgs {
		args[r] = true
	}
	var query, header, form, files []string
	for _, p := range op.Parameters {
		arg := ArgData{Name: args.claim(toParamName(p.Name)), Type: paramType(p)}
		m.Args = append(m.Args, arg)
		switch p.Kind {
		case openapi.ParameterPath:
			m.Statements = append(m.Statements, fmt.Sprintf(
				"r.path = strings.ReplaceAll(r.path, %q, url.PathEscape(fmt.Sprint(%s)))", "{"+p.Name+"}", arg.Name))
		case openapi.ParameterQuery:
			query = append(query, setValue("r.query", p.Name, arg))
		case openapi.ParameterHeader:
			header = append(header, setValue("r.header", p.Name, arg))
		case openapi.ParameterFormData:
			if p.IsBinary() {
				files = append(files, addFile(p.Name, arg))
			} else {
				form = append(form, setValue("r.form", p.Name, arg))
			}
		case openapi.ParameterBody:
			m.Statements = append(m.Statements, "r.body = "+arg.Name)
		}
	}
	if len(query) > 0 {
		m.Statements = append(m.Statements, "r.query = url.Values{}")
		m.Statements = append(m.Statements, query...)
	}
	if len(header) > 0 {
		m.Statements = append(m.Statements, "r.header = http.Header{}")
		m.Statements = append(m.Statements, header...)
	}
	if len(form) > 0 || len(files) > 0 {
		m.Statements = append(m.Statements, "r.form = url.Values{}")
		m.Statements = append(m.Statements, form...)
		m.Statements = append(m.Statements, files...)
	}
	m.ResultType = resultType(op)
	return m
}

// paramType is the argument type: optional scalars are pointers, binary
// values are readers.
func paramType(p *openapi.Parameter) string {
	if p.IsBinary() {
		if p.Schema.IsArray() {
			return "[]io.Reader"
		}
		return "io.Reader"
	}
	t := goType(p.Schema)
	if p.Kind == openapi.ParameterBody {
		return t
	}
	t = strings.TrimPrefix(t, "*")
	if !p.Required && p.Kind != openapi.ParameterPath && isScalarType(t) {
		return "*" + t
	}
	return t
}

// setValue renders the statement adding one parameter to a url.Values or
// http.Header.
func setValue(target, name string, arg ArgData) string {
	switch {
	case strings.HasPrefix(arg.Type, "[]") && arg.Type != "[]byte":
		return fmt.Sprintf("for _, v := range %s { %s.Add(%q, fmt.Sprint(v)) }", arg.Name, target, name)
	case strings.HasPrefix(arg.Type, "*"):
		return fmt.Sprintf("if %s != nil { %s.Set(%q, fmt.Sprint(*%s)) }", arg.Name, target, name, arg.Name)
	default:
		return fmt.Sprintf("%s.Set(%q, fmt.Sprint(%s))", target, name, arg.Name)
	}
}

func addFile(name string, arg ArgData) string {
	if arg.Type == "[]io.Reader" {
		return fmt.Sprintf("for _, f := range %s { r.files = append(r.files, formFile{field: %q, r: f}) }", arg.Name, name)
	}
	return fmt.Sprintf("if %s != nil { r.files = append(r.files, formFile{field: %q, r: %s}) }", arg.Name, name, arg.Name)
}

// resultType is the Go type of the first success response with a body, or
// "" when the operation returns nothing.
func resultType(op *openapi.Operation) string {
	for _, code := range op.ResponseCodes() {
		if !httputil.IsSuccessCode(code) {
			continue
		}
		r := op.Responses[code]
		if r.Schema == nil {
			continue
		}
		if r.Schema.IsBinary() {
			return "[]byte"
		}
		return goType(r.Schema)
	}
	return ""
}
