package builder

import (
	"strings"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/pathutil"
	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/processor"
	"github.com/erraggy/oasgen/schemagen"
)

const (
	mediaTypeMultipart   = "multipart/form-data"
	mediaTypeXML         = "application/xml"
	mediaTypeOctetStream = "application/octet-stream"
)

// boundValue is one value to bind: a method parameter, a framework-bound
// member, or a flattened property.
type boundValue struct {
	// param is the method parameter the value belongs to. It is nil for
	// values that do not map one-to-one onto a method parameter.
	param       *apimeta.Parameter
	name        string
	typ         *apimeta.Type
	attrs       []apimeta.Attribute
	source      apimeta.BindingSource
	required    *bool
	description string
	position    int
}

// parameterResolver builds the parameters of one operation.
type parameterResolver struct {
	settings *Settings
	schemas  *schemagen.Generator
	ep       *Endpoint
	od       *processor.OperationDescription
	// params maps method parameters to the parameter built for them.
	params  map[*apimeta.Parameter]*openapi.Parameter
	nextPos int
}

func newParameterResolver(s *Settings, schemas *schemagen.Generator, ep *Endpoint, od *processor.OperationDescription) *parameterResolver {
	return &parameterResolver{
		settings: s,
		schemas:  schemas,
		ep:       ep,
		od:       od,
		params:   make(map[*apimeta.Parameter]*openapi.Parameter),
		nextPos:  len(ep.Method.Parameters) + 1,
	}
}

// resolve binds every parameter, then enforces the operation-wide rules:
// a single body, placeholders matched or removed, multipart consumes for
// binary values, and dialect nullability.
func (r *parameterResolver) resolve() error {
	m := r.ep.Method
	if r.ep.Bindings != nil {
		for _, ap := range r.ep.Bindings {
			if err := r.bind(r.frameworkValue(ap)); err != nil {
				return err
			}
		}
	} else {
		for i, p := range m.Parameters {
			if err := r.bind(r.methodValue(p, i+1)); err != nil {
				return err
			}
		}
	}
	return r.finish()
}

// methodValue seeds a value from a method parameter and its binding
// attributes.
func (r *parameterResolver) methodValue(p *apimeta.Parameter, position int) boundValue {
	v := boundValue{
		param:    p,
		name:     bindingName(p),
		typ:      p.Type,
		attrs:    p.Attributes,
		position: position,
	}
	custom := false
	for _, a := range p.Attributes {
		if v.source != apimeta.BindingUnknown {
			break
		}
		switch a.(type) {
		case apimeta.FromRoute:
			v.source = apimeta.BindingPath
		case apimeta.FromQuery, apimeta.FromURI:
			v.source = apimeta.BindingQuery
		case apimeta.FromHeader:
			v.source = apimeta.BindingHeader
		case apimeta.FromForm:
			v.source = apimeta.BindingForm
		case apimeta.FromBody:
			v.source = apimeta.BindingBody
		case apimeta.ModelBinder:
			custom = true
		}
	}
	if v.source == apimeta.BindingUnknown && custom {
		v.source = apimeta.BindingCustom
	}
	return v
}

// frameworkValue seeds a value from API description binding metadata.
func (r *parameterResolver) frameworkValue(ap *apimeta.APIParameter) boundValue {
	required := ap.IsRequired
	v := boundValue{
		name:     ap.Name,
		typ:      ap.Type,
		source:   ap.Source,
		required: &required,
	}
	if mp := ap.Parameter; mp != nil {
		v.attrs = mp.Attributes
		if strings.EqualFold(ap.Name, mp.Name) || strings.EqualFold(ap.Name, bindingName(mp)) {
			v.param = mp
			v.position = methodPosition(r.ep.Method, mp)
		}
	}
	if v.param == nil {
		v.position = r.takePosition()
	}
	if v.typ == nil {
		v.typ = apimeta.String
	}
	return v
}

func (r *parameterResolver) bind(v boundValue) error {
	if v.typ.Deref().Kind == apimeta.KindCancellation || v.source == apimeta.BindingServices {
		return nil
	}
	if v.param != nil && apimeta.IsExcluded(v.param.Attributes) {
		return nil
	}
	if r.isPlaceholder(v.name) {
		v.source = apimeta.BindingPath
	}

	switch v.source {
	case apimeta.BindingPath:
		return r.addSimple(openapi.ParameterPath, v)
	case apimeta.BindingHeader:
		return r.addSimple(openapi.ParameterHeader, v)
	case apimeta.BindingQuery:
		if flattenable(v.typ) {
			return r.flatten(v)
		}
		return r.addSimple(openapi.ParameterQuery, v)
	case apimeta.BindingForm, apimeta.BindingFormFile:
		return r.addSimple(openapi.ParameterFormData, v)
	case apimeta.BindingBody:
		return r.addBody(v)
	case apimeta.BindingCustom:
		if rb, ok := apimeta.Find[apimeta.WillReadBody](v.attrs); ok && rb.Value {
			return r.addBody(v)
		}
		return r.addSimple(openapi.ParameterQuery, v)
	}

	t := v.typ
	switch {
	case t.IsBinary():
		return r.addSimple(openapi.ParameterFormData, v)
	case isBodyShape(t):
		return r.addBody(v)
	case t.IsComplex():
		if r.settings.ComplexBinding == BindComplexToQuery && flattenable(t) {
			return r.flatten(v)
		}
		return r.addBody(v)
	}
	return r.addSimple(openapi.ParameterQuery, v)
}

// addSimple adds a path, query, header, or form parameter.
func (r *parameterResolver) addSimple(kind openapi.ParameterKind, v boundValue) error {
	nullable := kind != openapi.ParameterPath && r.schemas.IsNullable(v.typ)
	schema, err := r.schemas.GenerateWithReferenceAndNullability(v.typ, nullable)
	if err != nil {
		return r.schemaError(v.name, err)
	}
	if schema == nil {
		schema = &openapi.Schema{Type: "string"}
	}
	param := &openapi.Parameter{
		Name:        v.name,
		Kind:        kind,
		Description: r.describe(v),
		Nullable:    &nullable,
		Schema:      schema,
		Position:    v.position,
	}
	switch {
	case kind == openapi.ParameterPath:
		param.Required = true
	case v.required != nil:
		param.Required = *v.required
	case v.param != nil:
		param.Required = !v.param.HasDefault
	}
	if v.typ.IsArray() && (kind == openapi.ParameterQuery || kind == openapi.ParameterFormData) {
		param.CollectionFormat = "multi"
	}
	if v.param != nil && v.param.HasDefault && kind != openapi.ParameterPath {
		r.applyDefault(param, v.param.Default)
	}
	r.add(param, v.param)
	return nil
}

// addBody adds the body parameter. XML documents and raw streams set the
// matching consumes media type.
func (r *parameterResolver) addBody(v boundValue) error {
	nullable := r.schemas.IsNullable(v.typ)
	schema, err := r.schemas.GenerateWithReferenceAndNullability(v.typ, nullable)
	if err != nil {
		return r.schemaError(v.name, err)
	}
	param := &openapi.Parameter{
		Name:        v.name,
		Kind:        openapi.ParameterBody,
		Description: r.describe(v),
		Nullable:    &nullable,
		Schema:      schema,
		Position:    v.position,
	}
	switch {
	case v.required != nil:
		param.Required = *v.required
	default:
		param.Required = !nullable && (v.param == nil || !v.param.HasDefault)
	}
	switch v.typ.Deref().Kind {
	case apimeta.KindXMLDocument:
		r.od.Operation.AddConsumes(mediaTypeXML)
	case apimeta.KindStream:
		r.od.Operation.AddConsumes(mediaTypeOctetStream)
	}
	r.add(param, v.param)
	return nil
}

// flatten adds one parameter per public property of v's type. Properties
// bind to the query unless a route or header attribute says otherwise.
func (r *parameterResolver) flatten(v boundValue) error {
	for _, prop := range v.typ.Deref().AllProperties() {
		if apimeta.IsExcluded(prop.Attributes) {
			continue
		}
		required := prop.Required
		pv := boundValue{
			name:        prop.Name,
			typ:         prop.Type,
			attrs:       prop.Attributes,
			source:      apimeta.BindingQuery,
			required:    &required,
			description: prop.Description,
			position:    r.takePosition(),
		}
		for _, a := range prop.Attributes {
			switch a := a.(type) {
			case apimeta.FromRoute:
				pv.source = apimeta.BindingPath
				pv.name = nameOr(a.Name, pv.name)
			case apimeta.FromHeader:
				pv.source = apimeta.BindingHeader
				pv.name = nameOr(a.Name, pv.name)
			case apimeta.FromQuery:
				pv.name = nameOr(a.Name, pv.name)
			}
		}
		kind := openapi.ParameterQuery
		switch {
		case pv.source == apimeta.BindingPath || r.isPlaceholder(pv.name):
			kind = openapi.ParameterPath
		case pv.source == apimeta.BindingHeader:
			kind = openapi.ParameterHeader
		}
		if err := r.addSimple(kind, pv); err != nil {
			return err
		}
	}
	return nil
}

// applyDefault records a declared default. A bare reference cannot carry
// siblings, so in OpenAPI 3.0 it is wrapped in a single-member oneOf.
func (r *parameterResolver) applyDefault(param *openapi.Parameter, value any) {
	param.Default = value
	s := param.Schema
	if !s.IsReference() {
		s.Default = value
		return
	}
	if r.settings.Dialect == openapi.OpenAPI3 {
		param.Schema = &openapi.Schema{Default: value, Nullable: s.Nullable, OneOf: []*openapi.Schema{s}}
		s.Nullable = false
	}
}

func (r *parameterResolver) add(param *openapi.Parameter, mp *apimeta.Parameter) {
	op := r.od.Operation
	op.Parameters = append(op.Parameters, param)
	if mp != nil && r.params[mp] == nil {
		r.params[mp] = param
	}
}

// finish enforces the rules that need every parameter.
func (r *parameterResolver) finish() error {
	op := r.od.Operation
	if bodies := op.ParametersOfKind(openapi.ParameterBody); len(bodies) > 1 {
		names := make([]string, len(bodies))
		for i, b := range bodies {
			names[i] = b.Name
		}
		return newMultipleBodyError(r.od.Method, r.od.Path, op.OperationID, names)
	}

	path := r.od.Path
	for _, ph := range pathutil.Placeholders(path) {
		if r.hasPathParameter(ph.Name) {
			continue
		}
		if r.settings.AddMissingPathParameters {
			op.Parameters = append(op.Parameters, &openapi.Parameter{
				Name:     ph.Name,
				Kind:     openapi.ParameterPath,
				Required: true,
				Schema:   &openapi.Schema{Type: "string"},
				Position: r.takePosition(),
			})
			r.settings.Logger.Debug("path parameter synthesized",
				"operationId", op.OperationID, "parameter", ph.Name)
			continue
		}
		path = pathutil.RemovePlaceholder(path, ph.Name)
		r.settings.Logger.Debug("unbound path placeholder removed",
			"operationId", op.OperationID, "placeholder", ph.Name)
	}
	r.od.Path = pathutil.Simplify(path)

	for _, p := range op.Parameters {
		if p.Kind != openapi.ParameterBody && p.IsBinary() {
			op.AddConsumes(mediaTypeMultipart)
			break
		}
	}

	// Swagger 2.0 expresses optionality through "required" only.
	for _, p := range op.Parameters {
		if r.settings.Dialect == openapi.Swagger2 && p.Kind != openapi.ParameterBody && p.Schema != nil && !p.Schema.IsReference() {
			p.Schema.Nullable = false
		}
		p.Nullable = nil
	}
	return nil
}

func (r *parameterResolver) hasPathParameter(name string) bool {
	for _, p := range r.od.Operation.ParametersOfKind(openapi.ParameterPath) {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *parameterResolver) isPlaceholder(name string) bool {
	return name != "" && pathutil.HasPlaceholder(r.od.Path, name)
}

func (r *parameterResolver) describe(v boundValue) string {
	if v.description != "" {
		return v.description
	}
	if d, ok := apimeta.Find[apimeta.Description](v.attrs); ok && d.Text != "" {
		return d.Text
	}
	if v.param == nil {
		return ""
	}
	return strings.TrimSpace(r.settings.Docs.ParameterDoc(r.ep.Controller, r.ep.Method, v.param.Name))
}

func (r *parameterResolver) takePosition() int {
	p := r.nextPos
	r.nextPos++
	return p
}

func (r *parameterResolver) schemaError(name string, err error) error {
	return newParameterSchemaError(r.od.Method, r.od.Path, r.od.Operation.OperationID, name, err)
}

// bindingName returns the name a binding attribute gives p, or p's own name.
func bindingName(p *apimeta.Parameter) string {
	for _, a := range p.Attributes {
		var name string
		switch a := a.(type) {
		case apimeta.FromRoute:
			name = a.Name
		case apimeta.FromQuery:
			name = a.Name
		case apimeta.FromHeader:
			name = a.Name
		case apimeta.FromForm:
			name = a.Name
		case apimeta.FromBody:
			name = a.Name
		case apimeta.FromURI:
			name = a.Name
		}
		if name != "" {
			return name
		}
	}
	return p.Name
}

func methodPosition(m *apimeta.Method, p *apimeta.Parameter) int {
	for i, mp := range m.Parameters {
		if mp == p {
			return i + 1
		}
	}
	return 0
}

// flattenable reports whether t is an object with properties to spread
// over individual parameters.
func flattenable(t *apimeta.Type) bool {
	d := t.Deref()
	return d != nil && d.Kind == apimeta.KindObject && len(d.AllProperties()) > 0
}

func isBodyShape(t *apimeta.Type) bool {
	switch t.Deref().Kind {
	case apimeta.KindXMLDocument, apimeta.KindStream:
		return true
	}
	return false
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
