package openapi

// DefaultMediaType is used when neither the operation nor the document
// declares media types.
const DefaultMediaType = "application/json"

// RequestBody is the OpenAPI 3.0 view of an operation's body parameter.
// It holds no state of its own: reads and writes go to the parameter.
type RequestBody struct {
	op    *Operation
	param *Parameter
}

// MediaType is one content entry of a request body.
type MediaType struct {
	Schema *Schema
}

// RequestBody returns the request body view, or nil when the operation has
// no body parameter.
func (o *Operation) RequestBody() *RequestBody {
	p := o.BodyParameter()
	if p == nil {
		return nil
	}
	return &RequestBody{op: o, param: p}
}

// SetRequestBody creates the body parameter if needed and returns its view.
// An existing body parameter is reused.
func (o *Operation) SetRequestBody(name string, schema *Schema, required bool) *RequestBody {
	p := o.BodyParameter()
	if p == nil {
		if name == "" {
			name = "body"
		}
		p = &Parameter{Name: name, Kind: ParameterBody, Position: len(o.Parameters) + 1}
		o.Parameters = append(o.Parameters, p)
	}
	p.Schema = schema
	p.Required = required
	return &RequestBody{op: o, param: p}
}

// Parameter returns the legacy body-parameter view of the same storage.
func (rb *RequestBody) Parameter() *Parameter {
	return rb.param
}

// Name returns the body parameter name (rendered as "x-name" in OpenAPI 3.0).
func (rb *RequestBody) Name() string { return rb.param.Name }

// Description returns the body description.
func (rb *RequestBody) Description() string { return rb.param.Description }

// SetDescription sets the body description.
func (rb *RequestBody) SetDescription(s string) { rb.param.Description = s }

// Required reports whether the body is required.
func (rb *RequestBody) Required() bool { return rb.param.Required }

// SetRequired sets whether the body is required.
func (rb *RequestBody) SetRequired(v bool) { rb.param.Required = v }

// Schema returns the body schema.
func (rb *RequestBody) Schema() *Schema { return rb.param.Schema }

// SetSchema replaces the body schema.
func (rb *RequestBody) SetSchema(s *Schema) { rb.param.Schema = s }

// Content returns one entry per consumed media type, every entry sharing the
// body parameter's schema pointer.
func (rb *RequestBody) Content(doc *Document) map[string]*MediaType {
	content := make(map[string]*MediaType)
	for _, mt := range rb.op.EffectiveConsumes(doc) {
		content[mt] = &MediaType{Schema: rb.param.Schema}
	}
	return content
}

// EffectiveConsumes returns the operation's consumes list, falling back to the
// document's and then to DefaultMediaType.
func (o *Operation) EffectiveConsumes(doc *Document) []string {
	if len(o.Consumes) > 0 {
		return o.Consumes
	}
	if doc != nil && len(doc.Consumes) > 0 {
		return doc.Consumes
	}
	return []string{DefaultMediaType}
}

// EffectiveProduces returns the operation's produces list, falling back to the
// document's and then to DefaultMediaType.
func (o *Operation) EffectiveProduces(doc *Document) []string {
	if len(o.Produces) > 0 {
		return o.Produces
	}
	if doc != nil && len(doc.Produces) > 0 {
		return doc.Produces
	}
	return []string{DefaultMediaType}
}
