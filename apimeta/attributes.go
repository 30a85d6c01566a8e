package apimeta

// Attribute is a metadata record attached to a controller, method,
// parameter, property, or type.
type Attribute interface {
	// AttributeName returns the canonical name the record decodes from.
	AttributeName() string
}

// Route sets a method route template, or the controller template when used
// on a controller.
type Route struct {
	Template string
	Name     string
}

// RoutePrefix is prepended to the route templates of a controller's methods.
type RoutePrefix struct {
	Prefix string
}

// HTTPMethod declares the verbs a method answers, optionally with a template.
type HTTPMethod struct {
	Methods  []string
	Template string
}

// NonAction marks an exported method that is not an endpoint.
type NonAction struct{}

// ExcludeFromDocument removes a controller or method from the document.
type ExcludeFromDocument struct{}

// FromRoute binds a parameter from the path.
type FromRoute struct{ Name string }

// FromQuery binds a parameter from the query string.
type FromQuery struct{ Name string }

// FromHeader binds a parameter from a request header.
type FromHeader struct{ Name string }

// FromForm binds a parameter from a form field.
type FromForm struct{ Name string }

// FromBody binds a parameter from the request body.
type FromBody struct{ Name string }

// FromURI binds a complex parameter from the URI by flattening its
// properties into individual parameters.
type FromURI struct{ Name string }

// ModelBinder marks a parameter bound by a custom binder.
type ModelBinder struct{ Name string }

// WillReadBody tells whether a custom-bound parameter is read from the body.
type WillReadBody struct{ Value bool }

// Ignore excludes a parameter or property, or (on a controller or method)
// removes it from the document.
type Ignore struct{}

// ProducesResponseType declares a response with an integer status code.
type ProducesResponseType struct {
	StatusCode  int
	Type        *Type
	Description string
}

// SwaggerResponse declares a response with a string status code.
type SwaggerResponse struct {
	StatusCode  string
	Type        *Type
	IsNullable  bool
	Description string
}

// ResponseType is the legacy response declaration; StatusCode may be empty.
type ResponseType struct {
	HTTPStatusCode string
	ResponseType   *Type
	IsNullable     bool
	Description    string
}

// DefaultResponse requests a synthesized success response from the return
// type even when other responses are declared.
type DefaultResponse struct{}

// Tags adds several tags to an operation.
type Tags struct {
	Names         []string
	AddToDocument bool
}

// Tag adds one tag to an operation or declares a document tag.
type Tag struct {
	Name          string
	Description   string
	AddToDocument bool
}

// Description overrides the operation summary.
type Description struct{ Text string }

// OperationID sets an explicit operation ID.
type OperationID struct{ ID string }

// ExtensionData adds an "x-" entry to an operation or parameter.
type ExtensionData struct {
	Key   string
	Value any
}

// DocumentExtensionData adds an "x-" entry at the document root.
type DocumentExtensionData struct {
	Key   string
	Value any
}

// APIVersion lists the API versions a controller or method serves.
type APIVersion struct{ Versions []string }

// MapToAPIVersion pins a method to specific versions.
type MapToAPIVersion struct{ Versions []string }

// Consumes declares request media types.
type Consumes struct{ MediaTypes []string }

// Produces declares response media types.
type Produces struct{ MediaTypes []string }

// Deprecated marks an operation or parameter as deprecated.
type Deprecated struct{}

// UseProcessor attaches a named operation processor.
type UseProcessor struct {
	Name string
	Args map[string]any
}

// Custom holds an attribute with no dedicated record.
type Custom struct {
	Name  string
	Props map[string]any
}

func (Route) AttributeName() string                 { return "Route" }
func (RoutePrefix) AttributeName() string           { return "RoutePrefix" }
func (HTTPMethod) AttributeName() string            { return "HttpMethod" }
func (NonAction) AttributeName() string             { return "NonAction" }
func (ExcludeFromDocument) AttributeName() string   { return "ExcludeFromDocument" }
func (FromRoute) AttributeName() string             { return "FromRoute" }
func (FromQuery) AttributeName() string             { return "FromQuery" }
func (FromHeader) AttributeName() string            { return "FromHeader" }
func (FromForm) AttributeName() string              { return "FromForm" }
func (FromBody) AttributeName() string              { return "FromBody" }
func (FromURI) AttributeName() string               { return "FromUri" }
func (ModelBinder) AttributeName() string           { return "ModelBinder" }
func (WillReadBody) AttributeName() string          { return "WillReadBody" }
func (Ignore) AttributeName() string                { return "Ignore" }
func (ProducesResponseType) AttributeName() string  { return "ProducesResponseType" }
func (SwaggerResponse) AttributeName() string       { return "SwaggerResponse" }
func (ResponseType) AttributeName() string          { return "ResponseType" }
func (DefaultResponse) AttributeName() string       { return "SwaggerDefaultResponse" }
func (Tags) AttributeName() string                  { return "SwaggerTags" }
func (Tag) AttributeName() string                   { return "SwaggerTag" }
func (Description) AttributeName() string           { return "Description" }
func (OperationID) AttributeName() string           { return "SwaggerOperation" }
func (ExtensionData) AttributeName() string         { return "SwaggerExtensionData" }
func (DocumentExtensionData) AttributeName() string { return "DocumentExtensionData" }
func (APIVersion) AttributeName() string            { return "ApiVersion" }
func (MapToAPIVersion) AttributeName() string       { return "MapToApiVersion" }
func (Consumes) AttributeName() string              { return "Consumes" }
func (Produces) AttributeName() string              { return "Produces" }
func (Deprecated) AttributeName() string            { return "Obsolete" }
func (UseProcessor) AttributeName() string          { return "SwaggerOperationProcessor" }

// AttributeName returns the name the attribute was declared with.
func (c Custom) AttributeName() string { return c.Name }

// Find returns the first attribute of type T.
func Find[T Attribute](attrs []Attribute) (T, bool) {
	for _, a := range attrs {
		if v, ok := a.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// FindAll returns every attribute of type T in order.
func FindAll[T Attribute](attrs []Attribute) []T {
	var out []T
	for _, a := range attrs {
		if v, ok := a.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether attrs holds an attribute of type T.
func Has[T Attribute](attrs []Attribute) bool {
	_, ok := Find[T](attrs)
	return ok
}

// IsExcluded reports whether attrs remove their owner from the document.
func IsExcluded(attrs []Attribute) bool {
	return Has[ExcludeFromDocument](attrs) || Has[Ignore](attrs)
}
