package apimeta

import (
	"path"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
)

// Docs is the prose attached to a controller, method, or type.
type Docs struct {
	Summary string
	Remarks string
	Returns string
	// Params maps parameter names to their descriptions.
	Params map[string]string
}

// Controller groups action methods under a common type.
type Controller struct {
	// Name is the controller type name, for example "UsersController".
	Name string
	// Type is the controller's own type; its Base chain is the inheritance
	// chain used to resolve overridden methods.
	Type       *Type
	Attributes []Attribute
	Methods    []*Method
	Docs       Docs
}

// Method is one action method of a controller.
type Method struct {
	Name string
	// DeclaringType is the type in the controller's chain that declares the
	// method. Nil means the controller itself.
	DeclaringType *Type
	Parameters    []*Parameter
	// Returns is the declared return type; nil means void.
	Returns    *Type
	Attributes []Attribute
	Docs       Docs
}

// Parameter is one method parameter.
type Parameter struct {
	Name       string
	Type       *Type
	HasDefault bool
	Default    any
	Attributes []Attribute
}

// ReturnType returns the declared return type, or Void.
func (m *Method) ReturnType() *Type {
	if m.Returns == nil {
		return Void
	}
	return m.Returns
}

// BindingSource is where an API description says a parameter comes from.
type BindingSource int

const (
	// BindingUnknown leaves the decision to type-shape classification.
	BindingUnknown BindingSource = iota
	BindingPath
	BindingQuery
	BindingHeader
	BindingForm
	BindingFormFile
	BindingBody
	// BindingServices marks parameters injected by the host; they are never documented.
	BindingServices
	// BindingCustom marks a parameter bound by a custom model binder.
	BindingCustom
)

var bindingNames = map[string]BindingSource{
	"":         BindingUnknown,
	"path":     BindingPath,
	"query":    BindingQuery,
	"header":   BindingHeader,
	"form":     BindingForm,
	"formfile": BindingFormFile,
	"body":     BindingBody,
	"services": BindingServices,
	"custom":   BindingCustom,
}

// ParseBindingSource maps a binding source name to its value.
func ParseBindingSource(s string) (BindingSource, bool) {
	b, ok := bindingNames[strings.ToLower(s)]
	return b, ok
}

// APIDescription is framework-provided routing and binding metadata for one
// endpoint.
type APIDescription struct {
	Controller   *Controller
	Method       *Method
	HTTPMethod   string
	RelativePath string
	Consumes     []string
	Produces     []string
	Parameters   []*APIParameter
	// ResponseTypes are the responses the framework already knows about.
	ResponseTypes []*APIResponseType
}

// APIParameter is the framework's view of one bound value.
type APIParameter struct {
	// Name is the bound name (for flattened members, the member name).
	Name   string
	Source BindingSource
	Type   *Type
	// Parameter is the method parameter the value is bound to, if any.
	Parameter  *Parameter
	IsRequired bool
}

// APIResponseType is a response known to the framework.
type APIResponseType struct {
	StatusCode string
	Type       *Type
	IsNullable bool
	IsDefault  bool
}

// SelectControllers filters controllers by name. A pattern containing
// wildcard characters matches through path.Match; any other pattern must
// name a controller exactly, or an oaserrors.LookupError is returned. An
// empty pattern list selects everything.
func SelectControllers(all []*Controller, patterns []string) ([]*Controller, error) {
	if len(patterns) == 0 {
		return all, nil
	}
	selected := make(map[*Controller]bool)
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[") {
			for _, c := range all {
				if ok, err := path.Match(pattern, c.Name); err != nil {
					return nil, &oaserrors.ConfigError{Option: "controller", Value: pattern, Message: "invalid pattern", Cause: err}
				} else if ok {
					selected[c] = true
				}
			}
			continue
		}
		found := false
		for _, c := range all {
			if c.Name == pattern {
				selected[c] = true
				found = true
			}
		}
		if !found {
			return nil, &oaserrors.LookupError{Kind: "controller", Name: pattern}
		}
	}
	out := make([]*Controller, 0, len(selected))
	for _, c := range all {
		if selected[c] {
			out = append(out, c)
		}
	}
	return out, nil
}
