package builder

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/httputil"
	"github.com/erraggy/oasgen/openapi"
	"github.com/erraggy/oasgen/processor"
	"github.com/erraggy/oasgen/schemagen"
)

// descriptionSeparator joins the descriptions of responses sharing a status
// code.
const descriptionSeparator = "\nor\n"

// ResponseDescriptor is one declared response before responses are grouped
// by status code.
type ResponseDescriptor struct {
	// StatusCode is the status code string. Empty means the default: 200,
	// or the source's void status when Type is void.
	StatusCode string
	// Type is the response type. Nil means void.
	Type        *apimeta.Type
	IsNullable  bool
	Description string
}

// ResponseAdapter extracts a descriptor from an attribute. It returns false
// when the attribute does not describe a response.
type ResponseAdapter func(a apimeta.Attribute) (ResponseDescriptor, bool)

var responseAdapters = struct {
	sync.RWMutex
	m map[string]ResponseAdapter
}{m: map[string]ResponseAdapter{
	"producesresponsetype": func(a apimeta.Attribute) (ResponseDescriptor, bool) {
		v, ok := a.(apimeta.ProducesResponseType)
		if !ok {
			return ResponseDescriptor{}, false
		}
		d := ResponseDescriptor{Type: v.Type, Description: v.Description, IsNullable: v.Type.IsNullable()}
		if v.StatusCode != 0 {
			d.StatusCode = strconv.Itoa(v.StatusCode)
		}
		return d, true
	},
	"swaggerresponse": func(a apimeta.Attribute) (ResponseDescriptor, bool) {
		v, ok := a.(apimeta.SwaggerResponse)
		if !ok {
			return ResponseDescriptor{}, false
		}
		return ResponseDescriptor{StatusCode: v.StatusCode, Type: v.Type, IsNullable: v.IsNullable, Description: v.Description}, true
	},
	"responsetype": func(a apimeta.Attribute) (ResponseDescriptor, bool) {
		v, ok := a.(apimeta.ResponseType)
		if !ok {
			return ResponseDescriptor{}, false
		}
		return ResponseDescriptor{StatusCode: v.HTTPStatusCode, Type: v.ResponseType, IsNullable: v.IsNullable, Description: v.Description}, true
	},
}}

// RegisterResponseAdapter registers fn for attributes named name (matched
// case-insensitively), replacing any previous adapter. Custom attributes
// can be turned into responses this way.
func RegisterResponseAdapter(name string, fn ResponseAdapter) {
	responseAdapters.Lock()
	defer responseAdapters.Unlock()
	responseAdapters.m[strings.ToLower(name)] = fn
}

func lookupResponseAdapter(name string) (ResponseAdapter, bool) {
	responseAdapters.RLock()
	defer responseAdapters.RUnlock()
	fn, ok := responseAdapters.m[strings.ToLower(name)]
	return fn, ok
}

// responseAggregator builds the responses of one operation.
type responseAggregator struct {
	settings *Settings
	schemas  *schemagen.Generator
	ep       *Endpoint
	od       *processor.OperationDescription
}

// build groups the declared responses by status code and adds one response
// per group. A success response is synthesized from the return type when
// nothing was declared, or when no success code was declared and the
// method or its controller carries a DefaultResponse marker.
func (ra *responseAggregator) build() error {
	c, m := ra.ep.Controller, ra.ep.Method
	successDescription := strings.TrimSpace(ra.settings.Docs.Returns(c, m))

	descriptors := ra.declared()
	var codes []string
	groups := make(map[string][]ResponseDescriptor)
	for _, d := range descriptors {
		if d.Type == nil {
			d.Type = apimeta.Void
		}
		d.Type = d.Type.Unwrap()
		if d.StatusCode == "" {
			d.StatusCode = "200"
			if d.Type.IsVoid() {
				d.StatusCode = ra.ep.VoidStatus
			}
		}
		if d.Description == "" && httputil.IsSuccessCode(d.StatusCode) {
			d.Description = successDescription
		}
		if _, ok := groups[d.StatusCode]; !ok {
			codes = append(codes, d.StatusCode)
		}
		groups[d.StatusCode] = append(groups[d.StatusCode], d)
	}

	op := ra.od.Operation
	hasSuccess := false
	for _, code := range codes {
		resp, err := ra.group(code, groups[code])
		if err != nil {
			return err
		}
		op.SetResponse(code, resp)
		hasSuccess = hasSuccess || httputil.IsSuccessCode(code)
	}

	if len(descriptors) == 0 || (!hasSuccess && ra.hasDefaultMarker()) {
		return ra.synthesize(successDescription)
	}
	return nil
}

// declared returns the descriptors of the method's response attributes,
// falling back to the responses known to the framework.
func (ra *responseAggregator) declared() []ResponseDescriptor {
	var out []ResponseDescriptor
	for _, a := range ra.ep.Method.Attributes {
		adapter, ok := lookupResponseAdapter(a.AttributeName())
		if !ok {
			continue
		}
		if d, ok := adapter(a); ok {
			out = append(out, d)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, rt := range ra.ep.ResponseTypes {
		d := ResponseDescriptor{StatusCode: rt.StatusCode, Type: rt.Type, IsNullable: rt.IsNullable}
		if rt.IsDefault {
			d.StatusCode = "default"
		}
		out = append(out, d)
	}
	return out
}

// group builds the response of one status code from its members.
func (ra *responseAggregator) group(code string, members []ResponseDescriptor) (*openapi.Response, error) {
	types := make([]*apimeta.Type, len(members))
	anyNullable := false
	var descriptions []string
	for i, d := range members {
		types[i] = d.Type
		anyNullable = anyNullable || d.IsNullable
		if d.Description != "" {
			descriptions = append(descriptions, d.Description)
		}
	}

	resp := &openapi.Response{Description: strings.Join(descriptions, descriptionSeparator)}
	unified := commonBaseType(types)
	if unified.IsVoid() {
		return resp, nil
	}
	nullable := anyNullable && ra.schemas.IsNullable(unified)
	schema, err := ra.schemas.GenerateWithReferenceAndNullability(unified, nullable)
	if err != nil {
		return nil, ra.schemaError(code, err)
	}
	resp.Schema = schema
	resp.Nullable = nullable

	if len(members) > 1 {
		for _, d := range members {
			expected := &openapi.ExpectedSchema{Description: d.Description}
			if !d.Type.IsVoid() {
				s, err := ra.schemas.GenerateWithReferenceAndNullability(d.Type, d.IsNullable)
				if err != nil {
					return nil, ra.schemaError(code, err)
				}
				expected.Schema = s
			}
			resp.ExpectedSchemas = append(resp.ExpectedSchemas, expected)
		}
	}
	return resp, nil
}

// synthesize adds the success response inferred from the return type.
func (ra *responseAggregator) synthesize(description string) error {
	t := ra.ep.Method.ReturnType().Unwrap()
	code := "200"
	resp := &openapi.Response{Description: description}
	if t.IsVoid() {
		code = ra.ep.VoidStatus
	} else {
		nullable := ra.schemas.IsNullable(t)
		schema, err := ra.schemas.GenerateWithReferenceAndNullability(t, nullable)
		if err != nil {
			return ra.schemaError(code, err)
		}
		resp.Schema = schema
		resp.Nullable = nullable
	}
	ra.od.Operation.SetResponse(code, resp)
	return nil
}

func (ra *responseAggregator) hasDefaultMarker() bool {
	m := ra.ep.Method
	if apimeta.Has[apimeta.DefaultResponse](m.Attributes) || apimeta.Has[apimeta.DefaultResponse](ra.ep.Controller.Attributes) {
		return true
	}
	return m.DeclaringType != nil && apimeta.Has[apimeta.DefaultResponse](m.DeclaringType.Attributes)
}

func (ra *responseAggregator) schemaError(code string, err error) error {
	return newResponseSchemaError(ra.od.Method, ra.od.Path, ra.od.Operation.OperationID, code, err)
}

// commonBaseType unifies the types of one status code. Void members are
// ignored unless every member is void. Identical types unify to
// themselves; otherwise the first entry of the first type's ancestry that
// every type is assignable to wins, falling back to Object. When every
// member is a pointer the result is a pointer too.
func commonBaseType(types []*apimeta.Type) *apimeta.Type {
	var typed []*apimeta.Type
	allPointers := true
	for _, t := range types {
		if t.IsVoid() {
			continue
		}
		typed = append(typed, t.Deref())
		allPointers = allPointers && t.Kind == apimeta.KindPointer
	}
	if len(typed) == 0 {
		return apimeta.Void
	}

	base := commonAncestor(typed)
	if allPointers && base.Kind != apimeta.KindAny {
		return apimeta.PointerTo(base)
	}
	return base
}

func commonAncestor(types []*apimeta.Type) *apimeta.Type {
	first := types[0]
	if !slices.ContainsFunc(types, func(t *apimeta.Type) bool { return !sameType(first, t) }) {
		return first
	}
	for _, candidate := range first.Ancestry() {
		if !slices.ContainsFunc(types, func(t *apimeta.Type) bool { return !t.AssignableTo(candidate) }) {
			return candidate
		}
	}
	return apimeta.Object
}

// sameType compares named types by identity and unnamed types by shape.
func sameType(a, b *apimeta.Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.IsNamed() || b.IsNamed() {
		return false
	}
	if a.Kind != b.Kind || a.Format != b.Format {
		return false
	}
	if a.Elem == nil || b.Elem == nil {
		return a.Elem == b.Elem
	}
	return sameType(a.Elem, b.Elem)
}
