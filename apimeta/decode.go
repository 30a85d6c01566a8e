package apimeta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/oasgen/oaserrors"
)

// TypeResolver resolves a type expression found in attribute properties.
type TypeResolver func(expr string) (*Type, error)

// aliases maps legacy and framework-specific attribute names onto the name a
// decoder is registered under. Chains are followed until no alias applies.
var aliases = map[string]string{
	"OpenApiIgnore":             "SwaggerIgnore",
	"SwaggerIgnore":             "Ignore",
	"JsonIgnore":                "Ignore",
	"OpenApiResponse":           "SwaggerResponse",
	"OpenApiDefaultResponse":    "SwaggerDefaultResponse",
	"OpenApiTags":               "SwaggerTags",
	"OpenApiTag":                "SwaggerTag",
	"OpenApiOperation":          "SwaggerOperation",
	"OpenApiExtensionData":      "SwaggerExtensionData",
	"OpenApiOperationProcessor": "SwaggerOperationProcessor",
	"Deprecated":                "Obsolete",
	"FromURI":                   "FromUri",
	"ApiVersions":               "ApiVersion",
}

type attributeDecoder func(p props, types TypeResolver) (Attribute, error)

var decoders = map[string]attributeDecoder{
	"Route": func(p props, _ TypeResolver) (Attribute, error) {
		return Route{Template: p.str("template", "value"), Name: p.str("name")}, nil
	},
	"RoutePrefix": func(p props, _ TypeResolver) (Attribute, error) {
		return RoutePrefix{Prefix: p.str("prefix", "template", "value")}, nil
	},
	"HttpMethod":          httpMethod(""),
	"AcceptVerbs":         httpMethod(""),
	"HttpGet":             httpMethod("GET"),
	"HttpPost":            httpMethod("POST"),
	"HttpPut":             httpMethod("PUT"),
	"HttpDelete":          httpMethod("DELETE"),
	"HttpPatch":           httpMethod("PATCH"),
	"HttpOptions":         httpMethod("OPTIONS"),
	"HttpHead":            httpMethod("HEAD"),
	"NonAction":           marker(NonAction{}),
	"ExcludeFromDocument": marker(ExcludeFromDocument{}),
	"ApiExplorerSettings": func(p props, _ TypeResolver) (Attribute, error) {
		if p.boolean("ignoreapi") {
			return ExcludeFromDocument{}, nil
		}
		return Custom{Name: "ApiExplorerSettings", Props: p}, nil
	},
	"FromRoute":  func(p props, _ TypeResolver) (Attribute, error) { return FromRoute{Name: p.str("name")}, nil },
	"FromQuery":  func(p props, _ TypeResolver) (Attribute, error) { return FromQuery{Name: p.str("name")}, nil },
	"FromHeader": func(p props, _ TypeResolver) (Attribute, error) { return FromHeader{Name: p.str("name")}, nil },
	"FromForm":   func(p props, _ TypeResolver) (Attribute, error) { return FromForm{Name: p.str("name")}, nil },
	"FromBody":   func(p props, _ TypeResolver) (Attribute, error) { return FromBody{Name: p.str("name")}, nil },
	"FromUri":    func(p props, _ TypeResolver) (Attribute, error) { return FromURI{Name: p.str("name")}, nil },
	"ModelBinder": func(p props, _ TypeResolver) (Attribute, error) {
		return ModelBinder{Name: p.str("name")}, nil
	},
	"WillReadBody": func(p props, _ TypeResolver) (Attribute, error) {
		return WillReadBody{Value: p.boolean("value", "willreadbody")}, nil
	},
	"Ignore": marker(Ignore{}),
	"ProducesResponseType": func(p props, types TypeResolver) (Attribute, error) {
		code, err := p.statusCode("statuscode", "httpstatuscode")
		if err != nil {
			return nil, err
		}
		n := 200
		if code != "" {
			if n, err = strconv.Atoi(code); err != nil {
				return nil, fmt.Errorf("status code %q is not a number", code)
			}
		}
		t, err := p.typ(types, "type", "responsetype")
		if err != nil {
			return nil, err
		}
		return ProducesResponseType{StatusCode: n, Type: t, Description: p.str("description")}, nil
	},
	"SwaggerResponse": func(p props, types TypeResolver) (Attribute, error) {
		code, err := p.statusCode("statuscode", "httpstatuscode")
		if err != nil {
			return nil, err
		}
		t, err := p.typ(types, "type", "responsetype")
		if err != nil {
			return nil, err
		}
		return SwaggerResponse{StatusCode: code, Type: t, IsNullable: p.boolean("isnullable"), Description: p.str("description")}, nil
	},
	"ResponseType": func(p props, types TypeResolver) (Attribute, error) {
		code, err := p.statusCode("httpstatuscode", "statuscode")
		if err != nil {
			return nil, err
		}
		t, err := p.typ(types, "responsetype", "type")
		if err != nil {
			return nil, err
		}
		return ResponseType{HTTPStatusCode: code, ResponseType: t, IsNullable: p.boolean("isnullable"), Description: p.str("description")}, nil
	},
	"SwaggerDefaultResponse": marker(DefaultResponse{}),
	"SwaggerTags": func(p props, _ TypeResolver) (Attribute, error) {
		return Tags{Names: p.strings("names", "tags", "value"), AddToDocument: p.boolean("addtodocument")}, nil
	},
	"SwaggerTag": func(p props, _ TypeResolver) (Attribute, error) {
		return Tag{Name: p.str("name", "value"), Description: p.str("description"), AddToDocument: p.boolean("addtodocument")}, nil
	},
	"Description": func(p props, _ TypeResolver) (Attribute, error) {
		return Description{Text: p.str("text", "description", "value")}, nil
	},
	"SwaggerOperation": func(p props, _ TypeResolver) (Attribute, error) {
		return OperationID{ID: p.str("operationid", "id", "value")}, nil
	},
	"SwaggerExtensionData": func(p props, _ TypeResolver) (Attribute, error) {
		return ExtensionData{Key: p.str("key"), Value: p.get("value")}, nil
	},
	"DocumentExtensionData": func(p props, _ TypeResolver) (Attribute, error) {
		return DocumentExtensionData{Key: p.str("key"), Value: p.get("value")}, nil
	},
	"ApiVersion": func(p props, _ TypeResolver) (Attribute, error) {
		return APIVersion{Versions: p.strings("versions", "version", "value")}, nil
	},
	"MapToApiVersion": func(p props, _ TypeResolver) (Attribute, error) {
		return MapToAPIVersion{Versions: p.strings("versions", "version", "value")}, nil
	},
	"Consumes": func(p props, _ TypeResolver) (Attribute, error) {
		return Consumes{MediaTypes: p.strings("mediatypes", "contenttypes", "value")}, nil
	},
	"Produces": func(p props, _ TypeResolver) (Attribute, error) {
		return Produces{MediaTypes: p.strings("mediatypes", "contenttypes", "value")}, nil
	},
	"Obsolete": marker(Deprecated{}),
	"SwaggerOperationProcessor": func(p props, _ TypeResolver) (Attribute, error) {
		args, _ := p.get("args").(map[string]any)
		return UseProcessor{Name: p.str("name", "type", "value"), Args: args}, nil
	},
}

func httpMethod(verb string) attributeDecoder {
	return func(p props, _ TypeResolver) (Attribute, error) {
		methods := p.strings("methods", "method", "verbs")
		if verb != "" {
			methods = []string{verb}
		}
		for i, m := range methods {
			methods[i] = strings.ToUpper(m)
		}
		return HTTPMethod{Methods: methods, Template: p.str("template", "value")}, nil
	}
}

func marker(a Attribute) attributeDecoder {
	return func(props, TypeResolver) (Attribute, error) { return a, nil }
}

// CanonicalAttributeName strips an "Attribute" suffix and follows the alias
// table.
func CanonicalAttributeName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), "Attribute")
	for range len(aliases) {
		next, ok := aliases[name]
		if !ok {
			break
		}
		name = next
	}
	return name
}

// DecodeAttribute builds an attribute record from its declared name and
// properties. Property keys match case-insensitively. Names with no decoder
// yield a Custom record holding the raw properties.
func DecodeAttribute(name string, properties map[string]any, types TypeResolver) (Attribute, error) {
	canonical := CanonicalAttributeName(name)
	p := newProps(properties)
	dec, ok := decoders[canonical]
	if !ok {
		return Custom{Name: canonical, Props: p}, nil
	}
	a, err := dec(p, types)
	if err != nil {
		return nil, &oaserrors.ParseError{Message: "attribute " + name, Cause: err}
	}
	return a, nil
}

// props is an attribute property bag with lower-cased keys.
type props map[string]any

func newProps(in map[string]any) props {
	p := make(props, len(in))
	for k, v := range in {
		p[strings.ToLower(k)] = v
	}
	return p
}

// get returns the first present key.
func (p props) get(keys ...string) any {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			return v
		}
	}
	return nil
}

func (p props) str(keys ...string) string {
	switch v := p.get(keys...).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (p props) boolean(keys ...string) bool {
	switch v := p.get(keys...).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// strings accepts a single string, a comma-separated string, or a list.
func (p props) strings(keys ...string) []string {
	switch v := p.get(keys...).(type) {
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}

// statusCode reads a status code given as a number or a string. Numbers are
// formatted without locale-specific separators.
func (p props) statusCode(keys ...string) (string, error) {
	switch v := p.get(keys...).(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if v != float64(int(v)) {
			return "", fmt.Errorf("status code %v is not an integer", v)
		}
		return strconv.Itoa(int(v)), nil
	default:
		return "", fmt.Errorf("status code has unsupported type %T", v)
	}
}

func (p props) typ(types TypeResolver, keys ...string) (*Type, error) {
	switch v := p.get(keys...).(type) {
	case nil:
		return nil, nil
	case *Type:
		return v, nil
	case string:
		if types == nil {
			return nil, fmt.Errorf("type %q: no type resolver", v)
		}
		return types(v)
	default:
		return nil, fmt.Errorf("type has unsupported value %T", v)
	}
}
