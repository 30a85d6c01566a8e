package builder

import (
	"slices"
	"strings"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/httputil"
	"github.com/erraggy/oasgen/internal/pathutil"
)

// Endpoint is one (path, method) pair a Source asks the builder to document.
type Endpoint struct {
	Controller *apimeta.Controller
	Method     *apimeta.Method
	// HTTPMethod is lower case.
	HTTPMethod string
	// Path is the route template, placeholders still carrying constraints.
	Path     string
	Consumes []string
	Produces []string
	// Bindings is framework binding metadata. When nil the builder
	// classifies the method parameters itself.
	Bindings []*apimeta.APIParameter
	// ResponseTypes are responses the framework already knows about. They
	// are used when the method declares no response attributes.
	ResponseTypes []*apimeta.APIResponseType
	// VoidStatus is the status code of a response without a body.
	VoidStatus string
}

// Source enumerates the endpoints of one API surface.
type Source interface {
	// Controllers returns the controllers the endpoints belong to, in
	// declaration order.
	Controllers() []*apimeta.Controller
	// Endpoints returns the endpoints to document, in order.
	Endpoints(s *Settings) ([]*Endpoint, error)
}

// ControllerSource documents controllers by their routing attributes, in
// the style of reflection-based Web API generators. Responses without a
// body use status 204.
type ControllerSource struct {
	controllers []*apimeta.Controller
}

// NewControllerSource returns a source over controllers.
func NewControllerSource(controllers ...*apimeta.Controller) *ControllerSource {
	return &ControllerSource{controllers: controllers}
}

// Controllers implements Source.
func (cs *ControllerSource) Controllers() []*apimeta.Controller {
	return cs.controllers
}

// Endpoints implements Source.
func (cs *ControllerSource) Endpoints(s *Settings) ([]*Endpoint, error) {
	var eps []*Endpoint
	for _, c := range cs.controllers {
		if apimeta.IsExcluded(c.Attributes) {
			s.Logger.Debug("controller excluded from document", "controller", c.Name)
			continue
		}
		eps = append(eps, controllerEndpoints(c, s)...)
	}
	return eps, nil
}

// controllerEndpoints lists the endpoints of c. When a method and one it
// overrides claim the same (path, method) pair, the most derived wins.
func controllerEndpoints(c *apimeta.Controller, s *Settings) []*Endpoint {
	type candidate struct {
		ep    *Endpoint
		key   string
		depth int
	}
	var candidates []candidate
	claims := make(map[string]int)
	for _, m := range c.Methods {
		if apimeta.Has[apimeta.NonAction](m.Attributes) || apimeta.IsExcluded(m.Attributes) {
			s.Logger.Debug("action excluded from document", "controller", c.Name, "method", m.Name)
			continue
		}
		depth := declarationDepth(c, m)
		seen := make(map[string]bool)
		for _, path := range routePaths(c, m, s) {
			for _, verb := range httpMethods(m) {
				key := verb + " " + pathutil.Simplify(path)
				if seen[key] {
					continue
				}
				seen[key] = true
				if d, ok := claims[key]; !ok || depth < d {
					claims[key] = depth
				}
				candidates = append(candidates, candidate{
					ep: &Endpoint{
						Controller: c,
						Method:     m,
						HTTPMethod: verb,
						Path:       path,
						VoidStatus: "204",
					},
					key:   key,
					depth: depth,
				})
			}
		}
	}

	eps := make([]*Endpoint, 0, len(candidates))
	for _, cand := range candidates {
		if claims[cand.key] < cand.depth {
			s.Logger.Debug("endpoint overridden by derived controller",
				"controller", c.Name, "method", cand.ep.Method.Name, "endpoint", cand.key)
			continue
		}
		eps = append(eps, cand.ep)
	}
	return eps
}

// declarationDepth is 0 for methods declared by the controller itself and
// grows by one for each base type up the chain.
func declarationDepth(c *apimeta.Controller, m *apimeta.Method) int {
	if m.DeclaringType == nil || c.Type == nil {
		return 0
	}
	depth := 0
	for cur := c.Type; cur != nil; cur = cur.Base {
		if cur == m.DeclaringType {
			return depth
		}
		depth++
		if cur.Base == cur {
			break
		}
	}
	return 0
}

// httpMethods returns the verbs of m: its HttpMethod attributes, else the
// verb its name starts with, else POST.
func httpMethods(m *apimeta.Method) []string {
	var verbs []string
	for _, a := range apimeta.FindAll[apimeta.HTTPMethod](m.Attributes) {
		for _, v := range a.Methods {
			v = strings.ToLower(v)
			if !slices.Contains(verbs, v) {
				verbs = append(verbs, v)
			}
		}
	}
	if len(verbs) > 0 {
		return verbs
	}
	name := strings.ToLower(m.Name)
	for _, v := range conventionVerbs {
		if strings.HasPrefix(name, v) {
			return []string{v}
		}
	}
	return []string{httputil.MethodPost}
}

var conventionVerbs = []string{
	httputil.MethodGet,
	httputil.MethodPost,
	httputil.MethodPut,
	httputil.MethodDelete,
	httputil.MethodPatch,
	httputil.MethodOptions,
	httputil.MethodHead,
}

// APIDescriptionSource documents endpoints described by framework routing
// and binding metadata. Responses without a body use status 200.
type APIDescriptionSource struct {
	descriptions []*apimeta.APIDescription
	controllers  []*apimeta.Controller
}

// NewAPIDescriptionSource returns a source over descriptions. Controllers
// are listed in order of first use.
func NewAPIDescriptionSource(descriptions ...*apimeta.APIDescription) *APIDescriptionSource {
	src := &APIDescriptionSource{descriptions: descriptions}
	seen := make(map[*apimeta.Controller]bool)
	for _, d := range descriptions {
		if d.Controller != nil && !seen[d.Controller] {
			seen[d.Controller] = true
			src.controllers = append(src.controllers, d.Controller)
		}
	}
	return src
}

// Controllers implements Source.
func (as *APIDescriptionSource) Controllers() []*apimeta.Controller {
	return as.controllers
}

// Endpoints implements Source.
func (as *APIDescriptionSource) Endpoints(s *Settings) ([]*Endpoint, error) {
	eps := make([]*Endpoint, 0, len(as.descriptions))
	for _, d := range as.descriptions {
		if d.Controller == nil || d.Method == nil {
			continue
		}
		if apimeta.IsExcluded(d.Controller.Attributes) || apimeta.IsExcluded(d.Method.Attributes) {
			s.Logger.Debug("api description excluded from document",
				"controller", d.Controller.Name, "method", d.Method.Name)
			continue
		}
		verb := strings.ToLower(d.HTTPMethod)
		if verb == "" {
			verb = httputil.MethodGet
		}
		path, _, _ := strings.Cut(d.RelativePath, "?")
		bindings := d.Parameters
		if bindings == nil {
			bindings = []*apimeta.APIParameter{}
		}
		eps = append(eps, &Endpoint{
			Controller:    d.Controller,
			Method:        d.Method,
			HTTPMethod:    verb,
			Path:          pathutil.Normalize(path),
			Consumes:      d.Consumes,
			Produces:      d.Produces,
			Bindings:      bindings,
			ResponseTypes: d.ResponseTypes,
			VoidStatus:    "200",
		})
	}
	return eps, nil
}

// DescriptionsSource returns the source for a loaded description file: its
// API descriptions when it declares any, otherwise its controllers.
func DescriptionsSource(d *apimeta.Descriptions) Source {
	if len(d.APIDescriptions) > 0 {
		return NewAPIDescriptionSource(d.APIDescriptions...)
	}
	return NewControllerSource(d.Controllers...)
}
