package builder

import (
	"regexp"
	"strings"

	"github.com/erraggy/oasgen/apimeta"
	"github.com/erraggy/oasgen/internal/naming"
	"github.com/erraggy/oasgen/internal/pathutil"
)

var routeTokenRegex = regexp.MustCompile(`(?i)\[(controller|action)\]`)

// routePaths returns the paths m answers on: the controller prefix joined
// with each method route template, or the default URL template when
// neither declares a route. Optional placeholders are resolved.
func routePaths(c *apimeta.Controller, m *apimeta.Method, s *Settings) []string {
	prefix, hasPrefix := controllerPrefix(c)

	var templates []string
	for _, r := range apimeta.FindAll[apimeta.Route](m.Attributes) {
		templates = append(templates, r.Template)
	}
	for _, h := range apimeta.FindAll[apimeta.HTTPMethod](m.Attributes) {
		if h.Template != "" {
			templates = append(templates, h.Template)
		}
	}

	useDefault := false
	if len(templates) == 0 {
		if hasPrefix {
			templates = []string{""}
		} else {
			templates = []string{s.DefaultURLTemplate}
			useDefault = true
		}
	}

	var paths []string
	for _, tmpl := range templates {
		var p string
		if useDefault {
			p = pathutil.Join("", conventionPlaceholders(tmpl, c, m))
		} else {
			p = pathutil.Join(prefix, tmpl)
		}
		p = routeTokenRegex.ReplaceAllStringFunc(p, func(tok string) string {
			if strings.EqualFold(tok, "[action]") {
				return m.Name
			}
			return controllerBaseName(c)
		})
		expanded := expandOptional(p, m)
		if expanded != p {
			s.Logger.Debug("optional path segments resolved", "template", p, "path", expanded)
		}
		if !containsPath(paths, expanded) {
			paths = append(paths, expanded)
		}
	}
	return paths
}

// controllerPrefix returns the controller's RoutePrefix, falling back to a
// controller-level Route template.
func controllerPrefix(c *apimeta.Controller) (string, bool) {
	if rp, ok := apimeta.Find[apimeta.RoutePrefix](c.Attributes); ok {
		return rp.Prefix, true
	}
	if r, ok := apimeta.Find[apimeta.Route](c.Attributes); ok {
		return r.Template, true
	}
	return "", false
}

// conventionPlaceholders fills the {controller} and {action} placeholders
// of a conventional route template.
func conventionPlaceholders(tmpl string, c *apimeta.Controller, m *apimeta.Method) string {
	tmpl = pathutil.ReplacePlaceholder(tmpl, "controller", controllerBaseName(c))
	return pathutil.ReplacePlaceholder(tmpl, "action", m.Name)
}

func controllerBaseName(c *apimeta.Controller) string {
	return naming.TrimSuffixFold(c.Name, "Controller")
}

// expandOptional resolves optional placeholders one at a time, left to
// right. A placeholder the method has a parameter for becomes required;
// any other is dropped along with its segment. Only one path results.
func expandOptional(path string, m *apimeta.Method) string {
	for _, ph := range pathutil.Placeholders(path) {
		if !ph.Optional {
			continue
		}
		if hasRouteParameter(m, ph.Name) {
			path = strings.Replace(path, ph.Raw, strings.Replace(ph.Raw, "?", "", 1), 1)
		} else {
			path = pathutil.Normalize(strings.Replace(path, ph.Raw, "", 1))
		}
		return expandOptional(path, m)
	}
	return path
}

// hasRouteParameter reports whether m has a parameter bound to name.
func hasRouteParameter(m *apimeta.Method, name string) bool {
	for _, p := range m.Parameters {
		if strings.EqualFold(bindingName(p), name) {
			return true
		}
	}
	return false
}

func containsPath(paths []string, p string) bool {
	simple := pathutil.Simplify(p)
	for _, existing := range paths {
		if pathutil.Simplify(existing) == simple {
			return true
		}
	}
	return false
}
