package pathutil

import (
	"regexp"
	"strings"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter text inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// Placeholder is one parsed {...} segment of a route template.
type Placeholder struct {
	// Raw is the placeholder as written, braces included.
	Raw        string
	Name       string
	Constraint string
	Default    string
	Optional   bool
	CatchAll   bool
}

// Placeholders returns the placeholders of template in order.
func Placeholders(template string) []Placeholder {
	matches := PathParamRegex.FindAllStringSubmatch(template, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		out = append(out, parsePlaceholder(m[0], m[1]))
	}
	return out
}

func parsePlaceholder(raw, inner string) Placeholder {
	p := Placeholder{Raw: raw}
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "*") {
		p.CatchAll = true
		inner = strings.TrimLeft(inner, "*")
	}
	if strings.HasSuffix(inner, "?") {
		p.Optional = true
		inner = strings.TrimSuffix(inner, "?")
	}
	if name, def, ok := strings.Cut(inner, "="); ok {
		inner, p.Default = name, def
	}
	p.Name, p.Constraint, _ = strings.Cut(inner, ":")
	return p
}

// HasPlaceholder reports whether template has a placeholder named name.
func HasPlaceholder(template, name string) bool {
	for _, p := range Placeholders(template) {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// ReplacePlaceholder substitutes value for every placeholder named name.
func ReplacePlaceholder(template, name, value string) string {
	return PathParamRegex.ReplaceAllStringFunc(template, func(raw string) string {
		if p := parsePlaceholder(raw, raw[1:len(raw)-1]); strings.EqualFold(p.Name, name) {
			return value
		}
		return raw
	})
}

// RemovePlaceholder deletes every placeholder named name. A segment left
// empty is removed along with its separator.
func RemovePlaceholder(template, name string) string {
	return Normalize(ReplacePlaceholder(template, name, ""))
}

// Simplify rewrites every placeholder to its bare "{name}" form.
// Example: "users/{id:int}/{tab?}" -> "users/{id}/{tab}"
func Simplify(template string) string {
	return PathParamRegex.ReplaceAllStringFunc(template, func(raw string) string {
		return "{" + parsePlaceholder(raw, raw[1:len(raw)-1]).Name + "}"
	})
}

// Normalize ensures a single leading slash, collapses repeated slashes and
// drops a trailing slash.
// Example: "api//users/" -> "/api/users"
func Normalize(p string) string {
	segments := strings.Split(p, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return "/" + strings.Join(kept, "/")
}

// Join concatenates route prefix and template. A template starting with
// "~/" or "/" ignores the prefix.
func Join(prefix, template string) string {
	switch {
	case strings.HasPrefix(template, "~/"):
		return Normalize(template[2:])
	case strings.HasPrefix(template, "/"), prefix == "":
		return Normalize(template)
	case template == "":
		return Normalize(prefix)
	}
	return Normalize(prefix + "/" + template)
}
